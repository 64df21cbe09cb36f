package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/catalogsync/internal/ir"
	"github.com/roach88/catalogsync/internal/reactive"
	"github.com/roach88/catalogsync/internal/testutil"
)

type fakePreloader struct{ hidden []bool }

func (f *fakePreloader) SetHidden(h bool) { f.hidden = append(f.hidden, h) }

func sampleSections() []CategorySection {
	return []CategorySection{
		{
			Type:  ir.SectionFeatured,
			Title: "Offers",
			Categories: []Category{
				{ID: 100, Title: "Two pizzas for one"},
			},
		},
		{
			Type:  ir.SectionPrimary,
			Title: "Menu",
			Categories: []Category{
				{ID: 1, Title: "Pizza", Subtitle: "12 kinds"},
				{ID: 2, Title: "Drinks"},
			},
		},
	}
}

func newPage(t *testing.T, model Model, opts ...Option) (*Page, *testutil.RecordingSurface) {
	t.Helper()
	surface := testutil.NewRecordingSurface(nil)
	page := NewPage(model, surface, opts...)
	surface.Source = page.Projection()
	surface.ReloadData()
	t.Cleanup(page.Close)
	return page, surface
}

func TestBuildSnapshot(t *testing.T) {
	snap, err := BuildSnapshot(sampleSections())
	require.NoError(t, err)

	assert.Equal(t, []ir.SectionOutline{
		{Section: "featured/Offers", Title: "Offers", Items: []string{"category/100"}},
		{Section: "primary/Menu", Title: "Menu", Items: []string{"category/1", "category/2"}},
	}, snap.Outline())
}

func TestBuildSnapshot_DuplicateCategory(t *testing.T) {
	sections := sampleSections()
	sections[1].Categories = append(sections[1].Categories, Category{ID: 1, Title: "Pizza again"})

	_, err := BuildSnapshot(sections)
	require.Error(t, err)
	assert.True(t, ir.IsInvalidSnapshot(err))
}

func TestItemCell_ContentChangeIsUpdate(t *testing.T) {
	a := ItemCell{Category: Category{ID: 1, Title: "Pizza"}}
	b := ItemCell{Category: Category{ID: 1, Title: "Pizza", ImageURL: "https://img/1.png"}}

	assert.Equal(t, a.Identity(), b.Identity())
	assert.False(t, ir.ContentEqual(a, b))
	assert.True(t, ir.ContentEqual(a, ItemCell{Category: Category{ID: 1, Title: "Pizza"}}))
}

func TestPage_InitialLoad(t *testing.T) {
	model := NewStaticModel("Menu", sampleSections())
	page, surface := newPage(t, model)

	assert.Equal(t, "Menu", page.Title())
	assert.Equal(t, 2, page.Projection().NumberOfSections())
	assert.Equal(t, []int{1, 2}, surface.Counts())
	assert.Empty(t, surface.Mismatches())
}

func TestPage_ModelUpdatesFlowToSurface(t *testing.T) {
	model := NewStaticModel("Menu", sampleSections())
	_, surface := newPage(t, model)
	surface.Reset()

	sections := sampleSections()
	sections[1].Categories = []Category{{ID: 2, Title: "Drinks"}, {ID: 3, Title: "Desserts"}}
	model.Categories().Set(sections)

	assert.Equal(t, []string{
		"PerformBatchUpdates",
		"DeleteRow(1,0)",
		"InsertRow(1,1)",
		"EndBatch",
	}, surface.Calls())
	assert.Empty(t, surface.Mismatches())
}

func TestPage_InvalidUpdateIsSkipped(t *testing.T) {
	model := NewStaticModel("Menu", sampleSections())
	page, surface := newPage(t, model)
	surface.Reset()

	bad := sampleSections()
	bad[0].Title, bad[1].Title = "Same", "Same"
	bad[0].Type = ir.SectionPrimary
	model.Categories().Set(bad)

	assert.Empty(t, surface.Calls())
	assert.Equal(t, int64(1), page.Store().Seq(), "only the initial load reached the store")
}

func TestPage_SelectionShowsCategory(t *testing.T) {
	model := NewStaticModel("Menu", sampleSections())
	page, surface := newPage(t, model)
	surface.Reset()

	require.True(t, page.Select(1, 0))

	assert.Equal(t, []Category{{ID: 1, Title: "Pizza", Subtitle: "12 kinds"}}, model.Shown())
	assert.Equal(t, []string{"DeselectRow(1,0)"}, surface.Calls())
}

func TestPage_Preloader(t *testing.T) {
	model := NewStaticModel("Menu", nil)
	pl := &fakePreloader{}
	newPage(t, model, WithPreloader(pl))

	model.IsBusy().Set(true)
	model.IsBusy().Set(false)

	assert.Equal(t, []bool{true, false, true}, pl.hidden)
}

func TestPage_Layout(t *testing.T) {
	model := NewStaticModel("Menu", sampleSections())
	page, _ := newPage(t, model, WithCompact(true))

	assert.Equal(t, 64.0, page.RowHeight(0))
	assert.Equal(t, 90.0, page.RowHeight(1))
	assert.Equal(t, 0.0, page.RowHeight(9))
	assert.Equal(t, 0.0, page.HeaderHeight(0), "a single-row section has no header")
	assert.Equal(t, 42.0, page.HeaderHeight(1))
	assert.Equal(t, "Menu", page.HeaderTitle(1))
}

func TestPage_CloseReleasesEverything(t *testing.T) {
	model := NewStaticModel("Menu", sampleSections())
	surface := testutil.NewRecordingSurface(nil)
	page := NewPage(model, surface)
	surface.Source = page.Projection()

	page.Close()
	surface.Reset()

	model.Categories().Set(nil)
	page.Select(1, 0)

	assert.Equal(t, 0, model.Categories().Len())
	assert.Equal(t, 0, page.Store().Subscribers())
	assert.Empty(t, model.Shown())
	assert.NotContains(t, surface.Calls(), "PerformBatchUpdates")
}

func TestPage_RepeatedLifecyclesDoNotLeak(t *testing.T) {
	model := NewStaticModel("Menu", sampleSections())

	for range 10 {
		page := NewPage(model, testutil.NewRecordingSurface(nil))
		page.Close()
	}

	assert.Equal(t, 0, model.Categories().Len())
	assert.Equal(t, 0, model.IsBusy().Len())
}

func TestPage_LoopScheduler(t *testing.T) {
	loop := reactive.NewLoop()
	model := NewStaticModel("Menu", sampleSections())
	page, surface := newPage(t, model, WithScheduler(loop))

	assert.Equal(t, 0, page.Projection().NumberOfSections())
	loop.Drain()
	assert.Equal(t, 2, page.Projection().NumberOfSections())
	assert.Empty(t, surface.Mismatches())
}
