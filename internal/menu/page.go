package menu

import (
	"log/slog"

	"github.com/roach88/catalogsync/internal/projection"
	"github.com/roach88/catalogsync/internal/reactive"
	"github.com/roach88/catalogsync/internal/store"
)

// Preloader is the busy indicator covering the list.
type Preloader interface {
	SetHidden(hidden bool)
}

// Option configures a Page.
type Option func(*Page)

// WithScheduler sets the context every binding runs on.
// Default: reactive.Immediate.
func WithScheduler(s reactive.Scheduler) Option {
	return func(p *Page) { p.sched = s }
}

// WithPreloader binds the model's busy state to pl.
func WithPreloader(pl Preloader) Option {
	return func(p *Page) { p.preloader = pl }
}

// WithCompact selects the compact layout.
func WithCompact(compact bool) Option {
	return func(p *Page) { p.compact = compact }
}

// WithStore uses st instead of a fresh store.
func WithStore(st *store.Store) Option {
	return func(p *Page) { p.store = st }
}

// WithProjectionOptions passes opts to the page's projection.
func WithProjectionOptions(opts ...projection.Option) Option {
	return func(p *Page) { p.projOpts = append(p.projOpts, opts...) }
}

// Page is the menu screen's binding layer. Every subscription it opens is
// owned by its bag and released by Close.
type Page struct {
	model     Model
	sched     reactive.Scheduler
	preloader Preloader
	compact   bool
	projOpts  []projection.Option

	store      *store.Store
	projection *projection.Projection
	bag        reactive.Bag
}

// NewPage binds model to surface.
func NewPage(model Model, surface projection.Surface, opts ...Option) *Page {
	p := &Page{model: model, sched: reactive.Immediate}
	for _, opt := range opts {
		opt(p)
	}
	if p.store == nil {
		p.store = store.New()
	}

	p.projection = projection.Bind(p.store, p.sched, surface, p.projOpts...)

	p.bag.Add(
		model.Categories().Subscribe(p.sched, p.replace),
		p.projection.Selections(p.sched, model.ShowCategory),
	)
	if p.preloader != nil {
		p.bag.Add(model.IsBusy().Subscribe(p.sched, func(busy bool) {
			p.preloader.SetHidden(!busy)
		}))
	}

	slog.Debug("menu page bound", "title", model.Title())
	return p
}

func (p *Page) replace(sections []CategorySection) {
	snap, err := BuildSnapshot(sections)
	if err != nil {
		slog.Error("menu update skipped", "error", err)
		return
	}
	p.store.Replace(snap)
}

// Title returns the page title.
func (p *Page) Title() string {
	return p.model.Title()
}

// Projection returns the page's projection, the surface's data source.
func (p *Page) Projection() *projection.Projection {
	return p.projection
}

// Store returns the page's store.
func (p *Page) Store() *store.Store {
	return p.store
}

// RowHeight returns the height of rows in section.
func (p *Page) RowHeight(section int) float64 {
	meta, ok := p.projection.SectionMetadata(section)
	if !ok {
		return 0
	}
	return projection.RowHeight(meta, p.compact)
}

// HeaderHeight returns the header height of section.
func (p *Page) HeaderHeight(section int) float64 {
	return projection.HeaderHeight(p.projection.NumberOfItems(section))
}

// HeaderTitle returns the header text of section.
func (p *Page) HeaderTitle(section int) string {
	meta, _ := p.projection.SectionMetadata(section)
	return projection.HeaderTitle(meta)
}

// Select forwards a row activation to the projection.
func (p *Page) Select(section, row int) bool {
	return p.projection.Select(section, row)
}

// Close tears the page down: model and selection subscriptions first, then
// the projection.
func (p *Page) Close() {
	p.bag.Dispose()
	p.projection.Close()
	slog.Debug("menu page closed", "title", p.model.Title())
}
