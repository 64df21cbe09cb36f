package harness

import (
	"context"
	"fmt"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/catalogsync/internal/catalog"
	"github.com/roach88/catalogsync/internal/filter"
	"github.com/roach88/catalogsync/internal/filterstore"
	"github.com/roach88/catalogsync/internal/ir"
	"github.com/roach88/catalogsync/internal/projection"
	"github.com/roach88/catalogsync/internal/reactive"
	"github.com/roach88/catalogsync/internal/store"
	"github.com/roach88/catalogsync/internal/testutil"
)

// Harness holds the components one scenario drives.
type Harness struct {
	scenario *Scenario

	clock      *testutil.ManualClock
	store      *store.Store
	surface    *testutil.RecordingSurface
	projection *projection.Projection

	filters  *filterstore.Store
	pipeline *filter.Pipeline
	router   *countingRouter

	selected  string
	desyncs   []string
	catalog   *catalog.Catalog
	seenCount int
}

type countingRouter struct {
	popped int
}

func (r *countingRouter) ShowPreviousPage() { r.popped++ }

// Run executes a scenario and returns its result.
//
// Each run gets a fresh store, surface and in-memory filter database.
// Execution errors (an unreadable catalog, a database failure) are returned
// as errors; failed expectations and broken invariants are reported in the
// result.
func Run(scenario *Scenario) (*Result, error) {
	h, err := newHarness(scenario)
	if err != nil {
		return nil, err
	}
	defer h.close()

	ctx := context.Background()
	result := NewResult()

	for i := range scenario.Steps {
		step := &scenario.Steps[i]
		event, err := h.execute(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d] (%s): %w", i, step.Kind(), err)
		}
		event.Seq = int64(i + 1)
		result.Trace = append(result.Trace, event)

		for _, msg := range h.checkExpect(step, event) {
			result.AddError(fmt.Sprintf("steps[%d] (%s): %s", i, step.Kind(), msg))
		}
		for _, msg := range h.checkInvariants() {
			result.AddError(fmt.Sprintf("steps[%d] (%s): %s", i, step.Kind(), msg))
		}
	}
	return result, nil
}

func newHarness(sc *Scenario) (*Harness, error) {
	h := &Harness{
		scenario: sc,
		clock:    testutil.NewManualClock(time.Time{}),
		router:   &countingRouter{},
	}

	var initial ir.Snapshot
	if sc.Catalog != "" {
		c, err := catalog.Load(sc.Catalog)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		snap, err := c.Snapshot()
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		h.catalog = c
		initial = snap
	}

	h.store = store.New(
		store.WithInitial(initial),
		store.WithClock(reactive.NewClock()),
		store.WithIDGenerator(reactive.NewSequenceGenerator("store")),
	)

	h.surface = testutil.NewRecordingSurface(nil)
	opts := []projection.Option{
		projection.WithErrorHandler(func(err error) {
			h.desyncs = append(h.desyncs, err.Error())
		}),
	}
	if d := sc.cooldown(); d > 0 {
		opts = append(opts, projection.WithSelectionCooldown(d, h.clock.Now))
	}
	h.projection = projection.Bind(h.store, reactive.Immediate, h.surface, opts...)
	h.surface.Source = h.projection
	// Bind reloaded before the surface could read counts.
	h.surface.ReloadData()

	h.projection.Selections(reactive.Immediate, func(s projection.Selection) {
		h.selected = s.Item.Identity()
	})

	if sc.Filter != nil {
		if err := h.startFilter(sc.Filter); err != nil {
			h.close()
			return nil, err
		}
	}
	return h, nil
}

func (h *Harness) startFilter(setup *FilterSetup) error {
	fs, err := filterstore.Open(":memory:")
	if err != nil {
		return fmt.Errorf("open filter store: %w", err)
	}
	h.filters = fs

	cfg := filter.Config{
		CityID:     setup.CityID,
		CategoryID: setup.CategoryID,
		Components: setup.Components,
		Storage:    fs,
		Router:     h.router,
	}
	if setup.FromCatalog {
		h.pipeline, err = filter.NewFromProducts(cfg, h.catalog.ProductSource())
	} else {
		h.pipeline, err = filter.New(cfg)
	}
	if err != nil {
		return fmt.Errorf("start filter: %w", err)
	}
	return nil
}

func (h *Harness) close() {
	if h.pipeline != nil {
		h.pipeline.Dispose()
	}
	if h.projection != nil {
		h.projection.Close()
	}
	if h.store != nil {
		h.store.Close()
	}
	if h.filters != nil {
		h.filters.Close()
	}
}

func (h *Harness) execute(ctx context.Context, step *Step) (TraceEvent, error) {
	h.surface.Reset()
	h.selected = ""
	event := TraceEvent{Step: step.Kind()}

	switch event.Step {
	case StepReplace:
		data, err := yaml.Marshal(step.Replace)
		if err != nil {
			return event, fmt.Errorf("encode inline catalog: %w", err)
		}
		c, err := catalog.Parse(h.scenario.Name+".yaml", data)
		if err != nil {
			return event, err
		}
		if err := h.replace(c, &event); err != nil {
			return event, err
		}

	case StepLoad:
		c, err := catalog.Load(step.Load)
		if err != nil {
			return event, err
		}
		if err := h.replace(c, &event); err != nil {
			return event, err
		}

	case StepSelect:
		h.projection.Select(step.Select.Section, step.Select.Row)
		event.Selected = h.selected

	case StepAdvance:
		h.clock.Advance(step.advance)

	case StepQuery:
		h.pipeline.SetQuery(*step.Query)

	case StepClearQuery:
		h.pipeline.ClearQuery()

	case StepToggle:
		cell := h.displayedCell(*step.Toggle)
		if cell == nil {
			return event, fmt.Errorf("component %d is not displayed", *step.Toggle)
		}
		if _, err := cell.Toggle(ctx); err != nil {
			return event, err
		}

	case StepDropFilter:
		if err := h.pipeline.DropFilter(ctx); err != nil {
			return event, err
		}

	case StepClose:
		h.pipeline.Close()
	}

	event.Calls = h.surface.Calls()
	if h.pipeline != nil {
		if err := h.traceFilter(ctx, &event); err != nil {
			return event, err
		}
	}
	return event, nil
}

func (h *Harness) replace(c *catalog.Catalog, event *TraceEvent) error {
	snap, err := c.Snapshot()
	if err != nil {
		return err
	}
	change := h.store.Replace(snap)
	event.Ops = ir.OpStrings(change.Ops)
	event.Outline = change.Snapshot.Outline()
	return nil
}

func (h *Harness) displayedCell(id int64) *filter.CellModel {
	for _, cell := range h.pipeline.Components().Value() {
		if cell.Component.ID == id {
			return cell
		}
	}
	return nil
}

func (h *Harness) traceFilter(ctx context.Context, event *TraceEvent) error {
	cells := h.pipeline.Components().Value()
	event.Components = make([]string, len(cells))
	for i, cell := range cells {
		event.Components[i] = cell.Title()
	}

	setup := h.scenario.Filter
	ids, err := h.filters.Components(ctx, filter.Key{CityID: setup.CityID, CategoryID: setup.CategoryID})
	if err != nil {
		return err
	}
	event.Filter = ids
	event.Popped = h.router.popped
	return nil
}

func (h *Harness) checkExpect(step *Step, event TraceEvent) []string {
	e := step.Expect
	if e == nil {
		return nil
	}

	var failures []string
	if e.Ops != nil && !slices.Equal(e.Ops, event.Ops) {
		failures = append(failures, fmt.Sprintf("ops: expected %v, got %v", e.Ops, event.Ops))
	}
	if e.Outline != nil {
		got := h.store.Current().Outline()
		if !outlinesEqual(e.Outline, got) {
			failures = append(failures, fmt.Sprintf("outline: expected %v, got %v", e.Outline, got))
		}
	}
	if e.Selected != nil && *e.Selected != event.Selected {
		failures = append(failures, fmt.Sprintf("selected: expected %q, got %q", *e.Selected, event.Selected))
	}
	if e.Components != nil && !slices.Equal(e.Components, event.Components) {
		failures = append(failures, fmt.Sprintf("components: expected %v, got %v", e.Components, event.Components))
	}
	if e.Filter != nil && !slices.Equal(e.Filter, event.Filter) {
		failures = append(failures, fmt.Sprintf("filter: expected %v, got %v", e.Filter, event.Filter))
	}
	if e.Popped != nil && *e.Popped != event.Popped {
		failures = append(failures, fmt.Sprintf("popped: expected %d, got %d", *e.Popped, event.Popped))
	}
	return failures
}

// checkInvariants reports problems not yet reported by an earlier step.
func (h *Harness) checkInvariants() []string {
	var failures []string
	for _, m := range h.surface.Mismatches() {
		failures = append(failures, "surface: "+m)
	}
	for _, d := range h.desyncs[h.seenCount:] {
		failures = append(failures, "desync: "+d)
	}
	h.seenCount = len(h.desyncs)

	current := h.store.Current()
	if !h.projection.Snapshot().Equal(current) {
		failures = append(failures, "projection does not show the store's snapshot")
	}

	want := make([]int, current.Len())
	for i := range want {
		want[i] = current.ItemCount(i)
	}
	if got := h.surface.Counts(); !slices.Equal(want, got) && !(len(want) == 0 && len(got) == 0) {
		failures = append(failures, fmt.Sprintf("surface counts %v, store has %v", got, want))
	}
	return failures
}

func outlinesEqual(a, b []ir.SectionOutline) bool {
	return slices.EqualFunc(a, b, func(x, y ir.SectionOutline) bool {
		return x.Section == y.Section && x.Title == y.Title && slices.Equal(x.Items, y.Items)
	})
}
