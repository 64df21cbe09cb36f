package filter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/catalogsync/internal/reactive"
)

// DefaultTitle is the page title of the filter screen.
const DefaultTitle = "Filter"

// Config configures a Pipeline.
type Config struct {
	CityID     int64
	CategoryID int64

	// Components is the origin set. Duplicate IDs are dropped.
	Components []Component

	Storage Storage
	Router  Router

	// Scheduler runs query-change recomputation. Default: reactive.Immediate.
	Scheduler reactive.Scheduler
}

// Pipeline re-derives the displayed component list on every query change.
//
// Thread-safety model:
//   - Query().Set and SetQuery: safe from any goroutine; recomputation runs
//     on the configured scheduler
//   - Components(): read or subscribe from any goroutine
//
// With a reactive.Loop scheduler, query changes are processed in the order
// they were made and a later query supersedes an earlier one.
type Pipeline struct {
	cityID     int64
	categoryID int64
	origin     []Component

	storage Storage
	router  Router

	query      *reactive.Property[*string]
	components *reactive.Property[[]*CellModel]
	sub        *reactive.Subscription
}

// New builds a pipeline over cfg.Components and starts observing the query.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Storage == nil {
		return nil, errors.New("filter: storage is required")
	}
	if cfg.Router == nil {
		return nil, errors.New("filter: router is required")
	}
	sched := cfg.Scheduler
	if sched == nil {
		sched = reactive.Immediate
	}

	p := &Pipeline{
		cityID:     cfg.CityID,
		categoryID: cfg.CategoryID,
		origin:     dedupe(cfg.Components),
		storage:    cfg.Storage,
		router:     cfg.Router,
		query:      reactive.NewProperty[*string](nil),
		components: reactive.NewProperty[[]*CellModel](nil),
	}
	p.sub = p.query.Subscribe(sched, p.recompute)

	slog.Debug("filter pipeline started",
		"city", cfg.CityID,
		"category", cfg.CategoryID,
		"origin", len(p.origin),
	)
	return p, nil
}

// NewFromProducts builds a pipeline whose origin set is the union of the
// components of every product source returns for cfg's pair. Any
// cfg.Components are ignored.
func NewFromProducts(cfg Config, source ProductSource) (*Pipeline, error) {
	if source == nil {
		return nil, errors.New("filter: product source is required")
	}
	cfg.Components = Union(source.Products(cfg.CityID, cfg.CategoryID))
	return New(cfg)
}

// Title returns the page title.
func (p *Pipeline) Title() string {
	return DefaultTitle
}

// Origin returns a copy of the origin set in construction order.
func (p *Pipeline) Origin() []Component {
	out := make([]Component, len(p.origin))
	copy(out, p.origin)
	return out
}

// Query is the live search query. A nil value means no query.
func (p *Pipeline) Query() *reactive.Property[*string] {
	return p.query
}

// SetQuery sets the search query.
func (p *Pipeline) SetQuery(q string) {
	p.query.Set(&q)
}

// ClearQuery removes the search query.
func (p *Pipeline) ClearQuery() {
	p.query.Set(nil)
}

// Components is the derived list of cell models.
func (p *Pipeline) Components() *reactive.Property[[]*CellModel] {
	return p.components
}

// DropFilter clears every persisted selection for the pipeline's pair.
func (p *Pipeline) DropFilter(ctx context.Context) error {
	state, err := p.storage.Filter(ctx, p.cityID, p.categoryID)
	if err != nil {
		return fmt.Errorf("drop filter: %w", err)
	}
	if err := p.storage.Empty(ctx, state); err != nil {
		return fmt.Errorf("drop filter: %w", err)
	}
	slog.Info("filter dropped",
		"city", p.cityID,
		"category", p.categoryID,
		"selections", len(state.Components),
	)
	return nil
}

// Close asks the router to leave the filter page.
func (p *Pipeline) Close() {
	p.router.ShowPreviousPage()
}

// Dispose stops observing the query. Components keeps its last value.
func (p *Pipeline) Dispose() {
	p.sub.Dispose()
}

func (p *Pipeline) recompute(q *string) {
	matched := Transform(p.origin, q)

	cells := make([]*CellModel, len(matched))
	for i, c := range matched {
		cells[i] = &CellModel{
			Component:  c,
			CityID:     p.cityID,
			CategoryID: p.categoryID,
			storage:    p.storage,
		}
	}

	var shown string
	if q != nil {
		shown = strings.TrimSpace(*q)
	}
	slog.Debug("filter recomputed", "query", shown, "matched", len(cells), "origin", len(p.origin))

	p.components.Set(cells)
}
