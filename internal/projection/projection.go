package projection

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roach88/catalogsync/internal/diff"
	"github.com/roach88/catalogsync/internal/ir"
	"github.com/roach88/catalogsync/internal/reactive"
	"github.com/roach88/catalogsync/internal/store"
)

// Selection is one accepted user activation.
type Selection struct {
	Section int
	Row     int
	Item    ir.Item
}

// Option configures a Projection.
type Option func(*Projection)

// WithErrorHandler registers fn to receive every desync error, after it
// has been logged and before the surface is reloaded.
func WithErrorHandler(fn func(error)) Option {
	return func(p *Projection) {
		p.onError = fn
	}
}

// WithSelectionCooldown keeps selection suspended for d after an accepted
// activation, so a double tap delivered as two separate activations still
// yields one Selection. now is the time source; nil means time.Now.
func WithSelectionCooldown(d time.Duration, now func() time.Time) Option {
	return func(p *Projection) {
		p.cooldown = d
		if now != nil {
			p.now = now
		}
	}
}

// Projection keeps a Surface in step with a ChangeSource.
type Projection struct {
	surface Surface
	mirror  *diff.Mirror
	shown   ir.Snapshot
	sub     *reactive.Subscription
	onError func(error)

	selections *reactive.Subject[Selection]
	selecting  atomic.Bool
	cooldown   time.Duration
	now        func() time.Time
	mu         sync.Mutex
	resumeAt   time.Time

	applied atomic.Int64
	desyncs atomic.Int64
}

// Bind attaches a projection to src and loads the surface with src's
// current snapshot. Events are applied on sched; Bind itself should run on
// that same context.
func Bind(src ChangeSource, sched reactive.Scheduler, surface Surface, opts ...Option) *Projection {
	p := &Projection{
		surface:    surface,
		mirror:     diff.NewMirror(ir.Snapshot{}),
		selections: reactive.NewSubject[Selection](),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	initial, sub := src.Watch(sched, p.apply)
	p.sub = sub
	p.shown = initial
	p.mirror.Reset(initial)
	surface.ReloadData()

	slog.Debug("projection bound",
		"subscription", sub.ID(),
		"sections", initial.Len(),
	)
	return p
}

// NumberOfSections is the section count the surface must show.
func (p *Projection) NumberOfSections() int {
	return p.mirror.NumberOfSections()
}

// NumberOfItems is the row count of section the surface must show.
func (p *Projection) NumberOfItems(section int) int {
	return p.mirror.NumberOfItems(section)
}

// ItemAt returns the view-model at (section, row).
func (p *Projection) ItemAt(section, row int) (ir.Item, bool) {
	return p.mirror.Item(section, row)
}

// SectionMetadata returns the metadata of section.
func (p *Projection) SectionMetadata(section int) (ir.SectionMetadata, bool) {
	return p.mirror.Metadata(section)
}

// Snapshot returns the snapshot the surface currently shows.
func (p *Projection) Snapshot() ir.Snapshot {
	return p.shown
}

// Applied returns how many change events were applied as batches.
func (p *Projection) Applied() int64 {
	return p.applied.Load()
}

// Desyncs returns how many change events fell back to a full reload.
func (p *Projection) Desyncs() int64 {
	return p.desyncs.Load()
}

func (p *Projection) apply(event store.ChangeEvent) {
	if len(event.Ops) == 0 {
		// Same structure; pick up rebuilt view-models without touching the
		// surface.
		p.shown = event.Snapshot
		p.mirror.Reset(event.Snapshot)
		return
	}

	// Ops are checked against a scratch copy first so that a bad sequence
	// never reaches the surface half applied.
	if err := p.check(event); err != nil {
		p.resync(event, err)
		return
	}

	p.surface.PerformBatchUpdates(func() {
		for _, op := range event.Ops {
			// Cannot fail: the same ops just applied to the same state.
			_ = p.mirror.Apply(op)
			mutate(p.surface, op)
		}
	})

	p.shown = event.Snapshot
	p.mirror.Reset(event.Snapshot)
	p.applied.Add(1)

	slog.Debug("projection applied", "seq", event.Seq, "ops", len(event.Ops))
}

func (p *Projection) check(event store.ChangeEvent) error {
	scratch := diff.NewMirror(p.shown)
	if err := scratch.ApplyAll(event.Ops); err != nil {
		return err
	}
	got, err := scratch.Snapshot()
	if err != nil || !got.Equal(event.Snapshot) {
		return ir.NewSnapshotMismatchError(event.Ops[len(event.Ops)-1], scratch.NumberOfSections())
	}
	return nil
}

func (p *Projection) resync(event store.ChangeEvent, err error) {
	p.desyncs.Add(1)
	slog.Error("projection desync, reloading",
		"seq", event.Seq,
		"ops", len(event.Ops),
		"error", err,
	)
	if p.onError != nil {
		p.onError(err)
	}
	p.shown = event.Snapshot
	p.mirror.Reset(event.Snapshot)
	p.surface.ReloadData()
}

// Select handles a user activation of (section, row).
//
// Selection acceptance is suspended, the Selection is published exactly
// once, the row's active affordance is cleared, and acceptance resumes.
// Activations arriving while suspended, including re-entrant ones from a
// selection subscriber, are rejected. Select reports whether the activation
// was accepted.
func (p *Projection) Select(section, row int) bool {
	if !p.selecting.CompareAndSwap(false, true) {
		slog.Debug("selection rejected: in progress", "section", section, "row", row)
		return false
	}
	defer p.selecting.Store(false)

	if p.cooldown > 0 {
		p.mu.Lock()
		cooling := p.now().Before(p.resumeAt)
		p.mu.Unlock()
		if cooling {
			slog.Debug("selection rejected: cooling down", "section", section, "row", row)
			return false
		}
	}

	item, ok := p.mirror.Item(section, row)
	if !ok {
		slog.Debug("selection rejected: no such row", "section", section, "row", row)
		return false
	}

	p.selections.Publish(Selection{Section: section, Row: row, Item: item})
	p.surface.DeselectRow(section, row)

	if p.cooldown > 0 {
		p.mu.Lock()
		p.resumeAt = p.now().Add(p.cooldown)
		p.mu.Unlock()
	}
	return true
}

// Selections subscribes fn to accepted activations.
func (p *Projection) Selections(sched reactive.Scheduler, fn func(Selection)) *reactive.Subscription {
	return p.selections.Subscribe(sched, fn)
}

// Close releases the change subscription and ends the selection stream.
// The surface receives nothing further.
func (p *Projection) Close() {
	p.sub.Dispose()
	p.selections.Close()
}
