package store

import (
	"log/slog"
	"sync"

	"github.com/roach88/catalogsync/internal/diff"
	"github.com/roach88/catalogsync/internal/ir"
	"github.com/roach88/catalogsync/internal/reactive"
)

// ChangeEvent is one completed Replace. Ops transform the previous snapshot
// into Snapshot when applied in order; Snapshot is authoritative.
type ChangeEvent struct {
	Seq      int64
	Ops      []ir.EditOp
	Snapshot ir.Snapshot
}

// Option configures a Store.
type Option func(*Store)

// WithInitial sets the snapshot the store starts from. Default: empty.
func WithInitial(s ir.Snapshot) Option {
	return func(st *Store) {
		st.current = s
	}
}

// WithClock sets the logical clock used to stamp events.
func WithClock(c *reactive.Clock) Option {
	return func(st *Store) {
		st.clock = c
	}
}

// WithIDGenerator sets the generator for subscription ids.
func WithIDGenerator(g reactive.IDGenerator) Option {
	return func(st *Store) {
		st.ids = g
	}
}

// Store is the sectioned observable collection.
//
// Thread-safety model:
//   - Replace(): safe from any goroutine, serialized internally, and safe
//     to call from a subscriber on any scheduler
//   - Current(), Seq(): safe from any goroutine, never block on a Replace
//     that is diffing or publishing
type Store struct {
	// writeMu guards the diff-and-swap step and the publish queue.
	writeMu    sync.Mutex
	pending    []ChangeEvent
	publishing bool

	mu      sync.RWMutex
	current ir.Snapshot
	seq     int64

	clock  *reactive.Clock
	ids    reactive.IDGenerator
	events *reactive.Subject[ChangeEvent]
}

// New creates a store.
func New(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = reactive.NewClock()
	}
	var subjectOpts []reactive.Option
	if s.ids != nil {
		subjectOpts = append(subjectOpts, reactive.WithIDGenerator(s.ids))
	}
	s.events = reactive.NewSubject[ChangeEvent](subjectOpts...)
	return s
}

// Current returns the snapshot of the most recently completed Replace.
func (s *Store) Current() ir.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Seq returns the sequence number of the most recently completed Replace,
// or 0 if there was none.
func (s *Store) Seq() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq
}

// Replace makes next the current snapshot and publishes exactly one
// ChangeEvent describing the transition. The event is returned as well.
//
// An identical snapshot still produces an event, with no ops, so consumers
// pick up rebuilt view-models.
//
// Events are published one at a time in Seq order. A Replace issued while
// another is publishing, including one made by a subscriber from inside its
// callback, queues its event behind the one being delivered and returns;
// the publishing call delivers it before returning.
func (s *Store) Replace(next ir.Snapshot) ChangeEvent {
	s.writeMu.Lock()

	s.mu.RLock()
	prev := s.current
	s.mu.RUnlock()

	ops := diff.Diff(prev, next)
	seq := s.clock.Next()

	s.mu.Lock()
	s.current = next
	s.seq = seq
	s.mu.Unlock()

	event := ChangeEvent{Seq: seq, Ops: ops, Snapshot: next}
	s.pending = append(s.pending, event)
	drain := !s.publishing
	s.publishing = true
	s.writeMu.Unlock()

	slog.Debug("snapshot replaced",
		"seq", seq,
		"ops", len(ops),
		"sections", next.Len(),
		"items", next.TotalItems(),
		"queued", !drain,
	)

	if drain {
		s.flush()
	}
	return event
}

// flush publishes queued events until none are left. Only one caller runs
// it at a time.
func (s *Store) flush() {
	for {
		s.writeMu.Lock()
		if len(s.pending) == 0 {
			s.publishing = false
			s.writeMu.Unlock()
			return
		}
		event := s.pending[0]
		s.pending = s.pending[1:]
		s.writeMu.Unlock()

		s.events.Publish(event)
	}
}

// Subscribe delivers every subsequent ChangeEvent to fn on sched. The
// current snapshot is not replayed; read Current first.
func (s *Store) Subscribe(sched reactive.Scheduler, fn func(ChangeEvent)) *reactive.Subscription {
	return s.events.Subscribe(sched, fn)
}

// Watch returns the current snapshot and subscribes fn to every event after
// it. Events still queued for publication when Watch is called are already
// part of the returned snapshot and are not delivered to fn, so a consumer
// that starts from the snapshot and applies each event's ops stays in step.
func (s *Store) Watch(sched reactive.Scheduler, fn func(ChangeEvent)) (ir.Snapshot, *reactive.Subscription) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	current, seq := s.current, s.seq
	s.mu.RUnlock()

	sub := s.events.Subscribe(sched, func(e ChangeEvent) {
		if e.Seq <= seq {
			return
		}
		fn(e)
	})
	return current, sub
}

// Subscribers returns the number of active subscriptions.
func (s *Store) Subscribers() int {
	return s.events.Len()
}

// Close disposes every subscription. Later Replace calls still update
// Current but reach no one.
func (s *Store) Close() {
	s.events.Close()
}
