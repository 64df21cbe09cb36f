package reactive

import (
	"log/slog"
	"slices"
	"sync"
)

// Option configures a Subject or Property.
type Option func(*options)

type options struct {
	ids IDGenerator
}

// WithIDGenerator overrides the subscription id generator.
// Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) {
		o.ids = g
	}
}

func buildOptions(opts []Option) options {
	o := options{ids: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type observer[T any] struct {
	sub   *Subscription
	sched Scheduler
	fn    func(T)
}

// Subject is a multicast event stream without a current value.
type Subject[T any] struct {
	mu        sync.Mutex
	observers []*observer[T]
	ids       IDGenerator
	closed    bool
}

// NewSubject creates a subject with no subscribers.
func NewSubject[T any](opts ...Option) *Subject[T] {
	o := buildOptions(opts)
	return &Subject[T]{ids: o.ids}
}

// Subscribe registers fn to be run on sched for every published value.
// Subscribing to a closed subject returns an already disposed subscription.
func (s *Subject[T]) Subscribe(sched Scheduler, fn func(T)) *Subscription {
	if sched == nil {
		sched = Immediate
	}
	obs := &observer[T]{sched: sched, fn: fn}
	obs.sub = newSubscription(s.ids.Generate(), func() { s.remove(obs) })

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		obs.sub.Dispose()
		return obs.sub
	}
	s.observers = append(s.observers, obs)
	s.mu.Unlock()

	slog.Debug("subscribed", "subscription", obs.sub.ID())
	return obs.sub
}

// Publish delivers v to every active subscriber through its scheduler.
func (s *Subject[T]) Publish(v T) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	for _, obs := range observers {
		deliver(obs, v)
	}
}

func deliver[T any](obs *observer[T], v T) {
	ok := obs.sched.Schedule(func() {
		if obs.sub.Disposed() {
			return
		}
		obs.fn(v)
	})
	if !ok {
		slog.Debug("delivery dropped: scheduler stopped", "subscription", obs.sub.ID())
	}
}

// Len returns the number of active subscribers.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

// Close disposes every subscription and rejects future subscribers.
func (s *Subject[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	observers := s.observers
	s.observers = nil
	s.mu.Unlock()

	for _, obs := range observers {
		obs.sub.Dispose()
	}
}

func (s *Subject[T]) remove(target *observer[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = slices.DeleteFunc(s.observers, func(o *observer[T]) bool {
		return o == target
	})
}
