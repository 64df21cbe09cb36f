package reactive

import (
	"sync"
	"sync/atomic"
)

// Subscription is a scoped handle on a stream of events.
// Dispose releases it; no callback runs for it afterwards.
type Subscription struct {
	id       string
	disposed atomic.Bool
	once     sync.Once
	release  func()
}

func newSubscription(id string, release func()) *Subscription {
	return &Subscription{id: id, release: release}
}

// ID returns the subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Dispose releases the subscription. Safe to call more than once and from
// inside the subscription's own callback.
func (s *Subscription) Dispose() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.disposed.Store(true)
		if s.release != nil {
			s.release()
		}
	})
}

// Disposed reports whether Dispose has been called.
func (s *Subscription) Disposed() bool {
	return s.disposed.Load()
}

// Bag collects subscriptions owned by one component so teardown releases
// all of them at once.
type Bag struct {
	mu       sync.Mutex
	subs     []*Subscription
	disposed bool
}

// Add takes ownership of sub. Adding to an already disposed bag disposes
// sub immediately.
func (b *Bag) Add(subs ...*Subscription) {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		for _, s := range subs {
			s.Dispose()
		}
		return
	}
	b.subs = append(b.subs, subs...)
	b.mu.Unlock()
}

// Len returns the number of subscriptions held.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Dispose disposes every held subscription in reverse order of addition.
func (b *Bag) Dispose() {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.disposed = true
	b.mu.Unlock()

	for i := len(subs) - 1; i >= 0; i-- {
		subs[i].Dispose()
	}
}
