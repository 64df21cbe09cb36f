package reactive

import (
	"sync"
	"sync/atomic"
)

// versioned is a property value stamped with the Set that produced it.
// The initial value has version 0.
type versioned[T any] struct {
	value   T
	version uint64
}

// Property is a reactive value: it always has a current value and
// delivers it to each new subscriber before any later change.
//
// A subscriber never receives a value older than one it has already
// received, so its last delivery is always the latest value set.
type Property[T any] struct {
	mu      sync.RWMutex
	value   T
	version uint64
	changes *Subject[versioned[T]]
}

// NewProperty creates a property holding initial.
func NewProperty[T any](initial T, opts ...Option) *Property[T] {
	return &Property[T]{
		value:   initial,
		changes: NewSubject[versioned[T]](opts...),
	}
}

// Value returns the current value.
func (p *Property[T]) Value() T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// Set replaces the current value and publishes it.
func (p *Property[T]) Set(v T) {
	p.mu.Lock()
	p.version++
	p.value = v
	change := versioned[T]{value: v, version: p.version}
	p.mu.Unlock()
	p.changes.Publish(change)
}

// Subscribe delivers the current value, then every subsequent Set, to fn
// on sched. A delivery that arrives after a newer one is dropped.
func (p *Property[T]) Subscribe(sched Scheduler, fn func(T)) *Subscription {
	if sched == nil {
		sched = Immediate
	}

	// seen holds the version of the last delivered value plus one; zero
	// means nothing was delivered yet.
	var seen atomic.Uint64
	accept := func(c versioned[T]) {
		for {
			last := seen.Load()
			if c.version+1 <= last {
				return
			}
			if seen.CompareAndSwap(last, c.version+1) {
				break
			}
		}
		fn(c.value)
	}

	p.mu.RLock()
	current := versioned[T]{value: p.value, version: p.version}
	sub := p.changes.Subscribe(sched, accept)
	p.mu.RUnlock()

	// Delivered after the lock is released so fn may read or Set p.
	obs := &observer[versioned[T]]{sub: sub, sched: sched, fn: accept}
	deliver(obs, current)
	return sub
}

// Len returns the number of active subscribers.
func (p *Property[T]) Len() int {
	return p.changes.Len()
}

// Close disposes every subscription.
func (p *Property[T]) Close() {
	p.changes.Close()
}
