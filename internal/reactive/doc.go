// Package reactive provides the publish/subscribe primitives catalogsync
// components are wired with.
//
// ARCHITECTURE:
//
// Explicit Scheduling Context:
// Every subscription names the Scheduler its callbacks run on. Components
// never assume a global event loop:
//   - Immediate runs callbacks inline on the publishing goroutine (tests,
//     non-UI use).
//   - Loop is a FIFO task queue drained by exactly one goroutine in Run,
//     standing in for a UI/main context.
//
// Scoped Subscriptions:
// Subscribe returns a *Subscription. Dispose is idempotent and takes effect
// immediately: a callback already queued on a scheduler is dropped when it
// runs after disposal, so a torn-down consumer never sees another event.
// Bag disposes a screen's subscriptions together.
//
// Ordering:
// A Subject delivers values to each subscriber in publish order. Delivery
// across subscribers follows subscription order on a shared scheduler.
//
// Re-entrancy:
// With Immediate, callbacks run while the publisher is still inside
// Publish/Set. A callback may publish to other subjects, but must not
// block waiting on its own publisher.
package reactive
