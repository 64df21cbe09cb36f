// Package store holds the current catalog snapshot and turns every
// replacement into one change event.
//
// # Ownership
//
// The Store is the only owner of its current Snapshot. Snapshots are
// immutable values, so Current hands out the same value every reader sees;
// there is no mutable handle to leak.
//
// # Ordering
//
// Replace calls are serialized. Each one diffs against the snapshot of the
// previous completed Replace, never an intermediate state, swaps current,
// stamps the event with the next logical clock value, and queues it. Queued
// events are published by one caller at a time in queue order, so
// subscribers receive events in completion order and Seq increases by
// exactly one per event.
//
// # Re-entrancy
//
// A subscriber may call Replace from inside its callback on any scheduler.
// On reactive.Immediate the nested event is queued and delivered after
// every subscriber has seen the current one, never nested inside it.
package store
