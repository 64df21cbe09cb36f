// Package diff computes structural edit operations between two snapshots and
// applies them to a mutable mirror.
//
// Diff is a pure function. Operations are emitted in the order
//
//	removes (highest index first) → moves → inserts (lowest index first) → updates
//
// which is the only order under which every index stays valid when the
// sequence is applied one op at a time to a mirror of the old snapshot.
// Mirror is that mirror: it is what a list projection keeps to answer
// row-count queries while a batch is in flight.
package diff
