// Package projection applies store change events to a live list surface
// and turns user activations into a selection stream.
//
// A Projection keeps its own mirror of what the surface shows. Each change
// event is applied inside one Surface.PerformBatchUpdates call, op by op,
// with the mirror updated before every surface mutation so that row-count
// queries made during the batch agree with the surface. Ops that do not fit
// the mirror are a desync: the projection logs it, reports it, and falls
// back to a full ReloadData from the event's snapshot.
//
// All methods are expected to run on one execution context, the scheduler
// passed to Bind. The surface may call back into the data-source methods
// from inside a batch.
package projection
