// Package sink's two implementations exist only as runnable endpoints for
// cmd/mongoosectl and for tests that need to observe dispatched events
// without wiring a full processor group.
package sink
