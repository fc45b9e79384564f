// Package formval turns declarative form schemas into executable
// validation: compiled per-field validators, visibility rules evaluated
// against live values, a synchronous whole-form aggregator, and a
// real-time per-field controller with debounced, race-safe asynchronous
// updates.
//
// The engine is read-only with respect to form values: the host keeps the
// live value map (see pkg/formstate) and the engine only takes snapshots.
// Hidden, disabled, and conditionally invisible fields are always treated
// as valid so an invisible required field can never block submission.
package formval
