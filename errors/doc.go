// Package errors provides the structured error taxonomy used across the Arc
// runtime core. Error codes are hierarchical dotted strings ("arc.runtime.
// queue_full.input") matching the "parents match children" rule: Is reports
// a match whenever the target's code is the receiver's code or an ancestor
// of it.
//
// Use the Builder for ad hoc construction:
//
//	err := errors.New(errors.WasmPanicCode, "division by zero").Cause(trap).Build()
//
// Or the convenience constructors for the taxonomy's well-known members:
//
//	err := errors.QueueFullInput("frame dropped: input queue at capacity")
//	err := errors.DataDropped(key, "output queue full")
package errors
