package errors

import (
	"fmt"
	"strings"
)

// Code is a hierarchical dotted error code, e.g. "arc.runtime.queue_full.input".
// A code's parent is itself with the last dot-segment removed.
type Code string

const (
	// Arc is the root of every error the runtime core produces.
	Arc Code = "arc"
	// Runtime is the parent of every runtime-level error.
	Runtime Code = "arc.runtime"
	// QueueFull is the parent of the two directional backpressure codes.
	QueueFull Code = "arc.runtime.queue_full"
	// QueueFullInputCode means the input queue rejected a push; the frame
	// is dropped and a warning is raised. Fatal only for that one frame.
	QueueFullInputCode Code = "arc.runtime.queue_full.input"
	// QueueFullOutputCode means the output queue rejected a write; the
	// oldest entry on the output queue, whichever channel it belongs to, is
	// dropped, the write is retried once, and a warning is raised.
	QueueFullOutputCode Code = "arc.runtime.queue_full.output"
	// WasmPanicCode means compiled user code called panic() or trapped.
	// The node that raised it does not continue in the current tick; the
	// remaining nodes of the tick still run.
	WasmPanicCode Code = "arc.runtime.wasm_panic"
	// Warning is the parent of every non-fatal runtime condition.
	Warning Code = "arc.runtime.warning"
	// DataDroppedCode means a frame or write was dropped but execution
	// continues.
	DataDroppedCode Code = "arc.runtime.warning.data_dropped"
)

// Parent returns the code's immediate parent and true, or ("", false) if
// code has no parent (i.e. code == Arc or code is empty).
func (c Code) Parent() (Code, bool) {
	s := string(c)
	i := strings.LastIndexByte(s, '.')
	if i < 0 {
		return "", false
	}
	return Code(s[:i]), true
}

// HasAncestor reports whether ancestor is code itself or one of its
// dot-segment-trimmed parents.
func (c Code) HasAncestor(ancestor Code) bool {
	for cur := c; ; {
		if cur == ancestor {
			return true
		}
		parent, ok := cur.Parent()
		if !ok {
			return false
		}
		cur = parent
	}
}

// Error is the structured error type propagated out of the runtime core.
type Error struct {
	Code    Code
	Detail  string
	Cause   error
	Channel uint32 // set on queue/data errors that are channel-scoped
	hasChan bool
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(string(e.Code))
	b.WriteByte(']')
	if e.hasChan {
		fmt.Fprintf(&b, " channel=%d", e.Channel)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap exposes the cause chain to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports a match whenever target is an *Error whose Code is an
// ancestor of (or equal to) e's Code — the "parents match children" rule
// from the spec's error taxonomy.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code.HasAncestor(t.Code)
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New starts building an Error with the given code and detail message.
func New(code Code, detail string) *Builder {
	return &Builder{err: Error{Code: code, Detail: detail}}
}

// Cause attaches an underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Channel tags the error with the channel key it concerns.
func (b *Builder) Channel(key uint32) *Builder {
	b.err.Channel = key
	b.err.hasChan = true
	return b
}

// Build returns the constructed *Error.
func (b *Builder) Build() *Error {
	e := b.err
	return &e
}

// QueueFullInput builds an arc.runtime.queue_full.input error.
func QueueFullInput(detail string) *Error {
	return New(QueueFullInputCode, detail).Build()
}

// QueueFullOutput builds an arc.runtime.queue_full.output error scoped to
// a channel.
func QueueFullOutput(key uint32, detail string) *Error {
	return New(QueueFullOutputCode, detail).Channel(key).Build()
}

// WasmPanic builds an arc.runtime.wasm_panic error from the trap that
// caused it (a wazero sys.ExitError, a panic() host-call message, or any
// other trap surfaced by the WASM engine).
func WasmPanic(nodeKey, detail string, cause error) *Error {
	return New(WasmPanicCode, fmt.Sprintf("node %q: %s", nodeKey, detail)).Cause(cause).Build()
}

// DataDropped builds an arc.runtime.warning.data_dropped error scoped to a
// channel.
func DataDropped(key uint32, detail string) *Error {
	return New(DataDroppedCode, detail).Channel(key).Build()
}

// Handler receives runtime errors bubbled up from the task/loop layer. The
// default handler is a no-op, matching spec.md's propagation policy.
type Handler func(*Error)

// NopHandler discards every error; it is the default handler.
func NopHandler(*Error) {}
