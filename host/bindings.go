// Package host implements the WASM host binding table: every function a
// compiled stage imports to read and write channels, manipulate series and
// strings through the handle table, and load or store per-node state,
// grounded on original_source/arc/cpp/runtime/wasm/bindings.cpp.
package host

import (
	"go.uber.org/zap"

	"github.com/synnaxlabs/arc-runtime/errors"
	"github.com/synnaxlabs/arc-runtime/node"
	"github.com/synnaxlabs/arc-runtime/state"
)

// ModuleName is the import namespace every binding in this package is
// registered under, matching the single flat host module the compiler
// targets (no WASI, no component model).
const ModuleName = "env"

// Bindings is the host function table shared by every WASM instance
// running against one Container. Its active node is swapped by the task
// orchestrator immediately before each call_function, so that
// node-scoped bindings (state load/store) resolve against the node whose
// stage is about to run without threading a pointer through every host
// call.
type Bindings struct {
	container *state.Container
	active    *node.Node
	onPanic   errors.Handler
	log       *zap.Logger
}

// New constructs a Bindings bound to container. onPanic receives every
// panic()/trap surfaced from compiled code; a nil handler installs
// errors.NopHandler. A nil logger installs a no-op logger.
func New(container *state.Container, onPanic errors.Handler, log *zap.Logger) *Bindings {
	if onPanic == nil {
		onPanic = errors.NopHandler
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Bindings{container: container, onPanic: onPanic, log: log}
}

// SetActiveNode latches the node whose stage is about to be invoked,
// Go's analogue of the C++ runtime's set_user_data. It must be called
// before every call_function and is the only mutable binding state that
// changes within a tick.
func (b *Bindings) SetActiveNode(n *node.Node) { b.active = n }

// activeKey returns the latched node's key, or "" if no node is active
// (host bindings may be invoked after a failed instantiation, per
// spec.md's host-binding invariants).
func (b *Bindings) activeKey() string {
	if b.active == nil {
		return ""
	}
	return b.active.Key()
}
