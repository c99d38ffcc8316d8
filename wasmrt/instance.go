package wasmrt

import (
	"context"

	"github.com/tetratelabs/wazero/api"
)

// Function is an exported WASM function resolved once and cached, per
// spec.md §4.5's find_function contract.
type Function struct {
	name string
	fn   api.Function
}

func (f *Function) Name() string { return f.name }

// Instance is one instantiated WASM module: its linear memory, its
// exported-function cache, and the reusable stack buffer CallFunction
// writes through. Not safe for concurrent use — the execution loop drives
// exactly one Instance from its single runtime thread (spec.md §5).
type Instance struct {
	module api.Module

	funcCache map[string]*Function

	userData      any
	onSetUserData func(any)

	// stackBuf is reused across every CallFunction invocation so the hot
	// path allocates nothing, mirroring WazeroInstance.stackBuf in
	// wippyai-wasm-runtime/engine/wazero.go.
	stackBuf [16]uint64
}

// FindFunction resolves name to a callable export, caching the result so
// repeat lookups (one per node, once at load) are free.
func (i *Instance) FindFunction(name string) (*Function, error) {
	if f, ok := i.funcCache[name]; ok {
		return f, nil
	}
	raw := i.module.ExportedFunction(name)
	if raw == nil {
		return nil, &LoadError{Cause: errNoSuchFunction(name)}
	}
	f := &Function{name: name, fn: raw}
	i.funcCache[name] = f
	return f, nil
}

// SetUserData attaches a per-instance context value, retrievable from host
// functions through whatever channel the embedder wired at instantiation
// (InstanceConfig.OnSetUserData). In this runtime the active node adapter
// is what gets latched: the task orchestrator calls SetUserData(node)
// immediately before CallFunction so host bindings observe the right node
// key for state-variable scoping and trap attribution.
func (i *Instance) SetUserData(v any) {
	i.userData = v
	if i.onSetUserData != nil {
		i.onSetUserData(v)
	}
}

// UserData returns the value last passed to SetUserData.
func (i *Instance) UserData() any { return i.userData }

// CallFunction invokes fn with the first nargs slots of args as
// parameters, and writes up to nresults slots of results back into
// results. A trap inside the function surfaces as a *TrapError; the
// caller (the tick orchestrator) reports it as a wasm_panic through the
// error handler and skips that node for the rest of the tick.
//
// args and results may safely alias the same StackSlots backing array —
// CallWithStack writes results in place over the parameter slots, exactly
// as wazero's own allocator call sites do.
func (i *Instance) CallFunction(ctx context.Context, fn *Function, nargs int, args *StackSlots, nresults int, results *StackSlots) error {
	n := nargs
	if nresults > n {
		n = nresults
	}
	stack := i.stackBuf[:n]
	for idx := 0; idx < nargs; idx++ {
		stack[idx] = args[idx].raw()
	}

	if err := fn.fn.CallWithStack(ctx, stack); err != nil {
		return &TrapError{Function: fn.name, Cause: err}
	}

	defs := fn.fn.Definition().ResultTypes()
	for idx := 0; idx < nresults && idx < len(defs); idx++ {
		results[idx] = fromRaw(kindOfValueType(defs[idx]), stack[idx])
	}
	return nil
}

func kindOfValueType(t api.ValueType) Kind {
	switch t {
	case api.ValueTypeI64:
		return KindI64
	case api.ValueTypeF32:
		return KindF32
	case api.ValueTypeF64:
		return KindF64
	default:
		return KindI32
	}
}

// Close tears down the instance's linear memory and exported functions.
func (i *Instance) Close(ctx context.Context) error {
	return i.module.Close(ctx)
}

type errNoSuchFunction string

func (e errNoSuchFunction) Error() string { return "no such exported function: " + string(e) }
