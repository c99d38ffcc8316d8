package host

import (
	"github.com/tetratelabs/wazero"

	"github.com/synnaxlabs/arc-runtime/state"
	"github.com/synnaxlabs/arc-runtime/telem"
)

// registerStateScalar32 wires state_load_<suffix>/state_store_<suffix> for
// a kind narrow enough for the i32 wire type. var_id is a handle into the
// string table, interned by the compiler via string_from_literal at
// module load.
func registerStateScalar32[T telem.Numeric](b *Bindings, m wazero.HostModuleBuilder, suffix string) {
	m.NewFunctionBuilder().WithFunc(func(varIDHandle, initRaw uint32) uint32 {
		varID, ok := b.container.StringGet(state.Handle(varIDHandle))
		if !ok {
			return initRaw
		}
		v := state.VarLoad(b.container, b.activeKey(), varID, narrow32[T](initRaw))
		return widen32(v)
	}).Export("state_load_" + suffix)

	m.NewFunctionBuilder().WithFunc(func(varIDHandle, raw uint32) {
		varID, ok := b.container.StringGet(state.Handle(varIDHandle))
		if !ok {
			return
		}
		state.VarStore(b.container, b.activeKey(), varID, narrow32[T](raw))
	}).Export("state_store_" + suffix)
}

func registerStateScalar64[T telem.Numeric](b *Bindings, m wazero.HostModuleBuilder, suffix string) {
	m.NewFunctionBuilder().WithFunc(func(varIDHandle uint32, initRaw uint64) uint64 {
		varID, ok := b.container.StringGet(state.Handle(varIDHandle))
		if !ok {
			return initRaw
		}
		v := state.VarLoad(b.container, b.activeKey(), varID, narrow64[T](initRaw))
		return widen64(v)
	}).Export("state_load_" + suffix)

	m.NewFunctionBuilder().WithFunc(func(varIDHandle uint32, raw uint64) {
		varID, ok := b.container.StringGet(state.Handle(varIDHandle))
		if !ok {
			return
		}
		state.VarStore(b.container, b.activeKey(), varID, narrow64[T](raw))
	}).Export("state_store_" + suffix)
}

func registerStateScalarF32(b *Bindings, m wazero.HostModuleBuilder) {
	m.NewFunctionBuilder().WithFunc(func(varIDHandle uint32, init float32) float32 {
		varID, ok := b.container.StringGet(state.Handle(varIDHandle))
		if !ok {
			return init
		}
		return state.VarLoad(b.container, b.activeKey(), varID, init)
	}).Export("state_load_f32")

	m.NewFunctionBuilder().WithFunc(func(varIDHandle uint32, v float32) {
		varID, ok := b.container.StringGet(state.Handle(varIDHandle))
		if !ok {
			return
		}
		state.VarStore(b.container, b.activeKey(), varID, v)
	}).Export("state_store_f32")
}

func registerStateScalarF64(b *Bindings, m wazero.HostModuleBuilder) {
	m.NewFunctionBuilder().WithFunc(func(varIDHandle uint32, init float64) float64 {
		varID, ok := b.container.StringGet(state.Handle(varIDHandle))
		if !ok {
			return init
		}
		return state.VarLoad(b.container, b.activeKey(), varID, init)
	}).Export("state_load_f64")

	m.NewFunctionBuilder().WithFunc(func(varIDHandle uint32, v float64) {
		varID, ok := b.container.StringGet(state.Handle(varIDHandle))
		if !ok {
			return
		}
		state.VarStore(b.container, b.activeKey(), varID, v)
	}).Export("state_store_f64")
}

// registerStateScalarStr wires state_load_str/state_store_str: the stored
// value is itself a string handle, loaded/stored through the same generic
// VarLoad/VarStore used for numeric kinds.
func registerStateScalarStr(b *Bindings, m wazero.HostModuleBuilder) {
	m.NewFunctionBuilder().WithFunc(func(varIDHandle, initHandle uint32) uint32 {
		varID, ok := b.container.StringGet(state.Handle(varIDHandle))
		if !ok {
			return initHandle
		}
		return uint32(state.VarLoad(b.container, b.activeKey(), varID, state.Handle(initHandle)))
	}).Export("state_load_str")

	m.NewFunctionBuilder().WithFunc(func(varIDHandle, h uint32) {
		varID, ok := b.container.StringGet(state.Handle(varIDHandle))
		if !ok {
			return
		}
		state.VarStore(b.container, b.activeKey(), varID, state.Handle(h))
	}).Export("state_store_str")
}

// registerStateScalars wires family 5 for every numeric kind plus string.
func registerStateScalars(b *Bindings, m wazero.HostModuleBuilder) {
	registerStateScalar32[uint8](b, m, "u8")
	registerStateScalar32[uint16](b, m, "u16")
	registerStateScalar32[uint32](b, m, "u32")
	registerStateScalar64[uint64](b, m, "u64")
	registerStateScalar32[int8](b, m, "i8")
	registerStateScalar32[int16](b, m, "i16")
	registerStateScalar32[int32](b, m, "i32")
	registerStateScalar64[int64](b, m, "i64")
	registerStateScalarF32(b, m)
	registerStateScalarF64(b, m)
	registerStateScalarStr(b, m)
}
