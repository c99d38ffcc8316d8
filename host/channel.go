package host

import (
	"github.com/tetratelabs/wazero"

	"github.com/synnaxlabs/arc-runtime/state"
	"github.com/synnaxlabs/arc-runtime/telem"
	"github.com/synnaxlabs/arc-runtime/types"
)

// channelReadCore returns the last element of the most recently ingested
// series for channelID, or the zero value if nothing has been ingested
// this tick.
func channelReadCore[T telem.Numeric](b *Bindings, channelID uint32) T {
	var zero T
	ms, ok := b.container.ReadChannel(channelID)
	if !ok {
		return zero
	}
	last := ms.Last()
	if last == nil || last.IsEmpty() {
		return zero
	}
	return telem.At[T](last, -1)
}

// channelWriteCore appends a one-sample series timestamped now() to
// channelID via the state container.
func channelWriteCore[T telem.Numeric](b *Bindings, channelID uint32, v T) {
	data := telem.NewSeries(telem.KindOf[T](), 0)
	telem.Write(data, v)
	ts := telem.NewSeries(types.I64, 0)
	ts.WriteTimestamp(telem.Now())
	b.container.WriteChannel(channelID, data, ts)
}

// registerChannelScalar32 wires channel_read_<suffix>/channel_write_<suffix>
// for a kind narrow enough to fit the wasm i32 wire type (u8, u16, u32, i8,
// i16, i32).
func registerChannelScalar32[T telem.Numeric](b *Bindings, m wazero.HostModuleBuilder, suffix string) {
	m.NewFunctionBuilder().WithFunc(func(channelID uint32) uint32 {
		return widen32(channelReadCore[T](b, channelID))
	}).Export("channel_read_" + suffix)

	m.NewFunctionBuilder().WithFunc(func(channelID, raw uint32) {
		channelWriteCore(b, channelID, narrow32[T](raw))
	}).Export("channel_write_" + suffix)
}

// registerChannelScalar64 wires channel_read_<suffix>/channel_write_<suffix>
// for u64/i64.
func registerChannelScalar64[T telem.Numeric](b *Bindings, m wazero.HostModuleBuilder, suffix string) {
	m.NewFunctionBuilder().WithFunc(func(channelID uint32) uint64 {
		return widen64(channelReadCore[T](b, channelID))
	}).Export("channel_read_" + suffix)

	m.NewFunctionBuilder().WithFunc(func(channelID uint32, raw uint64) {
		channelWriteCore(b, channelID, narrow64[T](raw))
	}).Export("channel_write_" + suffix)
}

func registerChannelScalarF32(b *Bindings, m wazero.HostModuleBuilder) {
	m.NewFunctionBuilder().WithFunc(func(channelID uint32) float32 {
		return channelReadCore[float32](b, channelID)
	}).Export("channel_read_f32")

	m.NewFunctionBuilder().WithFunc(func(channelID uint32, v float32) {
		channelWriteCore(b, channelID, v)
	}).Export("channel_write_f32")
}

func registerChannelScalarF64(b *Bindings, m wazero.HostModuleBuilder) {
	m.NewFunctionBuilder().WithFunc(func(channelID uint32) float64 {
		return channelReadCore[float64](b, channelID)
	}).Export("channel_read_f64")

	m.NewFunctionBuilder().WithFunc(func(channelID uint32, v float64) {
		channelWriteCore(b, channelID, v)
	}).Export("channel_write_f64")
}

// registerChannelScalars wires family 1: channel scalar read/write for
// every numeric kind.
func registerChannelScalars(b *Bindings, m wazero.HostModuleBuilder) {
	registerChannelScalar32[uint8](b, m, "u8")
	registerChannelScalar32[uint16](b, m, "u16")
	registerChannelScalar32[uint32](b, m, "u32")
	registerChannelScalar64[uint64](b, m, "u64")
	registerChannelScalar32[int8](b, m, "i8")
	registerChannelScalar32[int16](b, m, "i16")
	registerChannelScalar32[int32](b, m, "i32")
	registerChannelScalar64[int64](b, m, "i64")
	registerChannelScalarF32(b, m)
	registerChannelScalarF64(b, m)
}

// registerChannelString wires family 2: channel string read/write, routed
// through the handle table instead of a raw scalar.
func registerChannelString(b *Bindings, m wazero.HostModuleBuilder) {
	m.NewFunctionBuilder().WithFunc(func(channelID uint32) uint32 {
		ms, ok := b.container.ReadChannel(channelID)
		if !ok {
			return 0
		}
		last := ms.Last()
		if last == nil || last.IsEmpty() {
			return 0
		}
		return uint32(b.container.StringCreate(last.AtString(-1)))
	}).Export("channel_read_str")

	m.NewFunctionBuilder().WithFunc(func(channelID, h uint32) {
		s, ok := b.container.StringGet(state.Handle(h))
		if !ok && h != 0 {
			return
		}
		data := telem.NewSeries(types.String, 0)
		data.WriteString(s)
		ts := telem.NewSeries(types.I64, 0)
		ts.WriteTimestamp(telem.Now())
		b.container.WriteChannel(channelID, data, ts)
	}).Export("channel_write_str")
}
