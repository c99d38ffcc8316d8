package wasmrt

import "math"

// Kind tags the active member of a WasmValue.
type Kind uint8

const (
	KindI32 Kind = iota
	KindI64
	KindF32
	KindF64
)

// WasmValue is a tagged union over WASM's four value types, matching
// spec.md §4.5's description of the fixed argument/result slots. Stage
// entry points currently take no arguments and produce no results, but
// the slots are provisioned for forward compatibility.
type WasmValue struct {
	kind Kind
	bits uint64
}

func I32(v int32) WasmValue { return WasmValue{kind: KindI32, bits: uint64(uint32(v))} }
func I64(v int64) WasmValue { return WasmValue{kind: KindI64, bits: uint64(v)} }
func F32(v float32) WasmValue {
	return WasmValue{kind: KindF32, bits: uint64(math.Float32bits(v))}
}
func F64(v float64) WasmValue { return WasmValue{kind: KindF64, bits: math.Float64bits(v)} }

func (v WasmValue) Kind() Kind   { return v.kind }
func (v WasmValue) I32() int32   { return int32(uint32(v.bits)) }
func (v WasmValue) I64() int64   { return int64(v.bits) }
func (v WasmValue) F32() float32 { return math.Float32frombits(uint32(v.bits)) }
func (v WasmValue) F64() float64 { return math.Float64frombits(v.bits) }
func (v WasmValue) raw() uint64  { return v.bits }

func fromRaw(k Kind, raw uint64) WasmValue { return WasmValue{kind: k, bits: raw} }

// StackSlots is the fixed 16-element argument/result buffer spec.md §4.5
// requires: a caller-owned array reused across ticks so CallFunction never
// allocates on the hot path.
type StackSlots [16]WasmValue
