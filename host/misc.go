package host

import (
	"context"
	"math"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/synnaxlabs/arc-runtime/telem"
)

// intPow is the repeated-multiply loop spec.md §4.4 calls for over integer
// kinds: 1 at exp == 0, and a silent clamp to zero on a negative exponent
// rather than the "undefined" spec.md leaves open for unsigned types.
func intPow[T telem.Integer](base, exp T) T {
	var zero T
	one := zero + 1
	if exp == zero {
		return one
	}
	if exp < zero {
		return zero
	}
	result := one
	for i := zero; i < exp; i++ {
		result *= base
	}
	return result
}

func registerMathPow32[T telem.Integer](b *Bindings, m wazero.HostModuleBuilder, suffix string) {
	m.NewFunctionBuilder().WithFunc(func(base, exp uint32) uint32 {
		return widen32(intPow(narrow32[T](base), narrow32[T](exp)))
	}).Export("math_pow_" + suffix)
}

func registerMathPow64[T telem.Integer](b *Bindings, m wazero.HostModuleBuilder, suffix string) {
	m.NewFunctionBuilder().WithFunc(func(base, exp uint64) uint64 {
		return widen64(intPow(narrow64[T](base), narrow64[T](exp)))
	}).Export("math_pow_" + suffix)
}

// registerMisc wires family 8: now(), math_pow_<T> for every numeric kind,
// and panic(ptr, len).
func registerMisc(b *Bindings, m wazero.HostModuleBuilder) {
	m.NewFunctionBuilder().WithFunc(func() uint64 {
		return uint64(telem.Now())
	}).Export("now")

	registerMathPow32[uint8](b, m, "u8")
	registerMathPow32[uint16](b, m, "u16")
	registerMathPow32[uint32](b, m, "u32")
	registerMathPow64[uint64](b, m, "u64")
	registerMathPow32[int8](b, m, "i8")
	registerMathPow32[int16](b, m, "i16")
	registerMathPow32[int32](b, m, "i32")
	registerMathPow64[int64](b, m, "i64")

	m.NewFunctionBuilder().WithFunc(func(base, exp float32) float32 {
		return float32(math.Pow(float64(base), float64(exp)))
	}).Export("math_pow_f32")
	m.NewFunctionBuilder().WithFunc(func(base, exp float64) float64 {
		return math.Pow(base, exp)
	}).Export("math_pow_f64")

	m.NewFunctionBuilder().WithFunc(func(_ context.Context, mod api.Module, ptr, length uint32) {
		msg := "panic"
		if buf, ok := mod.Memory().Read(ptr, length); ok {
			msg = string(buf)
		}
		b.trap(msg, nil)
	}).Export("panic")
}
