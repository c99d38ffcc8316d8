package host

import "github.com/synnaxlabs/arc-runtime/telem"

// wazero's WithFunc binding only reflects Go's uint32, uint64, float32 and
// float64 directly. Every narrower or signed numeric kind is carried over
// the import boundary as a raw bit pattern in a uint32 or uint64 and
// reinterpreted inside the binding body, per spec.md §4.4's widening rule.
// Go's integer conversion rules (sign-extend on narrow->wide, truncate on
// wide->narrow) happen to reproduce exactly the two's-complement
// reinterpretation the WASM ABI expects, so these helpers are bare
// conversions rather than bit-twiddling.

// widen32 packs an integer kind narrower than or equal to i32/u32 into its
// wasm i32 wire representation.
func widen32[T telem.Numeric](v T) uint32 { return uint32(v) }

// narrow32 unpacks a wasm i32 argument back into T.
func narrow32[T telem.Numeric](raw uint32) T { return T(raw) }

// widen64 packs an i64/u64 kind into its wasm i64 wire representation.
func widen64[T telem.Numeric](v T) uint64 { return uint64(v) }

// narrow64 unpacks a wasm i64 argument back into T.
func narrow64[T telem.Numeric](raw uint64) T { return T(raw) }
