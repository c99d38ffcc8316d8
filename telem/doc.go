// Package telem implements Series, the Arc runtime's typed, contiguous,
// length-prefixed sample buffer, plus MultiSeries (an ordered run of
// Series returned by channel reads) and the canonical nanosecond
// TimeStamp. Series element access and arithmetic are implemented with
// Go generics parameterized over the scalar kind, replacing the
// macro-expanded per-type C++ functions in
// original_source/arc/cpp/runtime/wasm/bindings.cpp with a single generic
// definition per operation family.
package telem
