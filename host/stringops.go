package host

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/synnaxlabs/arc-runtime/state"
)

// registerStringOps wires family 7. Every binding that reads WASM linear
// memory goes through api.Memory.Read, which itself enforces
// offset+length <= memory.Size() and reports failure via its ok return
// rather than panicking — the host-side equivalent of spec.md's explicit
// bounds check.
func registerStringOps(b *Bindings, m wazero.HostModuleBuilder) {
	m.NewFunctionBuilder().WithFunc(func(_ context.Context, mod api.Module, ptr, length uint32) uint32 {
		buf, ok := mod.Memory().Read(ptr, length)
		if !ok {
			return 0
		}
		return uint32(b.container.StringCreate(string(buf)))
	}).Export("string_from_literal")

	m.NewFunctionBuilder().WithFunc(func(h1, h2 uint32) uint32 {
		s1, ok1 := b.container.StringGet(state.Handle(h1))
		s2, ok2 := b.container.StringGet(state.Handle(h2))
		if h1 != 0 && !ok1 {
			return 0
		}
		if h2 != 0 && !ok2 {
			return 0
		}
		return uint32(b.container.StringCreate(s1 + s2))
	}).Export("string_concat")

	m.NewFunctionBuilder().WithFunc(func(h1, h2 uint32) uint32 {
		if h1 == h2 {
			return 1
		}
		s1, _ := b.container.StringGet(state.Handle(h1))
		s2, _ := b.container.StringGet(state.Handle(h2))
		if s1 == s2 {
			return 1
		}
		return 0
	}).Export("string_equal")

	stringLen := func(h uint32) uint32 {
		if h == 0 {
			return 0
		}
		s, ok := b.container.StringGet(state.Handle(h))
		if !ok {
			return 0
		}
		return uint32(len(s))
	}
	m.NewFunctionBuilder().WithFunc(stringLen).Export("string_len")

	// len delegates to string_len: the compiler emits the same generic
	// call site for both string and series handles, and the handle table
	// has no kind tag visible to WASM, so the two-arity-64 series_len and
	// this one coexist as distinct imports.
	m.NewFunctionBuilder().WithFunc(func(h uint32) uint64 {
		return uint64(stringLen(h))
	}).Export("len")
}
