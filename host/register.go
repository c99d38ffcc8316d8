package host

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Build registers every host binding family, in the order spec.md §4.4
// enumerates them, and instantiates the resulting host module under
// ModuleName. The returned api.Module must be instantiated before any
// guest module that imports from ModuleName.
func (b *Bindings) Build(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	m := rt.NewHostModuleBuilder(ModuleName)

	registerChannelScalars(b, m)  // 1: channel scalar read/write
	registerChannelString(b, m)   // 2: channel string read/write
	registerSeriesOps(b, m)       // 3: series ops + state-scoped series handle
	registerSeriesUnary(b, m)     // 4: series unary
	registerStateScalars(b, m)    // 5: state scalar load/store
	registerSeriesLenSlice(b, m)  // 6: series length and slicing
	registerStringOps(b, m)       // 7: string ops
	registerMisc(b, m)            // 8: now, math_pow, panic

	return m.Instantiate(ctx)
}
