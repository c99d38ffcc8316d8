package wasmrt

import (
	"context"

	"github.com/tetratelabs/wazero"
)

// Module is a compiled, not-yet-instantiated WASM module (wazero calls
// this a CompiledModule). It may be instantiated repeatedly; each call to
// Instantiate produces an independent Instance with its own linear memory
// and handle-table-scoped state.
type Module struct {
	engine   *Engine
	compiled wazero.CompiledModule
}

// InstanceConfig controls one instantiate() call. spec.md §4.5's "no WASM
// heap, only the host-managed handle table" memory budget is enforced at
// the Engine, not here: wazero's WithMemoryLimitPages is a
// wazero.RuntimeConfig knob, not a per-instance one, so every Instance
// produced by a given Engine shares that Engine's Config.MemoryLimitPages
// ceiling. There is no per-instantiate override.
type InstanceConfig struct {
	Name          string
	OnSetUserData func(any)
}

// Instantiate creates one Instance from the compiled module, binding any
// host modules previously registered against the same Engine's runtime.
func (m *Module) Instantiate(ctx context.Context, cfg InstanceConfig) (*Instance, error) {
	modCfg := wazero.NewModuleConfig().WithName(cfg.Name)

	mod, err := m.engine.runtime.InstantiateModule(ctx, m.compiled, modCfg)
	if err != nil {
		return nil, err
	}

	return &Instance{
		module:        mod,
		funcCache:     make(map[string]*Function),
		onSetUserData: cfg.OnSetUserData,
	}, nil
}

// Close releases the compiled module and every instance derived from it.
func (m *Module) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}
