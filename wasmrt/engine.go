package wasmrt

import (
	"context"

	"github.com/tetratelabs/wazero"
)

// Config controls the engine created once per process lifetime.
type Config struct {
	// MemoryLimitPages bounds the WASM linear memory every instance may
	// grow to, in 64KB pages. 0 selects wazero's default (4GB).
	MemoryLimitPages uint32
}

// Engine owns one wazero.Runtime and compiles modules ahead of time, per
// spec.md §4.5's "load a precompiled (AOT) module" requirement. One Engine
// serves every Module/Instance created from it; Close tears all of them
// down.
type Engine struct {
	runtime wazero.Runtime
}

// NewEngine is the once-per-process initialize_runtime call of spec.md
// §4.5. The returned Engine must be closed with Close (destroy_runtime)
// exactly once, after every Instance derived from it has been closed.
func NewEngine(ctx context.Context, cfg Config) (*Engine, error) {
	rtCfg := wazero.NewRuntimeConfigCompiler()
	if cfg.MemoryLimitPages > 0 {
		rtCfg = rtCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	return &Engine{runtime: wazero.NewRuntimeWithConfig(ctx, rtCfg)}, nil
}

// Close releases every resource owned by the engine, including every
// CompiledModule and Instance derived from it.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Runtime exposes the underlying wazero.Runtime so a host binding table
// (host.Bindings.Build) can register its host module against the same
// runtime before any guest module is instantiated.
func (e *Engine) Runtime() wazero.Runtime {
	return e.runtime
}

// CompileModule is load_aot_module: it decodes, validates, and
// ahead-of-time compiles the given bytes, failing with a typed error on a
// malformed module. The result may be instantiated any number of times.
func (e *Engine) CompileModule(ctx context.Context, wasmBytes []byte) (*Module, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, &LoadError{Cause: err}
	}
	return &Module{engine: e, compiled: compiled}, nil
}
