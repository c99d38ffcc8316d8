// Package wasmrt wraps wazero to provide the narrow WASM runtime contract
// the execution loop depends on: load a precompiled module, instantiate it,
// resolve and cache exported functions, and invoke them through fixed-size
// stack buffers with no allocation on the hot path. Instantiation takes no
// stack or heap size; linear memory may grow up to the Engine-wide
// Config.MemoryLimitPages (0 leaves wazero's own default limit).
//
// Grounded on the host-module instantiation and reusable-stack-buffer
// idioms in wippyai-wasm-runtime/engine/wazero.go (WazeroEngine,
// WazeroModule, WazeroInstance.stackBuf / CallWithStack), stripped of the
// Component Model / asyncify / canonical-ABI machinery that module does
// not need here: stage entry points are niladic, and all I/O flows through
// host bindings rather than function arguments.
package wasmrt
