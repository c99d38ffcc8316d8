// Package task implements the tick orchestrator of spec.md §4.7: the
// single-threaded loop that waits for a wake reason, drains the input
// queue into the state container, walks the IR's strata calling each
// ready node's compiled function, flushes writes to the output queue, and
// clears the tick's read buffer.
//
// Grounded on original_source/arc/cpp/runtime/factory/factory_test.cpp
// and module_test.cpp for the per-tick sequencing, and on
// wippyai-wasm-runtime/runtime/runtime.go for the "own an engine, own a
// host registry, build modules against both" composition style.
package task
