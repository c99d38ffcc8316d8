package wasmrt

import (
	"context"
	"testing"
)

// runOK is a minimal module exporting a niladic "run" function with an
// empty body, hand-encoded the same way
// wippyai-wasm-runtime/engine/wazero_test.go builds its fixture modules.
var runOK = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00, // type section: () -> ()
	0x03, 0x02, 0x01, 0x00, // function section: one func, type 0
	0x07, 0x07, 0x01, 0x03, 0x72, 0x75, 0x6e, 0x00, 0x00, // export "run"
	0x0a, 0x04, 0x01, 0x02, 0x00, 0x0b, // code: empty body
}

// runTrap is the same shape, but the body is a single unreachable
// instruction, so calling "run" always traps.
var runTrap = []byte{
	0x00, 0x61, 0x73, 0x6d,
	0x01, 0x00, 0x00, 0x00,
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x07, 0x01, 0x03, 0x72, 0x75, 0x6e, 0x00, 0x00,
	0x0a, 0x05, 0x01, 0x03, 0x00, 0x00, 0x0b,
}

func TestCompileInstantiateCallFunction(t *testing.T) {
	ctx := context.Background()
	e, err := NewEngine(ctx, Config{})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	defer e.Close(ctx)

	mod, err := e.CompileModule(ctx, runOK)
	if err != nil {
		t.Fatalf("CompileModule() error = %v", err)
	}
	defer mod.Close(ctx)

	var gotUserData any
	inst, err := mod.Instantiate(ctx, InstanceConfig{
		OnSetUserData: func(v any) { gotUserData = v },
	})
	if err != nil {
		t.Fatalf("Instantiate() error = %v", err)
	}
	defer inst.Close(ctx)

	fn, err := inst.FindFunction("run")
	if err != nil {
		t.Fatalf("FindFunction() error = %v", err)
	}

	inst.SetUserData("node-a")
	if gotUserData != "node-a" {
		t.Fatalf("OnSetUserData not invoked, got %v", gotUserData)
	}

	var slots StackSlots
	if err := inst.CallFunction(ctx, fn, 0, &slots, 0, &slots); err != nil {
		t.Fatalf("CallFunction() error = %v", err)
	}

	// Calling the same cached function a second time must not allocate a
	// new entry.
	fn2, err := inst.FindFunction("run")
	if err != nil {
		t.Fatalf("FindFunction() second call error = %v", err)
	}
	if fn2 != fn {
		t.Fatalf("FindFunction() did not return the cached *Function")
	}
}

func TestCallFunctionTrapSurfacesAsTrapError(t *testing.T) {
	ctx := context.Background()
	e, err := NewEngine(ctx, Config{})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	defer e.Close(ctx)

	mod, err := e.CompileModule(ctx, runTrap)
	if err != nil {
		t.Fatalf("CompileModule() error = %v", err)
	}
	defer mod.Close(ctx)

	inst, err := mod.Instantiate(ctx, InstanceConfig{})
	if err != nil {
		t.Fatalf("Instantiate() error = %v", err)
	}
	defer inst.Close(ctx)

	fn, err := inst.FindFunction("run")
	if err != nil {
		t.Fatalf("FindFunction() error = %v", err)
	}

	var slots StackSlots
	err = inst.CallFunction(ctx, fn, 0, &slots, 0, &slots)
	if err == nil {
		t.Fatal("expected a trap error")
	}
	if _, ok := err.(*TrapError); !ok {
		t.Fatalf("expected *TrapError, got %T: %v", err, err)
	}
}

func TestFindFunctionUnknownExport(t *testing.T) {
	ctx := context.Background()
	e, err := NewEngine(ctx, Config{})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	defer e.Close(ctx)

	mod, err := e.CompileModule(ctx, runOK)
	if err != nil {
		t.Fatalf("CompileModule() error = %v", err)
	}
	defer mod.Close(ctx)

	inst, err := mod.Instantiate(ctx, InstanceConfig{})
	if err != nil {
		t.Fatalf("Instantiate() error = %v", err)
	}
	defer inst.Close(ctx)

	if _, err := inst.FindFunction("does_not_exist"); err == nil {
		t.Fatal("expected an error for an unresolved export")
	}
}
