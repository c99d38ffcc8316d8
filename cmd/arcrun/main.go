// Command arcrun is a non-interactive debugging harness: it loads an
// AOT-compiled stage module and its paired JSON IR, runs the module for a
// fixed number of ticks with no external channel input, and prints every
// flushed channel write. It is the demo analogue of the teacher's
// `cmd/run`, stripped of component-model/WASI/TUI concerns this runtime
// does not have.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/synnaxlabs/arc-runtime/errors"
	"github.com/synnaxlabs/arc-runtime/ir"
	"github.com/synnaxlabs/arc-runtime/looprt"
	"github.com/synnaxlabs/arc-runtime/queue"
	"github.com/synnaxlabs/arc-runtime/state"
	"github.com/synnaxlabs/arc-runtime/task"
	"github.com/synnaxlabs/arc-runtime/telem"
	"github.com/synnaxlabs/arc-runtime/types"
	"github.com/synnaxlabs/arc-runtime/wasmrt"
)

func main() {
	var (
		wasmFile = flag.String("wasm", "", "path to an AOT-compiled stage module")
		irFile   = flag.String("ir", "", "path to the compiler's JSON IR output")
		ticks    = flag.Int("ticks", 10, "number of ticks to run")
		mode     = flag.String("mode", "auto", "execution loop mode: auto, busy_wait, high_rate, hybrid, event_driven, rt_event")
		interval = flag.Duration("interval", 0, "tick interval; 0 lets the mode decide")
		verbose  = flag.Bool("v", false, "enable development logging")
	)
	flag.Parse()

	if *wasmFile == "" || *irFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: arcrun -wasm <module.wasm> -ir <module.ir.json> [-ticks N] [-mode mode] [-interval d] [-v]")
		os.Exit(1)
	}

	if err := run(*wasmFile, *irFile, *ticks, *mode, *interval, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "arcrun: %v\n", err)
		os.Exit(1)
	}
}

func run(wasmFile, irFile string, ticks int, mode string, interval time.Duration, verbose bool) error {
	ctx := context.Background()

	wasmBytes, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read wasm module: %w", err)
	}

	irBytes, err := os.ReadFile(irFile)
	if err != nil {
		return fmt.Errorf("read ir file: %w", err)
	}
	var module ir.Module
	if err := json.Unmarshal(irBytes, &module); err != nil {
		return fmt.Errorf("decode ir file: %w", err)
	}

	log := zap.NewNop()
	if verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		log = dev
	}
	defer log.Sync()

	engine, err := wasmrt.NewEngine(ctx, wasmrt.Config{})
	if err != nil {
		return fmt.Errorf("start wasm engine: %w", err)
	}
	defer engine.Close(ctx)

	output := queue.NewRing[queue.ChannelWrite](64)

	runner, err := task.New(ctx, task.Config{
		Module:      &module,
		Engine:      engine,
		WasmBytes:   wasmBytes,
		StateConfig: state.Config{Module: &module},
		LoopConfig:  looprt.Config{Mode: looprt.Mode(mode), Interval: interval},
		Output:      output,
		OnError: func(e *errors.Error) {
			fmt.Fprintf(os.Stderr, "arcrun: %v\n", e)
		},
		Log: log,
	})
	if err != nil {
		return fmt.Errorf("build runner: %w", err)
	}
	defer runner.Close(ctx)

	for i := 0; i < ticks; i++ {
		shutdown, err := runner.Tick(ctx)
		if err != nil {
			return fmt.Errorf("tick %d: %w", i, err)
		}
		if shutdown {
			fmt.Printf("shutdown requested after %d ticks\n", i)
			break
		}
		for {
			w, ok := output.TryPop()
			if !ok {
				break
			}
			fmt.Printf("tick %d: channel %d <- %s\n", i, w.ChannelKey, formatSample(w.Data))
		}
	}

	return nil
}

// formatSample renders the last sample of a flushed write for display,
// switching on the series' declared kind the same way node.IsOutputTruthy
// does.
func formatSample(s *telem.Series) string {
	if s == nil || s.IsEmpty() {
		return "<empty>"
	}
	switch s.DataType() {
	case types.String:
		return s.AtString(-1)
	case types.F32:
		return fmt.Sprintf("%g", telem.At[float32](s, -1))
	case types.F64:
		return fmt.Sprintf("%g", telem.At[float64](s, -1))
	case types.U8:
		return fmt.Sprintf("%d", telem.At[uint8](s, -1))
	case types.U16:
		return fmt.Sprintf("%d", telem.At[uint16](s, -1))
	case types.U32:
		return fmt.Sprintf("%d", telem.At[uint32](s, -1))
	case types.U64:
		return fmt.Sprintf("%d", telem.At[uint64](s, -1))
	case types.I8:
		return fmt.Sprintf("%d", telem.At[int8](s, -1))
	case types.I16:
		return fmt.Sprintf("%d", telem.At[int16](s, -1))
	case types.I32:
		return fmt.Sprintf("%d", telem.At[int32](s, -1))
	case types.I64:
		return fmt.Sprintf("%d", telem.At[int64](s, -1))
	default:
		return fmt.Sprintf("<%d samples>", s.Len())
	}
}
