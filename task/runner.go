package task

import (
	"context"
	"fmt"
	"time"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/synnaxlabs/arc-runtime/errors"
	"github.com/synnaxlabs/arc-runtime/host"
	"github.com/synnaxlabs/arc-runtime/ir"
	"github.com/synnaxlabs/arc-runtime/looprt"
	"github.com/synnaxlabs/arc-runtime/node"
	"github.com/synnaxlabs/arc-runtime/notify"
	"github.com/synnaxlabs/arc-runtime/queue"
	"github.com/synnaxlabs/arc-runtime/state"
	"github.com/synnaxlabs/arc-runtime/wasmrt"
)

// Config assembles one Runner: the compiled module, the engine to load it
// into, the state container configuration, the execution loop
// configuration, and the input/output queues the I/O threads drive.
type Config struct {
	Module *ir.Module

	Engine    *wasmrt.Engine
	WasmBytes []byte

	StateConfig state.Config
	LoopConfig  looprt.Config
	// MaxInterval feeds looprt.Config.ApplyDefaults — the longest tick
	// interval any node in the module tolerates, used to pick a
	// high_rate/hybrid interval when the caller leaves one unconfigured.
	MaxInterval time.Duration

	// Input and Output are optional; a nil queue means that direction is
	// unused (e.g. a module with no external channel writes).
	Input  *queue.Ring[queue.FrameUpdate]
	Output *queue.Ring[queue.ChannelWrite]
	// InputNotifier is signalled by the producer after every Input.Push;
	// the loop watches it so a waiting tick wakes promptly on new data.
	InputNotifier notify.Notifier

	OnError errors.Handler
	Log     *zap.Logger
}

// Runner drives one compiled module's ticks. Not safe for concurrent use:
// spec.md §5 confines all of this to a single runtime thread.
type Runner struct {
	module    *ir.Module
	container *state.Container
	nodes     map[string]*node.Node
	fnCache   map[string]*wasmrt.Function

	bindings   *host.Bindings
	hostModule api.Module
	compiled   *wasmrt.Module
	instance   *wasmrt.Instance

	loop    *looprt.Loop
	breaker *looprt.Breaker

	input  *queue.Ring[queue.FrameUpdate]
	output *queue.Ring[queue.ChannelWrite]

	onError errors.Handler
	log     *zap.Logger
}

// New constructs a Runner: builds the host binding table, compiles and
// instantiates the WASM module against it, binds a node.Node adapter to
// every IR node, resolves each node type's compiled function once, and
// prepares the execution loop. No tick runs until Run or Tick is called.
func New(ctx context.Context, cfg Config) (*Runner, error) {
	if cfg.OnError == nil {
		cfg.OnError = errors.NopHandler
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	container := state.New(cfg.StateConfig)
	bindings := host.New(container, cfg.OnError, log)

	hostModule, err := bindings.Build(ctx, cfg.Engine.Runtime())
	if err != nil {
		return nil, fmt.Errorf("arc: build host bindings: %w", err)
	}

	compiled, err := cfg.Engine.CompileModule(ctx, cfg.WasmBytes)
	if err != nil {
		_ = hostModule.Close(ctx)
		return nil, fmt.Errorf("arc: compile module: %w", err)
	}

	instance, err := compiled.Instantiate(ctx, wasmrt.InstanceConfig{
		Name: "arc",
		OnSetUserData: func(v any) {
			n, _ := v.(*node.Node)
			bindings.SetActiveNode(n)
		},
	})
	if err != nil {
		_ = compiled.Close(ctx)
		_ = hostModule.Close(ctx)
		return nil, fmt.Errorf("arc: instantiate module: %w", err)
	}

	nodes := make(map[string]*node.Node, len(cfg.Module.Nodes))
	fnCache := make(map[string]*wasmrt.Function)
	for _, n := range cfg.Module.Nodes {
		adapter, err := node.New(container, cfg.Module, n.Key)
		if err != nil {
			return nil, fmt.Errorf("arc: build node %q: %w", n.Key, err)
		}
		nodes[n.Key] = adapter

		if _, ok := fnCache[n.Type]; !ok {
			fn, err := instance.FindFunction(n.Type)
			if err != nil {
				return nil, fmt.Errorf("arc: node %q: %w", n.Key, err)
			}
			fnCache[n.Type] = fn
		}
	}

	loopCfg := cfg.LoopConfig
	loopCfg.ApplyDefaults(cfg.MaxInterval)
	breaker := looprt.NewBreaker()
	loop, err := looprt.New(loopCfg, breaker)
	if err != nil {
		return nil, fmt.Errorf("arc: start execution loop: %w", err)
	}
	if cfg.InputNotifier != nil {
		loop.Watch(cfg.InputNotifier)
	}

	return &Runner{
		module:     cfg.Module,
		container:  container,
		nodes:      nodes,
		fnCache:    fnCache,
		bindings:   bindings,
		hostModule: hostModule,
		compiled:   compiled,
		instance:   instance,
		loop:       loop,
		breaker:    breaker,
		input:      cfg.Input,
		output:     cfg.Output,
		onError:    cfg.OnError,
		log:        log,
	}, nil
}

// Breaker returns the Runner's cooperative shutdown handle.
func (r *Runner) Breaker() *looprt.Breaker { return r.breaker }

// Tick executes one iteration of spec.md §4.7's ordered steps. shutdown is
// true when the loop woke with a shutdown reason and the caller should
// stop calling Tick; err is non-nil only for a condition the runner could
// not recover from within the tick (every per-node trap and queue
// overflow is instead reported through the configured errors.Handler and
// does not abort the tick).
func (r *Runner) Tick(ctx context.Context) (shutdown bool, err error) {
	if r.loop.Wait() == looprt.WakeShutdown {
		return true, nil
	}

	r.drainInput()
	r.runStrata(ctx)
	r.flushOutput()
	r.container.ClearReads()
	return false, nil
}

// Run calls Tick until it reports shutdown or a fatal error.
func (r *Runner) Run(ctx context.Context) error {
	for {
		shutdown, err := r.Tick(ctx)
		if err != nil {
			return err
		}
		if shutdown {
			return nil
		}
	}
}

func (r *Runner) drainInput() {
	if r.input == nil {
		return
	}
	for {
		fu, ok := r.input.TryPop()
		if !ok {
			return
		}
		r.container.Ingest(fu.ChannelKey, fu.Data, fu.Time)
	}
}

func (r *Runner) runStrata(ctx context.Context) {
	var slots wasmrt.StackSlots
	for _, stratum := range r.module.Strata {
		for _, key := range stratum {
			n, ok := r.nodes[key]
			if !ok || !n.RefreshInputs() {
				continue
			}

			irNode, ok := r.module.NodeByKey(key)
			if !ok {
				continue
			}
			fn, ok := r.fnCache[irNode.Type]
			if !ok {
				continue
			}

			r.instance.SetUserData(n)
			if callErr := r.instance.CallFunction(ctx, fn, 0, &slots, 0, &slots); callErr != nil {
				e := errors.WasmPanic(key, "node function trapped", callErr)
				r.log.Warn("node trapped", zap.String("node", key), zap.Error(e))
				r.onError(e)
			}
		}
	}
}

func (r *Runner) flushOutput() {
	if r.output == nil {
		r.container.FlushWrites()
		return
	}
	for _, fw := range r.container.FlushWrites() {
		write := queue.ChannelWrite{ChannelKey: fw.ChannelKey, Data: fw.Data, Time: fw.Time}
		if r.output.Push(write) {
			continue
		}
		// Queue full: drop the oldest entry on the output queue, whichever
		// channel it belongs to, and retry once.
		r.output.TryPop()
		pushed := r.output.Push(write)
		e := errors.QueueFullOutput(fw.ChannelKey, "output queue full, dropped oldest pending write")
		r.log.Warn("queue_full.output", zap.Uint32("channel", fw.ChannelKey), zap.Bool("recovered", pushed))
		r.onError(e)
	}
}

// Close tears down the instance, compiled module, host module, and
// execution loop, in reverse order of construction. Call only after Run
// (or the final Tick) has returned.
func (r *Runner) Close(ctx context.Context) error {
	return multierr.Combine(
		r.loop.Close(),
		r.instance.Close(ctx),
		r.compiled.Close(ctx),
		r.hostModule.Close(ctx),
	)
}
