// Package looprt implements the execution loop that provides the runtime
// core's thread of control (spec.md §4.6): a config-driven choice among
// five wake-latency/CPU tradeoffs, a cooperative shutdown Breaker, and a
// Notifier union wait that the tick orchestrator blocks on between ticks.
//
// Grounded on the Options/DefaultOptions config idiom in
// wippyai-wasm-runtime/linker/linker.go, generalized from a handful of
// linker flags to the richer mode/interval/affinity knobs spec.md §4.6
// describes.
package looprt

import (
	"runtime"
	"time"
)

// Mode selects the suspension primitive Wait uses between ticks.
type Mode string

const (
	ModeAuto        Mode = "auto"
	ModeBusyWait    Mode = "busy_wait"
	ModeHighRate    Mode = "high_rate"
	ModeHybrid      Mode = "hybrid"
	ModeEventDriven Mode = "event_driven"
	ModeRTEvent     Mode = "rt_event"
)

// CPU affinity sentinels for Config.CPUAffinity.
const (
	AffinityNone = -1
	AffinityAuto = -2
)

// Config is loop::Config as enumerated in spec.md §4.6.
type Config struct {
	Mode         Mode
	Interval     time.Duration
	SpinDuration time.Duration
	RTPriority   int
	CPUAffinity  int
	LockMemory   bool
}

// DefaultConfig returns the zero-value-safe defaults ApplyDefaults
// refines further once the caller knows the module's max tick interval.
func DefaultConfig() Config {
	return Config{
		Mode:        ModeAuto,
		RTPriority:  defaultRTPriority,
		CPUAffinity: AffinityNone,
	}
}

// ApplyDefaults resolves Mode == auto and a zero Interval into concrete
// values, per spec.md §4.6's apply_defaults(max_interval):
//
//  1. auto never selects busy_wait: interval == 0 picks event_driven;
//     interval < 5ms picks hybrid; otherwise event_driven (exactly 5ms
//     picks event_driven, not hybrid).
//  2. A mode that needs a wall-clock interval (high_rate, hybrid) but has
//     interval == 0 gets maxInterval when it is positive, else 1ms.
//  3. rt_event with CPUAffinity == auto pins one core, deterministically,
//     when the machine has more than one hardware thread.
func (c *Config) ApplyDefaults(maxInterval time.Duration) {
	if c.Mode == ModeAuto || c.Mode == "" {
		switch {
		case c.Interval == 0:
			c.Mode = ModeEventDriven
		case c.Interval < 5*time.Millisecond:
			c.Mode = ModeHybrid
		default:
			c.Mode = ModeEventDriven
		}
	}

	if modeNeedsInterval(c.Mode) && c.Interval == 0 {
		if maxInterval > 0 {
			c.Interval = maxInterval
		} else {
			c.Interval = time.Millisecond
		}
	}

	if c.Mode == ModeRTEvent && c.CPUAffinity == AffinityAuto {
		if n := runtime.NumCPU(); n > 1 {
			c.CPUAffinity = pickDeterministicCore(n)
		}
	}
}

func modeNeedsInterval(m Mode) bool {
	return m == ModeHighRate || m == ModeHybrid
}

// pickDeterministicCore chooses a fixed core for a machine with n hardware
// threads. The choice only needs to be stable across restarts of the same
// binary, not globally optimal; core 1 (skipping core 0, conventionally
// the busiest with OS housekeeping) is as good a fixed choice as any.
func pickDeterministicCore(n int) int {
	if n <= 1 {
		return 0
	}
	return 1
}
