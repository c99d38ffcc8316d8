//go:build linux

package looprt

import "golang.org/x/sys/unix"

// defaultRTPriority is a platform-appropriate high real-time-ish priority:
// a low (more favorable) nice value, since true SCHED_FIFO/SCHED_RR
// scheduling requires CAP_SYS_NICE and is applied best-effort below.
const defaultRTPriority = -11

// applyRTHints is the rt_event setup step spec.md §4.6 calls out:
// process RT priority, CPU pinning, and optional mlockall. Every step is
// best-effort — a permission failure (no CAP_SYS_NICE) downgrades to
// event_driven's plain wait logic rather than failing the loop.
func applyRTHints(cfg Config) {
	_ = unix.Setpriority(unix.PRIO_PROCESS, 0, cfg.RTPriority)

	if cfg.CPUAffinity >= 0 {
		var set unix.CPUSet
		set.Zero()
		set.Set(cfg.CPUAffinity)
		_ = unix.SchedSetaffinity(0, &set)
	}

	if cfg.LockMemory {
		_ = unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE)
	}
}
