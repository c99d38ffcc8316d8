//go:build !linux

package looprt

// defaultRTPriority has no portable meaning outside Linux's nice-value
// scale; it is carried in Config for API uniformity but unused here.
const defaultRTPriority = 0

// applyRTHints is a no-op on platforms without a real-time scheduling API
// wired up (darwin, windows). rt_event still gets event_driven's wait
// behavior; it just loses the RT priority/affinity/mlockall setup spec.md
// §4.6 describes as Linux-oriented "implementation defined" hints.
func applyRTHints(cfg Config) {}
