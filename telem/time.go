package telem

import "time"

// nowNanos returns the current wall-clock time in nanoseconds since the
// Unix epoch. Indirected through a var (see Now) so tests can stub it.
func nowNanos() int64 { return time.Now().UnixNano() }
