package notify

import "time"

// Notifier is the platform-specific wake primitive paired with a
// queue.Ring. Signal is callable from any goroutine; Wait, Poll, and FD
// are for the consumer only.
type Notifier interface {
	// Signal wakes a blocked (or future) Wait/Poll. Safe from any
	// goroutine. Any number of signals before or during a wait coalesce
	// into at most one wake.
	Signal()

	// Wait blocks until Signal is called or timeout elapses, whichever
	// comes first, returning true if it woke due to a signal. A timeout
	// of zero or less waits indefinitely.
	Wait(timeout time.Duration) bool

	// Poll is a non-blocking, level-triggered check: it reports and
	// drains a pending signal without blocking.
	Poll() bool

	// FD returns the underlying file descriptor for multiplexing via
	// epoll/kqueue, or -1 if the platform has no such descriptor
	// (Windows, the fallback).
	FD() int

	// Close releases the underlying OS resource.
	Close() error
}

// New creates the platform-appropriate Notifier.
func New() (Notifier, error) {
	return newPlatformNotifier()
}
