package looprt

import "sync/atomic"

// Breaker is the cooperative shutdown signal of spec.md §5: Stop sets a
// flag the loop observes during Wait and exits on the next iteration.
type Breaker struct {
	stopped atomic.Bool
	onStop  func()
}

// NewBreaker returns an unstopped Breaker. Pass it to New; the Loop binds
// its own Wake as the onStop hook so Stop interrupts a blocked Wait
// immediately instead of waiting for the next timer tick.
func NewBreaker() *Breaker {
	return &Breaker{}
}

// Stop requests shutdown. Idempotent: only the first call invokes the
// bound wake hook.
func (b *Breaker) Stop() {
	if b.stopped.CompareAndSwap(false, true) && b.onStop != nil {
		b.onStop()
	}
}

// Stopped reports whether Stop has been called.
func (b *Breaker) Stopped() bool {
	return b.stopped.Load()
}

func (b *Breaker) bind(onStop func()) {
	b.onStop = onStop
}
