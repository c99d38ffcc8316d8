package queue

import (
	"sync/atomic"
	"time"

	"github.com/synnaxlabs/arc-runtime/notify"
	"github.com/synnaxlabs/arc-runtime/telem"
)

// FrameUpdate is one entry on the input queue: a channel's newly arrived
// samples paired with their timestamps, pushed by the external I/O
// producer thread.
type FrameUpdate struct {
	ChannelKey uint32
	Data       *telem.Series
	Time       *telem.Series
}

// ChannelWrite is one entry on the output queue: a batch a node wrote to a
// channel during a tick, popped by the external I/O consumer thread.
type ChannelWrite struct {
	ChannelKey uint32
	Data       *telem.Series
	Time       *telem.Series
}

// Ring is a lock-free single-producer/single-consumer ring buffer of
// power-of-two capacity. Exactly one goroutine may call Push; exactly one
// goroutine may call TryPop/Pop. Push never blocks; Pop blocks on the
// paired notify.Notifier until an item is available or the ring is
// closed.
type Ring[T any] struct {
	buf  []T
	mask uint64

	head atomic.Uint64 // next slot the consumer will read
	tail atomic.Uint64 // next slot the producer will write

	closed atomic.Bool
}

// NewRing allocates a Ring whose capacity is the next power of two >=
// capacity (minimum 2).
func NewRing[T any](capacity int) *Ring[T] {
	n := 2
	for n < capacity {
		n <<= 1
	}
	return &Ring[T]{
		buf:  make([]T, n),
		mask: uint64(n - 1),
	}
}

// Cap returns the ring's power-of-two capacity.
func (r *Ring[T]) Cap() int { return len(r.buf) }

// Len returns the number of items currently queued. Only an approximation
// when called from a goroutine other than the producer or consumer.
func (r *Ring[T]) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

// Push appends v to the ring, returning false without blocking if the ring
// is full (spec.md §4.1: "push fails (returns false) when full").
func (r *Ring[T]) Push(v T) bool {
	head := r.head.Load()
	tail := r.tail.Load()
	if tail-head >= uint64(len(r.buf)) {
		return false
	}
	r.buf[tail&r.mask] = v
	r.tail.Store(tail + 1)
	return true
}

// TryPop removes and returns the oldest item without blocking. ok is false
// if the ring is empty.
func (r *Ring[T]) TryPop() (v T, ok bool) {
	head := r.head.Load()
	tail := r.tail.Load()
	if head == tail {
		return v, false
	}
	v = r.buf[head&r.mask]
	var zero T
	r.buf[head&r.mask] = zero
	r.head.Store(head + 1)
	return v, true
}

// Pop blocks on n until an item is available or the ring is closed and
// drained, per spec.md §4.1: "pop blocks on the paired notifier until
// either an item arrives or the queue is closed." A timeout of zero or
// less waits indefinitely between wake attempts.
func (r *Ring[T]) Pop(n notify.Notifier, timeout time.Duration) (v T, ok bool) {
	for {
		if v, ok = r.TryPop(); ok {
			return v, true
		}
		if r.Closed() {
			return v, false
		}
		n.Wait(timeout)
	}
}

// Close marks the ring closed; a blocked or future Pop returns
// immediately with ok == false once drained.
func (r *Ring[T]) Close() {
	r.closed.Store(true)
}

// Closed reports whether Close has been called.
func (r *Ring[T]) Closed() bool {
	return r.closed.Load()
}
