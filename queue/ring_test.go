package queue

import (
	"testing"
	"time"

	"github.com/synnaxlabs/arc-runtime/notify"
)

func TestRingCapacityRoundsUpToPowerOfTwo(t *testing.T) {
	r := NewRing[int](5)
	if r.Cap() != 8 {
		t.Fatalf("Cap() = %d, want 8", r.Cap())
	}
}

func TestPushPopOrder(t *testing.T) {
	r := NewRing[int](4)
	for i := 0; i < 4; i++ {
		if !r.Push(i) {
			t.Fatalf("Push(%d) = false, want true", i)
		}
	}
	for i := 0; i < 4; i++ {
		v, ok := r.TryPop()
		if !ok || v != i {
			t.Fatalf("TryPop() = %d, %v, want %d, true", v, ok, i)
		}
	}
}

// TestQueueOverflow matches spec.md §8 scenario 5: an SPSC of capacity 4
// holds four entries; the fifth push fails; the consumer pops the
// original four in order.
func TestQueueOverflow(t *testing.T) {
	r := NewRing[int](4)
	for i := 0; i < 4; i++ {
		if !r.Push(i) {
			t.Fatalf("Push(%d) = false, want true", i)
		}
	}
	if r.Push(99) {
		t.Fatalf("fifth Push must return false on a full ring")
	}
	for i := 0; i < 4; i++ {
		v, ok := r.TryPop()
		if !ok || v != i {
			t.Fatalf("TryPop() = %d, %v, want %d, true", v, ok, i)
		}
	}
	if _, ok := r.TryPop(); ok {
		t.Fatalf("TryPop() on an empty ring must return ok == false")
	}
}

// TestWrapAroundMultipleTimes drives the ring through several multiples of
// its capacity to catch index-arithmetic bugs that only surface once the
// head/tail counters wrap past the first lap.
func TestWrapAroundMultipleTimes(t *testing.T) {
	r := NewRing[int](4)
	const total = 10_000
	next := 0
	popped := 0
	for popped < total {
		for r.Push(next) {
			next++
		}
		for {
			v, ok := r.TryPop()
			if !ok {
				break
			}
			if v != popped {
				t.Fatalf("TryPop() = %d, want %d", v, popped)
			}
			popped++
		}
	}
}

func TestPopBlocksUntilSignalled(t *testing.T) {
	r := NewRing[int](4)
	n, err := notify.New()
	if err != nil {
		t.Fatalf("notify.New() error = %v", err)
	}
	defer n.Close()

	done := make(chan int, 1)
	go func() {
		v, ok := r.Pop(n, time.Second)
		if !ok {
			done <- -1
			return
		}
		done <- v
	}()

	time.Sleep(10 * time.Millisecond)
	r.Push(42)
	n.Signal()

	select {
	case v := <-done:
		if v != 42 {
			t.Fatalf("Pop() = %d, want 42", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Pop() did not return after Signal()")
	}
}

func TestPopReturnsFalseWhenClosed(t *testing.T) {
	r := NewRing[int](4)
	n, err := notify.New()
	if err != nil {
		t.Fatalf("notify.New() error = %v", err)
	}
	defer n.Close()

	done := make(chan bool, 1)
	go func() {
		_, ok := r.Pop(n, time.Second)
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	r.Close()
	n.Signal()

	select {
	case ok := <-done:
		if ok {
			t.Fatalf("Pop() ok = true on a closed, empty ring")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Pop() did not return after Close()")
	}
}
