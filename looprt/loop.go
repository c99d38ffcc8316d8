package looprt

import (
	"runtime"
	"sync"
	"time"

	"github.com/synnaxlabs/arc-runtime/notify"
)

// WakeReason identifies why Wait returned.
type WakeReason int

const (
	WakeTimer WakeReason = iota
	WakeInput
	WakeShutdown
)

func (r WakeReason) String() string {
	switch r {
	case WakeTimer:
		return "timer"
	case WakeInput:
		return "input"
	case WakeShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// eventWaitTimeout caps how long event_driven/rt_event block between
// checks of the breaker even with no configured interval, per spec.md
// §4.6: "the latter ensures shutdown requests from the breaker are
// noticed within 100ms even when no timer is configured."
const eventWaitTimeout = 100 * time.Millisecond

// forwarderPoll is how often a background notifier-forwarding goroutine
// re-checks for loop shutdown between blocking Wait calls.
const forwarderPoll = 200 * time.Millisecond

// Loop is the runtime core's thread-of-control, implementing the five
// execution modes of spec.md §4.6 over a primary notifier plus any number
// of watched notifiers (platform limits apply — see Watch).
type Loop struct {
	cfg     Config
	breaker *Breaker
	primary notify.Notifier

	mu      sync.Mutex
	watched map[notify.Notifier]struct{}

	wakeCh  chan struct{}
	closeCh chan struct{}
	wg      sync.WaitGroup

	lastTick time.Time
}

// New creates a Loop from an already-defaulted Config (call
// Config.ApplyDefaults first) and a Breaker for cooperative shutdown. If
// Mode is rt_event, this also applies the platform's best-effort RT setup
// (priority, affinity, memory locking).
func New(cfg Config, breaker *Breaker) (*Loop, error) {
	primary, err := notify.New()
	if err != nil {
		return nil, err
	}

	l := &Loop{
		cfg:      cfg,
		breaker:  breaker,
		primary:  primary,
		watched:  make(map[notify.Notifier]struct{}),
		wakeCh:   make(chan struct{}, 1),
		closeCh:  make(chan struct{}),
		lastTick: time.Now(),
	}
	breaker.bind(l.Wake)

	if cfg.Mode == ModeRTEvent {
		applyRTHints(cfg)
	}

	l.spawnForwarder(primary)
	return l, nil
}

// Wake signals the primary notifier unconditionally.
func (l *Loop) Wake() {
	l.primary.Signal()
}

// Watch registers an additional notifier to be observed by Wait.
// Idempotent: re-watching the same notifier succeeds without duplicating
// the registration. On Windows, at most one additional notifier may be
// watched; a second call with a different notifier returns false.
func (l *Loop) Watch(n notify.Notifier) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.watched[n]; ok {
		return true
	}
	if runtime.GOOS == "windows" && len(l.watched) >= 1 {
		return false
	}
	l.watched[n] = struct{}{}
	l.spawnForwarder(n)
	return true
}

// spawnForwarder starts a goroutine that blocks on n.Wait and funnels a
// wake into the shared channel Wait's event_driven/hybrid paths select
// on. It exits once Close is called.
func (l *Loop) spawnForwarder(n notify.Notifier) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		for {
			select {
			case <-l.closeCh:
				return
			default:
			}
			if n.Wait(forwarderPoll) {
				select {
				case l.wakeCh <- struct{}{}:
				default:
				}
			}
		}
	}()
}

// pollAny checks every watched notifier (plus the primary) for a pending
// signal without blocking.
func (l *Loop) pollAny() bool {
	if l.primary.Poll() {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for n := range l.watched {
		if n.Poll() {
			return true
		}
	}
	return false
}

// Wait blocks according to the configured mode and returns why it woke.
func (l *Loop) Wait() WakeReason {
	switch l.cfg.Mode {
	case ModeBusyWait:
		return l.waitBusy()
	case ModeHighRate:
		return l.waitHighRate()
	case ModeHybrid:
		if r, woke := l.spin(l.cfg.SpinDuration); woke {
			return r
		}
		return l.waitEventDriven()
	case ModeEventDriven, ModeRTEvent:
		return l.waitEventDriven()
	default:
		return l.waitEventDriven()
	}
}

func (l *Loop) waitBusy() WakeReason {
	if l.cfg.Interval <= 0 {
		for {
			if l.breaker.Stopped() {
				return WakeShutdown
			}
			if l.pollAny() {
				return WakeInput
			}
			runtime.Gosched()
		}
	}

	deadline := l.lastTick.Add(l.cfg.Interval)
	for {
		if l.breaker.Stopped() {
			return WakeShutdown
		}
		if l.pollAny() {
			return WakeInput
		}
		if !time.Now().Before(deadline) {
			l.lastTick = time.Now()
			return WakeTimer
		}
		runtime.Gosched()
	}
}

// spin busy-spins for up to d, returning the wake reason and true if
// woken within that window, or (_, false) if d elapsed first.
func (l *Loop) spin(d time.Duration) (WakeReason, bool) {
	if d <= 0 {
		return 0, false
	}
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if l.breaker.Stopped() {
			return WakeShutdown, true
		}
		if l.pollAny() {
			return WakeInput, true
		}
		runtime.Gosched()
	}
	return 0, false
}

func (l *Loop) waitEventDriven() WakeReason {
	timeout := eventWaitTimeout
	if l.cfg.Interval > 0 && l.cfg.Interval < timeout {
		timeout = l.cfg.Interval
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-l.wakeCh:
		if l.breaker.Stopped() {
			return WakeShutdown
		}
		return WakeInput
	case <-timer.C:
		l.lastTick = time.Now()
		if l.breaker.Stopped() {
			return WakeShutdown
		}
		return WakeTimer
	}
}

// waitHighRate sleeps in short chunks until the configured interval
// elapses, checking the breaker between chunks. It does not observe
// watched notifiers: high_rate's suspension primitive is "periodic timer
// only" (spec.md §4.6).
func (l *Loop) waitHighRate() WakeReason {
	const chunk = 10 * time.Millisecond
	deadline := l.lastTick.Add(l.cfg.Interval)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			l.lastTick = time.Now()
			return WakeTimer
		}
		if l.breaker.Stopped() {
			return WakeShutdown
		}
		sleep := remaining
		if sleep > chunk {
			sleep = chunk
		}
		time.Sleep(sleep)
	}
}

// Close stops every forwarding goroutine and releases the primary
// notifier. Watched notifiers are owned by their registrants and are not
// closed here.
func (l *Loop) Close() error {
	close(l.closeCh)
	l.wg.Wait()
	return l.primary.Close()
}
