//go:build darwin

package notify

import (
	"time"

	"golang.org/x/sys/unix"
)

// pipeNotifier is the macOS self-pipe notifier: a kqueue EVFILT_USER
// event is confined to the kqueue instance that registered it, so it
// cannot be observed by the runtime's own event-loop kqueue. A plain pipe
// is observable from any kqueue/poll set via its read-end fd.
type pipeNotifier struct {
	readFD, writeFD int
}

func newPlatformNotifier() (Notifier, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, err
	}
	if err := unix.SetNonblock(fds[0], true); err != nil {
		return nil, err
	}
	return &pipeNotifier{readFD: fds[0], writeFD: fds[1]}, nil
}

func (n *pipeNotifier) Signal() {
	var b [1]byte
	_, _ = unix.Write(n.writeFD, b[:])
}

func (n *pipeNotifier) Wait(timeout time.Duration) bool {
	ms := -1
	if timeout > 0 {
		ms = int(timeout.Milliseconds())
	}
	fds := []unix.PollFd{{Fd: int32(n.readFD), Events: unix.POLLIN}}
	n2, err := unix.Poll(fds, ms)
	if err != nil || n2 <= 0 {
		return false
	}
	n.drain()
	return true
}

func (n *pipeNotifier) Poll() bool {
	return n.drain()
}

func (n *pipeNotifier) drain() bool {
	var buf [64]byte
	total := false
	for {
		nread, err := unix.Read(n.readFD, buf[:])
		if nread > 0 {
			total = true
		}
		if err != nil || nread < len(buf) {
			break
		}
	}
	return total
}

func (n *pipeNotifier) FD() int { return n.readFD }

func (n *pipeNotifier) Close() error {
	_ = unix.Close(n.writeFD)
	return unix.Close(n.readFD)
}
