//go:build linux

package notify

import (
	"encoding/binary"
	"time"

	"golang.org/x/sys/unix"
)

// eventfdNotifier wakes the runtime thread via a nonblocking, close-on-exec
// eventfd, matching spec.md §4.1's Linux notifier.
type eventfdNotifier struct {
	fd int
}

func newPlatformNotifier() (Notifier, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &eventfdNotifier{fd: fd}, nil
}

func (n *eventfdNotifier) Signal() {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	_, _ = unix.Write(n.fd, buf[:])
}

func (n *eventfdNotifier) Wait(timeout time.Duration) bool {
	ms := -1
	if timeout > 0 {
		ms = int(timeout.Milliseconds())
	}
	fds := []unix.PollFd{{Fd: int32(n.fd), Events: unix.POLLIN}}
	n2, err := unix.Poll(fds, ms)
	if err != nil || n2 <= 0 {
		return false
	}
	var buf [8]byte
	_, _ = unix.Read(n.fd, buf[:])
	return true
}

func (n *eventfdNotifier) Poll() bool {
	var buf [8]byte
	nread, err := unix.Read(n.fd, buf[:])
	return err == nil && nread == 8
}

func (n *eventfdNotifier) FD() int { return n.fd }

func (n *eventfdNotifier) Close() error {
	return unix.Close(n.fd)
}
