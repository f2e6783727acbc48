// Package eventloop implements the single-wait event loop described in
// spec.md §4.6: one epoll instance multiplexing the platform, compositor,
// control-socket, and timer file descriptors, with IDLE/ACTIVE pacing and
// workspace-event debouncing.
package eventloop

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Poller wraps a Linux epoll instance, the host OS multiplexing primitive
// the event loop blocks on in IDLE state.
type Poller struct {
	epfd int
}

// NewPoller creates a fresh epoll instance.
func NewPoller() (*Poller, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("eventloop: epoll_create1: %w", err)
	}
	return &Poller{epfd: fd}, nil
}

// Add registers fd for the given epoll event mask (typically unix.EPOLLIN).
func (p *Poller) Add(fd int, events uint32) error {
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{Events: events, Fd: int32(fd)}); err != nil {
		return fmt.Errorf("eventloop: epoll_ctl add fd=%d: %w", fd, err)
	}
	return nil
}

// Remove unregisters fd. Removing an fd that was never added is not an
// error — callers may unconditionally clean up optional fds.
func (p *Poller) Remove(fd int) error {
	err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	if err != nil && err != unix.ENOENT {
		return fmt.Errorf("eventloop: epoll_ctl del fd=%d: %w", fd, err)
	}
	return nil
}

// Wait blocks until at least one registered fd is ready, or timeoutMs
// elapses (-1 blocks indefinitely — the IDLE-state behavior spec.md §4.6
// names as "wait on epoll (blocking)"). Returns the ready fds.
func (p *Poller) Wait(timeoutMs int) ([]int, error) {
	var events [16]unix.EpollEvent
	n, err := unix.EpollWait(p.epfd, events[:], timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, fmt.Errorf("eventloop: epoll_wait: %w", err)
	}
	ready := make([]int, 0, n)
	for i := 0; i < n; i++ {
		ready = append(ready, int(events[i].Fd))
	}
	return ready, nil
}

// Close releases the epoll instance.
func (p *Poller) Close() error {
	return unix.Close(p.epfd)
}
