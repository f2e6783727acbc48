package eventloop

import (
	"encoding/binary"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// Timer wraps a Linux timerfd. cursor_timer_fd, frame_timer_fd, and
// debounce_timer_fd (spec.md §4.6) are each ordinary pollable fds a Poller
// can wait on alongside socket fds, rather than a separate select/sleep
// path.
type Timer struct {
	fd int
}

// NewTimer creates a disarmed, non-blocking, monotonic timerfd.
func NewTimer() (*Timer, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_CLOEXEC|unix.TFD_NONBLOCK)
	if err != nil {
		return nil, fmt.Errorf("eventloop: timerfd_create: %w", err)
	}
	return &Timer{fd: fd}, nil
}

// FD returns the underlying pollable file descriptor.
func (t *Timer) FD() int { return t.fd }

// Arm schedules the timer to first fire after initial, then every interval
// thereafter (interval==0 requests a one-shot). Used both for the
// repeating frame/cursor timers and the one-shot debounce timer.
func (t *Timer) Arm(initial, interval time.Duration) error {
	spec := unix.ItimerSpec{
		Value:    unix.NsecToTimespec(initial.Nanoseconds()),
		Interval: unix.NsecToTimespec(interval.Nanoseconds()),
	}
	if spec.Value.Sec == 0 && spec.Value.Nsec == 0 {
		// A zero initial expiration means "disarm" per timerfd_settime(2);
		// nudge by one nanosecond so Arm(0, interval) still fires once
		// immediately instead of silently disarming.
		spec.Value.Nsec = 1
	}
	if err := unix.TimerfdSettime(t.fd, 0, &spec, nil); err != nil {
		return fmt.Errorf("eventloop: timerfd_settime: %w", err)
	}
	return nil
}

// Disarm stops the timer without closing its fd.
func (t *Timer) Disarm() error {
	spec := unix.ItimerSpec{}
	if err := unix.TimerfdSettime(t.fd, 0, &spec, nil); err != nil {
		return fmt.Errorf("eventloop: timerfd_settime disarm: %w", err)
	}
	return nil
}

// Drain reads and discards the expiration counter so the fd stops
// reporting readiness; must be called once per epoll notification for
// this timer's fd.
func (t *Timer) Drain() (expirations uint64, err error) {
	var buf [8]byte
	n, err := unix.Read(t.fd, buf[:])
	if err != nil {
		if err == unix.EAGAIN {
			return 0, nil
		}
		return 0, fmt.Errorf("eventloop: timerfd read: %w", err)
	}
	if n == 8 {
		expirations = binary.LittleEndian.Uint64(buf[:])
	}
	return expirations, nil
}

// Close releases the timerfd.
func (t *Timer) Close() error {
	return unix.Close(t.fd)
}
