package eventloop

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/hyprlax/hyprlax/internal/workspace"
)

const debounceWindow = 10 * time.Millisecond

// Handlers supplies the daemon-specific callbacks the Loop invokes at each
// step of spec.md §4.6's run iteration. A nil callback is simply skipped.
type Handlers struct {
	// PollPlatform drains platform events (resize, close, output
	// added/removed, pointer motion) once.
	PollPlatform func() error

	// PollCompositor polls the compositor adapter once, returning at most
	// one workspace.ChangeEvent per call (adapters themselves coalesce
	// cache-only events like Hyprland's focusedmon into NoData, so this
	// may legitimately return ok=false on any given call).
	PollCompositor func() (workspace.ChangeEvent, bool, error)

	// AcceptControl accepts and serves one control-socket connection.
	AcceptControl func() error

	// UpdateCursor samples the platform pointer and feeds the mixer.
	UpdateCursor func()

	// TickAnimations advances monitor/layer animation state to now and
	// reports whether any animation is still running.
	TickAnimations func(now time.Time) (anyActive bool)

	// Render draws all monitors for the current frame.
	Render func()

	// ApplyDebounced applies one coalesced workspace.ChangeEvent via the
	// spec.md §4.4 handler.
	ApplyDebounced func(ev workspace.ChangeEvent, now time.Time)
}

// Loop is the single-wait event loop of spec.md §4.6: one epoll instance
// multiplexing the platform, compositor, control, cursor-timer,
// frame-timer, and debounce-timer descriptors, with IDLE/ACTIVE pacing.
type Loop struct {
	poller *Poller

	platformFD   int
	compositorFD int
	controlFD    int
	shutdownFD   int

	cursorTimer   *Timer
	frameTimer    *Timer
	debounceTimer *Timer

	cursorTimerArmed bool
	frameTimerArmed  bool

	targetFPS int

	debounce *Debouncer

	h Handlers

	state State

	// needsRender mirrors the pseudocode's needs_render flag, set by a
	// frame-timer fire and cleared once a render has actually happened.
	needsRender bool
}

// New constructs a Loop with its three timer fds already registered with
// epoll; callers then call RegisterPlatformFD/RegisterCompositorFD/
// RegisterControlFD once those subsystems are connected.
func New(h Handlers) (*Loop, error) {
	p, err := NewPoller()
	if err != nil {
		return nil, err
	}
	cursorTimer, err := NewTimer()
	if err != nil {
		return nil, err
	}
	frameTimer, err := NewTimer()
	if err != nil {
		return nil, err
	}
	debounceTimer, err := NewTimer()
	if err != nil {
		return nil, err
	}
	shutdownFD, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, err
	}

	l := &Loop{
		poller:        p,
		platformFD:    -1,
		compositorFD:  -1,
		controlFD:     -1,
		shutdownFD:    shutdownFD,
		cursorTimer:   cursorTimer,
		frameTimer:    frameTimer,
		debounceTimer: debounceTimer,
		targetFPS:     60,
		debounce:      NewDebouncer(),
		h:             h,
		state:         StateIdle,
	}
	for _, fd := range []int{cursorTimer.FD(), frameTimer.FD(), debounceTimer.FD(), shutdownFD} {
		if err := p.Add(fd, unix.EPOLLIN); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// RegisterPlatformFD wires the platform backend's event fd, if it has one.
// Backends like glfwpreview (EventFD()==-1) are simply left unregistered;
// their events are drained inline from the frame tick instead.
func (l *Loop) RegisterPlatformFD(fd int) error {
	if fd < 0 {
		return nil
	}
	l.platformFD = fd
	return l.poller.Add(fd, unix.EPOLLIN)
}

// RegisterCompositorFD wires the compositor adapter's event fd, if any.
// Every current adapter's EventFD returns -1, so nothing is registered and
// the loop reaches the compositor only through the PollCompositor call at
// the top of each iteration.
func (l *Loop) RegisterCompositorFD(fd int) error {
	if fd < 0 {
		return nil
	}
	l.compositorFD = fd
	return l.poller.Add(fd, unix.EPOLLIN)
}

// RegisterControlFD wires the control server's listening socket fd.
func (l *Loop) RegisterControlFD(fd int) error {
	if fd < 0 {
		return nil
	}
	l.controlFD = fd
	return l.poller.Add(fd, unix.EPOLLIN)
}

// SetTargetFPS updates the frame timer's interval, re-arming immediately
// if the frame timer is currently armed (the run-iteration pseudocode's
// "if target_fps changed: re-arm frame_timer").
func (l *Loop) SetTargetFPS(fps int) error {
	if fps == l.targetFPS {
		return nil
	}
	l.targetFPS = fps
	if l.frameTimerArmed {
		return l.armFrameTimer()
	}
	return nil
}

// SetCursorActive arms or disarms cursor_timer_fd at render-FPS cadence,
// enabled only while cursor_weight > 0 per spec.md §4.5.
func (l *Loop) SetCursorActive(active bool) error {
	if active == l.cursorTimerArmed {
		return nil
	}
	l.cursorTimerArmed = active
	if !active {
		return l.cursorTimer.Disarm()
	}
	interval := l.frameInterval()
	return l.cursorTimer.Arm(interval, interval)
}

func (l *Loop) frameInterval() time.Duration {
	fps := l.targetFPS
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

func (l *Loop) armFrameTimer() error {
	interval := l.frameInterval()
	if err := l.frameTimer.Arm(interval, interval); err != nil {
		return err
	}
	l.frameTimerArmed = true
	return nil
}

func (l *Loop) disarmFrameTimer() error {
	if !l.frameTimerArmed {
		return nil
	}
	if err := l.frameTimer.Disarm(); err != nil {
		return err
	}
	l.frameTimerArmed = false
	return nil
}

// StashWorkspaceChange feeds one decoded workspace.ChangeEvent into the
// debouncer, arming the debounce timer on the first event of a burst.
func (l *Loop) StashWorkspaceChange(ev workspace.ChangeEvent) error {
	if l.debounce.Stash(ev) {
		return l.debounceTimer.Arm(debounceWindow, 0)
	}
	return nil
}

// Run drives the event loop until ctx is cancelled or a SIGINT/SIGTERM is
// received. SIGPIPE is ignored for the process's lifetime per spec.md
// §4.6, matching writes to a closed control-socket peer returning EPIPE
// instead of killing the daemon.
func (l *Loop) Run(ctx context.Context) error {
	signal.Ignore(syscall.SIGPIPE)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	stopped := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			logrus.Info("received shutdown signal")
		case <-ctx.Done():
		}
		// Wake a blocking epoll_wait (IDLE state waits with no timeout) so
		// shutdown is observed promptly instead of waiting for the next
		// unrelated fd readiness.
		one := [8]byte{1}
		_, _ = unix.Write(l.shutdownFD, one[:])
		close(stopped)
	}()

	running := true
	for running {
		select {
		case <-stopped:
			running = false
			continue
		default:
		}

		if err := l.iterate(stopped); err != nil {
			return err
		}
	}
	return nil
}

// iterate runs exactly one pass of spec.md §4.6's run-iteration
// pseudocode. stopped is not read here: a blocking epoll wait in IDLE
// state returns promptly on shutdown because Run writes to shutdownFD.
func (l *Loop) iterate(stopped <-chan struct{}) error {
	now := time.Now()

	if l.h.PollPlatform != nil {
		if err := l.h.PollPlatform(); err != nil {
			logrus.WithError(err).Debug("platform poll error")
		}
	}
	if l.h.PollCompositor != nil {
		if ev, ok, err := l.h.PollCompositor(); err != nil {
			logrus.WithError(err).Debug("compositor poll error")
		} else if ok {
			if err := l.StashWorkspaceChange(ev); err != nil {
				return err
			}
		}
	}

	anyActive := false
	if l.h.TickAnimations != nil {
		anyActive = l.h.TickAnimations(now)
	}
	l.state = DeriveState(anyActive)

	if anyActive && !l.frameTimerArmed {
		if err := l.armFrameTimer(); err != nil {
			return err
		}
	}

	if l.needsRender {
		if l.h.UpdateCursor != nil {
			l.h.UpdateCursor()
		}
		if l.h.Render != nil {
			l.h.Render()
		}
		l.needsRender = anyActive
		return nil
	}

	if l.state == StateIdle {
		if err := l.disarmFrameTimer(); err != nil {
			return err
		}
	}

	timeout := -1
	if l.state == StateActive {
		timeout = 0
	}

	ready, err := l.poller.Wait(timeout)
	if err != nil {
		return err
	}
	for _, fd := range ready {
		l.handleReady(fd, now)
	}
	return nil
}

func (l *Loop) handleReady(fd int, now time.Time) {
	switch fd {
	case l.shutdownFD:
		// Drained so a stale readiness doesn't spin the loop; Run's own
		// stopped-channel check is what actually ends iteration.
		var buf [8]byte
		_, _ = unix.Read(l.shutdownFD, buf[:])
	case l.frameTimer.FD():
		if _, err := l.frameTimer.Drain(); err != nil {
			logrus.WithError(err).Debug("frame timer drain error")
		}
		l.needsRender = true
	case l.cursorTimer.FD():
		if _, err := l.cursorTimer.Drain(); err != nil {
			logrus.WithError(err).Debug("cursor timer drain error")
		}
		if l.h.UpdateCursor != nil {
			l.h.UpdateCursor()
		}
		l.needsRender = true
	case l.debounceTimer.FD():
		if _, err := l.debounceTimer.Drain(); err != nil {
			logrus.WithError(err).Debug("debounce timer drain error")
		}
		if ev, ok := l.debounce.Fire(); ok && l.h.ApplyDebounced != nil {
			l.h.ApplyDebounced(ev, now)
		}
	case l.controlFD:
		if l.h.AcceptControl != nil {
			if err := l.h.AcceptControl(); err != nil {
				logrus.WithError(err).Debug("control accept error")
			}
		}
	case l.platformFD:
		if l.h.PollPlatform != nil {
			if err := l.h.PollPlatform(); err != nil {
				logrus.WithError(err).Debug("platform poll error")
			}
		}
	case l.compositorFD:
		if l.h.PollCompositor != nil {
			if ev, ok, err := l.h.PollCompositor(); err != nil {
				logrus.WithError(err).Debug("compositor poll error")
			} else if ok {
				if err := l.StashWorkspaceChange(ev); err != nil {
					logrus.WithError(err).Debug("debounce arm error")
				}
			}
		}
	}
}

// Close releases the poller, all timer fds, and the shutdown eventfd.
func (l *Loop) Close() error {
	var firstErr error
	for _, c := range []interface{ Close() error }{l.cursorTimer, l.frameTimer, l.debounceTimer, l.poller} {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := unix.Close(l.shutdownFD); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
