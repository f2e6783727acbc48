// Package netretry implements the bounded-retry UNIX socket dial shared by
// the compositor and platform adapters (spec.md §4.1 "Socket readiness",
// §4.2 "Connect retry"). Grounded on
// IntuitionAmiga-IntuitionEngine/runtime_ipc.go's dial/stale-socket
// recovery pattern, generalized from a fixed 2s timeout to a configurable
// (max_retries, delay) retry loop with startup-race tolerance.
package netretry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Options configures a bounded-retry dial.
type Options struct {
	MaxRetries int
	Delay      time.Duration

	// Name is used only in log lines ("Waiting for <Name>...").
	Name string

	Log *logrus.Entry
}

// DefaultHyprlandOptions returns spec.md §4.1's documented default for
// Hyprland: 150 retries at 100ms.
func DefaultHyprlandOptions() Options {
	return Options{MaxRetries: 150, Delay: 100 * time.Millisecond, Name: "hyprland"}
}

// DefaultWayfireOptions returns spec.md §4.1's documented default for
// Wayfire: 30 retries at 500ms.
func DefaultWayfireOptions() Options {
	return Options{MaxRetries: 30, Delay: 500 * time.Millisecond, Name: "wayfire"}
}

// DefaultDisplayOptions returns spec.md §4.2's documented default for
// display-server connect retry: 150 retries at 100ms.
func DefaultDisplayOptions() Options {
	return Options{MaxRetries: 150, Delay: 100 * time.Millisecond, Name: "display server"}
}

// isTransient reports whether err is the kind of failure that warrants a
// retry (socket not yet created, or nothing listening yet) versus one that
// should propagate immediately, per spec.md §4.1 rule: "Connection errors
// other than ENOENT/ECONNREFUSED are propagated immediately." The stdlib
// has no portable errno sentinel for ECONNREFUSED, so any net.OpError at
// dial time against a UNIX socket path (other than a missing file, checked
// separately) is treated as "nothing listening yet".
func isTransient(err error) bool {
	if errors.Is(err, os.ErrNotExist) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// Dial attempts to connect to a UNIX domain socket at path, retrying up to
// opts.MaxRetries times with opts.Delay between attempts. A single
// "Waiting for <name>..." line is logged on the first retry, and a
// "Connected after N retries" line on eventual success. Non-transient
// errors are returned immediately without retrying.
func Dial(ctx context.Context, path string, opts Options) (net.Conn, error) {
	var lastErr error
	loggedWaiting := false

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "unix", path)
		if err == nil {
			if attempt > 0 && opts.Log != nil {
				opts.Log.Infof("Connected to %s after %d retries", opts.Name, attempt)
			}
			return conn, nil
		}
		if !isTransient(err) {
			return nil, fmt.Errorf("netretry: dial %s: %w", path, err)
		}
		lastErr = err
		if !loggedWaiting && opts.Log != nil {
			opts.Log.Infof("Waiting for %s...", opts.Name)
			loggedWaiting = true
		}
		if attempt == opts.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.Delay):
		}
	}
	return nil, fmt.Errorf("netretry: dial %s: exhausted %d retries: %w", path, opts.MaxRetries, lastErr)
}

// BindOrRecover binds a UNIX socket listener at path, removing a stale
// (unconnectable) socket file first if one exists — the pattern
// runtime_ipc.go's newIPCServerAt uses to recover from a crashed prior
// instance's leftover socket, generalized here for control.Server's bind.
func BindOrRecover(path string) (net.Listener, error) {
	ln, err := net.Listen("unix", path)
	if err == nil {
		return ln, nil
	}
	conn, dialErr := net.DialTimeout("unix", path, 2*time.Second)
	if dialErr == nil {
		conn.Close()
		return nil, fmt.Errorf("netretry: another instance is already listening on %s", path)
	}
	os.Remove(path)
	ln, err = net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("netretry: bind %s: %w", path, err)
	}
	return ln, nil
}
