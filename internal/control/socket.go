// Package control implements the UNIX-socket control protocol of
// spec.md §4.7: a Server the daemon runs and a Client used by the
// hyprlax-ctl CLI, exchanging newline-terminated ASCII commands over one
// connection per request.
package control

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var suffixPattern = regexp.MustCompile(`^[A-Za-z0-9_-]*$`)

// Suffix returns the socket-name suffix from HYPRLAX_SOCKET_SUFFIX (or the
// legacy HYPRLAX_TEST_SUFFIX), validated against spec.md §4.7's
// [A-Za-z0-9_-] restriction. An invalid value is treated as empty rather
// than propagating an unvalidated string into a socket path.
func Suffix() string {
	s := os.Getenv("HYPRLAX_SOCKET_SUFFIX")
	if s == "" {
		s = os.Getenv("HYPRLAX_TEST_SUFFIX")
	}
	if !suffixPattern.MatchString(s) {
		return ""
	}
	return s
}

// ServerPath returns the path the daemon should bind, given the current
// user and an optional Hyprland/compositor instance signature (empty for
// non-signature-bearing compositors).
func ServerPath(user, instanceSig, suffix string) string {
	runtimeDir := runtimeDir()
	if instanceSig != "" {
		return filepath.Join(runtimeDir, fmt.Sprintf("hyprlax-%s-%s%s.sock", user, instanceSig, suffix))
	}
	return filepath.Join(runtimeDir, fmt.Sprintf("hyprlax-%s%s.sock", user, suffix))
}

// runtimeDir returns $XDG_RUNTIME_DIR, or /tmp if unset (the legacy
// fallback directory spec.md §4.7 names for discovery step 3).
func runtimeDir() string {
	if d := os.Getenv("XDG_RUNTIME_DIR"); d != "" {
		return d
	}
	return "/tmp"
}

// DiscoverPath implements the client's three-step discovery order from
// spec.md §4.7:
//  1. the signature-specific path, if instanceSig is known and it exists,
//  2. any file matching hyprlax-<user>-*.sock in $XDG_RUNTIME_DIR,
//  3. the legacy /tmp/hyprlax-<user><suffix>.sock path.
//
// statFn/globFn are injected for testability; production callers should
// pass os.Stat and filepath.Glob.
func DiscoverPath(user, instanceSig, suffix string, statFn func(string) (os.FileInfo, error), globFn func(string) ([]string, error)) (string, error) {
	runtimeDir := runtimeDir()

	if instanceSig != "" {
		candidate := filepath.Join(runtimeDir, fmt.Sprintf("hyprlax-%s-%s%s.sock", user, instanceSig, suffix))
		if _, err := statFn(candidate); err == nil {
			return candidate, nil
		}
	}

	pattern := filepath.Join(runtimeDir, fmt.Sprintf("hyprlax-%s-*.sock", user))
	matches, err := globFn(pattern)
	if err == nil && len(matches) > 0 {
		return matches[0], nil
	}

	legacy := filepath.Join("/tmp", fmt.Sprintf("hyprlax-%s%s.sock", user, suffix))
	if _, err := statFn(legacy); err == nil {
		return legacy, nil
	}

	return "", fmt.Errorf("control: no hyprlax control socket found for user %q", user)
}
