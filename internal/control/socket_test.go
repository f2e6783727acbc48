package control

import (
	"os"
	"testing"
)

func TestSuffixRejectsInvalidCharacters(t *testing.T) {
	t.Setenv("HYPRLAX_SOCKET_SUFFIX", "bad/slash")
	if got := Suffix(); got != "" {
		t.Fatalf("expected an invalid suffix to be rejected, got %q", got)
	}
}

func TestSuffixAcceptsValidCharacters(t *testing.T) {
	t.Setenv("HYPRLAX_SOCKET_SUFFIX", "test-123_x")
	if got := Suffix(); got != "test-123_x" {
		t.Fatalf("expected the valid suffix to pass through, got %q", got)
	}
}

func TestSuffixFallsBackToLegacyEnvVar(t *testing.T) {
	os.Unsetenv("HYPRLAX_SOCKET_SUFFIX")
	t.Setenv("HYPRLAX_TEST_SUFFIX", "legacy")
	if got := Suffix(); got != "legacy" {
		t.Fatalf("expected the legacy env var to be used, got %q", got)
	}
}

func TestServerPathWithInstanceSignature(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	got := ServerPath("alice", "abc123", "")
	want := "/run/user/1000/hyprlax-alice-abc123.sock"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestServerPathWithoutSignature(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	got := ServerPath("alice", "", "")
	want := "/run/user/1000/hyprlax-alice.sock"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDiscoverPathPrefersSignatureSpecific(t *testing.T) {
	stat := func(p string) (os.FileInfo, error) {
		if p == "/run/user/1000/hyprlax-alice-abc123.sock" {
			return nil, nil
		}
		return nil, os.ErrNotExist
	}
	glob := func(p string) ([]string, error) { return nil, nil }
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")

	got, err := DiscoverPath("alice", "abc123", "", stat, glob)
	if err != nil {
		t.Fatalf("DiscoverPath: %v", err)
	}
	if got != "/run/user/1000/hyprlax-alice-abc123.sock" {
		t.Fatalf("unexpected path: %q", got)
	}
}

func TestDiscoverPathFallsBackToGlob(t *testing.T) {
	stat := func(p string) (os.FileInfo, error) { return nil, os.ErrNotExist }
	glob := func(p string) ([]string, error) {
		return []string{"/run/user/1000/hyprlax-alice-zzz.sock"}, nil
	}
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")

	got, err := DiscoverPath("alice", "", "", stat, glob)
	if err != nil {
		t.Fatalf("DiscoverPath: %v", err)
	}
	if got != "/run/user/1000/hyprlax-alice-zzz.sock" {
		t.Fatalf("unexpected path: %q", got)
	}
}

func TestDiscoverPathFallsBackToLegacyTmp(t *testing.T) {
	calls := 0
	stat := func(p string) (os.FileInfo, error) {
		calls++
		if p == "/tmp/hyprlax-alice.sock" {
			return nil, nil
		}
		return nil, os.ErrNotExist
	}
	glob := func(p string) ([]string, error) { return nil, nil }
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")

	got, err := DiscoverPath("alice", "", "", stat, glob)
	if err != nil {
		t.Fatalf("DiscoverPath: %v", err)
	}
	if got != "/tmp/hyprlax-alice.sock" {
		t.Fatalf("unexpected path: %q", got)
	}
}

func TestDiscoverPathFailsWhenNothingFound(t *testing.T) {
	stat := func(p string) (os.FileInfo, error) { return nil, os.ErrNotExist }
	glob := func(p string) ([]string, error) { return nil, nil }
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")

	if _, err := DiscoverPath("alice", "", "", stat, glob); err == nil {
		t.Fatal("expected an error when no socket is discoverable")
	}
}
