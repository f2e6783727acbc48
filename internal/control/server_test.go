package control

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestServerClientRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "hyprlax-test.sock")

	fc := newFakeCommands()
	srv, err := Listen(sockPath, fc)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close()

	info, err := os.Stat(sockPath)
	if err != nil {
		t.Fatalf("Stat socket: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected socket perms 0600, got %v", info.Mode().Perm())
	}

	done := make(chan error, 1)
	go func() { done <- srv.AcceptOne() }()

	client := NewClient(sockPath)
	reply, err := client.Send("add", []string{"/tmp/img.png", "scale=1.5"}, false)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != "Layer added with ID: 1" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if err := <-done; err != nil {
		t.Fatalf("AcceptOne: %v", err)
	}
}

func TestServerClientJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "hyprlax-test.sock")

	fc := newFakeCommands()
	srv, err := Listen(sockPath, fc)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close()

	done := make(chan error, 1)
	go func() { done <- srv.AcceptOne() }()

	client := NewClient(sockPath)
	reply, err := client.Send("status", nil, true)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.Contains(reply, `"ok":true`) {
		t.Fatalf("expected a JSON-wrapped reply, got %q", reply)
	}
	<-done
}

func TestListenReplacesStaleSocket(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "hyprlax-test.sock")

	// Simulate a leftover socket file from a crashed prior instance: bind
	// and close without unlinking.
	stale, err := Listen(sockPath, newFakeCommands())
	if err != nil {
		t.Fatalf("Listen (first): %v", err)
	}
	// Close the listener's fd directly without removing the path, unlike
	// Server.Close, to leave a stale socket file behind.
	f, _ := os.OpenFile(sockPath, os.O_RDONLY, 0)
	if f != nil {
		f.Close()
	}
	stale.ln.Close()

	srv, err := Listen(sockPath, newFakeCommands())
	if err != nil {
		t.Fatalf("Listen (recovering from stale socket): %v", err)
	}
	defer srv.Close()
}

func TestListenFailsWhenAlreadyRunning(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "hyprlax-test.sock")

	first, err := Listen(sockPath, newFakeCommands())
	if err != nil {
		t.Fatalf("Listen (first): %v", err)
	}
	defer first.Close()

	if _, err := Listen(sockPath, newFakeCommands()); err == nil {
		t.Fatal("expected the second Listen to fail while the first is still bound")
	}
}
