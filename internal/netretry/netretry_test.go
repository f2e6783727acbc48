package netretry

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDialRetriesUntilListenerAppears(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "test.sock")

	go func() {
		time.Sleep(50 * time.Millisecond)
		ln, err := net.Listen("unix", sockPath)
		if err != nil {
			return
		}
		defer ln.Close()
		conn, err := ln.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, err := Dial(ctx, sockPath, Options{MaxRetries: 20, Delay: 20 * time.Millisecond, Name: "test"})
	if err != nil {
		t.Fatalf("expected Dial to succeed once the listener appears, got %v", err)
	}
	conn.Close()
}

func TestDialExhaustsRetries(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "never-exists.sock")

	ctx := context.Background()
	_, err := Dial(ctx, sockPath, Options{MaxRetries: 2, Delay: 5 * time.Millisecond, Name: "test"})
	if err == nil {
		t.Fatal("expected Dial to fail when nothing ever listens")
	}
}

func TestBindOrRecoverRemovesStaleSocket(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "stale.sock")

	stale, err := net.Listen("unix", sockPath)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	stale.Close() // leaves the socket file behind without a listener

	ln, err := BindOrRecover(sockPath)
	if err != nil {
		t.Fatalf("expected BindOrRecover to clean up the stale socket and bind, got %v", err)
	}
	defer ln.Close()
	defer os.Remove(sockPath)
}

func TestBindOrRecoverRefusesWhenAlreadyRunning(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "live.sock")

	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer ln.Close()
	defer os.Remove(sockPath)

	go func() {
		conn, err := ln.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	if _, err := BindOrRecover(sockPath); err == nil {
		t.Fatal("expected BindOrRecover to refuse to bind over a live listener")
	}
}
