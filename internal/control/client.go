package control

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client sends one command per connection to a running daemon's control
// socket, per spec.md §4.7.
type Client struct {
	path string
}

// NewClient returns a Client bound to an explicit socket path, typically
// the result of DiscoverPath.
func NewClient(path string) *Client {
	return &Client{path: path}
}

// Send dials the control socket, writes one command line, and returns the
// raw reply. jsonMode appends "--json" to the wire command so the server
// renders a structured reply.
func (c *Client) Send(command string, args []string, jsonMode bool) (string, error) {
	conn, err := net.DialTimeout("unix", c.path, 2*time.Second)
	if err != nil {
		return "", fmt.Errorf("control: connect %s: %w", c.path, err)
	}
	defer conn.Close()

	line := command
	if len(args) > 0 {
		line += " " + strings.Join(args, " ")
	}
	if jsonMode {
		line += " --json"
	}
	line += "\n"

	if _, err := conn.Write([]byte(line)); err != nil {
		return "", fmt.Errorf("control: write: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, MaxCommandBytes), MaxCommandBytes)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("control: read reply: %w", err)
		}
		return "", nil
	}
	return scanner.Text(), nil
}

// ClientForUser resolves the running daemon's socket via DiscoverPath and
// returns a Client bound to it, wrapping os.Stat/filepath.Glob as the
// production statFn/globFn.
func ClientForUser(user, instanceSig, suffix string) (*Client, error) {
	path, err := DiscoverPath(user, instanceSig, suffix, os.Stat, filepath.Glob)
	if err != nil {
		return nil, err
	}
	return NewClient(path), nil
}
