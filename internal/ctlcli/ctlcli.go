// Package ctlcli implements the hyprlax-ctl command line, shared between
// the standalone hyprlax-ctl binary and hyprlax's own `ctl` subcommand, per
// spec.md §4.7. It dials the daemon's control socket, sends one
// newline-terminated request, and prints the single-line reply.
package ctlcli

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/hyprlax/hyprlax/internal/control"
	"github.com/hyprlax/hyprlax/internal/herr"
	"github.com/hyprlax/hyprlax/internal/legacyconfig"
)

// Run executes one hyprlax-ctl invocation and returns its process exit
// code, per spec.md §6's exit-code table (0 ok, 1 general failure/usage,
// 2 conversion/read/write error, 3 refusal).
func Run(args []string) int {
	return RunWithIO(args, os.Stdin, os.Stdout, os.Stderr)
}

// RunWithIO is Run with its standard streams injected, for testability.
func RunWithIO(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: hyprlax-ctl <command> [args...]")
		return 1
	}

	if args[0] == "convert-config" {
		return runConvertConfig(args[1:], stdin, stderr)
	}

	path, err := socketPath()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	line := strings.Join(args, " ")
	reply, err := sendRequest(path, line)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fmt.Fprint(stdout, reply)
	if control.IsErrorReply(reply) {
		return 1
	}
	return 0
}

// socketPath discovers the running daemon's control socket for the current
// user, per spec.md §4.7's three-step discovery order.
func socketPath() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("ctlcli: resolve current user: %w", err)
	}
	sig := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	return control.DiscoverPath(u.Username, sig, control.Suffix(), os.Stat, filepath.Glob)
}

// sendRequest dials path, writes one newline-terminated request line, and
// returns the single reply line the daemon sends back, per spec.md §4.7's
// one-request-per-connection transport.
func sendRequest(path, line string) (string, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return "", fmt.Errorf("ctlcli: connect to %s: %w", path, err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(line + "\n")); err != nil {
		return "", fmt.Errorf("ctlcli: write request: %w", err)
	}

	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("ctlcli: read reply: %w", err)
	}
	return reply, nil
}

// runConvertConfig implements the locally-run `convert-config <legacy.conf>
// [dst.toml] [--yes]` subcommand, which needs no running daemon.
func runConvertConfig(args []string, stdin io.Reader, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: hyprlax-ctl convert-config <legacy.conf> [dst.toml] [--yes]")
		return 1
	}

	opts := legacyconfig.Options{
		SrcPath:        args[0],
		AssumeYes:      legacyconfig.EnvAssumeYes(),
		NonInteractive: legacyconfig.EnvNonInteractive(),
		Stdin:          stdin,
		Stderr:         stderr,
	}
	for _, a := range args[1:] {
		if a == "--yes" || a == "-y" {
			opts.AssumeYes = true
			continue
		}
		if opts.DstPath == "" {
			opts.DstPath = a
		}
	}

	writtenPath, err := legacyconfig.Convert(opts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitCodeFor(err)
	}
	fmt.Fprintf(stderr, "wrote %s\n", writtenPath)
	return 0
}

// exitCodeFor maps a legacyconfig.Convert error onto spec.md §6's exit-code
// table: refusal (would overwrite, or needs interactive consent) is 3,
// every other read/write/parse failure is 2.
func exitCodeFor(err error) int {
	if herr.CodeOf(err) == herr.CodeRefused {
		return 3
	}
	return 2
}
