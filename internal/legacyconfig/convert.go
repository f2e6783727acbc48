package legacyconfig

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/hyprlax/hyprlax/internal/herr"
)

// Options drives Convert. Both cmd/hyprlax's auto-offer-on-startup path and
// cmd/hyprlax-ctl's explicit `convert-config` subcommand build one of these,
// per spec.md §4.7 and §6's HYPRLAX_ASSUME_YES/HYPRLAX_NONINTERACTIVE notes.
type Options struct {
	SrcPath string
	DstPath string // resolved to DefaultPaths()'s toml path when empty

	// AssumeYes mirrors --yes/-y or a truthy HYPRLAX_ASSUME_YES.
	AssumeYes bool
	// NonInteractive mirrors --non-interactive/--batch or a truthy
	// HYPRLAX_NONINTERACTIVE; when Stdin is nil it also becomes true
	// automatically if the process's real stdin is not a terminal, matching
	// main.c's `!isatty(0)` check.
	NonInteractive bool

	Stdin  io.Reader
	Stderr io.Writer
}

// EnvAssumeYes reports whether HYPRLAX_ASSUME_YES is set to a truthy value,
// matching main.c's ad-hoc "set and not 0/false" parse.
func EnvAssumeYes() bool { return truthyEnv("HYPRLAX_ASSUME_YES") }

// EnvNonInteractive reports whether HYPRLAX_NONINTERACTIVE is set to a
// truthy value.
func EnvNonInteractive() bool { return truthyEnv("HYPRLAX_NONINTERACTIVE") }

func truthyEnv(name string) bool {
	v := os.Getenv(name)
	if v == "" {
		return false
	}
	return v != "0" && !strings.EqualFold(v, "false")
}

// Convert reads opts.SrcPath, resolves a destination, and writes the TOML
// conversion, prompting for consent when run interactively. It returns
// herr.ErrRefused when consent was needed but unavailable (maps to exit
// code 3 in cmd/hyprlax-ctl), and herr.ErrLoadFailed for read/write
// failures (maps to exit code 2), per spec.md §6's exit-code table.
func Convert(opts Options) (writtenPath string, err error) {
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	dst := opts.DstPath
	if dst == "" {
		_, defaultTOML, derr := DefaultPaths()
		if derr != nil {
			return "", herr.WithDetail(herr.ErrLoadFailed, derr.Error())
		}
		dst = defaultTOML
	}

	yes := opts.AssumeYes || EnvAssumeYes()
	nonInteractive := opts.NonInteractive || EnvNonInteractive()
	if opts.Stdin == nil {
		// Only fall back to a terminal probe against the real stdin; a
		// caller-supplied reader (tests, or a future scripted harness) is
		// trusted to set NonInteractive explicitly instead.
		nonInteractive = nonInteractive || !isTerminal(stdin)
	}

	parsed, rerr := Read(opts.SrcPath)
	if rerr != nil {
		return "", herr.WithDetail(herr.ErrLoadFailed, rerr.Error())
	}

	if !yes {
		if _, statErr := os.Stat(dst); statErr == nil {
			if nonInteractive {
				return "", herr.WithDetail(herr.ErrRefused,
					fmt.Sprintf("destination exists: %s (use --yes to overwrite)", dst))
			}
			fmt.Fprintf(stderr, "Destination %s exists. Overwrite? [y/N] ", dst)
			if !confirm(stdin) {
				return "", herr.WithDetail(herr.ErrRefused, "conversion aborted")
			}
		} else if nonInteractive {
			return "", herr.WithDetail(herr.ErrRefused,
				fmt.Sprintf("convert non-interactively with: hyprlax ctl convert-config %s %s --yes", opts.SrcPath, dst))
		} else {
			fmt.Fprintf(stderr, "Convert legacy config to TOML?\n  from: %s\n  to:   %s\nProceed? [y/N] ", opts.SrcPath, dst)
			if !confirm(stdin) {
				return "", herr.WithDetail(herr.ErrRefused, "conversion aborted")
			}
		}
	}

	if werr := WriteTOML(parsed, dst); werr != nil {
		return "", herr.WithDetail(herr.ErrLoadFailed, werr.Error())
	}

	logrus.WithFields(logrus.Fields{"src": opts.SrcPath, "dst": dst}).Info("converted legacy config")
	return dst, nil
}

func confirm(r io.Reader) bool {
	line, _ := bufio.NewReader(r).ReadString('\n')
	line = strings.TrimSpace(line)
	return strings.EqualFold(line, "y") || strings.EqualFold(line, "yes")
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
