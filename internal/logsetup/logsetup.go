// Package logsetup configures the global logrus logger from a loaded
// config.Config, per spec.md §6/§7: bracketed level tags on stderr, and an
// optional mirror to a log file (explicit --debug-log path, a derived
// /tmp/hyprlax-<pid>.log, or a /tmp/hyprlax-stderr.log fallback when stderr
// itself has been redirected to /dev/null).
package logsetup

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/hyprlax/hyprlax/internal/config"
)

// tagFormatter renders `[LEVEL] message  key=val …` lines, the bracketed
// tag spec.md §7 requires in place of logrus's default `level=info msg=…`.
type tagFormatter struct{}

func (tagFormatter) Format(e *logrus.Entry) ([]byte, error) {
	tag := levelTag(e.Level)
	buf := make([]byte, 0, len(e.Message)+32)
	buf = append(buf, '[')
	buf = append(buf, tag...)
	buf = append(buf, "] "...)
	buf = append(buf, e.Message...)
	for k, v := range e.Data {
		buf = append(buf, fmt.Sprintf(" %s=%v", k, v)...)
	}
	buf = append(buf, '\n')
	return buf, nil
}

func levelTag(l logrus.Level) string {
	switch l {
	case logrus.TraceLevel:
		return "TRACE"
	case logrus.DebugLevel:
		return "DEBUG"
	case logrus.WarnLevel:
		return "WARN"
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Configure points the global logrus logger at stderr (or a mirrored log
// file) and sets its level from cfg.Debug/cfg.Trace/cfg.Verbose. The
// returned io.Closer closes any file opened for the mirror; callers should
// defer it and may pass a no-op closer through unchanged.
func Configure(cfg *config.Config) (io.Closer, error) {
	logrus.SetFormatter(tagFormatter{})

	level, err := resolveLevel(cfg)
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(level)

	out, closer, err := resolveOutput(cfg)
	if err != nil {
		return nil, err
	}
	logrus.SetOutput(out)
	return closer, nil
}

func resolveLevel(cfg *config.Config) (logrus.Level, error) {
	if cfg.Trace {
		return logrus.TraceLevel, nil
	}
	if cfg.Debug {
		return logrus.DebugLevel, nil
	}
	switch cfg.Verbose {
	case 0:
		return logrus.InfoLevel, nil
	case 1, 2:
		return logrus.DebugLevel, nil
	case 3, 4:
		return logrus.TraceLevel, nil
	}
	return logrus.InfoLevel, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// resolveOutput decides where log lines go, per spec.md §6's --debug-log
// handling and §6's "Log file" filesystem note.
func resolveOutput(cfg *config.Config) (io.Writer, io.Closer, error) {
	path := cfg.DebugLogPath
	switch {
	case path == " ":
		// --debug-log given with no argument (pflag's NoOptDefVal sentinel).
		path = fmt.Sprintf("/tmp/hyprlax-%d.log", os.Getpid())
	case path != "":
		// explicit --debug-log=FILE, used as-is.
	case stderrIsDevNull():
		path = "/tmp/hyprlax-stderr.log"
	default:
		return os.Stderr, nopCloser{}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logsetup: open log file %q: %w", path, err)
	}
	return io.MultiWriter(os.Stderr, f), f, nil
}

func stderrIsDevNull() bool {
	devNull, err := os.Stat(os.DevNull)
	if err != nil {
		return false
	}
	stderrStat, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return os.SameFile(devNull, stderrStat)
}
