// Package herr defines the daemon's error taxonomy.
//
// Every sentinel here carries a stable numeric code so the control protocol
// can round-trip a structured `{"ok":false,"code":N,"error":"..."}` reply
// without the client needing to parse English text.
package herr

import "errors"

// Code identifies an error class for the control protocol's structured replies.
type Code int

const (
	CodeUnknown Code = iota
	CodeInvalidArgs
	CodeNoMemory
	CodeNoDisplay
	CodeNoCompositor
	CodeGLInit
	CodeFileNotFound
	CodeLoadFailed
	CodeNoData
	CodeAlreadyRunning
	CodeRefused
)

// Coded is implemented by every sentinel in this package so callers can
// recover a stable Code from a wrapped error via errors.As.
type Coded interface {
	error
	Code() Code
}

type codedError struct {
	code Code
	msg  string
}

func (e *codedError) Error() string { return e.msg }
func (e *codedError) Code() Code    { return e.code }

func new(code Code, msg string) *codedError { return &codedError{code: code, msg: msg} }

var (
	// ErrInvalidArgs means user input failed validation.
	ErrInvalidArgs = new(CodeInvalidArgs, "invalid arguments")
	// ErrNoMemory means an allocation failed.
	ErrNoMemory = new(CodeNoMemory, "out of memory")
	// ErrNoDisplay means the windowing system connection could not be established.
	ErrNoDisplay = new(CodeNoDisplay, "no display connection")
	// ErrNoCompositor means no compositor IPC transport could be reached.
	ErrNoCompositor = new(CodeNoCompositor, "no compositor connection")
	// ErrGLInit means GPU context/shader/pipeline initialization failed.
	ErrGLInit = new(CodeGLInit, "graphics initialization failed")
	// ErrFileNotFound means an image or config file could not be read.
	ErrFileNotFound = new(CodeFileNotFound, "file not found")
	// ErrLoadFailed means a file was readable but failed to parse/decode.
	ErrLoadFailed = new(CodeLoadFailed, "load failed")
	// ErrNoData means a polling API had nothing to report; not a real error.
	ErrNoData = new(CodeNoData, "no data")
	// ErrAlreadyRunning means another daemon instance owns the control socket.
	ErrAlreadyRunning = new(CodeAlreadyRunning, "already running")
	// ErrRefused means an operation needed interactive consent it didn't have
	// (e.g. legacy config conversion run non-interactively without --yes).
	ErrRefused = new(CodeRefused, "refused")
)

// CodeOf extracts the stable Code from err, or CodeUnknown if err does not
// wrap a Coded sentinel from this package.
func CodeOf(err error) Code {
	var c Coded
	if errors.As(err, &c) {
		return c.Code()
	}
	return CodeUnknown
}

// WithDetail wraps a sentinel with additional context while preserving its Code
// for errors.As / CodeOf.
func WithDetail(sentinel Coded, detail string) error {
	return &codedError{code: sentinel.Code(), msg: sentinel.Error() + ": " + detail}
}

// IsNoData reports whether err is (or wraps) ErrNoData — the loop treats this
// as "nothing happened" rather than a real failure.
func IsNoData(err error) bool {
	return errors.Is(err, error(ErrNoData)) || CodeOf(err) == CodeNoData
}
