package control

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hyprlax/hyprlax/internal/herr"
)

// MaxCommandBytes bounds one request line, per spec.md §4.7.
const MaxCommandBytes = 4096

// MaxPropertyNameBytes and MaxPropertyValueBytes bound `set`/`modify`
// property tokens, per spec.md §4.7.
const (
	MaxPropertyNameBytes  = 64
	MaxPropertyValueBytes = 512
)

// Request is one parsed control-protocol command line.
type Request struct {
	Command string
	Args    []string
	JSON    bool
}

// ParseRequest tokenizes a newline-terminated command line on whitespace,
// strips a trailing --json flag (requesting a structured reply for list/
// status), and enforces the command-buffer size limit.
func ParseRequest(line string) (Request, error) {
	if len(line) > MaxCommandBytes {
		return Request{}, herr.WithDetail(herr.ErrInvalidArgs, fmt.Sprintf("command exceeds %d bytes", MaxCommandBytes))
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Request{}, herr.WithDetail(herr.ErrInvalidArgs, "empty command")
	}

	req := Request{Command: fields[0]}
	for _, f := range fields[1:] {
		if f == "--json" {
			req.JSON = true
			continue
		}
		req.Args = append(req.Args, f)
	}
	return req, nil
}

// ValidateProperty enforces spec.md §4.7's property-name and value byte
// limits.
func ValidateProperty(name, value string) error {
	if len(name) > MaxPropertyNameBytes {
		return herr.WithDetail(herr.ErrInvalidArgs, fmt.Sprintf("property name exceeds %d bytes", MaxPropertyNameBytes))
	}
	if len(value) > MaxPropertyValueBytes {
		return herr.WithDetail(herr.ErrInvalidArgs, fmt.Sprintf("property value exceeds %d bytes", MaxPropertyValueBytes))
	}
	return nil
}

// jsonOK/jsonErr mirror spec.md §4.7's client-side --json envelope:
// {"ok":bool,"output":…} / {"ok":false,"code":N,"error":"…"}.
type jsonOK struct {
	OK     bool   `json:"ok"`
	Output string `json:"output"`
}

type jsonErr struct {
	OK    bool      `json:"ok"`
	Code  herr.Code `json:"code"`
	Error string    `json:"error"`
}

// FormatResponse renders a command's outcome as either plain text
// ("Error(<code>): <message>\n" on failure) or, when jsonMode is set, the
// structured JSON envelope. output should already have any internal
// newlines normalized by the caller; a trailing newline is always
// appended.
func FormatResponse(output string, err error, jsonMode bool) string {
	if err != nil {
		if jsonMode {
			b, _ := json.Marshal(jsonErr{OK: false, Code: herr.CodeOf(err), Error: err.Error()})
			return string(b) + "\n"
		}
		return fmt.Sprintf("Error(%d): %s\n", herr.CodeOf(err), err.Error())
	}
	if jsonMode {
		b, _ := json.Marshal(jsonOK{OK: true, Output: output})
		return string(b) + "\n"
	}
	if output == "" {
		return "\n"
	}
	if !strings.HasSuffix(output, "\n") {
		output += "\n"
	}
	return output
}

// IsErrorReply reports whether a reply line represents an error: a
// plain-text reply containing "Error(" or a JSON reply containing
// "ok":false. The client maps either to a non-zero exit.
func IsErrorReply(line string) bool {
	return strings.Contains(line, "Error(") || strings.Contains(line, "\"ok\":false")
}
