package control

import (
	"strings"
	"testing"

	"github.com/hyprlax/hyprlax/internal/herr"
)

func TestParseRequestTokenizesAndStripsJSON(t *testing.T) {
	req, err := ParseRequest("add /tmp/img.png scale=1.5 --json")
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if req.Command != "add" || !req.JSON {
		t.Fatalf("expected command=add json=true, got %+v", req)
	}
	if len(req.Args) != 2 || req.Args[0] != "/tmp/img.png" || req.Args[1] != "scale=1.5" {
		t.Fatalf("unexpected args: %+v", req.Args)
	}
}

func TestParseRequestRejectsOversizedLine(t *testing.T) {
	line := "add " + strings.Repeat("a", MaxCommandBytes+1)
	if _, err := ParseRequest(line); err == nil {
		t.Fatal("expected an error for a command line over the byte limit")
	}
}

func TestParseRequestRejectsEmptyLine(t *testing.T) {
	if _, err := ParseRequest("   "); err == nil {
		t.Fatal("expected an error for an empty command line")
	}
}

func TestValidatePropertyEnforcesLimits(t *testing.T) {
	if err := ValidateProperty(strings.Repeat("a", MaxPropertyNameBytes+1), "v"); err == nil {
		t.Fatal("expected an error for an oversized property name")
	}
	if err := ValidateProperty("k", strings.Repeat("v", MaxPropertyValueBytes+1)); err == nil {
		t.Fatal("expected an error for an oversized property value")
	}
	if err := ValidateProperty("scale", "1.5"); err != nil {
		t.Fatalf("expected no error for a normal property, got %v", err)
	}
}

func TestFormatResponsePlainSuccess(t *testing.T) {
	got := FormatResponse("Layer added with ID: 1", nil, false)
	if got != "Layer added with ID: 1\n" {
		t.Fatalf("unexpected response: %q", got)
	}
}

func TestFormatResponsePlainError(t *testing.T) {
	got := FormatResponse("", herr.ErrInvalidArgs, false)
	if !strings.HasPrefix(got, "Error(") {
		t.Fatalf("expected an Error(...) prefix, got %q", got)
	}
	if !IsErrorReply(got) {
		t.Fatal("IsErrorReply should recognize the plain-text error format")
	}
}

func TestFormatResponseJSONSuccess(t *testing.T) {
	got := FormatResponse("hello", nil, true)
	if !strings.Contains(got, `"ok":true`) || !strings.Contains(got, `"output":"hello"`) {
		t.Fatalf("unexpected JSON response: %q", got)
	}
}

func TestFormatResponseJSONError(t *testing.T) {
	got := FormatResponse("", herr.ErrFileNotFound, true)
	if !strings.Contains(got, `"ok":false`) {
		t.Fatalf("unexpected JSON error response: %q", got)
	}
	if !IsErrorReply(got) {
		t.Fatal("IsErrorReply should recognize the JSON error format")
	}
}

func TestFormatResponseEmptyOutputIsJustNewline(t *testing.T) {
	got := FormatResponse("", nil, false)
	if got != "\n" {
		t.Fatalf("expected a bare newline for empty non-error output, got %q", got)
	}
}
