package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "runtime diagnostic",
			code:    "R001",
			wantMsg: "value cannot be made reactive",
			wantCat: CategoryRuntime,
		},
		{
			name:    "config error",
			code:    "C002",
			wantMsg: "invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "devtools error",
			code:    "D002",
			wantMsg: "trace archive upload failed",
			wantCat: CategoryDevtools,
		},
		{
			name:    "unknown error code",
			code:    "R999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "unknown workload %q", "storm")
	if err.Message != `unknown workload "storm"` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestReactiveError_Error(t *testing.T) {
	if got, want := New("R002").Error(), "R002: set operation failed: target is readonly"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &ReactiveError{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}

	wrapped := New("C001").Wrap(fmt.Errorf("permission denied"))
	if !strings.HasSuffix(wrapped.Error(), ": permission denied") {
		t.Errorf("Error() = %q, want cause suffix", wrapped.Error())
	}
}

func TestReactiveError_IsMatchesCode(t *testing.T) {
	err := fmt.Errorf("loading: %w", New("C001").Wrap(stderrors.New("boom")))

	if !stderrors.Is(err, New("C001")) {
		t.Error("errors.Is should match the same code through wrapping")
	}
	if stderrors.Is(err, New("C002")) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "C001") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	re := New("C001")
	if FromError(re, "C002") != re {
		t.Error("FromError should return ReactiveError as-is")
	}

	cause := stderrors.New("disk full")
	result := FromError(cause, "D002")
	if result.Wrapped != cause {
		t.Error("standard error should be wrapped")
	}
	if !stderrors.Is(result, cause) {
		t.Error("errors.Is should reach the cause")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("R004")
	out := err.Format()

	for _, want := range []string{"ERROR R004:", "raw and reactive", "Hint:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}

	if got := err.FormatCompact(); got != "R004: "+err.Message {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, fmt.Errorf("outer: %w", New("D001")))
	if !strings.Contains(buf.String(), "ERROR D001:") {
		t.Errorf("Fprint() = %q, want coded format", buf.String())
	}

	buf.Reset()
	Fprint(&buf, stderrors.New("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("Fprint() = %q, want plain format", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 40), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line %q longer than 20", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should produce no lines")
	}
}
