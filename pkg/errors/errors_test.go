package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeUsage, "missing %s", "width")

	if err.Code != ErrCodeUsage {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUsage)
	}

	if err.Message != "missing width" {
		t.Errorf("Message = %v, want %v", err.Message, "missing width")
	}

	expected := "USAGE: missing width"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ErrCodeExternalTool, cause, "compile stack")

	if err.Code != ErrCodeExternalTool {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeExternalTool)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeGeometry, "test"),
			code:     ErrCodeGeometry,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeGeometry, "test"),
			code:     ErrCodeUsage,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      fmt.Errorf("plan: %w", New(ErrCodeUsage, "inner")),
			code:     ErrCodeUsage,
			expected: true,
		},
		{
			name:     "joined errors",
			err:      errors.Join(New(ErrCodeInternal, "a"), New(ErrCodeExternalTool, "b")),
			code:     ErrCodeExternalTool,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeUsage,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeUsage,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeDeclined, "test"), ErrCodeDeclined},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeUsage, "friendly message"), "friendly message"},
		{"with cause", Wrap(ErrCodeExternalTool, errors.New("boom"), "openscad failed"), "openscad failed: boom"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"usage", New(ErrCodeUsage, "x"), 1},
		{"declined", New(ErrCodeDeclined, "x"), 1},
		{"cancelled", fmt.Errorf("run: %w", context.Canceled), 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
