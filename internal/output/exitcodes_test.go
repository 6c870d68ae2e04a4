package output

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestConstructors(t *testing.T) {
	cause := fs.ErrNotExist
	tests := []struct {
		name string
		err  *ExitError
		code int
	}{
		{"user", NewUserError("bad flag"), ExitUserError},
		{"user with cause", NewUserErrorWithCause("missing", cause), ExitUserError},
		{"system", NewSystemError("write failed"), ExitSystemError},
		{"system with cause", NewSystemErrorWithCause("read failed", cause), ExitSystemError},
		{"conflict", NewConflictError("exists"), ExitConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.code)
			}
			if tt.err.Error() != tt.err.Message {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.err.Message)
			}
		})
	}
}

func TestExitError_KeepsCause(t *testing.T) {
	err := NewUserErrorWithCause("document not found: E.md", fs.ErrNotExist)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should reach the cause")
	}
	if errors.Is(NewUserError("x"), fs.ErrNotExist) {
		t.Error("an error without a cause should not match")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitUserError},
		{"system", NewSystemError("disk"), ExitSystemError},
		{"wrapped conflict", fmt.Errorf("sync: %w", NewConflictError("exists")), ExitConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
