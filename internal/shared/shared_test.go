package shared

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestStatusError(t *testing.T) {
	err := fmt.Errorf("poll: %w", NewStatusError(ErrPollFailed, 500))

	if !errors.Is(err, ErrPollFailed) {
		t.Error("expected wrapped error to match ErrPollFailed")
	}
	if errors.Is(err, ErrRefreshFailed) {
		t.Error("did not expect match on ErrRefreshFailed")
	}
	if code := StatusCode(err); code != 500 {
		t.Errorf("expected status 500, got %d", code)
	}
	if code := StatusCode(errors.New("plain")); code != 0 {
		t.Errorf("expected status 0 for plain error, got %d", code)
	}
}

func TestIsTransient(t *testing.T) {
	tc := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"server error", NewStatusError(ErrPollFailed, http.StatusBadGateway), true},
		{"rate limited", NewStatusError(ErrPollFailed, http.StatusTooManyRequests), true},
		{"unauthorized", NewStatusError(ErrPollFailed, http.StatusUnauthorized), false},
		{"refresh failure", NewStatusError(ErrRefreshFailed, http.StatusInternalServerError), false},
		{"timeout", WrapNetErr(ErrPollFailed, context.DeadlineExceeded), true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapNetErr(t *testing.T) {
	t.Run("deadline becomes timeout", func(t *testing.T) {
		err := WrapNetErr(ErrPollFailed, context.DeadlineExceeded)
		if !errors.Is(err, ErrNetworkTimeout) {
			t.Errorf("expected ErrNetworkTimeout, got %v", err)
		}
		if !errors.Is(err, ErrPollFailed) {
			t.Errorf("expected kind to be kept, got %v", err)
		}
	})

	t.Run("other errors keep kind only", func(t *testing.T) {
		err := WrapNetErr(ErrRefreshFailed, errors.New("connection refused"))
		if errors.Is(err, ErrNetworkTimeout) {
			t.Error("did not expect timeout")
		}
		if !errors.Is(err, ErrRefreshFailed) {
			t.Errorf("expected ErrRefreshFailed, got %v", err)
		}
	})

	t.Run("nil stays nil", func(t *testing.T) {
		if WrapNetErr(ErrPollFailed, nil) != nil {
			t.Error("expected nil")
		}
	})
}

func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	b, _ := GenerateState()
	if a == "" || a == b {
		t.Errorf("expected distinct non-empty states, got %q and %q", a, b)
	}
}

func TestParseLogLevel(t *testing.T) {
	if ParseLogLevel("debug") != log.DebugLevel {
		t.Error("expected debug level")
	}
	if ParseLogLevel("nonsense") != log.InfoLevel {
		t.Error("expected info fallback")
	}
	if ParseLogLevel("") != log.InfoLevel {
		t.Error("expected info for empty")
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	logger.Info("hello")
}

func TestBrowserCommand(t *testing.T) {
	tc := []struct {
		goos string
		bin  string
		ok   bool
	}{
		{"darwin", "open", true},
		{"linux", "xdg-open", true},
		{"windows", "rundll32", true},
		{"plan9", "", false},
	}

	for _, tt := range tc {
		t.Run(tt.goos, func(t *testing.T) {
			cmd, err := browserCommand(tt.goos, "http://example.com")
			if !tt.ok {
				if err == nil {
					t.Error("expected unsupported platform error")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if filepath.Base(cmd.Args[0]) != tt.bin {
				t.Errorf("expected %s, got %s", tt.bin, cmd.Args[0])
			}
		})
	}

	t.Run("OpenBrowser unsupported", func(t *testing.T) {
		orig := getRuntime
		getRuntime = func() string { return "plan9" }
		t.Cleanup(func() { getRuntime = orig })

		if err := OpenBrowser("http://example.com"); err == nil {
			t.Error("expected error on unsupported platform")
		}
	})
}
