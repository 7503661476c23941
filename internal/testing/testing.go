// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/nowplaying/internal/models"
)

// StaticTokens is a test double for services.TokenProvider.
type StaticTokens struct {
	Token string
	Err   error
	mu    sync.Mutex
	calls int
}

func (s *StaticTokens) EnsureValidToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.Token, s.Err
}

func (s *StaticTokens) Authenticate(ctx context.Context) error {
	return s.Err
}

// Calls reports how many tokens were requested.
func (s *StaticTokens) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Step is one scripted poll outcome for [ScriptedFetcher].
type Step struct {
	NowPlaying *models.NowPlaying
	Err        error
}

// ScriptedFetcher is a test double for services.NowPlayingFetcher that replays Steps in order.
//
// Once the script runs out it calls OnExhausted (if set) and keeps returning the last step.
type ScriptedFetcher struct {
	Steps       []Step
	OnExhausted func()
	mu          sync.Mutex
	calls       int
}

func (s *ScriptedFetcher) Fetch(ctx context.Context) (*models.NowPlaying, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.calls
	s.calls++
	if idx >= len(s.Steps) {
		if s.OnExhausted != nil {
			s.OnExhausted()
		}
		idx = len(s.Steps) - 1
	}
	step := s.Steps[idx]
	return step.NowPlaying, step.Err
}

// Calls reports how many times Fetch ran.
func (s *ScriptedFetcher) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
	Requests []*http.Request
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.Requests = append(m.Requests, req)
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

// FreeAddr returns a loopback host:port that was free a moment ago.
func FreeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to find a free port: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
