package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/nowplaying/internal/shared"
)

func TestEnvFileStore(t *testing.T) {
	t.Run("missing file loads empty", func(t *testing.T) {
		s := NewEnvFileStore(filepath.Join(t.TempDir(), ".env"), "")

		token, err := s.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "" {
			t.Errorf("expected empty token, got %q", token)
		}
	})

	t.Run("round trip preserves unrelated keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		initial := "SPOTIFY_CLIENT_ID=abc123\nSPOTIFY_REFRESH_TOKEN=old\n"
		if err := os.WriteFile(path, []byte(initial), 0600); err != nil {
			t.Fatalf("failed to seed env file: %v", err)
		}

		s := NewEnvFileStore(path, shared.EnvRefreshToken)
		if err := s.Save("R1"); err != nil {
			t.Fatalf("first save failed: %v", err)
		}
		if err := s.Save("R2"); err != nil {
			t.Fatalf("second save failed: %v", err)
		}

		token, err := s.Load()
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if token != "R2" {
			t.Errorf("expected latest token R2, got %q", token)
		}

		env, err := s.Read()
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if env["SPOTIFY_CLIENT_ID"] != "abc123" {
			t.Errorf("expected unrelated key to survive, got %q", env["SPOTIFY_CLIENT_ID"])
		}
		if len(env) != 2 {
			t.Errorf("expected exactly 2 keys, got %d: %v", len(env), env)
		}
	})

	t.Run("creates file with restricted permissions", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		s := NewEnvFileStore(path, "")

		if err := s.Save("R"); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("expected file to exist: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("expected 0600, got %o", perm)
		}

		data, _ := os.ReadFile(path)
		if !strings.Contains(string(data), "SPOTIFY_REFRESH_TOKEN=") {
			t.Errorf("expected refresh token key in file, got %s", data)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		s := NewEnvFileStore("", "")
		if s.Path != ".env" || s.Key != shared.EnvRefreshToken {
			t.Errorf("unexpected defaults %+v", s)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	var s TokenStore = NewMemoryStore("seed")

	token, _ := s.Load()
	if token != "seed" {
		t.Errorf("expected seed, got %q", token)
	}

	_ = s.Save("next")
	token, _ = s.Load()
	if token != "next" {
		t.Errorf("expected next, got %q", token)
	}

	if n := s.(*MemoryStore).Saves(); n != 1 {
		t.Errorf("expected 1 save, got %d", n)
	}
}
