package cover

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestCache(t *testing.T) {
	t.Run("write then remove once", func(t *testing.T) {
		c := New(filepath.Join(t.TempDir(), "album_cover.jpg"))

		if err := c.Write([]byte("jpeg")); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !c.Exists() {
			t.Fatal("expected cover file to exist")
		}

		data, _ := os.ReadFile(c.Path)
		if !bytes.Equal(data, []byte("jpeg")) {
			t.Errorf("unexpected content %q", data)
		}

		removed, err := c.Remove()
		if err != nil || !removed {
			t.Fatalf("expected removal, got %v %v", removed, err)
		}

		removed, err = c.Remove()
		if err != nil || removed {
			t.Errorf("expected no-op second removal, got %v %v", removed, err)
		}
	})

	t.Run("overwrite leaves no temp files", func(t *testing.T) {
		dir := t.TempDir()
		c := New(filepath.Join(dir, "cover.jpg"))

		_ = c.Write([]byte("one"))
		_ = c.Write([]byte("two"))

		entries, _ := os.ReadDir(dir)
		if len(entries) != 1 {
			t.Errorf("expected only the cover file, got %d entries", len(entries))
		}
		data, _ := os.ReadFile(c.Path)
		if string(data) != "two" {
			t.Errorf("expected latest content, got %q", data)
		}
	})

	t.Run("default path", func(t *testing.T) {
		if New("").Path != DefaultPath {
			t.Error("expected default path")
		}
	})
}
