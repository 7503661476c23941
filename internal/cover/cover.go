// Package cover maintains the single cached cover-art file on disk.
package cover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultPath is the cover-art file written in the working directory.
const DefaultPath = "album_cover.jpg"

// Cache owns the cover-art file at Path.
//
// The file exists only while the latest poll reported an active track with artwork.
type Cache struct {
	Path string
}

// New creates a [Cache] for path, defaulting to [DefaultPath].
func New(path string) *Cache {
	if path == "" {
		path = DefaultPath
	}
	return &Cache{Path: path}
}

// Write replaces the file with data. The bytes land in a temp file first so readers never see a partial image.
func (c *Cache) Write(data []byte) error {
	dir := filepath.Dir(c.Path)
	tmp, err := os.CreateTemp(dir, ".cover-*")
	if err != nil {
		return fmt.Errorf("failed to create cover temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cover art: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cover art: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set cover permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.Path); err != nil {
		return fmt.Errorf("failed to move cover art into place: %w", err)
	}
	return nil
}

// Remove deletes the file if it exists and reports whether it did.
func (c *Cache) Remove() (bool, error) {
	err := os.Remove(c.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to remove cover art: %w", err)
	}
	return true, nil
}

// Exists reports whether the file is present.
func (c *Cache) Exists() bool {
	_, err := os.Stat(c.Path)
	return err == nil
}
