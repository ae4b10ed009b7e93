package overlay

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// CacheKey identifies one painted PNG by everything that can change its
// pixels: text content, band geometry inputs, colours, and font identity.
type CacheKey struct {
	Text       string
	Width      int
	Height     int
	FontSize   float64
	TextColor  [4]uint8
	BandColor  [4]uint8
	FontIdent  string
}

// Hash produces a stable filename-safe digest of the key.
func (k CacheKey) Hash() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%d|%v|%v|%v|%s", k.Text, k.Width, k.Height, k.FontSize, k.TextColor, k.BandColor, k.FontIdent)
	return hex.EncodeToString(h.Sum(nil))[:24]
}

// Cache resolves cache keys to file paths under one run directory, writing
// through an exclusive create-then-rename protocol so concurrent scene
// renderers never observe a partially-written PNG for the same key
// (spec §5: "concurrent writes to the same key are serialised by an
// exclusive file-create-then-rename protocol").
type Cache struct {
	dir string
}

func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Path returns the final path a given key would live at, whether or not it
// has been written yet.
func (c *Cache) Path(key CacheKey) string {
	return filepath.Join(c.dir, key.Hash()+".png")
}

// GetOrCreate returns the cached file's path if it already exists;
// otherwise it calls render to produce the PNG bytes, writes them to a
// temp file in the same directory, and renames atomically into place.
// If another goroutine has already renamed its file into place, this
// rename replaces it with identical bytes for the same key; if the rename
// fails while the final file exists, the temp file is discarded and the
// existing path is returned.
func (c *Cache) GetOrCreate(key CacheKey, render func() ([]byte, error)) (string, error) {
	final := c.Path(key)
	if _, err := os.Stat(final); err == nil {
		return final, nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("overlay cache: mkdir: %w", err)
	}

	data, err := render()
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(c.dir, ".tmp-*.png")
	if err != nil {
		return "", fmt.Errorf("overlay cache: create temp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("overlay cache: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("overlay cache: close temp: %w", err)
	}

	if err := os.Rename(tmpPath, final); err != nil {
		// Another writer may have already produced `final`; tolerate that.
		if _, statErr := os.Stat(final); statErr == nil {
			os.Remove(tmpPath)
			return final, nil
		}
		os.Remove(tmpPath)
		return "", fmt.Errorf("overlay cache: rename: %w", err)
	}

	return final, nil
}
