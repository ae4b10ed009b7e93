package ffmpegrunner

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathExistsTrueForNonEmptyFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "f.mp4")
	if err := os.WriteFile(p, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !PathExists(p) {
		t.Errorf("PathExists(%q) = false, want true", p)
	}
}

func TestPathExistsFalseForMissingOrEmpty(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope.mp4")
	if PathExists(missing) {
		t.Errorf("PathExists(%q) = true, want false", missing)
	}

	empty := filepath.Join(dir, "empty.mp4")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if PathExists(empty) {
		t.Errorf("PathExists(%q) = true, want false for empty file", empty)
	}

	if PathExists(dir) {
		t.Errorf("PathExists(%q) = true, want false for a directory", dir)
	}
}

func TestNewDefaultsBinaryPathToFFmpeg(t *testing.T) {
	r := New("")
	if r.BinaryPath != "ffmpeg" {
		t.Errorf("BinaryPath = %q, want %q", r.BinaryPath, "ffmpeg")
	}
	if r.DeadlineMultiple != 10 {
		t.Errorf("DeadlineMultiple = %v, want 10", r.DeadlineMultiple)
	}
}
