package concat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scenecast/internal/models"
)

type stubRunner struct {
	args [][]string
	err  error
}

func (s *stubRunner) Invoke(ctx context.Context, expected time.Duration, args ...string) error {
	s.args = append(s.args, args)
	return s.err
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestConcatenateRejectsMissingInput(t *testing.T) {
	dir := t.TempDir()
	runner := &stubRunner{}
	err := Concatenate(context.Background(), runner, dir, []string{filepath.Join(dir, "missing.mp4")}, filepath.Join(dir, "out.mp4"), time.Second)
	if !errors.Is(err, models.ErrConcatInputInvalid) {
		t.Errorf("err = %v, want ErrConcatInputInvalid", err)
	}
}

func TestConcatenateRejectsEmptyInputList(t *testing.T) {
	dir := t.TempDir()
	runner := &stubRunner{}
	err := Concatenate(context.Background(), runner, dir, nil, filepath.Join(dir, "out.mp4"), time.Second)
	if !errors.Is(err, models.ErrConcatInputInvalid) {
		t.Errorf("err = %v, want ErrConcatInputInvalid", err)
	}
}

func TestConcatenateSingleInputStreamCopiesWithoutConcatDemuxer(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "scene-0.mp4")
	runner := &stubRunner{}

	if err := Concatenate(context.Background(), runner, dir, []string{in}, filepath.Join(dir, "out.mp4"), time.Second); err != nil {
		t.Fatalf("Concatenate() error = %v", err)
	}
	if len(runner.args) != 1 {
		t.Fatalf("expected exactly one invocation, got %d", len(runner.args))
	}
	for _, a := range runner.args[0] {
		if a == "concat" {
			t.Errorf("single-input path should not use the concat demuxer, args=%v", runner.args[0])
		}
	}
}

func TestConcatenateMultipleInputsWritesOrderedListFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "scene-0.mp4")
	b := writeFile(t, dir, "scene-1.mp4")
	runner := &stubRunner{}

	if err := Concatenate(context.Background(), runner, dir, []string{a, b}, filepath.Join(dir, "out.mp4"), time.Second); err != nil {
		t.Fatalf("Concatenate() error = %v", err)
	}

	listPath := filepath.Join(dir, "concat_list.txt")
	data, err := os.ReadFile(listPath)
	if err != nil {
		t.Fatalf("expected concat list file to exist: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "version 1.0\n") {
		t.Errorf("list file missing version header: %q", content)
	}
	idxA := strings.Index(content, a)
	idxB := strings.Index(content, b)
	if idxA == -1 || idxB == -1 || idxA > idxB {
		t.Errorf("list file entries not in input order: %q", content)
	}

	found := false
	for _, a := range runner.args[0] {
		if a == "concat" {
			found = true
		}
	}
	if !found {
		t.Errorf("multi-input path should use the concat demuxer, args=%v", runner.args[0])
	}
}

func TestConcatenateWrapsFailureWithListHeadTail(t *testing.T) {
	dir := t.TempDir()
	inputs := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		inputs = append(inputs, writeFile(t, dir, fmt.Sprintf("scene-%d.mp4", i)))
	}
	runner := &stubRunner{err: errors.New("boom")}

	err := Concatenate(context.Background(), runner, dir, inputs, filepath.Join(dir, "out.mp4"), time.Second)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "...") {
		t.Errorf("expected truncated head/tail in error, got: %v", err)
	}
}
