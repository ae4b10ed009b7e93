// Package concat implements C6: stream-copy concatenation of per-scene MP4s
// into one intermediate, in timeline order, with no re-encode.
package concat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"scenecast/internal/models"
	"scenecast/pkg/ffmpegrunner"
)

type toolRunner interface {
	Invoke(ctx context.Context, expectedDuration time.Duration, args ...string) error
}

// Concatenate validates inputs, then either stream-copies a single input
// straight to outPath or writes a concat-list file and invokes the tool
// with the concat demuxer. Both paths apply +faststart. totalDuration is
// used only to size the subprocess deadline.
func Concatenate(ctx context.Context, runner toolRunner, listDir string, inputs []string, outPath string, totalDuration time.Duration) error {
	for _, in := range inputs {
		if !ffmpegrunner.PathExists(in) {
			return fmt.Errorf("%w: %s", models.ErrConcatInputInvalid, in)
		}
	}
	if len(inputs) == 0 {
		return models.ErrConcatInputInvalid
	}

	if len(inputs) == 1 {
		return runner.Invoke(ctx, totalDuration,
			"-i", inputs[0],
			"-c", "copy",
			"-movflags", "+faststart",
			outPath,
		)
	}

	listPath := filepath.Join(listDir, "concat_list.txt")
	listContents := writeListContents(inputs)
	if err := os.WriteFile(listPath, []byte(listContents), 0o644); err != nil {
		return fmt.Errorf("scenecast: failed to write concat list: %w", err)
	}

	err := runner.Invoke(ctx, totalDuration,
		"-safe", "0",
		"-f", "concat",
		"-i", listPath,
		"-c", "copy",
		"-movflags", "+faststart",
		outPath,
	)
	if err != nil {
		return fmt.Errorf("scenecast: concat failed (list head/tail below):\n%s\n%w", headTail(listContents, 3), err)
	}
	return nil
}

// writeListContents formats the concat demuxer's list file: a version
// header followed by one `file '<path>'` line per entry.
func writeListContents(inputs []string) string {
	out := "version 1.0\n"
	for _, in := range inputs {
		out += fmt.Sprintf("file '%s'\n", in)
	}
	return out
}

// headTail returns the first and last n lines of s, for attaching to a
// concat failure without dumping a potentially long list.
func headTail(s string, n int) string {
	lines := splitLines(s)
	if len(lines) <= 2*n {
		return s
	}
	head := lines[:n]
	tail := lines[len(lines)-n:]
	out := ""
	for _, l := range head {
		out += l + "\n"
	}
	out += "...\n"
	for _, l := range tail {
		out += l + "\n"
	}
	return out
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
