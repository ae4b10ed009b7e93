// Package ffmpegrunner wraps subprocess invocation of the external media
// tool (C1): building argument lists, enforcing a wall-clock deadline,
// streaming -progress output, and reporting failures with the tail of
// combined output attached.
package ffmpegrunner

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"scenecast/internal/models"
)

// execCommandContext is overridden in tests to avoid invoking a real binary.
var execCommandContext = exec.CommandContext

// Runner invokes the external media tool binary (normally "ffmpeg").
type Runner struct {
	BinaryPath string
	// DeadlineMultiple scales expected output duration into a wall-clock
	// timeout (spec §5: "proportional to expected output duration, default
	// x10").
	DeadlineMultiple float64
}

func New(binaryPath string) *Runner {
	if binaryPath == "" {
		binaryPath = "ffmpeg"
	}
	return &Runner{BinaryPath: binaryPath, DeadlineMultiple: 10}
}

// Invoke runs the tool silently (no progress parsing): used for scene
// renders that run concurrently with siblings, where per-scene console
// output would interleave illegibly.
func (r *Runner) Invoke(ctx context.Context, expectedDuration time.Duration, args ...string) error {
	return r.invoke(ctx, expectedDuration, args, nil)
}

// InvokeWithProgress runs the tool and reports parsed -progress snapshots
// to onProgress as they arrive; the scene renderer uses it when its
// RenderOptions.Progress callback is set. Concat and mix call Invoke.
func (r *Runner) InvokeWithProgress(ctx context.Context, expectedDuration time.Duration, onProgress func(Progress), args ...string) error {
	return r.invoke(ctx, expectedDuration, args, onProgress)
}

func (r *Runner) invoke(ctx context.Context, expectedDuration time.Duration, args []string, onProgress func(Progress)) error {
	deadline := time.Duration(float64(expectedDuration) * r.DeadlineMultiple)
	if deadline <= 0 {
		deadline = 10 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	fullArgs := append([]string{"-hide_banner", "-loglevel", "error", "-y"}, args...)
	if onProgress != nil {
		fullArgs = append([]string{"-progress", "pipe:1", "-nostats"}, fullArgs...)
	}

	cmd := execCommandContext(ctx, r.BinaryPath, fullArgs...)

	var combined bytes.Buffer
	cmd.Stderr = &combined

	if onProgress == nil {
		cmd.Stdout = &combined
		if err := cmd.Run(); err != nil {
			return wrapFailure(cmd, combined.Bytes(), ctx, deadline, err)
		}
		return nil
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("scenecast: failed to open stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("scenecast: failed to start %s: %w", r.BinaryPath, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		parseProgress(bufio.NewReader(stdout), onProgress)
	}()
	<-done

	if err := cmd.Wait(); err != nil {
		return wrapFailure(cmd, combined.Bytes(), ctx, deadline, err)
	}
	return nil
}

func wrapFailure(cmd *exec.Cmd, output []byte, ctx context.Context, deadline time.Duration, err error) error {
	commandLine := strings.Join(cmd.Args, " ")
	if ctx.Err() == context.DeadlineExceeded {
		return &models.ExternalToolTimeout{Command: commandLine, Deadline: deadline.String()}
	}
	if ctx.Err() == context.Canceled {
		return models.ErrCancelled
	}
	exitCode := -1
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	}
	return &models.ExternalToolFailure{Command: commandLine, ExitCode: exitCode, Tail: tail(output, 50)}
}

// tail returns the last n lines of output, for attaching to failure errors
// without dumping an entire log.
func tail(output []byte, n int) string {
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

// PathExists reports whether path exists and is a regular, non-empty file;
// used by the concatenator and asset checks before invoking the tool.
func PathExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}
