// Package logger implements C10: a run-scoped render log, mirrored to both
// a per-run log file and the console, adapted from the teacher's
// song-scoped file-only logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RenderLogger handles verbose logging for one run's render pipeline.
type RenderLogger struct {
	runID     string
	logPath   string
	file      *os.File
	console   io.Writer
	mu        sync.Mutex
	startTime time.Time
}

// NewRenderLogger creates a new render logger for runID. Deletes an
// existing log file if present and creates a new one; console is the
// stream mirrored alongside the file (typically os.Stdout).
func NewRenderLogger(storagePath, runID string, console io.Writer) (*RenderLogger, error) {
	logDir := filepath.Join(storagePath, "logs", runID)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "log.txt")

	if _, err := os.Stat(logPath); err == nil {
		if err := os.Remove(logPath); err != nil {
			return nil, fmt.Errorf("failed to delete existing log: %w", err)
		}
	}

	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if console == nil {
		console = os.Stdout
	}

	rl := &RenderLogger{
		runID:     runID,
		logPath:   logPath,
		file:      file,
		console:   console,
		startTime: time.Now(),
	}

	rl.writeHeader()
	return rl, nil
}

func (rl *RenderLogger) writeHeader() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	header := fmt.Sprintf(`================================================================================
SCENECAST - RENDER LOG
Run ID: %s
Started: %s
================================================================================

`, rl.runID, rl.startTime.Format("2006-01-02 15:04:05 MST"))

	rl.writeBoth(header)
}

// Phase logs the start of a processing phase.
func (rl *RenderLogger) Phase(name string, description string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	elapsed := time.Since(rl.startTime).Round(time.Millisecond)
	msg := fmt.Sprintf("\n[%s] ========== PHASE: %s ==========\n", elapsed, name)
	if description != "" {
		msg += fmt.Sprintf("Description: %s\n", description)
	}
	msg += "\n"

	rl.writeBoth(msg)
}

// Info logs an informational message.
func (rl *RenderLogger) Info(format string, args ...interface{}) {
	rl.log("INFO", format, args...)
}

// Debug logs a debug message with verbose details.
func (rl *RenderLogger) Debug(format string, args ...interface{}) {
	rl.log("DEBUG", format, args...)
}

// Property logs a key-value property.
func (rl *RenderLogger) Property(key string, value interface{}) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	elapsed := time.Since(rl.startTime).Round(time.Millisecond)
	rl.writeBoth(fmt.Sprintf("[%s] PROPERTY: %s = %v\n", elapsed, key, value))
}

// Command logs a command that will be executed.
func (rl *RenderLogger) Command(cmdStr string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	elapsed := time.Since(rl.startTime).Round(time.Millisecond)
	rl.writeBoth(fmt.Sprintf("[%s] COMMAND: %s\n", elapsed, cmdStr))
}

// Output logs command output. Written only to the file, not the console,
// since combined ffmpeg output can be long and the console already shows
// the live progress bar.
func (rl *RenderLogger) Output(output string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if output == "" {
		return
	}

	elapsed := time.Since(rl.startTime).Round(time.Millisecond)
	msg := fmt.Sprintf("[%s] OUTPUT:\n%s\n", elapsed, output)
	rl.file.WriteString(msg)
	rl.file.Sync()
}

// Error logs an error message.
func (rl *RenderLogger) Error(format string, args ...interface{}) {
	rl.log("ERROR", format, args...)
}

// Success logs a success message.
func (rl *RenderLogger) Success(format string, args ...interface{}) {
	rl.log("SUCCESS", format, args...)
}

func (rl *RenderLogger) log(level string, format string, args ...interface{}) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	elapsed := time.Since(rl.startTime).Round(time.Millisecond)
	message := fmt.Sprintf(format, args...)
	rl.writeBoth(fmt.Sprintf("[%s] %s: %s\n", elapsed, level, message))
}

// writeBoth writes msg to the file and mirrors it to the console. Callers
// must hold rl.mu.
func (rl *RenderLogger) writeBoth(msg string) {
	rl.file.WriteString(msg)
	rl.file.Sync()
	fmt.Fprint(rl.console, msg)
}

// Close closes the log file and writes a footer to both sinks.
func (rl *RenderLogger) Close(success bool, finalMessage string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	elapsed := time.Since(rl.startTime).Round(time.Millisecond)
	endTime := time.Now()

	status := "COMPLETED SUCCESSFULLY"
	if !success {
		status = "FAILED"
	}

	footer := fmt.Sprintf(`
================================================================================
RENDER %s
Duration: %s
Completed: %s
%s
================================================================================
`, status, elapsed, endTime.Format("2006-01-02 15:04:05 MST"), finalMessage)

	rl.writeBoth(footer)
	return rl.file.Close()
}

// GetLogPath returns the path to the log file.
func (rl *RenderLogger) GetLogPath() string {
	return rl.logPath
}
