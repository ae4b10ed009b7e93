package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// GetDataPath returns the configured storage root. It expands ~ to the
// user's home directory and defaults to ~/scenecast-data.
func GetDataPath() string {
	dataPath := os.Getenv("SCENECAST_DATA_PATH")

	if dataPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "/tmp/scenecast-data"
		}
		dataPath = filepath.Join(homeDir, "scenecast-data")
	}

	if strings.HasPrefix(dataPath, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			dataPath = filepath.Join(homeDir, dataPath[2:])
		}
	}

	return dataPath
}

// GetRunsPath returns the directory holding one subdirectory per run.
func GetRunsPath() string {
	return filepath.Join(GetDataPath(), "runs")
}

// GetRunPath returns the root directory for a single run.
func GetRunPath(runID string) string {
	return filepath.Join(GetRunsPath(), runID)
}

// GetScenesPath returns the directory a run's rendered scene MP4s live in.
func GetScenesPath(runID string) string {
	return filepath.Join(GetRunPath(runID), "scenes")
}

// GetOverlaysPath returns the directory a run's caption-band PNGs live in.
func GetOverlaysPath(runID string) string {
	return filepath.Join(GetRunPath(runID), "overlays")
}

// GetAssPath returns the directory a run's typing-mode .ass files live in.
func GetAssPath(runID string) string {
	return filepath.Join(GetRunPath(runID), "ass")
}

// GetConcatOutputPath returns the path the stream-copy concatenator writes
// its joined-but-unmixed file to.
func GetConcatOutputPath(runID string) string {
	return filepath.Join(GetRunPath(runID), "concat.mp4")
}

// GetFinalOutputPath returns the path the BGM mixer writes the finished
// render to.
func GetFinalOutputPath(runID string) string {
	return filepath.Join(GetRunPath(runID), runID+".mp4")
}

// GetFontsPath returns the shared fonts directory, read by every run.
func GetFontsPath() string {
	return filepath.Join(GetDataPath(), "fonts")
}

// GetTempPath returns the temporary files directory.
func GetTempPath() string {
	return filepath.Join(GetDataPath(), "temp")
}

// EnsureRunDirectories creates the per-run directory tree a pipeline
// invocation writes into.
func EnsureRunDirectories(runID string) error {
	dirs := []string{
		GetScenesPath(runID),
		GetOverlaysPath(runID),
		GetAssPath(runID),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}

// EnsureDataDirectories creates all top-level storage directories shared
// across runs.
func EnsureDataDirectories() error {
	dirs := []string{
		GetRunsPath(),
		GetFontsPath(),
		GetTempPath(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}
