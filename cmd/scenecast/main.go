// Command scenecast renders one script end to end without the HTTP server,
// printing the same progress bar the server's queue worker feeds over SSE.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"scenecast/internal/models"
	"scenecast/internal/pipeline"
	"scenecast/internal/utils"
	"scenecast/pkg/ffmpegrunner"
	"scenecast/pkg/overlay"
	"scenecast/pkg/render"
)

var (
	scriptPath string
	configPath string
	outPath    string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a script into a single MP4",
	RunE:  runRender,
}

var rootCmd = &cobra.Command{
	Use:   "scenecast",
	Short: "Deterministic, script-driven long-form video renderer",
}

func init() {
	renderCmd.Flags().StringVar(&scriptPath, "script", "", "path to a JSON file of scene sources (required)")
	renderCmd.Flags().StringVar(&configPath, "config", "", "path to a JSON render config override (optional)")
	renderCmd.Flags().StringVar(&outPath, "out", "", "output MP4 path (required)")
	renderCmd.MarkFlagRequired("script")
	renderCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(renderCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// scriptFile is the on-disk shape --script points to: a title card plus the
// already-synthesised narration/still sources the external asset pipeline
// produced.
type scriptFile struct {
	OpeningTitle string               `json:"opening_title"`
	Sources      []models.SceneSource `json:"sources"`
}

func runRender(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script file: %w", err)
	}
	var sf scriptFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("parse script file: %w", err)
	}

	cfg := models.DefaultRenderConfig()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
	}

	runID := uuid.NewString()
	if err := utils.EnsureRunDirectories(runID); err != nil {
		return fmt.Errorf("prepare run directories: %w", err)
	}

	font, err := overlay.ResolveFont(cfg.Text.FontPath)
	if err != nil {
		return fmt.Errorf("resolve font: %w", err)
	}

	painter := overlay.NewPainter(cfg, font, utils.GetOverlaysPath(runID))
	runner := ffmpegrunner.New("ffmpeg")
	paths := render.Paths{
		ScenesDir:   utils.GetScenesPath(runID),
		OverlaysDir: utils.GetOverlaysPath(runID),
		AssDir:      utils.GetAssPath(runID),
		FontsDir:    utils.GetFontsPath(),
	}

	pl := pipeline.New(cfg, runner, painter, font, paths, cfg.Workers)

	bar := ffmpegrunner.NewBar(os.Stdout, 40, 100*time.Millisecond)

	concatPath := filepath.Join(utils.GetRunPath(runID), "concat.mp4")

	_, err = pl.Run(context.Background(), sf.Sources, sf.OpeningTitle, concatPath, outPath, func(phase string, fraction float64) {
		bar.Update(phase, fraction, phase == "complete")
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	fmt.Printf("\nwrote %s\n", outPath)
	return nil
}
