package worker

import (
	"context"
	"fmt"

	"scenecast/internal/database"
	"scenecast/internal/models"
	"scenecast/internal/pipeline"
	"scenecast/internal/services"
	"scenecast/internal/utils"
	"scenecast/pkg/ffmpegrunner"
	"scenecast/pkg/logger"
	"scenecast/pkg/overlay"
	"scenecast/pkg/render"
)

// Processor turns one run manifest into a finished MP4, writing its render
// log to the run's log directory and updating scene rows as they land.
type Processor struct {
	sceneRepo    *database.SceneRepository
	broadcaster  *services.ProgressBroadcaster
	storagePath  string
	ffmpegBinary string
}

// NewProcessor creates a new processor.
func NewProcessor(sceneRepo *database.SceneRepository, broadcaster *services.ProgressBroadcaster, storagePath, ffmpegBinary string) *Processor {
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	return &Processor{sceneRepo: sceneRepo, broadcaster: broadcaster, storagePath: storagePath, ffmpegBinary: ffmpegBinary}
}

// Process executes the full render pipeline for run.
func (p *Processor) Process(ctx context.Context, run *models.RunManifest) (string, error) {
	renderLog, err := logger.NewRenderLogger(p.storagePath, run.ID, nil)
	if err != nil {
		return "", fmt.Errorf("create render logger: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			renderLog.Error("pipeline panicked: %v", r)
			renderLog.Close(false, fmt.Sprintf("panic: %v", r))
		}
	}()

	renderLog.Phase("SETUP", "preparing run directories and resolving assets")
	renderLog.Property("run id", run.ID)
	renderLog.Property("script blocks", len(run.Sources))

	if err := utils.EnsureRunDirectories(run.ID); err != nil {
		renderLog.Error("failed to create run directories: %v", err)
		renderLog.Close(false, err.Error())
		return "", fmt.Errorf("prepare run directories: %w", err)
	}

	font, err := overlay.ResolveFont(run.Config.Text.FontPath)
	if err != nil {
		renderLog.Error("font resolution failed: %v", err)
		renderLog.Close(false, err.Error())
		return "", fmt.Errorf("resolve font: %w", err)
	}
	renderLog.Property("font", font.Path)

	painter := overlay.NewPainter(run.Config, font, utils.GetOverlaysPath(run.ID))
	runner := ffmpegrunner.New(p.ffmpegBinary)
	paths := render.Paths{
		ScenesDir:   utils.GetScenesPath(run.ID),
		OverlaysDir: utils.GetOverlaysPath(run.ID),
		AssDir:      utils.GetAssPath(run.ID),
		FontsDir:    utils.GetFontsPath(),
	}

	pl := pipeline.New(run.Config, runner, painter, font, paths, run.Config.Workers)

	renderLog.Phase("RENDER", "rendering scenes, concatenating, mixing BGM")
	// onProgress runs concurrently, once per in-flight scene, during the
	// rendering phase — it must never mutate run itself and instead builds
	// each update from the run's immutable identity fields directly.
	onProgress := func(phase string, fraction float64) {
		progress := fraction
		switch phase {
		case "rendering":
			progress = fraction * 0.8
		case "concatenating":
			progress = 0.85
		case "mixing":
			progress = 0.95
		case "complete":
			progress = 1
		}
		renderLog.Info("%s: %.0f%%", phase, progress*100)
		p.broadcaster.Broadcast(services.ProgressUpdate{
			RunID:    run.ID,
			Status:   models.RunProcessing,
			Phase:    phase,
			Progress: progress,
			Message:  phase,
		})
	}

	concatPath := utils.GetConcatOutputPath(run.ID)
	outPath := utils.GetFinalOutputPath(run.ID)

	scenes, err := pl.Run(ctx, run.Sources, run.OpeningTitle, concatPath, outPath, onProgress)
	if len(scenes) > 0 {
		if err := p.sceneRepo.CreateAll(run.ID, scenes); err != nil {
			renderLog.Error("failed to persist scene plan: %v", err)
		}
	}
	if err != nil {
		renderLog.Error("render pipeline failed: %v", err)
		renderLog.Close(false, err.Error())
		return "", err
	}

	renderLog.Success("render pipeline completed successfully")
	renderLog.Property("output", outPath)
	renderLog.Close(true, "all phases completed without errors")

	return outPath, nil
}
