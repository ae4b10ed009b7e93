// Package pipeline wires the timeline builder (C8), scene renderer (C5),
// concatenator (C6), and BGM mixer (C7) into one end-to-end run, matching
// the worker-pool/ordered-join/cancellation model of spec.md §5.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"scenecast/internal/models"
	"scenecast/pkg/concat"
	"scenecast/pkg/ffmpegrunner"
	"scenecast/pkg/mixer"
	"scenecast/pkg/overlay"
	"scenecast/pkg/render"
	"scenecast/pkg/timeline"
)

// ProgressFunc is invoked after each scene completes (phase "rendering",
// fraction of scenes done), with fraction 0 as the "concatenating" and
// "mixing" stages begin, and with ("complete", 1) once the run finishes.
type ProgressFunc func(phase string, fraction float64)

// toolRunner is the narrow subset of *ffmpegrunner.Runner this package
// needs, declared locally so tests can substitute a stub without spawning
// subprocesses — the same pattern pkg/render, pkg/concat and pkg/mixer use.
type toolRunner interface {
	Invoke(ctx context.Context, expectedDuration time.Duration, args ...string) error
	InvokeWithProgress(ctx context.Context, expectedDuration time.Duration, onProgress func(ffmpegrunner.Progress), args ...string) error
}

// Pipeline renders one script end to end into a single MP4.
type Pipeline struct {
	cfg     models.RenderConfig
	runner  toolRunner
	painter *overlay.Painter
	font    *overlay.ResolvedFont
	paths   render.Paths
	workers int
}

// New builds a Pipeline. workers <= 0 defaults to runtime.NumCPU(), matching
// spec.md §5's "configurable worker count (default = number of CPU cores)".
func New(cfg models.RenderConfig, runner toolRunner, painter *overlay.Painter, font *overlay.ResolvedFont, paths render.Paths, workers int) *Pipeline {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pipeline{cfg: cfg, runner: runner, painter: painter, font: font, paths: paths, workers: workers}
}

// Run builds the scene timeline from sources, renders every scene
// concurrently (bounded by p.workers), joins them in plan order regardless
// of completion order, then mixes in the BGM track. outPath is the final
// MP4 location; concatPath is a scratch file for the intermediate
// stream-copy join.
func (p *Pipeline) Run(ctx context.Context, sources []models.SceneSource, openingTitle string, concatPath, outPath string, onProgress ProgressFunc) ([]models.ScenePlan, error) {
	scenes, err := timeline.Build(sources, timeline.Options{
		Policy:             p.cfg.Sections,
		IntroRelief:        p.cfg.KenBurns.IntroRelief,
		IntroReliefSeconds: p.cfg.KenBurns.IntroReliefSec,
	})
	if err != nil {
		return nil, fmt.Errorf("build timeline: %w", err)
	}

	renderer := render.New(p.cfg, p.painter, p.font, p.runner, p.paths)

	scenePaths := make([]string, len(scenes))
	var totalDuration time.Duration
	for _, s := range scenes {
		totalDuration += time.Duration(s.DurationSeconds * float64(time.Second))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	var completed int32
	for i, scene := range scenes {
		i, scene := i, scene
		g.Go(func() error {
			opts := render.RenderOptions{}
			if scene.Kind == models.SceneOpening {
				opts.OpeningTitleText = openingTitle
			}

			path, err := renderer.Render(gctx, scene, opts)
			if err != nil {
				return fmt.Errorf("render scene %q: %w", scene.ID, err)
			}
			scenePaths[i] = path

			done := atomic.AddInt32(&completed, 1)
			if onProgress != nil {
				onProgress("rendering", float64(done)/float64(len(scenes)))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return scenes, err
	}

	if onProgress != nil {
		onProgress("concatenating", 0)
	}
	if err := concat.Concatenate(ctx, p.runner, p.paths.ScenesDir, scenePaths, concatPath, totalDuration); err != nil {
		return scenes, fmt.Errorf("concatenate scenes: %w", err)
	}

	if onProgress != nil {
		onProgress("mixing", 0)
	}
	if err := mixer.Mix(ctx, p.runner, concatPath, totalDuration, p.cfg.Audio, p.cfg.BGM, outPath); err != nil {
		return scenes, fmt.Errorf("mix audio: %w", err)
	}

	if onProgress != nil {
		onProgress("complete", 1)
	}

	return scenes, nil
}
