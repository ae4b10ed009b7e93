// Package render implements C5: the per-scene renderer orchestrating the
// overlay painter (C2), subtitle builder (C3), filter-graph composer (C4),
// and subprocess runner (C1) into one scene MP4.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"scenecast/internal/models"
	"scenecast/pkg/ffmpegrunner"
	"scenecast/pkg/filtergraph"
	"scenecast/pkg/overlay"
	"scenecast/pkg/subtitle"
)

// Paths collects the per-run directory locations a scene render writes to
// and reads from.
type Paths struct {
	ScenesDir   string
	OverlaysDir string
	AssDir      string
	FontsDir    string
}

func (p Paths) ScenePath(sceneID string) string {
	return filepath.Join(p.ScenesDir, sceneID+".mp4")
}

func (p Paths) AssPath(sceneID string) string {
	return filepath.Join(p.AssDir, sceneID+".ass")
}

// Renderer renders one ScenePlan into scenes/<id>.mp4.
// toolRunner is the subset of *ffmpegrunner.Runner the scene renderer needs;
// accepting the interface (rather than the concrete type) lets tests stub
// subprocess invocation without spawning a real binary.
type toolRunner interface {
	Invoke(ctx context.Context, expectedDuration time.Duration, args ...string) error
	InvokeWithProgress(ctx context.Context, expectedDuration time.Duration, onProgress func(ffmpegrunner.Progress), args ...string) error
}

type Renderer struct {
	cfg     models.RenderConfig
	painter *overlay.Painter
	font    *overlay.ResolvedFont
	runner  toolRunner
	paths   Paths
}

func New(cfg models.RenderConfig, painter *overlay.Painter, font *overlay.ResolvedFont, runner toolRunner, paths Paths) *Renderer {
	return &Renderer{cfg: cfg, painter: painter, font: font, runner: runner, paths: paths}
}

// imageDimensions probes image bytes without the ffmpeg binary, supporting
// the PNG/JPEG stills the asset pipeline produces. It is swapped in tests.
var imageDimensions = func(path string) (w, h float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := decodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

// RenderOptions carries the rare per-render knobs that don't belong on
// RenderConfig: an optional live-progress callback (set only when this
// scene is the sole expected unit of work) and the opening title text.
type RenderOptions struct {
	Progress         func(ffmpegrunner.Progress)
	OpeningTitleText string // set only for the opening scene
}

// Render produces scenes/<scene.ID>.mp4. Failures are wrapped as
// SceneRenderFailed.
func (r *Renderer) Render(ctx context.Context, scene models.ScenePlan, opts RenderOptions) (string, error) {
	outPath := r.paths.ScenePath(scene.ID)

	var graph filtergraph.Graph
	var inputs []string

	if scene.Kind == models.SceneOpening {
		g, in, err := r.buildOpeningInputs(scene, opts.OpeningTitleText)
		if err != nil {
			return "", &models.SceneRenderFailed{SceneID: scene.ID, Cause: err}
		}
		graph, inputs = g, in
	} else {
		g, in, err := r.buildContentInputs(ctx, scene)
		if err != nil {
			return "", &models.SceneRenderFailed{SceneID: scene.ID, Cause: err}
		}
		graph, inputs = g, in
	}

	args := r.assembleArgs(inputs, graph, outPath)
	expected := time.Duration(scene.DurationSeconds * float64(time.Second))

	var err error
	if opts.Progress != nil {
		err = r.runner.InvokeWithProgress(ctx, expected, opts.Progress, args...)
	} else {
		err = r.runner.Invoke(ctx, expected, args...)
	}
	if err != nil {
		return "", &models.SceneRenderFailed{SceneID: scene.ID, Cause: err}
	}
	return outPath, nil
}

func (r *Renderer) buildOpeningInputs(scene models.ScenePlan, title string) (filtergraph.Graph, []string, error) {
	titlePath, err := r.painter.PaintOpeningTitle(title)
	if err != nil {
		return filtergraph.Graph{}, nil, err
	}

	graph := filtergraph.BuildOpening(r.cfg.Canvas)
	d := fmt.Sprintf("%.3f", scene.DurationSeconds)

	inputs := []string{
		"-f", "lavfi", "-t", d, "-i", fmt.Sprintf("color=c=black:s=%dx%d:r=%d", r.cfg.Canvas.Width, r.cfg.Canvas.Height, r.cfg.Canvas.FPS),
		"-loop", "1", "-t", d, "-i", titlePath,
		"-i", scene.NarrationAudioPath,
	}
	return graph, inputs, nil
}

func (r *Renderer) buildContentInputs(ctx context.Context, scene models.ScenePlan) (filtergraph.Graph, []string, error) {
	imgW, imgH, err := imageDimensions(scene.BaseImagePath)
	if err != nil {
		return filtergraph.Graph{}, nil, &models.AssetMissingError{Path: scene.BaseImagePath}
	}

	var assPath string
	if r.cfg.Overlay.Kind == models.OverlayTyping {
		assPath = r.paths.AssPath(scene.ID)
		doc := subtitle.Build(scene.Segments, r.cfg.Canvas.Width, r.cfg.Canvas.Height, subtitle.Style{
			FontName:              r.font.PSName,
			FontDir:               r.paths.FontsDir,
			FontSize:              r.cfg.Text.DefaultSize,
			TypingSpeedMultiplier: r.cfg.Overlay.TypingSpeedMultiplier,
		})
		if err := os.WriteFile(assPath, []byte(doc), 0o644); err != nil {
			return filtergraph.Graph{}, nil, err
		}
	}

	d := fmt.Sprintf("%.3f", scene.DurationSeconds)
	inputs := []string{"-loop", "1", "-t", d, "-i", scene.BaseImagePath}
	for _, seg := range scene.Segments {
		path, _, err := r.painter.PaintSegment(seg, r.cfg.Overlay.Kind == models.OverlayTyping)
		if err != nil {
			return filtergraph.Graph{}, nil, err
		}
		inputs = append(inputs, "-loop", "1", "-t", d, "-i", path)
	}
	inputs = append(inputs, "-i", scene.NarrationAudioPath)

	graph := filtergraph.BuildContent(r.cfg, scene, imgW, imgH, assPath, r.paths.FontsDir)
	return graph, inputs, nil
}

func (r *Renderer) assembleArgs(inputs []string, graph filtergraph.Graph, outPath string) []string {
	args := append([]string{}, inputs...)
	args = append(args,
		"-filter_complex", graph.Serialize(),
		"-map", "["+graph.VideoOut+"]",
		"-map", graph.AudioOut,
		"-c:v", r.cfg.Encoder.VideoCodec,
		"-preset", r.cfg.Encoder.Preset,
		"-pix_fmt", r.cfg.Encoder.PixFmt,
		"-profile:v", r.cfg.Encoder.Profile,
		"-level", r.cfg.Encoder.Level,
		"-colorspace", r.cfg.Encoder.Color,
		"-color_primaries", r.cfg.Encoder.Color,
		"-color_trc", r.cfg.Encoder.Color,
	)
	if r.cfg.Encoder.CRF > 0 {
		args = append(args, "-crf", fmt.Sprintf("%d", r.cfg.Encoder.CRF))
	} else if r.cfg.Encoder.Bitrate != "" {
		args = append(args, "-b:v", r.cfg.Encoder.Bitrate)
	}
	args = append(args,
		"-c:a", r.cfg.Audio.Codec,
		"-ar", fmt.Sprintf("%d", r.cfg.Audio.SampleRate),
		"-ac", fmt.Sprintf("%d", r.cfg.Audio.Channels),
	)
	if r.cfg.Audio.Bitrate != "" {
		args = append(args, "-b:a", r.cfg.Audio.Bitrate)
	}
	if r.cfg.Encoder.Faststart {
		args = append(args, "-movflags", "+faststart")
	}
	args = append(args, "-shortest", outPath)
	return args
}
