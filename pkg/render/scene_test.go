package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"scenecast/internal/models"
	"scenecast/pkg/ffmpegrunner"
	"scenecast/pkg/overlay"
)

type stubRunner struct {
	invoked    bool
	lastArgs   []string
	progressed bool
}

func (s *stubRunner) Invoke(ctx context.Context, expected time.Duration, args ...string) error {
	s.invoked = true
	s.lastArgs = args
	return nil
}

func (s *stubRunner) InvokeWithProgress(ctx context.Context, expected time.Duration, onProgress func(ffmpegrunner.Progress), args ...string) error {
	s.invoked = true
	s.progressed = true
	s.lastArgs = args
	onProgress(ffmpegrunner.Progress{Done: true})
	return nil
}

func newTestRenderer(t *testing.T, cfg models.RenderConfig, runner toolRunner) (*Renderer, Paths) {
	t.Helper()
	dir := t.TempDir()
	paths := Paths{
		ScenesDir:   filepath.Join(dir, "scenes"),
		OverlaysDir: filepath.Join(dir, "overlays"),
		AssDir:      filepath.Join(dir, "ass"),
		FontsDir:    filepath.Join(dir, "fonts"),
	}
	for _, d := range []string{paths.ScenesDir, paths.OverlaysDir, paths.AssDir, paths.FontsDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	font := &overlay.ResolvedFont{PSName: "Test-Regular"}
	painter := overlay.NewPainter(cfg, font, paths.OverlaysDir)
	return New(cfg, painter, font, runner, paths), paths
}

func TestRenderContentSceneAssemblesExpectedArgsAndInvokesSilently(t *testing.T) {
	cfg := models.DefaultRenderConfig()
	cfg.Overlay.Kind = models.OverlayStatic
	runner := &stubRunner{}
	r, paths := newTestRenderer(t, cfg, runner)

	imageDimensions = func(path string) (float64, float64, error) {
		return 3840, 2160, nil
	}
	defer func() {
		imageDimensions = func(path string) (w, h float64, err error) {
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
	}()

	scene := models.ScenePlan{
		ID:                 "scene-1",
		Kind:               models.SceneContent,
		BaseImagePath:      "base.png",
		NarrationAudioPath: "narration.wav",
		DurationSeconds:    6,
		MotionVector:       models.Directions[0],
		Segments: []models.TextSegment{
			{Lines: []string{"hello"}, StartOffset: 0, Duration: 6},
		},
	}

	outPath, err := r.Render(context.Background(), scene, RenderOptions{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if outPath != paths.ScenePath("scene-1") {
		t.Errorf("outPath = %q, want %q", outPath, paths.ScenePath("scene-1"))
	}
	if !runner.invoked {
		t.Errorf("expected runner to be invoked")
	}
	if runner.progressed {
		t.Errorf("expected silent Invoke (no progress), got InvokeWithProgress called")
	}

	foundShortest := false
	for _, a := range runner.lastArgs {
		if a == "-shortest" {
			foundShortest = true
		}
	}
	if !foundShortest {
		t.Errorf("assembled args missing -shortest: %v", runner.lastArgs)
	}
}

func TestRenderContentSceneWithProgressCallback(t *testing.T) {
	cfg := models.DefaultRenderConfig()
	runner := &stubRunner{}
	r, _ := newTestRenderer(t, cfg, runner)

	imageDimensions = func(path string) (float64, float64, error) { return 1920, 1080, nil }
	defer func() {
		imageDimensions = func(path string) (w, h float64, err error) {
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
	}()

	scene := models.ScenePlan{
		ID:                 "scene-2",
		Kind:               models.SceneContent,
		BaseImagePath:      "base.png",
		NarrationAudioPath: "narration.wav",
		DurationSeconds:    4,
		MotionVector:       models.Directions[1],
		Segments: []models.TextSegment{
			{Lines: []string{"hi"}, StartOffset: 0, Duration: 4},
		},
	}

	var got ffmpegrunner.Progress
	_, err := r.Render(context.Background(), scene, RenderOptions{
		Progress: func(p ffmpegrunner.Progress) { got = p },
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !runner.progressed {
		t.Errorf("expected InvokeWithProgress to be used")
	}
	if !got.Done {
		t.Errorf("expected progress callback to receive the stub's Done snapshot")
	}
}

func TestRenderContentSceneMissingImageIsAssetMissingError(t *testing.T) {
	cfg := models.DefaultRenderConfig()
	runner := &stubRunner{}
	r, _ := newTestRenderer(t, cfg, runner)

	imageDimensions = func(path string) (float64, float64, error) {
		return 0, 0, os.ErrNotExist
	}
	defer func() {
		imageDimensions = func(path string) (w, h float64, err error) {
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
	}()

	scene := models.ScenePlan{
		ID:            "scene-3",
		Kind:          models.SceneContent,
		BaseImagePath: "missing.png",
		Segments:      []models.TextSegment{{Lines: []string{"x"}, Duration: 1}},
	}

	_, err := r.Render(context.Background(), scene, RenderOptions{})
	if err == nil {
		t.Fatal("expected an error for missing base image")
	}
	var srf *models.SceneRenderFailed
	if !asSceneRenderFailed(err, &srf) {
		t.Fatalf("error = %v, want *models.SceneRenderFailed", err)
	}
	if _, ok := srf.Cause.(*models.AssetMissingError); !ok {
		t.Errorf("cause = %T, want *models.AssetMissingError", srf.Cause)
	}
}

func asSceneRenderFailed(err error, target **models.SceneRenderFailed) bool {
	if e, ok := err.(*models.SceneRenderFailed); ok {
		*target = e
		return true
	}
	return false
}
