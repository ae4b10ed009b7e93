package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"scenecast/internal/models"
	"scenecast/pkg/ffmpegrunner"
	"scenecast/pkg/overlay"
	"scenecast/pkg/render"
)

// stubRunner never shells out; it just records every invocation so tests can
// assert on call count and ordering without ffmpeg installed.
type stubRunner struct {
	mu    sync.Mutex
	calls int
}

func (s *stubRunner) Invoke(ctx context.Context, expected time.Duration, args ...string) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return nil
}

func (s *stubRunner) InvokeWithProgress(ctx context.Context, expected time.Duration, onProgress func(ffmpegrunner.Progress), args ...string) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if onProgress != nil {
		onProgress(ffmpegrunner.Progress{Done: true})
	}
	return nil
}

func newTestPipeline(t *testing.T, workers int) (*Pipeline, *stubRunner) {
	t.Helper()
	dir := t.TempDir()
	paths := render.Paths{
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

	cfg := models.DefaultRenderConfig()
	font := &overlay.ResolvedFont{PSName: "Test-Regular"}
	painter := overlay.NewPainter(cfg, font, paths.OverlaysDir)
	runner := &stubRunner{}
	return New(cfg, runner, painter, font, paths, workers), runner
}

func testSources() []models.SceneSource {
	return []models.SceneSource{
		{
			Kind:          models.SceneOpening,
			Title:         "Opening",
			BaseImagePath: "opening.png",
			Chunks: []models.NarrationChunk{
				{Text: "hello", AudioPath: "a.wav", DurationSeconds: 3},
			},
		},
		{
			Kind:          models.SceneContent,
			Title:         "Part One",
			BaseImagePath: "content.png",
			Chunks: []models.NarrationChunk{
				{Text: "world", AudioPath: "b.wav", DurationSeconds: 5},
			},
		},
	}
}

func TestPipelineRunDrivesEveryPhaseInOrder(t *testing.T) {
	pl, runner := newTestPipeline(t, 2)

	dir := t.TempDir()
	concatPath := filepath.Join(dir, "concat.mp4")
	outPath := filepath.Join(dir, "out.mp4")

	var mu sync.Mutex
	var phases []string
	onProgress := func(phase string, fraction float64) {
		mu.Lock()
		defer mu.Unlock()
		if len(phases) == 0 || phases[len(phases)-1] != phase {
			phases = append(phases, phase)
		}
	}

	scenes, err := pl.Run(context.Background(), testSources(), "My Show", concatPath, outPath, onProgress)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("len(scenes) = %d, want 2", len(scenes))
	}

	want := []string{"rendering", "concatenating", "mixing", "complete"}
	if len(phases) != len(want) {
		t.Fatalf("phases = %v, want %v", phases, want)
	}
	for i, p := range want {
		if phases[i] != p {
			t.Errorf("phases[%d] = %q, want %q", i, phases[i], p)
		}
	}

	// render + concat + mix = 3 invocations minimum for a 2-scene plan.
	if runner.calls < 3 {
		t.Errorf("runner.calls = %d, want >= 3", runner.calls)
	}
}

func TestPipelineRunDefaultsWorkersToNumCPU(t *testing.T) {
	pl, _ := newTestPipeline(t, 0)
	if pl.workers <= 0 {
		t.Errorf("workers = %d, want > 0", pl.workers)
	}
}

func TestPipelineRunPreservesSceneOrderRegardlessOfCompletionOrder(t *testing.T) {
	pl, _ := newTestPipeline(t, 4)

	dir := t.TempDir()
	concatPath := filepath.Join(dir, "concat.mp4")
	outPath := filepath.Join(dir, "out.mp4")

	scenes, err := pl.Run(context.Background(), testSources(), "My Show", concatPath, outPath, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if scenes[0].Kind != models.SceneOpening {
		t.Errorf("scenes[0].Kind = %v, want SceneOpening", scenes[0].Kind)
	}
	if scenes[1].Kind != models.SceneContent {
		t.Errorf("scenes[1].Kind = %v, want SceneContent", scenes[1].Kind)
	}
}
