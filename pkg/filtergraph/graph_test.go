package filtergraph

import (
	"strings"
	"testing"

	"scenecast/internal/models"
)

func TestBuildOpeningSerializesExpectedChain(t *testing.T) {
	g := BuildOpening(models.CanvasConfig{Width: 1920, Height: 1080, FPS: 30})
	out := g.Serialize()

	for _, want := range []string{"[0:v]", "[1:v]", "overlay=(W-w)/2:(H-h)/2:eval=init", "fps=30", "format=yuv420p", "[vout]"} {
		if !strings.Contains(out, want) {
			t.Errorf("opening graph missing %q in %q", want, out)
		}
	}
	if g.VideoOut != "vout" || g.AudioOut != "2:a:0" {
		t.Errorf("unexpected out labels: video=%q audio=%q", g.VideoOut, g.AudioOut)
	}
}

func TestBuildContentChainsSegmentOverlaysInOrder(t *testing.T) {
	cfg := models.DefaultRenderConfig()
	scene := models.ScenePlan{
		ID:              "scene-1",
		Kind:            models.SceneContent,
		DurationSeconds: 10,
		MotionVector:    models.Directions[0],
		Segments: []models.TextSegment{
			{Lines: []string{"a"}, StartOffset: 0, Duration: 3},
			{Lines: []string{"b"}, StartOffset: 3, Duration: 4},
			{Lines: []string{"c"}, StartOffset: 7, Duration: 3},
		},
	}

	g := BuildContent(cfg, scene, 3840, 2160, "", "")
	out := g.Serialize()

	if !strings.Contains(out, "scale=") {
		t.Errorf("content graph missing scale stage: %q", out)
	}
	if !strings.Contains(out, "crop=1920:1080") {
		t.Errorf("content graph missing pan_only crop stage: %q", out)
	}
	if strings.Count(out, "overlay=x=0:y=H-h") != 3 {
		t.Errorf("expected 3 overlay stages, got graph: %q", out)
	}
	if !strings.HasSuffix(out, "[vout]") {
		t.Errorf("content graph should end with [vout], got: %q", out)
	}
	if g.AudioOut != "4:a:0" {
		t.Errorf("AudioOut = %q, want 4:a:0 (1 base image + 3 segments -> narration at index 4)", g.AudioOut)
	}
}

func TestBuildContentAppendsSubtitleStageOnlyWhenTyping(t *testing.T) {
	cfg := models.DefaultRenderConfig()
	cfg.Overlay.Kind = models.OverlayTyping
	scene := models.ScenePlan{
		DurationSeconds: 5,
		MotionVector:    models.Directions[0],
		Segments: []models.TextSegment{
			{Lines: []string{"hi"}, StartOffset: 0, Duration: 5},
		},
	}

	g := BuildContent(cfg, scene, 1920, 1080, "run/ass/scene-1.ass", "assets/fonts")
	out := g.Serialize()
	if !strings.Contains(out, "subtitles=filename='run/ass/scene-1.ass'") {
		t.Errorf("typing-mode graph missing subtitles stage: %q", out)
	}
}

func TestBuildContentOmitsSubtitleStageWhenStatic(t *testing.T) {
	cfg := models.DefaultRenderConfig()
	cfg.Overlay.Kind = models.OverlayStatic
	scene := models.ScenePlan{
		DurationSeconds: 5,
		MotionVector:    models.Directions[0],
		Segments: []models.TextSegment{
			{Lines: []string{"hi"}, StartOffset: 0, Duration: 5},
		},
	}

	g := BuildContent(cfg, scene, 1920, 1080, "", "")
	out := g.Serialize()
	if strings.Contains(out, "subtitles=") {
		t.Errorf("static-mode graph should not include a subtitles stage: %q", out)
	}
}
