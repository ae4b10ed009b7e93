package filtergraph

import (
	"fmt"

	"scenecast/internal/models"
)

// BuildContent assembles a content scene's graph: scale-to-cover, Ken-Burns
// motion, per-segment band overlay gating, and (typing mode only) subtitle
// burn-in, per spec §4.4.
//
// Inputs are expected in order: 0:v base image, 1:v..k:v segment PNGs
// (each looped to scene duration), (k+1):a narration.
func BuildContent(cfg models.RenderConfig, scene models.ScenePlan, imgW, imgH float64, assPath, fontsDir string) Graph {
	w := float64(cfg.Canvas.Width)
	h := float64(cfg.Canvas.Height)
	d := scene.DurationSeconds

	peakMargin := EffectiveMargin(cfg.KenBurns, 0, scene.IntroReliefSeconds)
	scaledW, scaledH := ScaledFrame(imgW, imgH, w, h, peakMargin)

	var g Graph
	appendStage(&g, []string{"0:v"}, []string{
		fmt.Sprintf("scale=%d:%d", int(scaledW), int(scaledH)),
	}, []string{"scaled"})

	switch cfg.KenBurns.Mode {
	case models.KenBurnsZoompan:
		zExpr, xExpr, yExpr, totalFrames := ZoompanExpr(cfg.KenBurns, scene.MotionVector, scaledW, scaledH, w, h, float64(cfg.Canvas.FPS), d)
		appendStage(&g, []string{"scaled"}, []string{
			fmt.Sprintf("zoompan=z='%s':x='%s':y='%s':d=%s:s=%dx%d:fps=%d",
				zExpr, xExpr, yExpr, totalFrames, cfg.Canvas.Width, cfg.Canvas.Height, cfg.Canvas.FPS),
		}, []string{"kb"})
	default:
		xExpr, yExpr := PanOnlyCropExpr(cfg.KenBurns, scene.MotionVector, scaledW, scaledH, w, h, d)
		appendStage(&g, []string{"scaled"}, []string{
			fmt.Sprintf("crop=%d:%d:x='%s':y='%s'", cfg.Canvas.Width, cfg.Canvas.Height, xExpr, yExpr),
		}, []string{"kb"})
	}

	current := "kb"
	for i, seg := range scene.Segments {
		in := fmt.Sprintf("%d:v", i+1)
		out := fmt.Sprintf("v%d", i)
		if i == len(scene.Segments)-1 && cfg.Overlay.Kind != models.OverlayTyping {
			out = "vfinal"
		}
		start := seg.StartOffset
		end := seg.StartOffset + seg.Duration
		appendStage(&g, []string{current, in}, []string{
			fmt.Sprintf("overlay=x=0:y=H-h:enable='between(t\\,%.4f\\,%.4f)'", start, end),
		}, []string{out})
		current = out
	}

	if cfg.Overlay.Kind == models.OverlayTyping {
		appendStage(&g, []string{current}, []string{
			fmt.Sprintf("subtitles=filename='%s':fontsdir='%s'", assPath, fontsDir),
		}, []string{"vfinal"})
		current = "vfinal"
	}

	appendStage(&g, []string{current}, []string{"format=yuv420p"}, []string{"vout"})

	g.VideoOut = "vout"
	g.AudioOut = fmt.Sprintf("%d:a:0", len(scene.Segments)+1)
	return g
}
