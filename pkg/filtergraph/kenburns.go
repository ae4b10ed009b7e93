package filtergraph

import (
	"fmt"
	"math"

	"scenecast/internal/models"
)

// zoompanEpsilon is the clamp floor for a non-positive configured zoom
// (spec §4.4: "zoom <= 0 is clamped to epsilon = 0.015").
const zoompanEpsilon = 0.015

// ScaledFrame computes the pre-scale dimensions a base image of iw x ih
// must cover canvas W x H with margin m, so every Ken-Burns crop rectangle
// stays inside the scaled frame (spec §2 invariant: margin >= peak pan
// distance).
func ScaledFrame(iw, ih, w, h, margin float64) (scaledW, scaledH float64) {
	c := math.Max(w/iw, h/ih)
	return iw * c * (1 + margin), ih * c * (1 + margin)
}

// EffectiveMargin applies intro-relief decay: at t=0 the margin is boosted
// by introRelief (clamped to maxMargin), and it relaxes linearly back to
// the base margin by t=introReliefSec.
func EffectiveMargin(cfg models.KenBurnsConfig, t, introReliefSec float64) float64 {
	if introReliefSec <= 0 || cfg.IntroRelief <= 0 {
		return cfg.Margin
	}
	boosted := math.Min(cfg.Margin*(1+cfg.IntroRelief), cfg.MaxMargin)
	if t >= introReliefSec {
		return cfg.Margin
	}
	frac := t / introReliefSec
	return boosted + (cfg.Margin-boosted)*frac
}

// panTravel returns the clamped per-axis travel distance (in scaled-frame
// pixels) for pan_only mode: a fraction of the available slack, signed by
// the motion direction. The fraction is clamped to [0,1] so the resulting
// travel can never exceed the slack on either axis.
func panTravel(cfg models.KenBurnsConfig, dir models.MotionDirection, slackX, slackY float64) (travelX, travelY float64) {
	extent := cfg.EffectivePanExtent()
	frac := extent * cfg.MotionScale
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return frac * slackX * dir.DX, frac * slackY * dir.DY
}

// PanOnlyCropAt returns the crop origin (x, y) at time t within [0, D] for
// pan_only mode, given the scaled frame and target W x H. The motion is
// symmetric about the slack's centre so the crop rectangle never leaves
// [0, scaledW] x [0, scaledH].
func PanOnlyCropAt(cfg models.KenBurnsConfig, dir models.MotionDirection, scaledW, scaledH, w, h, t, d float64) (x, y float64) {
	slackX, slackY := scaledW-w, scaledH-h
	travelX, travelY := panTravel(cfg, dir, slackX, slackY)

	originX := slackX/2 - travelX/2
	originY := slackY/2 - travelY/2

	progress := 0.0
	if d > 0 {
		progress = math.Max(0, math.Min(t/d, 1))
	}
	return originX + travelX*progress, originY + travelY*progress
}

// PanOnlyCropExpr builds the ffmpeg time-expressions for crop=W:H:x=..:y=..
// in pan_only mode.
func PanOnlyCropExpr(cfg models.KenBurnsConfig, dir models.MotionDirection, scaledW, scaledH, w, h, d float64) (xExpr, yExpr string) {
	slackX, slackY := scaledW-w, scaledH-h
	travelX, travelY := panTravel(cfg, dir, slackX, slackY)
	originX := slackX/2 - travelX/2
	originY := slackY/2 - travelY/2

	xExpr = fmt.Sprintf("%.4f+%.4f*min(t/%.4f\\,1)", originX, travelX, d)
	yExpr = fmt.Sprintf("%.4f+%.4f*min(t/%.4f\\,1)", originY, travelY, d)
	return xExpr, yExpr
}

// ZoompanExpr builds the zoompan filter's z/x/y frame expressions. z0 is
// fixed at 1.0; step is chosen so z reaches 1+zoom at the last frame.
func ZoompanExpr(cfg models.KenBurnsConfig, dir models.MotionDirection, scaledW, scaledH, w, h, fps, d float64) (zExpr, xExpr, yExpr, totalFramesExpr string) {
	zoom := cfg.Zoom
	if zoom <= 0 {
		zoom = zoompanEpsilon
	}
	totalFrames := math.Max(1, math.Round(fps*d))
	step := zoom / math.Max(1, totalFrames-1)

	slackX, slackY := scaledW-w, scaledH-h
	offsetX := cfg.Offset * cfg.Margin * dir.DX
	offsetY := cfg.Offset * cfg.Margin * dir.DY
	centerX := slackX / 2
	centerY := slackY / 2

	zExpr = fmt.Sprintf("1+%.6f*n", step)
	xExpr = fmt.Sprintf("%.4f+%.4f*(n/%.4f)", centerX, offsetX*scaledW, totalFrames)
	yExpr = fmt.Sprintf("%.4f+%.4f*(n/%.4f)", centerY, offsetY*scaledH, totalFrames)
	totalFramesExpr = fmt.Sprintf("%.0f", totalFrames)
	return zExpr, xExpr, yExpr, totalFramesExpr
}
