package overlay

import (
	"image"
	"image/color"
	"math"

	"scenecast/pkg/geometry"
)

// fillRoundedRect paints a filled rounded rectangle of the given colour
// onto img, anti-aliasing the corner arcs with a one-pixel-wide coverage
// ramp so the band edge doesn't look jagged against the caption text below.
func fillRoundedRect(img *image.RGBA, rect geometry.Rect, radius float64, col color.RGBA) {
	x0, y0, x1, y1 := rect.X, rect.Y, rect.X+rect.W, rect.Y+rect.H
	if radius > rect.W/2 {
		radius = rect.W / 2
	}
	if radius > rect.H/2 {
		radius = rect.H / 2
	}

	minX, minY := int(math.Floor(x0)), int(math.Floor(y0))
	maxX, maxY := int(math.Ceil(x1)), int(math.Ceil(y1))

	for py := minY; py < maxY; py++ {
		for px := minX; px < maxX; px++ {
			cov := roundedCoverage(float64(px)+0.5, float64(py)+0.5, x0, y0, x1, y1, radius)
			if cov <= 0 {
				continue
			}
			blendPixel(img, px, py, col, cov)
		}
	}
}

// roundedCoverage returns 1.0 inside the rounded rect body, 0.0 fully
// outside, and a fractional value within one pixel of an arc edge.
func roundedCoverage(x, y, x0, y0, x1, y1, r float64) float64 {
	if x < x0-1 || x > x1+1 || y < y0-1 || y > y1+1 {
		return 0
	}

	// Clamp test point into the "core" rect shrunk by r, then measure
	// distance to that clamp target: this is the standard rounded-rect SDF.
	cx := math.Max(x0+r, math.Min(x, x1-r))
	cy := math.Max(y0+r, math.Min(y, y1-r))
	d := math.Hypot(x-cx, y-cy) - r

	if x >= x0+r && x <= x1-r {
		d = math.Max(0, math.Max(y0-y, y-y1))
	} else if y >= y0+r && y <= y1-r {
		d = math.Max(0, math.Max(x0-x, x-x1))
	}

	if d <= 0 {
		return 1
	}
	if d >= r && (x < x0+r || x > x1-r) && (y < y0+r || y > y1-r) {
		return 0
	}
	if d >= 1 {
		return 0
	}
	return 1 - d
}

func blendPixel(img *image.RGBA, x, y int, col color.RGBA, coverage float64) {
	if x < img.Bounds().Min.X || x >= img.Bounds().Max.X || y < img.Bounds().Min.Y || y >= img.Bounds().Max.Y {
		return
	}
	a := float64(col.A) * coverage
	existing := img.RGBAAt(x, y)
	out := color.RGBA{
		R: blendChannel(existing.R, col.R, a),
		G: blendChannel(existing.G, col.G, a),
		B: blendChannel(existing.B, col.B, a),
		A: uint8(math.Min(255, float64(existing.A)+a)),
	}
	img.SetRGBA(x, y, out)
}

func blendChannel(dst, src uint8, srcAlpha255 float64) uint8 {
	alpha := srcAlpha255 / 255.0
	v := float64(src)*alpha + float64(dst)*(1-alpha)
	if v > 255 {
		v = 255
	}
	if v < 0 {
		v = 0
	}
	return uint8(v)
}
