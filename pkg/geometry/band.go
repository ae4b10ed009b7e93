// Package geometry computes caption-band placement from font size and
// canvas width. It is the single source of truth shared by the overlay
// painter (pkg/overlay) and the subtitle positioner (pkg/subtitle): both
// must agree pixel-for-pixel on where the band sits, or captions drift out
// of sync with their background rectangle.
package geometry

import "math"

// Band is the resolved geometry of one caption band for a given font size
// and canvas, in pixels.
type Band struct {
	LineLeadingMulti  float64 // leading between wrapped lines, multi-line case
	LineLeadingSingle float64 // leading used for a single-line segment
	OuterTop          float64
	OuterBottom       float64
	InnerTop          float64
	InnerBottom       float64
	HMargin           float64
	CornerRadius      float64
}

// Compute derives band geometry from font size s and canvas width w,
// reproducing spec §3's formulas bit-identically.
func Compute(s, w float64) Band {
	return Band{
		LineLeadingMulti:  0.42 * s,
		LineLeadingSingle: 0.25 * s,
		OuterTop:          math.Max(0.12*s, 6),
		OuterBottom:       math.Max(0.35*s, 18),
		InnerTop:          math.Max(0.45*s, 20),
		InnerBottom:       math.Max(0.7*s, 28),
		HMargin:           math.Max(0.018*w, 18),
		CornerRadius:      math.Max(0.42*s, 18),
	}
}

// LineLeading picks the single- vs multi-line leading for n display rows.
func (b Band) LineLeading(numLines int) float64 {
	if numLines <= 1 {
		return b.LineLeadingSingle
	}
	return b.LineLeadingMulti
}

// TextBlockHeight is the summed height of numLines rows of height
// lineHeight, separated by the appropriate leading.
func (b Band) TextBlockHeight(numLines int, lineHeight float64) float64 {
	if numLines <= 0 {
		return 0
	}
	leading := b.LineLeading(numLines)
	return float64(numLines)*lineHeight + float64(numLines-1)*leading
}

// Rect is the caption band's bounding rectangle anchored to the bottom of a
// canvasH-tall frame, sized to hold a text block of the given height.
type Rect struct {
	X, Y, W, H float64
}

// BandRect computes the rounded-rectangle band bounds for a canvas of
// canvasW x canvasH, given the height of the text block it must contain.
func (b Band) BandRect(canvasW, canvasH, textBlockHeight float64) Rect {
	h := b.InnerTop + textBlockHeight + b.InnerBottom
	w := canvasW - 2*b.HMargin
	y := canvasH - b.OuterBottom - h
	return Rect{X: b.HMargin, Y: y, W: w, H: h}
}

// InnerTopY is the y ordinate of the first text row's top edge within a
// band anchored per BandRect — the same ordinate the karaoke subtitle
// positioner must use for its "pos(cx, y)" anchor (spec §4.3).
func (r Rect) InnerTopY(b Band) float64 {
	return r.Y + b.InnerTop
}

// CenterX is the horizontal centre of the canvas, used by both the band
// painter (for centred text) and the subtitle positioner (for pos(cx, y)).
func CenterX(canvasW float64) float64 {
	return canvasW / 2
}
