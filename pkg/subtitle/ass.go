// Package subtitle implements C3: timed-subtitle (ASS) emission for the
// typing-caption animation, karaoke-style by default with an optional
// per-character fallback. Positioning is derived from the same pkg/geometry
// band formulas the overlay painter (pkg/overlay) uses, so captions never
// drift from their background band.
package subtitle

import (
	"fmt"
	"math"
	"strings"

	"scenecast/pkg/geometry"
	"scenecast/internal/models"
)

// Style controls font and timing parameters for one subtitle build.
type Style struct {
	FontName              string
	FontDir               string
	Bold                  bool
	FontSize              float64
	TypingSpeedMultiplier float64
	// PerCharacterEvents selects the higher-event-count fallback variant
	// instead of the default one-event-per-line karaoke variant.
	PerCharacterEvents bool
}

// Build emits a full .ass document for one scene's typing segments.
// canvasW/H and fontSize must match the render config exactly, since the
// band geometry they feed into must equal the painter's.
func Build(segments []models.TextSegment, canvasW, canvasH int, style Style) string {
	band := geometry.Compute(style.FontSize, float64(canvasW))
	cx := geometry.CenterX(float64(canvasW))

	var b strings.Builder
	writeHeader(&b, canvasW, canvasH, style)
	b.WriteString("\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, seg := range segments {
		lineHeight := style.FontSize * 1.2 // approximate cap-height + descent in ASS units
		blockHeight := band.TextBlockHeight(len(seg.Lines), lineHeight)
		rect := band.BandRect(float64(canvasW), float64(canvasH), blockHeight)
		top := rect.InnerTopY(band)

		start := seg.StartOffset
		end := seg.StartOffset + seg.Duration

		if style.PerCharacterEvents {
			writePerCharacterEvents(&b, seg, start, end, cx, top, lineHeight, style)
		} else {
			writeKaraokeEvents(&b, seg, start, end, cx, top, lineHeight, style)
		}
	}

	return b.String()
}

func writeHeader(b *strings.Builder, canvasW, canvasH int, style Style) {
	bold := "0"
	if style.Bold {
		bold = "1"
	}
	fmt.Fprintf(b, "[Script Info]\nScriptType: v4.00+\nPlayResX: %d\nPlayResY: %d\nWrapStyle: 2\n", canvasW, canvasH)
	b.WriteString("\n[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(b, "Style: Default,%s,%d,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,%s,0,0,0,100,100,0,0,1,2,0,8,10,10,10,1\n",
		style.FontName, int(style.FontSize), bold)
}

// writeKaraokeEvents emits one event per line per segment, each character
// tagged with a per-character \k duration in centiseconds.
func writeKaraokeEvents(b *strings.Builder, seg models.TextSegment, start, end, cx, top, lineHeight float64, style Style) {
	for i, line := range seg.Lines {
		y := top + float64(i)*lineHeight
		ticks := CharTicks(line, seg.Duration, style.TypingSpeedMultiplier)

		var text strings.Builder
		runes := []rune(line)
		for idx, r := range runes {
			tick := 0
			if idx < len(ticks) {
				tick = ticks[idx]
			}
			fmt.Fprintf(&text, `{\k%d}%s`, tick, escapeText(string(r)))
		}

		writeDialogue(b, start, end, fmt.Sprintf(`{\an8\pos(%d,%d)}%s`, int(cx), int(y), text.String()))
	}
}

// writePerCharacterEvents emits one absolutely-positioned event per
// character, used when the renderer cannot rely on \k karaoke timing.
func writePerCharacterEvents(b *strings.Builder, seg models.TextSegment, start, end, cx, top, lineHeight float64, style Style) {
	for i, line := range seg.Lines {
		y := top + float64(i)*lineHeight
		ticks := CharTicks(line, seg.Duration, style.TypingSpeedMultiplier)
		runes := []rune(line)

		elapsedCS := 0
		cursor := start
		totalWidth := estimateWidth(line, style.FontSize)
		x0 := cx - totalWidth/2

		for idx, r := range runes {
			tick := 0
			if idx < len(ticks) {
				tick = ticks[idx]
			}
			charEnd := cursor + float64(tick)/100.0
			x := x0 + estimateWidth(string(runes[:idx]), style.FontSize)
			writeDialogue(b, cursor, end, fmt.Sprintf(`{\an7\pos(%d,%d)}%s`, int(x), int(y), escapeText(string(r))))
			cursor = charEnd
			elapsedCS += tick
		}
	}
}

// estimateWidth is a rough monospace-ish width estimate good enough for
// per-character absolute positioning; karaoke mode (the default) does not
// depend on it.
func estimateWidth(s string, fontSize float64) float64 {
	return float64(len([]rune(s))) * fontSize * 0.55
}

func writeDialogue(b *strings.Builder, start, end float64, text string) {
	fmt.Fprintf(b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n", formatASSTime(start), formatASSTime(end), text)
}

// CharTicks computes the per-character \k duration (centiseconds) for one
// line of text over a segment's duration, per spec §4.3:
//
//	cps  = max((N/D)*typingSpeedMultiplier, 1.0)
//	tick = 100 * min(N/cps, D) / N
//
// with any rounding residue assigned to the leading characters so the sum
// of ticks always equals the (rounded) total reveal time exactly.
func CharTicks(line string, duration, typingSpeedMultiplier float64) []int {
	runes := []rune(line)
	n := len(runes)
	if n == 0 || duration <= 0 {
		return nil
	}

	cps := math.Max((float64(n)/duration)*typingSpeedMultiplier, 1.0)
	totalReveal := math.Min(float64(n)/cps, duration)
	totalCentiseconds := totalReveal * 100

	base := int(math.Floor(totalCentiseconds / float64(n)))
	totalInt := int(math.Round(totalCentiseconds))
	residue := totalInt - base*n

	ticks := make([]int, n)
	for i := range ticks {
		ticks[i] = base
	}
	for i := 0; i < residue && i < n; i++ {
		ticks[i]++
	}
	return ticks
}

func formatASSTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalCS := int(math.Round(seconds * 100))
	cs := totalCS % 100
	totalSec := totalCS / 100
	s := totalSec % 60
	totalMin := totalSec / 60
	m := totalMin % 60
	h := totalMin / 60
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}
