package ffmpegrunner

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	barFilled = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	barEmpty  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
	barLabel  = lipgloss.NewStyle().Faint(true)
)

// Bar renders a single redrawn status line for one or more chained
// invocations, not a full-screen TUI: spec calls for a simple console bar,
// and the accumulator lets a multi-scene render join each scene's share of
// total progress into one continuous line.
type Bar struct {
	out        io.Writer
	width      int
	rate       time.Duration
	lastDrawn  time.Time
	startedAt  time.Time
	label      string
	accumFloor float64 // progress contributed by already-finished units
	accumSpan  float64 // this unit's share of the whole
}

// NewBar creates a status bar writing to out, redrawn at most every rate
// (spec §4.1/§9: a 10Hz-ish cap keeps the console from flooding).
func NewBar(out io.Writer, width int, rate time.Duration) *Bar {
	return &Bar{out: out, width: width, rate: rate, accumSpan: 1}
}

// SetUnit configures this bar to represent one unit spanning [floor, floor+span]
// of an outer multi-scene accumulator, so joined progress advances smoothly
// across scene boundaries instead of resetting to 0% each time.
func (b *Bar) SetUnit(floor, span float64) {
	b.accumFloor = floor
	b.accumSpan = span
}

// Update redraws the bar for one fractional completion in [0,1], unless
// called again before rate has elapsed (except when done=true, which always
// draws so the final line reflects 100%).
func (b *Bar) Update(label string, fraction float64, done bool) {
	now := time.Now()
	if b.startedAt.IsZero() {
		b.startedAt = now
	}
	if !done && now.Sub(b.lastDrawn) < b.rate {
		return
	}
	b.lastDrawn = now
	b.label = label

	overall := b.accumFloor + fraction*b.accumSpan
	if overall > 1 {
		overall = 1
	}
	if overall < 0 {
		overall = 0
	}

	filled := int(overall * float64(b.width))
	var bar strings.Builder
	bar.WriteString(barFilled.Render(strings.Repeat("█", filled)))
	bar.WriteString(barEmpty.Render(strings.Repeat("░", b.width-filled)))

	elapsed := now.Sub(b.startedAt)
	timing := fmt.Sprintf("elapsed %s", formatDuration(elapsed))
	if overall > 0 && !done {
		total := time.Duration(float64(elapsed) / overall)
		timing = fmt.Sprintf("elapsed %s / eta %s", formatDuration(elapsed), formatDuration(total-elapsed))
	}

	fmt.Fprintf(b.out, "\r%s %s %3d%%  %s  %s", bar.String(), barLabel.Render(label), int(overall*100), timing, strings.Repeat(" ", 4))
	if done {
		fmt.Fprint(b.out, "\n")
	}
}

// formatDuration renders d at whole-second resolution, matching the
// bar's redraw rate — sub-second precision would just flicker.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return d.Round(time.Second).String()
}
