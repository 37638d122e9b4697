package render

import (
	"fmt"
	"strings"

	"github.com/gpv-monitor/gpv/core/schedule"
)

// Default pixel dimensions of the SVG timeline bar.
const (
	DefaultSVGWidth  = 432
	DefaultSVGHeight = 24
)

const (
	outageFill = "#e53935"
	powerFill  = "#81c784"
)

// SVG renders the day as a single horizontal bar. Contiguous runs of
// same-state columns are merged into one rectangle each to keep the markup
// compact; x position is proportional to time of day.
func SVG(windows []schedule.TimeWindow, width, height int) string {
	if width <= 0 {
		width = DefaultSVGWidth
	}
	if height <= 0 {
		height = DefaultSVGHeight
	}
	states := columnStates(windows, width)

	var b strings.Builder
	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		width, height, width, height)
	for start := 0; start < len(states); {
		end := start
		for end < len(states) && states[end] == states[start] {
			end++
		}
		fill := powerFill
		if states[start] {
			fill = outageFill
		}
		fmt.Fprintf(&b, `<rect x="%d" y="0" width="%d" height="%d" fill="%s"/>`,
			start, end-start, height, fill)
		start = end
	}
	b.WriteString(`</svg>`)
	return b.String()
}
