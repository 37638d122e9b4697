package render

import (
	"strings"

	"github.com/gpv-monitor/gpv/core/schedule"
)

// DefaultWidth is the column count used when none is given.
const DefaultWidth = 54

const (
	outageCell = '█'
	powerCell  = '░'
)

// ASCII renders a fixed-width character timeline of the day: an hour-tick
// header line followed by one row of outage/power cells.
func ASCII(windows []schedule.TimeWindow, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	var b strings.Builder
	b.WriteString(hourTicks(width))
	b.WriteByte('\n')
	for _, outage := range columnStates(windows, width) {
		if outage {
			b.WriteRune(outageCell)
		} else {
			b.WriteRune(powerCell)
		}
	}
	return b.String()
}

// hourTicks builds the header "00    06    12    18    24" with each label
// starting at the column its hour maps to. The trailing "24" label may extend
// past the bar by one character.
func hourTicks(width int) string {
	buf := make([]byte, width+2)
	for i := range buf {
		buf[i] = ' '
	}
	for h := 0; h <= 24; h += 6 {
		label := schedule.FormatMinute(h * 60)[:2]
		pos := h * width / 24
		if pos > len(buf)-2 {
			pos = len(buf) - 2
		}
		copy(buf[pos:], label)
	}
	return strings.TrimRight(string(buf), " ")
}
