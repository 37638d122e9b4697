package render

import (
	"strings"
	"testing"

	"github.com/gpv-monitor/gpv/core/schedule"
)

func barRow(out string) string {
	lines := strings.Split(out, "\n")
	return lines[len(lines)-1]
}

func TestASCIIAllDayOutage(t *testing.T) {
	out := ASCII([]schedule.TimeWindow{{Start: 0, End: 1440}}, 54)
	row := barRow(out)
	if len([]rune(row)) != 54 {
		t.Fatalf("expected 54 columns, got %d", len([]rune(row)))
	}
	for _, r := range row {
		if r != '█' {
			t.Fatalf("expected every column marked outage, got %q", row)
		}
	}
}

func TestASCIIEmptySchedule(t *testing.T) {
	out := ASCII(nil, 54)
	for _, r := range barRow(out) {
		if r != '░' {
			t.Fatalf("expected every column power on, got %q", barRow(out))
		}
	}
}

func TestASCIIHeader(t *testing.T) {
	out := ASCII(nil, 54)
	header := strings.Split(out, "\n")[0]
	for _, label := range []string{"00", "06", "12", "18", "24"} {
		if !strings.Contains(header, label) {
			t.Fatalf("header missing %s tick: %q", label, header)
		}
	}
	if !strings.HasPrefix(header, "00") {
		t.Fatalf("header must start at midnight: %q", header)
	}
}

func TestASCIIColumnMapping(t *testing.T) {
	// A morning window must mark morning columns only.
	out := ASCII([]schedule.TimeWindow{{Start: 360, End: 570}}, 54)
	row := []rune(barRow(out))
	// Column 13 covers minutes [346,373), intersecting the 06:00 start.
	if row[13] != '█' {
		t.Fatalf("column over window start not marked: %q", string(row))
	}
	if row[0] != '░' || row[53] != '░' {
		t.Fatalf("columns outside window must stay clear: %q", string(row))
	}
}

func TestASCIIDeterministic(t *testing.T) {
	windows := []schedule.TimeWindow{{Start: 360, End: 570}, {Start: 990, End: 1200}}
	if ASCII(windows, 54) != ASCII(windows, 54) {
		t.Fatalf("rendering must be deterministic")
	}
}

func TestSVGRunLengthEncoding(t *testing.T) {
	// off / on / off column pattern collapses to exactly three rects.
	out := SVG([]schedule.TimeWindow{{Start: 360, End: 570}}, 48, 24)
	if got := strings.Count(out, "<rect"); got != 3 {
		t.Fatalf("expected 3 rects, got %d: %s", got, out)
	}
	if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(out, "</svg>") {
		t.Fatalf("not an svg document: %s", out)
	}
}

func TestSVGAllDay(t *testing.T) {
	out := SVG([]schedule.TimeWindow{{Start: 0, End: 1440}}, 48, 24)
	if got := strings.Count(out, "<rect"); got != 1 {
		t.Fatalf("all-day outage should be one rect, got %d", got)
	}
	if !strings.Contains(out, `width="48"`) {
		t.Fatalf("run should span the whole bar: %s", out)
	}
}

func TestSVGEmpty(t *testing.T) {
	out := SVG(nil, 48, 24)
	if got := strings.Count(out, "<rect"); got != 1 {
		t.Fatalf("empty schedule should be one power-on rect, got %d", got)
	}
	if strings.Contains(out, "#e53935") {
		t.Fatalf("no outage fill expected: %s", out)
	}
}

func TestDefaultDimensions(t *testing.T) {
	out := ASCII(nil, 0)
	if got := len([]rune(barRow(out))); got != DefaultWidth {
		t.Fatalf("expected default width %d, got %d", DefaultWidth, got)
	}
	svg := SVG(nil, 0, 0)
	if !strings.Contains(svg, `viewBox="0 0 432 24"`) {
		t.Fatalf("default svg dimensions not applied: %s", svg)
	}
}
