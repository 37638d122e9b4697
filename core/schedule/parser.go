package schedule

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// rangeSeparator is the separator used by the source and by String output.
// The update section of the source page uses "по" instead; both are accepted.
const rangeSeparator = "до"

var rangeRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(?:до|по)\s*(\d{1,2}):(\d{2})$`)

// ParseError reports raw schedule text that does not match the expected
// grammar. Validation failures (inverted or out-of-range windows) are
// reported as ParseError as well, never silently dropped or clamped.
type ParseError struct {
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("parse schedule: %s", e.Reason)
	}
	return fmt.Sprintf("parse schedule: %q: %s", e.Token, e.Reason)
}

// ParseRanges parses comma- or line-separated "HH:MM до HH:MM" entries into
// time windows sorted ascending by start. The parse is all-or-nothing: a
// single malformed entry fails the whole parse. Overlapping or adjacent
// windows are preserved as published, not merged or deduplicated.
//
// An empty input yields an empty window list and no error: a day without
// scheduled outages is a legitimate state, not a parse failure.
func ParseRanges(raw string) ([]TimeWindow, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, NoOutagesText) {
		return nil, nil
	}

	tokens := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})
	var windows []TimeWindow
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		w, err := parseRange(tok)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	sort.SliceStable(windows, func(i, j int) bool { return windows[i].Start < windows[j].Start })
	return windows, nil
}

func parseRange(tok string) (TimeWindow, error) {
	m := rangeRe.FindStringSubmatch(tok)
	if m == nil {
		return TimeWindow{}, &ParseError{Token: tok, Reason: "expected HH:MM до HH:MM"}
	}
	start, err := parseClock(m[1], m[2], false)
	if err != nil {
		return TimeWindow{}, &ParseError{Token: tok, Reason: err.Error()}
	}
	// 24:00 is only legitimate as an end-of-day boundary.
	end, err := parseClock(m[3], m[4], true)
	if err != nil {
		return TimeWindow{}, &ParseError{Token: tok, Reason: err.Error()}
	}
	w := TimeWindow{Start: start, End: end}
	if w.Start >= w.End {
		return TimeWindow{}, &ParseError{Token: tok, Reason: "window start must precede end"}
	}
	return w, nil
}

func parseClock(hh, mm string, endOfDay bool) (int, error) {
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("bad hour %q", hh)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("bad minute %q", mm)
	}
	if endOfDay && h == 24 {
		if m != 0 {
			return 0, fmt.Errorf("minutes past 24:00 are not a clock time")
		}
		return MinutesPerDay, nil
	}
	if h < 0 || h > 23 {
		return 0, fmt.Errorf("hour %d out of range", h)
	}
	if m < 0 || m > 59 {
		return 0, fmt.Errorf("minute %d out of range", m)
	}
	return h*60 + m, nil
}
