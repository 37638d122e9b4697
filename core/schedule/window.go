package schedule

import "fmt"

// MinutesPerDay is the number of minutes in a schedule day. A window end of
// MinutesPerDay represents the "24:00" end-of-day boundary.
const MinutesPerDay = 1440

// TimeWindow is a half-open interval [Start, End) within a single day,
// expressed in minutes since midnight.
type TimeWindow struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Validate checks the window invariant 0 <= Start < End <= 1440.
func (w TimeWindow) Validate() error {
	if w.Start < 0 || w.End > MinutesPerDay {
		return &ParseError{Token: w.String(), Reason: "window out of day bounds"}
	}
	if w.Start >= w.End {
		return &ParseError{Token: w.String(), Reason: "window start must precede end"}
	}
	return nil
}

// Contains reports whether the given minute of day falls inside the window.
// The start boundary is inclusive, the end boundary exclusive.
func (w TimeWindow) Contains(minute int) bool {
	return minute >= w.Start && minute < w.End
}

// Minutes returns the window length in minutes.
func (w TimeWindow) Minutes() int {
	return w.End - w.Start
}

// String renders the window in the source format, e.g. "06:00 до 09:30".
// An end of 1440 renders as "24:00".
func (w TimeWindow) String() string {
	return fmt.Sprintf("%s %s %s", FormatMinute(w.Start), rangeSeparator, FormatMinute(w.End))
}

// FormatMinute renders minutes since midnight as HH:MM.
func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
