package fetch

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ukrainianMonths maps the genitive month names used in announcements to
// their calendar month.
var ukrainianMonths = []string{
	"січня", "лютого", "березня", "квітня", "травня", "червня",
	"липня", "серпня", "вересня", "жовтня", "листопада", "грудня",
}

var dateRe = regexp.MustCompile(`(?i)(\d{1,2})\s+(` + strings.Join(ukrainianMonths, "|") + `)`)

// ParseDateLabel resolves a "<day> <month>" label to a calendar day at
// midnight in now's location. The year is now's, rolled forward when the
// announced month is already behind now (a December announcement for
// January). ok is false when the label does not resolve; callers then fall
// back to the fetch day so derivation keeps working.
func ParseDateLabel(label string, now time.Time) (day time.Time, ok bool) {
	m := dateRe.FindStringSubmatch(label)
	if m == nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(m[1])
	if err != nil || d < 1 || d > 31 {
		return time.Time{}, false
	}
	name := strings.ToLower(m[2])
	month := 0
	for i, n := range ukrainianMonths {
		if n == name {
			month = i + 1
			break
		}
	}
	if month == 0 {
		return time.Time{}, false
	}
	year := now.Year()
	if time.Month(month) < now.Month() {
		year++
	}
	return time.Date(year, time.Month(month), d, 0, 0, 0, 0, now.Location()), true
}
