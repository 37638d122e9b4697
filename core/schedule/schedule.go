package schedule

import (
	"strings"
	"time"
)

// NoOutagesText is the sentinel published when a day has no scheduled windows.
const NoOutagesText = "No outages"

// Schedule is the validated in-memory representation of one day's outage
// windows for one queue, plus fetch provenance. A Schedule is constructed
// fresh on every successful parse and superseded, never mutated, by the next
// one; the cache annotates failures by replacing the whole value.
type Schedule struct {
	// Queue is the subscriber group identifier, e.g. "6.2".
	Queue string
	// Windows are sorted ascending by start and each satisfies
	// 0 <= Start < End <= 1440.
	Windows []TimeWindow
	// DateLabel is the free-text day/month string from the announcement,
	// in the source language. It may be empty when the announcement line
	// could not be located.
	DateLabel string
	// Day is the resolved calendar day the windows belong to, at midnight.
	// Zero when the date label did not resolve.
	Day time.Time
	// FetchedAt is the instant of the successful fetch.
	FetchedAt time.Time
	// LastError is nil after a successful fetch. A failed attempt replaces
	// the schedule with a copy carrying the new error while the windows
	// stay untouched.
	LastError error
}

// New builds a Schedule from already parsed windows.
func New(queue string, windows []TimeWindow, dateLabel string, day, fetchedAt time.Time) *Schedule {
	return &Schedule{
		Queue:     queue,
		Windows:   windows,
		DateLabel: dateLabel,
		Day:       day,
		FetchedAt: fetchedAt,
	}
}

// WithError returns a copy of the schedule with LastError set. The receiver
// is not modified, so concurrent readers holding the previous value are safe.
func (s *Schedule) WithError(err error) *Schedule {
	c := *s
	c.LastError = err
	return &c
}

// Ranges returns one "HH:MM до HH:MM" string per window.
func (s *Schedule) Ranges() []string {
	out := make([]string, len(s.Windows))
	for i, w := range s.Windows {
		out[i] = w.String()
	}
	return out
}

// Text returns the human-readable comma-joined window list, or the
// NoOutagesText sentinel when the day has no scheduled outages.
func (s *Schedule) Text() string {
	if len(s.Windows) == 0 {
		return NoOutagesText
	}
	return strings.Join(s.Ranges(), ", ")
}
