package schedule

import (
	"math"
	"time"
)

// Status is derived from a schedule and a reference instant. It is computed
// on every query and never stored, since Active and NextStart depend on now.
type Status struct {
	// Active is true when the reference instant falls inside a window.
	// A reference exactly on a window start is active; exactly on an end
	// is not (half-open semantics).
	Active bool
	// NextStart is the start of the earliest window strictly after the
	// reference instant, on the schedule's day. Nil when every window has
	// already started or the schedule is empty; the engine does not look
	// ahead to a future day's schedule.
	NextStart *time.Time
	// OutagePercent is the share of the day covered by windows, in
	// [0, 100], rounded to one decimal place.
	OutagePercent float64
}

// Derive computes the queryable status of the schedule at the given instant.
func Derive(s *Schedule, now time.Time) Status {
	st := Status{OutagePercent: s.OutagePercent()}
	minute := now.Hour()*60 + now.Minute()
	for _, w := range s.Windows {
		if w.Contains(minute) {
			st.Active = true
			break
		}
	}
	for _, w := range s.Windows {
		if w.Start > minute {
			t := s.dayStart(now).Add(time.Duration(w.Start) * time.Minute)
			st.NextStart = &t
			break
		}
	}
	return st
}

// OutagePercent sums window lengths naively: overlapping windows, should the
// source ever publish them, are double-counted rather than unioned. That is a
// deliberate simplification carried from the source data contract.
func (s *Schedule) OutagePercent() float64 {
	total := 0
	for _, w := range s.Windows {
		total += w.Minutes()
	}
	pct := 100 * float64(total) / MinutesPerDay
	return math.Round(pct*10) / 10
}

// dayStart returns midnight of the schedule's day, falling back to the
// reference instant's day when the date label did not resolve.
func (s *Schedule) dayStart(now time.Time) time.Time {
	day := s.Day
	if day.IsZero() {
		day = now
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
}
