// Package history keeps a bounded record of daily outage percentages per
// queue and computes aggregate statistics over them.
package history

import (
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultLimit bounds the number of retained schedule days.
const DefaultLimit = 30

// Entry is one recorded schedule day.
type Entry struct {
	DateLabel string  `json:"date"`
	Percent   float64 `json:"outage_percentage"`
}

// Stats summarizes the recorded outage percentages.
type Stats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Record accumulates one entry per distinct schedule day. A repeated date
// label overwrites the previous entry, so intra-day schedule updates replace
// rather than duplicate.
type Record struct {
	mu      sync.Mutex
	limit   int
	entries []Entry
}

// New creates a Record keeping at most limit entries.
func New(limit int) *Record {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Record{limit: limit}
}

// Add records the outage percentage for the given schedule day.
func (r *Record) Add(dateLabel string, percent float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.entries); n > 0 && r.entries[n-1].DateLabel == dateLabel {
		r.entries[n-1].Percent = percent
		return
	}
	r.entries = append(r.entries, Entry{DateLabel: dateLabel, Percent: percent})
	if len(r.entries) > r.limit {
		r.entries = r.entries[len(r.entries)-r.limit:]
	}
}

// Entries returns a copy of the recorded days, oldest first.
func (r *Record) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Stats computes aggregate statistics over the recorded percentages.
func (r *Record) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return Stats{}
	}
	xs := make([]float64, len(r.entries))
	for i, e := range r.entries {
		xs[i] = e.Percent
	}
	s := Stats{
		Count: len(xs),
		Mean:  stat.Mean(xs, nil),
		Min:   floats.Min(xs),
		Max:   floats.Max(xs),
	}
	if len(xs) > 1 {
		s.StdDev = stat.StdDev(xs, nil)
	}
	return s
}
