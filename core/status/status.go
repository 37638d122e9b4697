// Package status assembles the externally visible state of a monitored
// queue: the parsed schedule, its derived values and both timeline
// renderings, in the shape consumed by the HTTP API and the MQTT publisher.
package status

import (
	"time"

	"github.com/gpv-monitor/gpv/core/cache"
	"github.com/gpv-monitor/gpv/core/history"
	"github.com/gpv-monitor/gpv/core/render"
	"github.com/gpv-monitor/gpv/core/schedule"
)

// Snapshot is the full queryable state of one queue at one instant.
type Snapshot struct {
	Queue         string         `json:"queue"`
	State         string         `json:"state"`
	OutageDate    string         `json:"outage_date"`
	ScheduleText  string         `json:"schedule_text"`
	TimeRanges    []string       `json:"time_ranges"`
	OutagePercent float64        `json:"outage_percentage"`
	OutageActive  bool           `json:"outage_active"`
	NextOutage    *time.Time     `json:"next_outage,omitempty"`
	LastUpdated   *time.Time     `json:"last_updated,omitempty"`
	LastError     string         `json:"last_error"`
	TimelineASCII string         `json:"timeline_ascii"`
	TimelineSVG   string         `json:"timeline_svg"`
	History       *history.Stats `json:"history,omitempty"`
}

// Build derives a Snapshot from the cache slot at the given instant. Before
// the first successful fetch it returns an empty-state snapshot carrying only
// the recorded error, so the surface never disappears.
func Build(m *cache.Manager, hist *history.Record, now time.Time) Snapshot {
	snap := Snapshot{
		Queue:         m.Queue(),
		State:         m.State().String(),
		ScheduleText:  schedule.NoOutagesText,
		TimeRanges:    []string{},
		TimelineASCII: render.ASCII(nil, render.DefaultWidth),
		TimelineSVG:   render.SVG(nil, 0, 0),
	}
	if err := m.LastError(); err != nil {
		snap.LastError = err.Error()
	}

	s := m.Current()
	if s == nil {
		return snap
	}
	st := schedule.Derive(s, now)
	snap.OutageDate = s.DateLabel
	snap.ScheduleText = s.Text()
	snap.TimeRanges = s.Ranges()
	snap.OutagePercent = st.OutagePercent
	snap.OutageActive = st.Active
	snap.NextOutage = st.NextStart
	fetched := s.FetchedAt
	snap.LastUpdated = &fetched
	snap.TimelineASCII = render.ASCII(s.Windows, render.DefaultWidth)
	snap.TimelineSVG = render.SVG(s.Windows, 0, 0)
	if hist != nil {
		stats := hist.Stats()
		if stats.Count > 0 {
			snap.History = &stats
		}
	}
	return snap
}
