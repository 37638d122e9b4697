// Package metrics defines the sink interface fed by the poll loop and the
// configuration shared by its implementations.
package metrics

import "time"

// FetchResult captures one poll attempt against the schedule source.
type FetchResult struct {
	AttemptID string
	Queue     string
	Success   bool
	// Stale is true when the attempt failed but a previous schedule is
	// still being served.
	Stale    bool
	Error    string
	Duration time.Duration
	Time     time.Time
}

// ScheduleSnapshot captures the derived schedule state after a successful
// parse.
type ScheduleSnapshot struct {
	Queue         string
	DateLabel     string
	Windows       int
	OutagePercent float64
	Active        bool
	Time          time.Time
}

// MetricsSink records poll results for observability purposes.
type MetricsSink interface {
	RecordFetchResult(ev FetchResult) error
	RecordScheduleSnapshot(ev ScheduleSnapshot) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordFetchResult(FetchResult) error           { return nil }
func (NopSink) RecordScheduleSnapshot(ScheduleSnapshot) error { return nil }
