// Package events defines the events emitted on the event bus after each
// poll cycle.
package events

import (
	"time"

	"github.com/gpv-monitor/gpv/core/status"
)

// StatusEvent carries the refreshed state of a queue after a poll attempt,
// successful or not.
type StatusEvent struct {
	// AttemptID correlates the event with the fetch attempt's log lines.
	AttemptID string
	Snapshot  status.Snapshot
	Time      time.Time
}
