package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpv-monitor/gpv/core/events"
	"github.com/gpv-monitor/gpv/core/history"
	coremetrics "github.com/gpv-monitor/gpv/core/metrics"
	"github.com/gpv-monitor/gpv/internal/eventbus"
)

const announcementPage = `<html><body>
<p>📢 10 листопада з 00:00 до 24:00 застосовуватимуться відключення наступних черг:</p>
<p>6.1 черга:<br />з 02:00 до 06:00</p>
<p>6.2 черга:<br />з 00:00 до 02:00<br />з 05:30 до 12:30</p>
</body></html>`

type fakeFetcher struct {
	pages []string
	errs  []error
	calls int
}

func (f *fakeFetcher) FetchPage(context.Context) (string, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.pages) {
		return f.pages[i], nil
	}
	return f.pages[len(f.pages)-1], nil
}

type recordingSink struct {
	fetches   []coremetrics.FetchResult
	snapshots []coremetrics.ScheduleSnapshot
}

func (r *recordingSink) RecordFetchResult(ev coremetrics.FetchResult) error {
	r.fetches = append(r.fetches, ev)
	return nil
}

func (r *recordingSink) RecordScheduleSnapshot(ev coremetrics.ScheduleSnapshot) error {
	r.snapshots = append(r.snapshots, ev)
	return nil
}

func newTestMonitor(f Fetcher, sink coremetrics.MetricsSink, bus *eventbus.Bus[events.StatusEvent]) *Monitor {
	m := NewMonitor("6.2", time.Minute, history.DefaultLimit, f, sink, bus)
	m.now = func() time.Time {
		return time.Date(2024, time.November, 10, 8, 0, 0, 0, time.UTC)
	}
	return m
}

func TestPollSuccess(t *testing.T) {
	sink := &recordingSink{}
	m := newTestMonitor(&fakeFetcher{pages: []string{announcementPage}}, sink, nil)

	m.Poll(context.Background())

	snap := m.Snapshot()
	assert.Equal(t, "fresh", snap.State)
	assert.Equal(t, []string{"00:00 до 02:00", "05:30 до 12:30"}, snap.TimeRanges)
	assert.Equal(t, "10 листопада", snap.OutageDate)
	assert.InDelta(t, 37.5, snap.OutagePercent, 1e-9)
	assert.True(t, snap.OutageActive, "08:00 falls inside 05:30-12:30")
	assert.Empty(t, snap.LastError)

	require.Len(t, sink.fetches, 1)
	assert.True(t, sink.fetches[0].Success)
	assert.Equal(t, "6.2", sink.fetches[0].Queue)
	assert.NotEmpty(t, sink.fetches[0].AttemptID)
	require.Len(t, sink.snapshots, 1)
	assert.Equal(t, 2, sink.snapshots[0].Windows)
}

func TestPollFailureBeforeFirstSuccess(t *testing.T) {
	sink := &recordingSink{}
	m := newTestMonitor(&fakeFetcher{errs: []error{errors.New("boom")}}, sink, nil)

	m.Poll(context.Background())

	snap := m.Snapshot()
	assert.Equal(t, "empty", snap.State)
	assert.Equal(t, "boom", snap.LastError)
	assert.Equal(t, "No outages", snap.ScheduleText)
	require.Len(t, sink.fetches, 1)
	assert.False(t, sink.fetches[0].Success)
	assert.False(t, sink.fetches[0].Stale)
	assert.Empty(t, sink.snapshots)
}

func TestPollFailureServesStale(t *testing.T) {
	sink := &recordingSink{}
	f := &fakeFetcher{
		pages: []string{announcementPage, ""},
		errs:  []error{nil, errors.New("source down")},
	}
	m := newTestMonitor(f, sink, nil)

	m.Poll(context.Background())
	m.Poll(context.Background())

	snap := m.Snapshot()
	assert.Equal(t, "stale", snap.State)
	assert.Equal(t, "source down", snap.LastError)
	assert.Equal(t, []string{"00:00 до 02:00", "05:30 до 12:30"}, snap.TimeRanges,
		"ranges from the previous fetch survive the failure")
	require.Len(t, sink.fetches, 2)
	assert.True(t, sink.fetches[1].Stale)
}

func TestPollRecoversFromStale(t *testing.T) {
	f := &fakeFetcher{
		pages: []string{announcementPage, "", announcementPage},
		errs:  []error{nil, errors.New("source down"), nil},
	}
	m := newTestMonitor(f, nil, nil)

	m.Poll(context.Background())
	m.Poll(context.Background())
	m.Poll(context.Background())

	snap := m.Snapshot()
	assert.Equal(t, "fresh", snap.State)
	assert.Empty(t, snap.LastError)
}

func TestPollPublishesStatusEvent(t *testing.T) {
	bus := eventbus.New[events.StatusEvent]()
	defer bus.Close()
	sub := bus.Subscribe()

	m := newTestMonitor(&fakeFetcher{pages: []string{announcementPage}}, nil, bus)
	m.Poll(context.Background())

	select {
	case ev := <-sub:
		assert.NotEmpty(t, ev.AttemptID)
		assert.Equal(t, "6.2", ev.Snapshot.Queue)
		assert.Equal(t, "fresh", ev.Snapshot.State)
	default:
		t.Fatal("expected a status event on the bus")
	}
}

func TestPollRejectsMalformedRanges(t *testing.T) {
	page := `<html><body>
<p>📢 10 листопада з 00:00 до 24:00 застосовуватимуться відключення наступних черг:</p>
<p>6.2 черга:<br />з 25:00 до 26:00</p>
</body></html>`
	f := &fakeFetcher{pages: []string{announcementPage, page}}
	m := newTestMonitor(f, nil, nil)

	m.Poll(context.Background())
	m.Poll(context.Background())

	snap := m.Snapshot()
	assert.Equal(t, "stale", snap.State)
	assert.NotEmpty(t, snap.LastError)
	assert.Equal(t, []string{"00:00 до 02:00", "05:30 до 12:30"}, snap.TimeRanges)
}
