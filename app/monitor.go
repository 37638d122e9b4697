package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gpv-monitor/gpv/core/cache"
	"github.com/gpv-monitor/gpv/core/events"
	"github.com/gpv-monitor/gpv/core/history"
	corelogger "github.com/gpv-monitor/gpv/core/logger"
	coremetrics "github.com/gpv-monitor/gpv/core/metrics"
	"github.com/gpv-monitor/gpv/core/schedule"
	"github.com/gpv-monitor/gpv/core/status"
	"github.com/gpv-monitor/gpv/infra/fetch"
	"github.com/gpv-monitor/gpv/infra/logger"
	"github.com/gpv-monitor/gpv/internal/eventbus"
)

// Fetcher retrieves the raw announcement page. Satisfied by fetch.Client.
type Fetcher interface {
	FetchPage(ctx context.Context) (string, error)
}

// Monitor polls the schedule source for one queue and owns its cache. Each
// monitored queue gets an independent Monitor; they share nothing mutable.
type Monitor struct {
	queue    string
	interval time.Duration
	fetcher  Fetcher
	cache    *cache.Manager
	hist     *history.Record
	sink     coremetrics.MetricsSink
	bus      *eventbus.Bus[events.StatusEvent]
	log      corelogger.Logger
	now      func() time.Time
}

// NewMonitor creates a Monitor for the given queue. A nil sink or bus
// disables the respective output.
func NewMonitor(queue string, interval time.Duration, histLimit int, fetcher Fetcher,
	sink coremetrics.MetricsSink, bus *eventbus.Bus[events.StatusEvent]) *Monitor {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Monitor{
		queue:    queue,
		interval: interval,
		fetcher:  fetcher,
		cache:    cache.NewManager(queue),
		hist:     history.New(histLimit),
		sink:     sink,
		bus:      bus,
		log:      logger.New("monitor-" + queue),
		now:      time.Now,
	}
}

// Queue returns the monitored queue identifier.
func (m *Monitor) Queue() string { return m.queue }

// Snapshot returns the current queryable state of the queue.
func (m *Monitor) Snapshot() status.Snapshot {
	return status.Build(m.cache, m.hist, m.now())
}

// Run polls immediately and then on every interval tick until the context
// is canceled.
func (m *Monitor) Run(ctx context.Context) error {
	m.Poll(ctx)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Poll(ctx)
		}
	}
}

// Poll performs one fetch-parse-record cycle. Failures of any stage turn
// into a cache failure record, so the previous schedule keeps being served
// with the new error attached.
func (m *Monitor) Poll(ctx context.Context) {
	attemptID := uuid.NewString()
	started := m.now()

	s, err := m.refresh(ctx, started)
	elapsed := m.now().Sub(started)
	result := coremetrics.FetchResult{
		AttemptID: attemptID,
		Queue:     m.queue,
		Duration:  elapsed,
		Time:      started,
	}
	if err != nil {
		m.cache.RecordFailure(err)
		result.Error = err.Error()
		result.Stale = m.cache.State() == cache.StateStale
		m.log.Errorf("poll failed: %v", err)
		m.log.Debugw("poll attempt", map[string]any{
			"attempt_id": attemptID, "queue": m.queue, "stale": result.Stale,
		})
	} else {
		m.cache.RecordSuccess(s)
		m.hist.Add(historyKey(s), s.OutagePercent())
		result.Success = true
		st := schedule.Derive(s, started)
		if serr := m.sink.RecordScheduleSnapshot(coremetrics.ScheduleSnapshot{
			Queue:         m.queue,
			DateLabel:     s.DateLabel,
			Windows:       len(s.Windows),
			OutagePercent: st.OutagePercent,
			Active:        st.Active,
			Time:          started,
		}); serr != nil {
			m.log.Warnf("record snapshot: %v", serr)
		}
		m.log.Infof("schedule refreshed: %s (%s)", s.Text(), s.DateLabel)
	}
	if serr := m.sink.RecordFetchResult(result); serr != nil {
		m.log.Warnf("record fetch result: %v", serr)
	}
	if m.bus != nil {
		m.bus.Publish(events.StatusEvent{
			AttemptID: attemptID,
			Snapshot:  m.Snapshot(),
			Time:      m.now(),
		})
	}
}

// refresh fetches and parses a new schedule for the queue.
func (m *Monitor) refresh(ctx context.Context, now time.Time) (*schedule.Schedule, error) {
	html, err := m.fetcher.FetchPage(ctx)
	if err != nil {
		return nil, err
	}
	page, err := fetch.ParsePage(html)
	if err != nil {
		return nil, err
	}
	raw, updated := page.QueueRanges(m.queue)
	windows, err := schedule.ParseRanges(raw)
	if err != nil {
		return nil, err
	}
	if updated {
		m.log.Infof("update section overrides the main schedule")
	}
	label := page.DateLabel()
	day, ok := fetch.ParseDateLabel(label, now)
	if !ok {
		// Unresolvable announcement date: pin the windows to the fetch
		// day so derivation keeps working.
		day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
	return schedule.New(m.queue, windows, label, day, now), nil
}

func historyKey(s *schedule.Schedule) string {
	if s.DateLabel != "" {
		return s.DateLabel
	}
	return s.Day.Format("2006-01-02")
}
