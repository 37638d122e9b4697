package metrics

import coremetrics "github.com/gpv-monitor/gpv/core/metrics"

// MultiSink fans poll results out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordFetchResult forwards the record to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordFetchResult(ev coremetrics.FetchResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordFetchResult(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordScheduleSnapshot forwards the record to all sinks.
func (m *MultiSink) RecordScheduleSnapshot(ev coremetrics.ScheduleSnapshot) error {
	for _, s := range m.Sinks {
		if err := s.RecordScheduleSnapshot(ev); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink that holds an external connection.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
