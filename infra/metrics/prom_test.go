package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/gpv-monitor/gpv/core/metrics"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}

	err = sink.RecordFetchResult(coremetrics.FetchResult{
		Queue: "6.2", Success: true, Duration: 120 * time.Millisecond, Time: time.Now(),
	})
	if err != nil {
		t.Fatalf("record fetch: %v", err)
	}
	err = sink.RecordScheduleSnapshot(coremetrics.ScheduleSnapshot{
		Queue: "6.2", Windows: 3, OutagePercent: 31.3, Active: true, Time: time.Now(),
	})
	if err != nil {
		t.Fatalf("record snapshot: %v", err)
	}

	ps := sink.(*PromSink)
	if got := testutil.ToFloat64(ps.fetches.WithLabelValues("6.2", "true")); got != 1 {
		t.Fatalf("fetch counter: expected 1 got %v", got)
	}
	if got := testutil.ToFloat64(ps.percent.WithLabelValues("6.2")); got != 31.3 {
		t.Fatalf("percentage gauge: expected 31.3 got %v", got)
	}
	if got := testutil.ToFloat64(ps.active.WithLabelValues("6.2")); got != 1 {
		t.Fatalf("active gauge: expected 1 got %v", got)
	}
	if got := testutil.ToFloat64(ps.windows.WithLabelValues("6.2")); got != 3 {
		t.Fatalf("windows gauge: expected 3 got %v", got)
	}
}

func TestPromSinkDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("second registration should reuse collectors: %v", err)
	}
}
