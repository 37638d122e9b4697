package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/gpv-monitor/gpv/core/metrics"
)

// PromSink records poll results in Prometheus metrics.
type PromSink struct {
	fetches  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	percent  *prometheus.GaugeVec
	active   *prometheus.GaugeVec
	windows  *prometheus.GaugeVec
}

// NewPromSink registers the poll metrics on the default Prometheus
// registerer. The metrics server is started separately on
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gpv_fetch_attempts_total",
		Help: "Total number of schedule fetch attempts",
	}, []string{"queue", "success"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gpv_fetch_duration_seconds",
		Help:    "Time spent fetching and parsing the schedule page",
		Buckets: prometheus.DefBuckets,
	}, []string{"queue"})
	percent := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gpv_outage_percentage",
		Help: "Share of the day covered by scheduled outages",
	}, []string{"queue"})
	active := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gpv_outage_active",
		Help: "1 when an outage window covers the poll instant",
	}, []string{"queue"})
	windows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gpv_schedule_windows",
		Help: "Number of outage windows in the current schedule",
	}, []string{"queue"})

	s := &PromSink{fetches: fetches, duration: duration, percent: percent, active: active, windows: windows}
	collectors := []prometheus.Collector{fetches, duration, percent, active, windows}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch i {
			case 0:
				s.fetches = are.ExistingCollector.(*prometheus.CounterVec)
			case 1:
				s.duration = are.ExistingCollector.(*prometheus.HistogramVec)
			case 2:
				s.percent = are.ExistingCollector.(*prometheus.GaugeVec)
			case 3:
				s.active = are.ExistingCollector.(*prometheus.GaugeVec)
			case 4:
				s.windows = are.ExistingCollector.(*prometheus.GaugeVec)
			}
		}
	}
	return s, nil
}

// RecordFetchResult counts the attempt and observes its duration.
func (s *PromSink) RecordFetchResult(ev coremetrics.FetchResult) error {
	s.fetches.WithLabelValues(ev.Queue, strconv.FormatBool(ev.Success)).Inc()
	s.duration.WithLabelValues(ev.Queue).Observe(ev.Duration.Seconds())
	return nil
}

// RecordScheduleSnapshot updates the per-queue schedule gauges.
func (s *PromSink) RecordScheduleSnapshot(ev coremetrics.ScheduleSnapshot) error {
	s.percent.WithLabelValues(ev.Queue).Set(ev.OutagePercent)
	s.windows.WithLabelValues(ev.Queue).Set(float64(ev.Windows))
	v := 0.0
	if ev.Active {
		v = 1
	}
	s.active.WithLabelValues(ev.Queue).Set(v)
	return nil
}
