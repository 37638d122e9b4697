package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gpv-monitor/gpv/api/status"
	"github.com/gpv-monitor/gpv/config"
	"github.com/gpv-monitor/gpv/core/events"
	corelogger "github.com/gpv-monitor/gpv/core/logger"
	coremetrics "github.com/gpv-monitor/gpv/core/metrics"
	corestatus "github.com/gpv-monitor/gpv/core/status"
	"github.com/gpv-monitor/gpv/infra/fetch"
	"github.com/gpv-monitor/gpv/infra/logger"
	"github.com/gpv-monitor/gpv/infra/metrics"
	"github.com/gpv-monitor/gpv/infra/mqtt"
	"github.com/gpv-monitor/gpv/internal/eventbus"
)

// Service wires the monitors, metrics sinks, MQTT publisher and HTTP API
// together from a validated configuration.
type Service struct {
	cfg      *config.Config
	order    []string
	monitors map[string]*Monitor
	bus      *eventbus.Bus[events.StatusEvent]
	sink     coremetrics.MetricsSink
	pub      *mqtt.Publisher
	log      corelogger.Logger
}

// NewService builds the full dependency graph. It connects to MQTT and the
// metrics backends but does not start polling; call Run for that.
func NewService(cfg *config.Config) (*Service, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log := logger.New("service")

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prometheus sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.MetricsSink
	switch len(sinks) {
	case 0:
		sink = coremetrics.NopSink{}
	case 1:
		sink = sinks[0]
	default:
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New[events.StatusEvent]()
	fetcher := fetch.NewClient(cfg.Source)
	interval := time.Duration(cfg.PollIntervalMinutes) * time.Minute

	monitors := make(map[string]*Monitor, len(cfg.Queues))
	for _, q := range cfg.Queues {
		monitors[q] = NewMonitor(q, interval, cfg.HistoryLimit, fetcher, sink, bus)
	}

	svc := &Service{
		cfg:      cfg,
		order:    append([]string(nil), cfg.Queues...),
		monitors: monitors,
		bus:      bus,
		sink:     sink,
		log:      log,
	}
	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.pub = pub
	}
	return svc, nil
}

// Queues returns the monitored queues in configuration order.
func (s *Service) Queues() []string {
	return append([]string(nil), s.order...)
}

// Snapshot returns the current state of one queue.
func (s *Service) Snapshot(queue string) (corestatus.Snapshot, bool) {
	m, ok := s.monitors[queue]
	if !ok {
		return corestatus.Snapshot{}, false
	}
	return m.Snapshot(), true
}

// Run starts all monitors and servers, then blocks until the context is
// canceled.
func (s *Service) Run(ctx context.Context) error {
	for _, q := range s.order {
		m := s.monitors[q]
		go func() {
			if err := m.Run(ctx); err != nil {
				s.log.Errorf("monitor %s stopped: %v", m.Queue(), err)
			}
		}()
	}
	if s.pub != nil {
		go s.forwardToMQTT(ctx)
	}
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prometheus server: %v", err)
			}
		}()
	}
	if s.cfg.API.Enabled {
		go func() {
			if err := s.serveAPI(ctx); err != nil {
				s.log.Errorf("api server: %v", err)
			}
		}()
	}
	s.log.Infof("monitoring %d queue(s) every %d minute(s)", len(s.order), s.cfg.PollIntervalMinutes)
	<-ctx.Done()
	return nil
}

// Close releases external connections. Safe to call after Run returns.
func (s *Service) Close() {
	s.bus.Close()
	if s.pub != nil {
		s.pub.Close()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
}

func (s *Service) forwardToMQTT(ctx context.Context) {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			if err := s.pub.PublishSnapshot(ev.Snapshot); err != nil {
				s.log.Errorf("mqtt publish: %v", err)
			}
		}
	}
}

func (s *Service) serveAPI(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.API.Address,
		Handler: status.NewHandler(s),
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Infof("status API listening on %s", s.cfg.API.Address)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
