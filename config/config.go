// Package config loads the service configuration from a JSON or YAML file
// with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gpv-monitor/gpv/core/metrics"
	"github.com/gpv-monitor/gpv/infra/fetch"
	"github.com/gpv-monitor/gpv/infra/mqtt"
)

// Polling interval bounds in minutes, matching what the source publisher
// tolerates.
const (
	DefaultPollIntervalMinutes = 30
	MinPollIntervalMinutes     = 5
	MaxPollIntervalMinutes     = 120
)

// DefaultQueue is monitored when no queues are configured.
const DefaultQueue = "6.2"

type Config struct {
	// Queues lists the subscriber queue identifiers to monitor.
	Queues              []string       `json:"queues"`
	PollIntervalMinutes int            `json:"poll_interval_minutes"`
	HistoryLimit        int            `json:"history_limit"`
	Source              fetch.Config   `json:"source"`
	API                 APIConfig      `json:"api"`
	Metrics             metrics.Config `json:"metrics"`
	MQTT                mqtt.Config    `json:"mqtt"`
}

// APIConfig defines the HTTP status surface.
type APIConfig struct {
	Enabled bool   `json:"enabled"`
	Address string `json:"address"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if len(c.Queues) == 0 {
		c.Queues = []string{DefaultQueue}
	}
	if c.PollIntervalMinutes == 0 {
		c.PollIntervalMinutes = DefaultPollIntervalMinutes
	}
	if c.API.Address == "" {
		c.API.Address = ":8080"
	}
	c.Source.SetDefaults()
	c.Metrics.SetDefaults()
	c.MQTT.SetDefaults()
}

// Validate checks configured values against their bounds.
func (c Config) Validate() error {
	if c.PollIntervalMinutes < MinPollIntervalMinutes || c.PollIntervalMinutes > MaxPollIntervalMinutes {
		return fmt.Errorf("poll_interval_minutes must be within [%d, %d], got %d",
			MinPollIntervalMinutes, MaxPollIntervalMinutes, c.PollIntervalMinutes)
	}
	seen := map[string]bool{}
	for _, q := range c.Queues {
		if q == "" {
			return fmt.Errorf("queue identifier must not be empty")
		}
		if seen[q] {
			return fmt.Errorf("queue %s configured twice", q)
		}
		seen[q] = true
	}
	return c.MQTT.Validate()
}

// Load reads the configuration file, applies GPV_ environment overrides,
// defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. GPV_MQTT__BROKER.
	if err := k.Load(env.Provider("GPV_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "gpv_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
