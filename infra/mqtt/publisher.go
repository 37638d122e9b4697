// Package mqtt publishes queue state to an MQTT broker so home automation
// platforms can consume it without polling the HTTP API.
package mqtt

import (
	"encoding/json"
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"

	corelogger "github.com/gpv-monitor/gpv/core/logger"
	"github.com/gpv-monitor/gpv/core/status"
	"github.com/gpv-monitor/gpv/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT publisher.
type Config struct {
	Enabled   bool   `json:"enabled"`
	Broker    string `json:"broker"`
	ClientID  string `json:"client_id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	TopicRoot string `json:"topic_root"`
	QoS       byte   `json:"qos"`
	Retain    bool   `json:"retain"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "gpv-monitor"
	}
	if c.TopicRoot == "" {
		c.TopicRoot = "gpv"
	}
}

// Validate checks mandatory fields when the publisher is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required")
	}
	return nil
}

type pahoClient interface {
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Publisher pushes queue snapshots to the broker, retained so late
// subscribers see the last known state immediately.
type Publisher struct {
	cli    pahoClient
	root   string
	qos    byte
	retain bool
	log    corelogger.Logger
}

// NewPublisher connects to the broker. The will message marks the monitor
// offline on an unclean disconnect.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.New("mqtt-publisher")

	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	statusTopic := cfg.TopicRoot + "/status"
	opts.SetWill(statusTopic, "offline", cfg.QoS, true)
	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		if token := c.Publish(statusTopic, cfg.QoS, true, "online"); token.Wait() && token.Error() != nil {
			log.Errorf("publish online status: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}

	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &Publisher{
		cli:    cli,
		root:   cfg.TopicRoot,
		qos:    cfg.QoS,
		retain: cfg.Retain,
		log:    log,
	}, nil
}

// PublishSnapshot publishes the queue snapshot as JSON on
// <root>/<queue>/state.
func (p *Publisher) PublishSnapshot(snap status.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	topic := fmt.Sprintf("%s/%s/state", p.root, snap.Queue)
	if token := p.cli.Publish(topic, p.qos, p.retain, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish %s: %w", topic, token.Error())
	}
	return nil
}

// Close marks the monitor offline and disconnects.
func (p *Publisher) Close() {
	if token := p.cli.Publish(p.root+"/status", p.qos, true, "offline"); token.Wait() && token.Error() != nil {
		p.log.Errorf("publish offline status: %v", token.Error())
	}
	p.cli.Disconnect(250)
	p.log.Infof("MQTT disconnected")
}
