package packing

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	publishTimeout      = 5 * time.Second
	disconnectQuiesceMs = 250
)

// MQTTPublisher is the slice of the paho client the progress publisher
// needs. The concrete mqtt.Client satisfies it; tests substitute a fake.
type MQTTPublisher interface {
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// ProgressUpdate is the JSON payload published after each annealing cycle.
type ProgressUpdate struct {
	Shape     string  `json:"shape"`
	Group     string  `json:"group"`
	Sites     string  `json:"sites"`
	Cycle     int     `json:"cycle"`
	Step      int     `json:"step"`
	Packing   float64 `json:"packing"`
	Timestamp int64   `json:"timestamp"`
}

// key identifies the optimization the update belongs to.
func (u ProgressUpdate) key() string {
	return fmt.Sprintf("%s/%s/%s", u.Shape, u.Group, u.Sites)
}

// ProgressPublisher streams best-seen packing updates over MQTT while long
// optimizations run. A nil client disables publishing, which keeps the
// optimizer free of conditionals.
type ProgressPublisher struct {
	client MQTTPublisher
	prefix string
	qos    byte
	retain bool

	mu     sync.RWMutex
	latest map[string]ProgressUpdate
}

// NewProgressPublisher creates a publisher with the given topic prefix.
// An empty prefix defaults to "wallpack".
func NewProgressPublisher(client MQTTPublisher, prefix string) *ProgressPublisher {
	if prefix == "" {
		prefix = "wallpack"
	}
	return &ProgressPublisher{
		client: client,
		prefix: prefix,
		qos:    0,
		retain: true,
		latest: make(map[string]ProgressUpdate),
	}
}

// ConnectMQTT dials the broker described by the config and returns the
// connected client.
func ConnectMQTT(cfg *MQTTConfig) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().AddBroker(cfg.Broker)
	if cfg.ClientID != "" {
		opts.SetClientID(cfg.ClientID)
	} else {
		opts.SetClientID("wallpack")
	}
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.Wait() || token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker %s: %w", cfg.Broker, token.Error())
	}
	log.Printf("[PUB] connected to MQTT broker %s", cfg.Broker)
	return client, nil
}

// PublishBest publishes one update to its per-group topic and records it for
// the status surface unless a higher packing is already recorded for the
// same optimization.
func (p *ProgressPublisher) PublishBest(update ProgressUpdate) error {
	p.mu.Lock()
	prev, ok := p.latest[update.key()]
	if !ok || update.Packing >= prev.Packing {
		p.latest[update.key()] = update
	}
	p.mu.Unlock()

	if p.client == nil {
		return nil
	}
	if !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshaling progress update: %w", err)
	}

	topic := fmt.Sprintf("%s/progress/%s/%s", p.prefix, update.Group, update.Sites)
	token := p.client.Publish(topic, p.qos, p.retain, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	return nil
}

// Latest returns a copy of the best update recorded per optimization.
func (p *ProgressPublisher) Latest() map[string]ProgressUpdate {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]ProgressUpdate, len(p.latest))
	for k, v := range p.latest {
		out[k] = v
	}
	return out
}

// Close disconnects the underlying client, when one is attached.
func (p *ProgressPublisher) Close() {
	if p.client != nil {
		p.client.Disconnect(disconnectQuiesceMs)
	}
}
