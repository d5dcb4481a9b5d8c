// Package messaging provides a NATS client wrapper for the operator
// moderation feed. External moderation tooling publishes ban and unban
// commands that the bot applies to its store; the bot publishes an event
// for every block-and-report a user files.
package messaging

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NATS subjects used by the moderation feed.
const (
	SubjectBan         = "moderation.ban"
	SubjectUnban       = "moderation.unban"
	SubjectReportFiled = "report.filed"
)

// BanCommand is the payload published by operator tooling on SubjectBan and
// SubjectUnban.
type BanCommand struct {
	UserID int64  `json:"user_id"`
	Reason string `json:"reason,omitempty"`
}

// ReportEvent is published by the bot on SubjectReportFiled when a user
// confirms a block-and-report.
type ReportEvent struct {
	ReportID   string `json:"report_id"`
	ReporterID int64  `json:"reporter_id"`
	ReportedID int64  `json:"reported_id"`
	Ts         int64  `json:"ts"`
}

// NATSClient wraps the NATS connection with helper methods for pub/sub.
type NATSClient struct {
	conn *nats.Conn
	mu   sync.Mutex
	subs map[string]*nats.Subscription
}

// NATSConfig holds NATS connection settings.
type NATSConfig struct {
	URL           string        // nats://localhost:4222
	Name          string        // client name for identification
	ReconnectWait time.Duration // time between reconnect attempts
	MaxReconnects int           // max reconnect attempts (-1 for infinite)
}

// DefaultNATSConfig returns sensible defaults.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           "nats://localhost:4222",
		Name:          "randompartner-bot",
		ReconnectWait: 2 * time.Second,
		MaxReconnects: -1, // infinite reconnects
	}
}

// NewNATSClient connects to NATS with the given config and returns a ready
// client. It returns an error if the initial connection fails.
func NewNATSClient(config NATSConfig) (*NATSClient, error) {
	opts := []nats.Option{
		nats.Name(config.Name),
		nats.ReconnectWait(config.ReconnectWait),
		nats.MaxReconnects(config.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("[nats] disconnected: %v", err)
			} else {
				log.Printf("[nats] disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[nats] reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Printf("[nats] connection closed")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	log.Printf("[nats] connected to %s", nc.ConnectedUrl())

	return &NATSClient{
		conn: nc,
		subs: make(map[string]*nats.Subscription),
	}, nil
}

// Publish sends data to the given NATS subject.
func (c *NATSClient) Publish(subject string, data []byte) error {
	return c.conn.Publish(subject, data)
}

// Subscribe registers a handler for the given subject and stores the
// subscription internally for later cleanup.
func (c *NATSClient) Subscribe(subject string, handler func(msg *nats.Msg)) error {
	sub, err := c.conn.Subscribe(subject, handler)
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", subject, err)
	}

	c.mu.Lock()
	c.subs[subject] = sub
	c.mu.Unlock()

	return nil
}

// SubscribeBanCommands subscribes to operator ban commands.
func (c *NATSClient) SubscribeBanCommands(handler func(data []byte)) error {
	return c.Subscribe(SubjectBan, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

// SubscribeUnbanCommands subscribes to operator unban commands.
func (c *NATSClient) SubscribeUnbanCommands(handler func(data []byte)) error {
	return c.Subscribe(SubjectUnban, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

// PublishReportFiled publishes a block-and-report event.
func (c *NATSClient) PublishReportFiled(data []byte) error {
	return c.Publish(SubjectReportFiled, data)
}

// Close drains all active subscriptions and closes the NATS connection.
func (c *NATSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for subject, sub := range c.subs {
		if err := sub.Drain(); err != nil {
			log.Printf("[nats] drain %s: %v", subject, err)
		}
	}
	c.subs = make(map[string]*nats.Subscription)

	if err := c.conn.Drain(); err != nil {
		log.Printf("[nats] connection drain: %v", err)
	}

	log.Printf("[nats] client closed")
}
