/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package eventbus forwards in-process events to an external broker.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_timer/internal/events"
	"github.com/friendsincode/grimnir_timer/internal/telemetry"
)

// NATSConfig contains NATS connection configuration.
type NATSConfig struct {
	URL           string
	SubjectPrefix string

	MaxReconnects int
	ReconnectWait time.Duration
	Timeout       time.Duration
}

// DefaultNATSConfig returns default NATS configuration.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		SubjectPrefix: "grimnir.timer",
		MaxReconnects: -1, // Unlimited
		ReconnectWait: 2 * time.Second,
		Timeout:       5 * time.Second,
	}
}

type msgPublisher interface {
	PublishMsg(msg *nats.Msg) error
}

// NATSPublisher republishes bus events on NATS subjects
// "<prefix>.<event_type>".
type NATSPublisher struct {
	conn    msgPublisher
	closeFn func() error
	prefix  string
	nodeID  string
	logger  zerolog.Logger
	wg      sync.WaitGroup
}

// ConnectNATS dials the server described by cfg.
func ConnectNATS(cfg NATSConfig, logger zerolog.Logger) (*NATSPublisher, error) {
	logger = logger.With().Str("component", "nats").Logger()
	nodeID := generateNodeID()

	nc, err := nats.Connect(cfg.URL,
		nats.Name("grimnirtimer-"+nodeID),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.Timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	logger.Info().Str("url", nc.ConnectedUrl()).Msg("connected to nats")
	return newNATSPublisher(nc, nc.Drain, cfg.SubjectPrefix, nodeID, logger), nil
}

func newNATSPublisher(conn msgPublisher, closeFn func() error, prefix, nodeID string, logger zerolog.Logger) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultNATSConfig().SubjectPrefix
	}
	return &NATSPublisher{
		conn:    conn,
		closeFn: closeFn,
		prefix:  prefix,
		nodeID:  nodeID,
		logger:  logger,
	}
}

// Subject returns the subject an event type is published on.
func (p *NATSPublisher) Subject(eventType events.EventType) string {
	return p.prefix + "." + string(eventType)
}

// Publish sends a single event.
func (p *NATSPublisher) Publish(eventType events.EventType, payload events.Payload) error {
	msg, err := newMessage(eventType, payload, p.nodeID)
	if err != nil {
		telemetry.EventsPublishedTotal.WithLabelValues(string(eventType), "error").Inc()
		return err
	}
	data, err := json.Marshal(msg)
	if err != nil {
		telemetry.EventsPublishedTotal.WithLabelValues(string(eventType), "error").Inc()
		return fmt.Errorf("marshal nats message: %w", err)
	}

	out := nats.NewMsg(p.Subject(eventType))
	out.Header.Set(nats.MsgIdHdr, msg.MessageID)
	out.Data = data
	if err := p.conn.PublishMsg(out); err != nil {
		telemetry.EventsPublishedTotal.WithLabelValues(string(eventType), "error").Inc()
		return fmt.Errorf("publish %s: %w", out.Subject, err)
	}
	telemetry.EventsPublishedTotal.WithLabelValues(string(eventType), "ok").Inc()
	return nil
}

// Forward subscribes to each event type on bus and republishes until ctx is
// done. Wait blocks until the forwarders exit.
func (p *NATSPublisher) Forward(ctx context.Context, bus *events.Bus, types ...events.EventType) {
	if len(types) == 0 {
		types = events.AllEventTypes
	}
	for _, eventType := range types {
		sub := bus.Subscribe(eventType)
		p.wg.Add(1)
		go func(eventType events.EventType, sub events.Subscriber) {
			defer p.wg.Done()
			defer bus.Unsubscribe(eventType, sub)
			for {
				select {
				case <-ctx.Done():
					return
				case payload, ok := <-sub:
					if !ok {
						return
					}
					if err := p.Publish(eventType, payload); err != nil {
						p.logger.Warn().Err(err).Str("event", string(eventType)).Msg("failed to forward event")
					}
				}
			}
		}(eventType, sub)
	}
}

// Wait blocks until every forwarder started by Forward has returned.
func (p *NATSPublisher) Wait() {
	p.wg.Wait()
}

// Close drains the connection.
func (p *NATSPublisher) Close() error {
	if p.closeFn == nil {
		return nil
	}
	return p.closeFn()
}

// natsMessage represents a message published to NATS.
type natsMessage struct {
	EventType events.EventType `json:"event_type"`
	Payload   events.Payload   `json:"payload"`
	Timestamp time.Time        `json:"timestamp"`
	NodeID    string           `json:"node_id"`
	MessageID string           `json:"message_id"` // For deduplication
}

func newMessage(eventType events.EventType, payload events.Payload, nodeID string) (*natsMessage, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate message id: %w", err)
	}
	return &natsMessage{
		EventType: eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
		NodeID:    nodeID,
		MessageID: id.String(),
	}, nil
}

func unmarshalNATSMessage(data []byte) (*natsMessage, error) {
	var msg natsMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal nats message: %w", err)
	}
	return &msg, nil
}

func generateNodeID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "timer"
	}
	return host + "-" + uuid.NewString()[:8]
}
