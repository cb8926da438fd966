package nats

import (
	"context"
	"encoding/json"
	"fileshare/internal/config"
	"fileshare/internal/core/domain"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher publishes file events on a JetStream subject
type Publisher struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
}

// NewNATSPublisher connects to NATS and makes sure the event stream exists
func NewNATSPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	conn, js, err := connect(cfg, cfg.ConsumerName+"-publisher", logger)
	if err != nil {
		return nil, err
	}

	if err := ensureStream(ctx, js, cfg); err != nil {
		conn.Close()
		return nil, err
	}

	return &Publisher{
		logger: logger,
		conn:   conn,
		js:     js,
		config: cfg,
	}, nil
}

// Publish sends event as JSON. The event id is the message id, so JetStream drops retried duplicates.
func (p *Publisher) Publish(ctx context.Context, event domain.FileEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal file event: %w", err)
	}

	if _, err := p.js.Publish(ctx, p.config.Subject, data, jetstream.WithMsgID(event.ID.String())); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	p.logger.Debug("file event published", "type", event.Type, "event_id", event.ID)
	return nil
}

// Close drains pending publishes and closes the connection
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
