package eventbroker

import (
	"context"
	"fileshare/internal/core/domain"
	"log/slog"
)

// NoopPublisher drops events. It is used when no broker is configured.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a new NoopPublisher
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

func (n *NoopPublisher) Publish(_ context.Context, event domain.FileEvent) error {
	n.logger.Debug("file event dropped, no broker configured", "type", event.Type, "event_id", event.ID)
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}
