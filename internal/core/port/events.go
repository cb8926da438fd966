package port

import (
	"context"
	"fileshare/internal/core/domain"

	"github.com/google/uuid"
)

// EventConsumer is an interface to define an event consumer (kafka, nats, ...)
type EventConsumer interface {
	Subscribe(ctx context.Context, handler MessageService) error
	Close() error
}

// EventPublisher is an interface to define an event publisher (kafka, nats, ...)
type EventPublisher interface {
	Publish(ctx context.Context, event domain.FileEvent) error
	Close() error
}

// MessageService is an interface to define message handling
type MessageService interface {
	HandleMessage(ctx context.Context, data []byte) error
}

// FileEventRepository is an interface to define file event repository interactions
type FileEventRepository interface {
	Create(ctx context.Context, event domain.FileEvent) error
	FindByFileID(ctx context.Context, fileID uuid.UUID) ([]domain.FileEvent, error)
}
