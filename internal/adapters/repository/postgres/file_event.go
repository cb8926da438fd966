package postgres

import (
	"context"
	"fileshare/internal/core/domain"
	"fileshare/internal/core/port"
	"fmt"

	"github.com/google/uuid"
)

type sqlFileEventRepository struct {
	db SQLQuerier
}

// NewSqlFileEventRepository creates sqlFileEventRepository that implements port.FileEventRepository
func NewSqlFileEventRepository(db SQLQuerier) port.FileEventRepository {
	return &sqlFileEventRepository{db: db}
}

// Create stores an event. Redelivered events fail with domain.ErrAlreadyExists.
func (s *sqlFileEventRepository) Create(ctx context.Context, event domain.FileEvent) error {
	query := `
		INSERT INTO file_event (id, event_type, file_id, session_id, owner_id, actor_id, size_bytes, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.Type,
		event.FileID,
		event.SessionID,
		event.OwnerID,
		event.ActorID,
		event.SizeBytes,
		event.OccurredAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("event %s : %w", event.ID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("error inserting file event: %w", err)
	}
	return nil
}

// FindByFileID lists the events of a file in the order they happened
func (s *sqlFileEventRepository) FindByFileID(ctx context.Context, fileID uuid.UUID) ([]domain.FileEvent, error) {
	query := `
		SELECT id, event_type, file_id, session_id, owner_id, actor_id, size_bytes, occurred_at
		FROM file_event
		WHERE file_id = $1
		ORDER BY occurred_at, id`

	rows, err := s.db.QueryContext(ctx, query, fileID)
	if err != nil {
		return nil, fmt.Errorf("error querying file events: %w", err)
	}
	defer rows.Close()

	var events []domain.FileEvent
	for rows.Next() {
		var (
			event     domain.FileEvent
			eventType string
			file      uuid.NullUUID
			session   uuid.NullUUID
			actor     uuid.NullUUID
		)
		if err := rows.Scan(&event.ID, &eventType, &file, &session, &event.OwnerID, &actor, &event.SizeBytes, &event.OccurredAt); err != nil {
			return nil, fmt.Errorf("error scanning file event: %w", err)
		}
		event.Type = domain.FileEventType(eventType)
		event.FileID = nullableUUID(file)
		event.SessionID = nullableUUID(session)
		event.ActorID = nullableUUID(actor)
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file events: %w", err)
	}
	return events, nil
}

func nullableUUID(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}
