package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fileshare/internal/core/domain"
	"fileshare/internal/core/port"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const uploadSessionColumns = `id, owner_id, filename, declared_size, total_chunks, ttl_hours,
	is_public, status, file_id, created_at, updated_at`

type sqlUploadSessionRepository struct {
	db SQLQuerier
}

// NewSQLUploadSessionRepository Creates a new sqlUploadSessionRepository
func NewSQLUploadSessionRepository(db SQLQuerier) port.UploadSessionRepository {
	return &sqlUploadSessionRepository{db: db}
}

// Create creates an upload session
func (s *sqlUploadSessionRepository) Create(ctx context.Context, session domain.UploadSession) error {
	query := `
		INSERT INTO upload_session (` + uploadSessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.OwnerID,
		session.Filename,
		session.DeclaredSize,
		session.TotalChunks,
		session.TTLHours,
		session.IsPublic,
		session.Status,
		session.FileID,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("session %s : %w", session.ID, domain.ErrAlreadyExists)
		}
		return err
	}
	return nil
}

func (s *sqlUploadSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	query := `SELECT ` + uploadSessionColumns + ` FROM upload_session WHERE id = $1`

	var row dbUploadSession
	err := s.db.QueryRowContext(ctx, query, id).Scan(row.fields()...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	return row.ToDomain(), nil
}

// OpenUsageByOwner returns the number of open sessions of an owner and their declared bytes
func (s *sqlUploadSessionRepository) OpenUsageByOwner(ctx context.Context, ownerID uuid.UUID) (int, int64, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(declared_size), 0)
		FROM upload_session
		WHERE owner_id = $1 AND status = 'open'`

	var count int
	var pending int64
	if err := s.db.QueryRowContext(ctx, query, ownerID).Scan(&count, &pending); err != nil {
		return 0, 0, err
	}
	return count, pending, nil
}

// Touch records activity on an open session
func (s *sqlUploadSessionRepository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE upload_session SET updated_at = $1 WHERE id = $2 AND status = 'open'`

	result, err := s.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

// MarkCompleted moves an open session to completed. Only one caller can win.
func (s *sqlUploadSessionRepository) MarkCompleted(ctx context.Context, id uuid.UUID, fileID uuid.UUID, at time.Time) error {
	query := `
		UPDATE upload_session
		SET status = 'completed', file_id = $1, updated_at = $2
		WHERE id = $3 AND status = 'open'`

	result, err := s.db.ExecContext(ctx, query, fileID, at, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrAlreadyCompleted
	}

	return nil
}

// Delete removes a session and its chunk receipts
func (s *sqlUploadSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM upload_session WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

// FindIdle finds open sessions without activity since before
func (s *sqlUploadSessionRepository) FindIdle(ctx context.Context, before time.Time) ([]domain.UploadSession, error) {
	query := `
		SELECT ` + uploadSessionColumns + `
		FROM upload_session
		WHERE status = 'open' AND updated_at < $1
		ORDER BY updated_at`

	rows, err := s.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.UploadSession
	for rows.Next() {
		var row dbUploadSession
		if err := rows.Scan(row.fields()...); err != nil {
			return nil, err
		}
		sessions = append(sessions, *row.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// DeleteCompletedBefore removes completed sessions last touched before before
func (s *sqlUploadSessionRepository) DeleteCompletedBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM upload_session WHERE status = 'completed' AND updated_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// UpsertChunk records a chunk, replacing the receipt of a resubmitted index
func (s *sqlUploadSessionRepository) UpsertChunk(ctx context.Context, sessionID uuid.UUID, receipt domain.ChunkReceipt) error {
	query := `
		INSERT INTO upload_chunk (session_id, chunk_index, size_bytes)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id, chunk_index)
		DO UPDATE SET size_bytes = EXCLUDED.size_bytes, received_at = now()`

	_, err := s.db.ExecContext(ctx, query, sessionID, receipt.Index, receipt.SizeBytes)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrSessionNotFound
		}
		return err
	}
	return nil
}

// ListChunks lists chunk receipts by ascending index
func (s *sqlUploadSessionRepository) ListChunks(ctx context.Context, sessionID uuid.UUID) ([]domain.ChunkReceipt, error) {
	query := `
		SELECT chunk_index, size_bytes
		FROM upload_chunk
		WHERE session_id = $1
		ORDER BY chunk_index`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	receipts := make([]domain.ChunkReceipt, 0)
	for rows.Next() {
		var r domain.ChunkReceipt
		if err := rows.Scan(&r.Index, &r.SizeBytes); err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return receipts, nil
}

// DeleteChunks removes every chunk receipt of a session
func (s *sqlUploadSessionRepository) DeleteChunks(ctx context.Context, sessionID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM upload_chunk WHERE session_id = $1`, sessionID)
	return err
}

type dbUploadSession struct {
	ID           uuid.UUID     `db:"id"`
	OwnerID      uuid.UUID     `db:"owner_id"`
	Filename     string        `db:"filename"`
	DeclaredSize int64         `db:"declared_size"`
	TotalChunks  int           `db:"total_chunks"`
	TTLHours     int           `db:"ttl_hours"`
	IsPublic     bool          `db:"is_public"`
	Status       string        `db:"status"`
	FileID       uuid.NullUUID `db:"file_id"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

func (s *dbUploadSession) fields() []any {
	return []any{
		&s.ID,
		&s.OwnerID,
		&s.Filename,
		&s.DeclaredSize,
		&s.TotalChunks,
		&s.TTLHours,
		&s.IsPublic,
		&s.Status,
		&s.FileID,
		&s.CreatedAt,
		&s.UpdatedAt,
	}
}

// ToDomain converts db obj to domain
func (s *dbUploadSession) ToDomain() *domain.UploadSession {
	session := &domain.UploadSession{
		ID:           s.ID,
		OwnerID:      s.OwnerID,
		Filename:     s.Filename,
		DeclaredSize: s.DeclaredSize,
		TotalChunks:  s.TotalChunks,
		TTLHours:     s.TTLHours,
		IsPublic:     s.IsPublic,
		Status:       domain.UploadSessionStatus(s.Status),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	if s.FileID.Valid {
		fileID := s.FileID.UUID
		session.FileID = &fileID
	}
	return session
}
