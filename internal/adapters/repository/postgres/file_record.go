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

const fileRecordColumns = `id, owner_id, filename, size_bytes, storage_key, checksum,
	content_type, category, is_public, download_count, created_at, expires_at`

type sqlFileRepository struct {
	db SQLQuerier
}

// NewSqlFileRepository creates sqlFileRepository that implements port.FileRepository
func NewSqlFileRepository(db SQLQuerier) port.FileRepository {
	return &sqlFileRepository{
		db: db,
	}
}

// Create creates new file record
func (s *sqlFileRepository) Create(ctx context.Context, record domain.FileRecord) error {
	query := `INSERT INTO file_record (` + fileRecordColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.OwnerID,
		record.Filename,
		record.SizeBytes,
		record.StorageKey,
		record.Checksum,
		record.ContentType,
		record.Category,
		record.IsPublic,
		record.DownloadCount,
		record.CreatedAt,
		record.ExpiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("file %s : %w", record.ID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("error inserting file record: %w", err)
	}
	return nil
}

// Exists reports whether a record with id exists, expired or not
func (s *sqlFileRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM file_record WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking file record: %w", err)
	}
	return exists, nil
}

// FindByID finds by id
func (s *sqlFileRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error) {
	query := `SELECT ` + fileRecordColumns + ` FROM file_record WHERE id = $1`

	record, err := scanFileRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, err
	}
	return record, nil
}

// FindByOwner lists the records of an owner, newest first
func (s *sqlFileRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.FileRecord, error) {
	query := `SELECT ` + fileRecordColumns + `
		FROM file_record
		WHERE owner_id = $1 AND (expires_at IS NULL OR expires_at > now())
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error querying owner files: %w", err)
	}
	return collectFileRecords(rows)
}

// SumSizeByOwner returns the bytes of an owner's live files
func (s *sqlFileRepository) SumSizeByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(size_bytes), 0) FROM file_record
		 WHERE owner_id = $1 AND (expires_at IS NULL OR expires_at > now())`, ownerID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("error summing owner files: %w", err)
	}
	return total, nil
}

// IncrementDownloadCount atomically increments and returns the download counter
func (s *sqlFileRepository) IncrementDownloadCount(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `UPDATE file_record SET download_count = download_count + 1 WHERE id = $1 RETURNING download_count`

	var count int64
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrFileNotFound
		}
		return 0, fmt.Errorf("error incrementing download count: %w", err)
	}
	return count, nil
}

// ToggleVisibility flips is_public and returns the new value
func (s *sqlFileRepository) ToggleVisibility(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE file_record SET is_public = NOT is_public WHERE id = $1 RETURNING is_public`

	var isPublic bool
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&isPublic); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, domain.ErrFileNotFound
		}
		return false, fmt.Errorf("error toggling visibility: %w", err)
	}
	return isPublic, nil
}

// Delete deletes the record
func (s *sqlFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM file_record WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting file record: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrFileNotFound
	}
	return nil
}

// FindExpired finds records whose expiry is at or before now, oldest expiry first
func (s *sqlFileRepository) FindExpired(ctx context.Context, now time.Time, limit int) ([]domain.FileRecord, error) {
	query := `SELECT ` + fileRecordColumns + `
		FROM file_record
		WHERE expires_at IS NOT NULL AND expires_at <= $1
		ORDER BY expires_at
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying expired files: %w", err)
	}
	return collectFileRecords(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// dbFileRecord represents a file record in DB
type dbFileRecord struct {
	ID            uuid.UUID    `db:"id"`
	OwnerID       uuid.UUID    `db:"owner_id"`
	Filename      string       `db:"filename"`
	SizeBytes     int64        `db:"size_bytes"`
	StorageKey    string       `db:"storage_key"`
	Checksum      string       `db:"checksum"`
	ContentType   string       `db:"content_type"`
	Category      string       `db:"category"`
	IsPublic      bool         `db:"is_public"`
	DownloadCount int64        `db:"download_count"`
	CreatedAt     time.Time    `db:"created_at"`
	ExpiresAt     sql.NullTime `db:"expires_at"`
}

// ToDomain converts to domain.FileRecord
func (f *dbFileRecord) ToDomain() *domain.FileRecord {
	record := &domain.FileRecord{
		ID:            f.ID,
		OwnerID:       f.OwnerID,
		Filename:      f.Filename,
		SizeBytes:     f.SizeBytes,
		StorageKey:    f.StorageKey,
		Checksum:      f.Checksum,
		ContentType:   f.ContentType,
		Category:      domain.ContentCategory(f.Category),
		IsPublic:      f.IsPublic,
		DownloadCount: f.DownloadCount,
		CreatedAt:     f.CreatedAt,
	}
	if f.ExpiresAt.Valid {
		expiresAt := f.ExpiresAt.Time
		record.ExpiresAt = &expiresAt
	}
	return record
}

func scanFileRecord(row rowScanner) (*domain.FileRecord, error) {
	var f dbFileRecord
	err := row.Scan(
		&f.ID,
		&f.OwnerID,
		&f.Filename,
		&f.SizeBytes,
		&f.StorageKey,
		&f.Checksum,
		&f.ContentType,
		&f.Category,
		&f.IsPublic,
		&f.DownloadCount,
		&f.CreatedAt,
		&f.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return f.ToDomain(), nil
}

func collectFileRecords(rows *sql.Rows) ([]domain.FileRecord, error) {
	defer rows.Close()

	var records []domain.FileRecord
	for rows.Next() {
		record, err := scanFileRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning file record: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating files: %w", err)
	}
	return records, nil
}
