package postgres_test

import (
	"context"
	"fileshare/internal/adapters/repository/postgres"
	"fileshare/internal/core/domain"
	"fileshare/internal/core/port"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqlUnitOfWork_Execute(t *testing.T) {

	//Arrange
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()

	ctx := context.Background()
	uow := postgres.NewUnitOfWork(dbConnection)
	fileRepo := postgres.NewSqlFileRepository(dbConnection)

	t.Run("Should commit when no error", func(t *testing.T) {
		defer truncate()
		record := newTestRecord(uuid.New(), time.Now(), 0)

		//act
		err := uow.Execute(ctx, func(u port.UnitOfWork) error {
			return u.FileRepo().Create(ctx, record)
		})

		//assert
		require.NoError(t, err)
		saved, err := fileRepo.FindByID(ctx, record.ID)
		require.NoError(t, err)
		require.Equal(t, record.Filename, saved.Filename)
	})

	t.Run("Should rollback when error occurs", func(t *testing.T) {
		defer truncate()
		record := newTestRecord(uuid.New(), time.Now(), 0)

		//act
		err := uow.Execute(ctx, func(u port.UnitOfWork) error {
			_ = u.FileRepo().Create(ctx, record)
			return assert.AnError
		})

		//assert
		require.ErrorIs(t, err, assert.AnError)
		_, err = fileRepo.FindByID(ctx, record.ID)
		require.ErrorIs(t, err, domain.ErrFileNotFound)
	})

	t.Run("Should rollback record when session is already completed", func(t *testing.T) {
		defer truncate()
		session := newTestSession(uuid.New(), time.Now())
		require.NoError(t, postgres.NewSQLUploadSessionRepository(dbConnection).Create(ctx, session))
		require.NoError(t, postgres.NewSQLUploadSessionRepository(dbConnection).MarkCompleted(ctx, session.ID, uuid.New(), time.Now()))
		record := newTestRecord(session.OwnerID, time.Now(), 0)

		//act
		err := uow.Execute(ctx, func(u port.UnitOfWork) error {
			if err := u.FileRepo().Create(ctx, record); err != nil {
				return err
			}
			return u.UploadSessionRepo().MarkCompleted(ctx, session.ID, record.ID, time.Now())
		})

		//assert
		require.ErrorIs(t, err, domain.ErrAlreadyCompleted)
		exists, err := fileRepo.Exists(ctx, record.ID)
		require.NoError(t, err)
		require.False(t, exists)
	})
}
