package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/coupleswish/wishes-backend/internal/app/model"
	"github.com/coupleswish/wishes-backend/internal/app/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gdb, mock
}

func newMockWishService(gdb *gorm.DB) WishService {
	return NewWishService(
		gdb,
		repository.NewUserRepository(gdb),
		repository.NewCoupleRepository(gdb),
		repository.NewWishRepository(gdb),
		nil,
	)
}

func wishRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "price", "couple_id", "created_at", "updated_at"}).
		AddRow(7, "Tent", 120.0, 3, time.Now(), time.Now())
}

func TestRunInTx_CommitFailure(t *testing.T) {
	gdb, mock := setupMockDB(t)
	svc := newMockWishService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "wishes"`).WillReturnRows(wishRows())
	mock.ExpectExec(`DELETE FROM "wishes"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("connection reset"))

	err := svc.DeleteWish(context.Background(), 7)
	assert.ErrorIs(t, err, ErrDeletionFailed)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_StatementFailureRollsBack(t *testing.T) {
	gdb, mock := setupMockDB(t)
	svc := newMockWishService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "wishes"`).WillReturnRows(wishRows())
	mock.ExpectExec(`UPDATE "wishes"`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := svc.UpdateWish(context.Background(), 7, model.WishPatch{Name: ptr("Bigger tent")})
	assert.ErrorIs(t, err, ErrUpdateFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_DomainErrorPassesThrough(t *testing.T) {
	gdb, mock := setupMockDB(t)
	svc := newMockWishService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "wishes"`).WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	err := svc.DeleteWish(context.Background(), 8)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrDeletionFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_BeginFailure(t *testing.T) {
	gdb, mock := setupMockDB(t)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	called := false
	err := runInTx(context.Background(), gdb, ErrCreationFailed, func(tx *gorm.DB) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCreationFailed)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_PanicRollsBack(t *testing.T) {
	gdb, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = runInTx(context.Background(), gdb, ErrUpdateFailed, func(tx *gorm.DB) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("duplicate")))
}
