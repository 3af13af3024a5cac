package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/coupleswish/wishes-backend/pkg/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// runInTx runs fn inside one transaction and commits it.
// Validation errors from fn are returned unchanged; datastore errors and a
// failed commit are wrapped with failure. The transaction is always rolled
// back before an error is returned.
func runInTx(ctx context.Context, db *gorm.DB, failure error, fn func(tx *gorm.DB) error) error {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		logger.Error("Failed to begin transaction", tx.Error)
		return fmt.Errorf("%w: %w", failure, tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Transaction rolled back due to panic", fmt.Errorf("panic: %v", r))
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		if isDomainError(err) {
			return err
		}
		return fmt.Errorf("%w: %w", failure, err)
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to commit transaction", err)
		return fmt.Errorf("%w: %w", failure, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
