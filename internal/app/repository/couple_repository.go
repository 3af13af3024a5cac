package repository

import (
	"context"
	"errors"
	"time"

	"github.com/coupleswish/wishes-backend/internal/app/model"
	"github.com/coupleswish/wishes-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CoupleRepository interface {
	WithTx(tx *gorm.DB) CoupleRepository
	FindAllWithUsers(ctx context.Context) ([]model.Couple, error)
	FindByID(ctx context.Context, id uint) (*model.Couple, error)
	FindDetail(ctx context.Context, id uint) (*model.Couple, error)
	LockByID(ctx context.Context, id uint) (*model.Couple, error)
	FindEmptyIDs(ctx context.Context) ([]uint, error)
	Create(ctx context.Context, couple *model.Couple) error
	Touch(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type coupleRepository struct {
	db *gorm.DB
}

func NewCoupleRepository(db *gorm.DB) CoupleRepository {
	return &coupleRepository{db: db}
}

func (r *coupleRepository) WithTx(tx *gorm.DB) CoupleRepository {
	return &coupleRepository{db: tx}
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (r *coupleRepository) FindAllWithUsers(ctx context.Context) ([]model.Couple, error) {
	var couples []model.Couple
	err := r.db.WithContext(ctx).
		Preload("Users", orderByID).
		Order("id").
		Find(&couples).Error
	if err != nil {
		logger.Error("Failed to list couples in database", err)
		return nil, err
	}

	logger.Debug("Couples listed from database", map[string]interface{}{
		"count": len(couples),
	})
	return couples, nil
}

func (r *coupleRepository) FindByID(ctx context.Context, id uint) (*model.Couple, error) {
	var couple model.Couple
	if err := r.db.WithContext(ctx).First(&couple, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find couple by ID in database", err, map[string]interface{}{
				"couple_id": id,
			})
		}
		return nil, err
	}
	return &couple, nil
}

// FindDetail loads the couple with its members and wishes.
func (r *coupleRepository) FindDetail(ctx context.Context, id uint) (*model.Couple, error) {
	logger.Debug("Finding couple detail in database", map[string]interface{}{
		"couple_id": id,
	})

	var couple model.Couple
	err := r.db.WithContext(ctx).
		Preload("Users", orderByID).
		Preload("Wishes", orderByID).
		First(&couple, id).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find couple detail in database", err, map[string]interface{}{
				"couple_id": id,
			})
		}
		return nil, err
	}
	return &couple, nil
}

// LockByID reads the couple with SELECT ... FOR UPDATE. Only meaningful inside a transaction.
func (r *coupleRepository) LockByID(ctx context.Context, id uint) (*model.Couple, error) {
	var couple model.Couple
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&couple, id).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to lock couple in database", err, map[string]interface{}{
				"couple_id": id,
			})
		}
		return nil, err
	}
	return &couple, nil
}

// FindEmptyIDs returns couples no user references.
func (r *coupleRepository) FindEmptyIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Couple{}).
		Where(`NOT EXISTS (SELECT 1 FROM "user" u WHERE u.couple_id = couples.id)`).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		logger.Error("Failed to find empty couples in database", err)
		return nil, err
	}
	return ids, nil
}

func (r *coupleRepository) Create(ctx context.Context, couple *model.Couple) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(couple).Error; err != nil {
		logger.Error("Failed to create couple in database", err)
		return err
	}

	logger.Debug("Couple created in database", map[string]interface{}{
		"couple_id": couple.ID,
	})
	return nil
}

func (r *coupleRepository) Touch(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Model(&model.Couple{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
	if err != nil {
		logger.Error("Failed to touch couple in database", err, map[string]interface{}{
			"couple_id": id,
		})
		return err
	}
	return nil
}

func (r *coupleRepository) Delete(ctx context.Context, id uint) error {
	logger.Debug("Deleting couple from database", map[string]interface{}{
		"couple_id": id,
	})

	if err := r.db.WithContext(ctx).Delete(&model.Couple{}, id).Error; err != nil {
		logger.Error("Failed to delete couple from database", err, map[string]interface{}{
			"couple_id": id,
		})
		return err
	}
	return nil
}
