package repository

import (
	"context"
	"errors"

	"github.com/coupleswish/wishes-backend/internal/app/model"
	"github.com/coupleswish/wishes-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishRepository interface {
	WithTx(tx *gorm.DB) WishRepository
	FindAll(ctx context.Context) ([]model.Wish, error)
	FindByID(ctx context.Context, id uint) (*model.Wish, error)
	FindByCouple(ctx context.Context, coupleID uint) ([]model.Wish, error)
	Create(ctx context.Context, wish *model.Wish) error
	Save(ctx context.Context, wish *model.Wish) error
	Delete(ctx context.Context, id uint) error
	DeleteByCouple(ctx context.Context, coupleID uint) (int64, error)
	CoupleIDsByUserAdded(ctx context.Context, userID int64) ([]uint, error)
	ClearUserAdded(ctx context.Context, userID int64) error
}

type wishRepository struct {
	db *gorm.DB
}

func NewWishRepository(db *gorm.DB) WishRepository {
	return &wishRepository{db: db}
}

func (r *wishRepository) WithTx(tx *gorm.DB) WishRepository {
	return &wishRepository{db: tx}
}

func (r *wishRepository) FindAll(ctx context.Context) ([]model.Wish, error) {
	var wishes []model.Wish
	if err := r.db.WithContext(ctx).Order("id").Find(&wishes).Error; err != nil {
		logger.Error("Failed to list wishes in database", err)
		return nil, err
	}
	return wishes, nil
}

func (r *wishRepository) FindByID(ctx context.Context, id uint) (*model.Wish, error) {
	logger.Debug("Finding wish by ID in database", map[string]interface{}{
		"wish_id": id,
	})

	var wish model.Wish
	if err := r.db.WithContext(ctx).First(&wish, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find wish by ID in database", err, map[string]interface{}{
				"wish_id": id,
			})
		}
		return nil, err
	}
	return &wish, nil
}

func (r *wishRepository) FindByCouple(ctx context.Context, coupleID uint) ([]model.Wish, error) {
	var wishes []model.Wish
	err := r.db.WithContext(ctx).Where("couple_id = ?", coupleID).Order("id").Find(&wishes).Error
	if err != nil {
		logger.Error("Failed to find wishes by couple in database", err, map[string]interface{}{
			"couple_id": coupleID,
		})
		return nil, err
	}
	return wishes, nil
}

func (r *wishRepository) Create(ctx context.Context, wish *model.Wish) error {
	logger.Debug("Creating wish in database", map[string]interface{}{
		"couple_id":     wish.CoupleID,
		"user_added_id": wish.UserAddedID,
	})

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(wish).Error; err != nil {
		logger.Error("Failed to create wish in database", err, map[string]interface{}{
			"couple_id": wish.CoupleID,
		})
		return err
	}
	return nil
}

func (r *wishRepository) Save(ctx context.Context, wish *model.Wish) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(wish).Error; err != nil {
		logger.Error("Failed to save wish in database", err, map[string]interface{}{
			"wish_id": wish.ID,
		})
		return err
	}
	return nil
}

func (r *wishRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Wish{}, id).Error; err != nil {
		logger.Error("Failed to delete wish from database", err, map[string]interface{}{
			"wish_id": id,
		})
		return err
	}
	return nil
}

func (r *wishRepository) DeleteByCouple(ctx context.Context, coupleID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("couple_id = ?", coupleID).Delete(&model.Wish{})
	if result.Error != nil {
		logger.Error("Failed to delete couple wishes from database", result.Error, map[string]interface{}{
			"couple_id": coupleID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *wishRepository) CoupleIDsByUserAdded(ctx context.Context, userID int64) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Wish{}).
		Where("user_added_id = ?", userID).
		Distinct().
		Pluck("couple_id", &ids).Error
	if err != nil {
		logger.Error("Failed to find couples of user wishes in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return ids, nil
}

// ClearUserAdded unlinks a user from the wishes they added.
func (r *wishRepository) ClearUserAdded(ctx context.Context, userID int64) error {
	err := r.db.WithContext(ctx).Model(&model.Wish{}).
		Where("user_added_id = ?", userID).
		Update("user_added_id", nil).Error
	if err != nil {
		logger.Error("Failed to clear wish authorship in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}
