package repository

import (
	"context"
	"errors"

	"github.com/coupleswish/wishes-backend/internal/app/model"
	"github.com/coupleswish/wishes-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	FindAll(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByCouple(ctx context.Context, coupleID uint) ([]model.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	CountByCouple(ctx context.Context, coupleID uint) (int64, error)
	CountOtherMembers(ctx context.Context, coupleID uint, exceptID int64) (int64, error)
	Create(ctx context.Context, user *model.User) error
	UpdateUsername(ctx context.Context, id int64, username string) error
	SetCouple(ctx context.Context, id int64, coupleID *uint) error
	DetachAll(ctx context.Context, coupleID uint) error
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		logger.Error("Failed to list users in database", err)
		return nil, err
	}

	logger.Debug("Users listed from database", map[string]interface{}{
		"count": len(users),
	})
	return users, nil
}

// FindByID returns gorm.ErrRecordNotFound when the user is absent.
func (r *userRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	logger.Debug("Finding user by ID in database", map[string]interface{}{
		"user_id": id,
	})

	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find user by ID in database", err, map[string]interface{}{
				"user_id": id,
			})
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByCouple(ctx context.Context, coupleID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Where("couple_id = ?", coupleID).Order("id").Find(&users).Error
	if err != nil {
		logger.Error("Failed to find users by couple in database", err, map[string]interface{}{
			"couple_id": coupleID,
		})
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		logger.Error("Failed to check user existence in database", err, map[string]interface{}{
			"user_id": id,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) CountByCouple(ctx context.Context, coupleID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("couple_id = ?", coupleID).Count(&count).Error
	if err != nil {
		logger.Error("Failed to count couple members in database", err, map[string]interface{}{
			"couple_id": coupleID,
		})
		return 0, err
	}
	return count, nil
}

// CountOtherMembers counts the couple's members other than exceptID.
func (r *userRepository) CountOtherMembers(ctx context.Context, coupleID uint, exceptID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("couple_id = ? AND id <> ?", coupleID, exceptID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count other couple members in database", err, map[string]interface{}{
			"couple_id": coupleID,
			"except_id": exceptID,
		})
		return 0, err
	}
	return count, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

func (r *userRepository) UpdateUsername(ctx context.Context, id int64, username string) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("username", username).Error
	if err != nil {
		logger.Error("Failed to update username in database", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}
	return nil
}

// SetCouple points the user at coupleID; nil detaches the user.
func (r *userRepository) SetCouple(ctx context.Context, id int64, coupleID *uint) error {
	logger.Debug("Setting user couple in database", map[string]interface{}{
		"user_id":   id,
		"couple_id": coupleID,
	})

	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("couple_id", coupleID).Error
	if err != nil {
		logger.Error("Failed to set user couple in database", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}
	return nil
}

func (r *userRepository) DetachAll(ctx context.Context, coupleID uint) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("couple_id = ?", coupleID).
		Update("couple_id", nil).Error
	if err != nil {
		logger.Error("Failed to detach couple members in database", err, map[string]interface{}{
			"couple_id": coupleID,
		})
		return err
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	logger.Debug("Deleting user from database", map[string]interface{}{
		"user_id": id,
	})

	if err := r.db.WithContext(ctx).Delete(&model.User{}, id).Error; err != nil {
		logger.Error("Failed to delete user from database", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}
	return nil
}
