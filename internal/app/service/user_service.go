package service

import (
	"context"
	"errors"

	"github.com/coupleswish/wishes-backend/internal/app/model"
	"github.com/coupleswish/wishes-backend/internal/app/repository"
	"github.com/coupleswish/wishes-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	CreateUser(ctx context.Context, id int64, username string, coupleID *uint) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, username *string, change model.MembershipChange) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type userService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	coupleRepo repository.CoupleRepository
	wishRepo   repository.WishRepository
	cache      *CoupleCache
}

func NewUserService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	coupleRepo repository.CoupleRepository,
	wishRepo repository.WishRepository,
	cache *CoupleCache,
) UserService {
	return &userService{
		db:         db,
		userRepo:   userRepo,
		coupleRepo: coupleRepo,
		wishRepo:   wishRepo,
		cache:      cache,
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to list users", err)
		return nil, err
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User not found", map[string]interface{}{
				"user_id": id,
			})
			return nil, userNotFound(id)
		}
		return nil, err
	}
	return user, nil
}

// CreateUser checks for an existing record before inserting. Two concurrent
// calls with the same id can both pass the check; the loser then fails at
// insert time and gets ErrCreationFailed rather than ErrAlreadyExists.
func (s *userService) CreateUser(ctx context.Context, id int64, username string, coupleID *uint) (*model.User, error) {
	logger.Info("Creating user", map[string]interface{}{
		"user_id":   id,
		"username":  username,
		"couple_id": coupleID,
	})

	var created *model.User
	var m *membership
	err := runInTx(ctx, s.db, ErrCreationFailed, func(tx *gorm.DB) error {
		m = newMembership(tx, s.userRepo, s.coupleRepo, s.wishRepo)

		exists, err := m.users.Exists(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			logger.Warn("User already exists", map[string]interface{}{
				"user_id": id,
			})
			return ErrAlreadyExists
		}

		user := &model.User{ID: id, Username: username}
		if err := m.users.Create(ctx, user); err != nil {
			if isUniqueViolation(err) {
				logger.Warn("Concurrent create of the same user lost the race", map[string]interface{}{
					"user_id": id,
				})
			}
			return err
		}

		if coupleID != nil && *coupleID != 0 {
			if err := m.join(ctx, *coupleID, id); err != nil {
				return err
			}
		}

		created, err = m.users.FindByID(ctx, id)
		return err
	})
	if err != nil {
		logger.Error("Failed to create user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	s.cache.invalidate(ctx, m.touched...)
	logger.Info("User created successfully", map[string]interface{}{
		"user_id": id,
	})
	return created, nil
}

// UpdateUser renames the user and applies the membership change. Whenever the
// user's current couple loses the user (leave, or join another couple) the
// couple-shrink rule runs on that couple in the same transaction.
func (s *userService) UpdateUser(ctx context.Context, id int64, username *string, change model.MembershipChange) (*model.User, error) {
	logger.Info("Updating user", map[string]interface{}{
		"user_id":    id,
		"membership": change.Action.String(),
		"couple_id":  change.CoupleID,
	})

	var updated *model.User
	var m *membership
	err := runInTx(ctx, s.db, ErrUpdateFailed, func(tx *gorm.DB) error {
		m = newMembership(tx, s.userRepo, s.coupleRepo, s.wishRepo)

		user, err := m.users.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return userNotFound(id)
			}
			return err
		}

		if username != nil {
			if err := m.users.UpdateUsername(ctx, id, *username); err != nil {
				return err
			}
			if user.CoupleID != nil {
				m.touch(*user.CoupleID)
			}
		}

		switch change.Action {
		case model.MembershipClear:
			if user.CoupleID != nil {
				if _, err := m.depart(ctx, *user.CoupleID, id); err != nil {
					return err
				}
			}
		case model.MembershipSet:
			if user.CoupleID != nil && *user.CoupleID == change.CoupleID {
				break
			}
			current := uint(0)
			if user.CoupleID != nil {
				current = *user.CoupleID
			}
			if err := m.lockCouples(ctx, current, change.CoupleID); err != nil {
				return err
			}
			if _, err := m.couples.FindByID(ctx, change.CoupleID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return coupleNotFound(change.CoupleID)
				}
				return err
			}
			if current != 0 {
				if _, err := m.depart(ctx, current, id); err != nil {
					return err
				}
			}
			if err := m.join(ctx, change.CoupleID, id); err != nil {
				return err
			}
		}

		updated, err = m.users.FindByID(ctx, id)
		return err
	})
	if err != nil {
		logger.Error("Failed to update user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	s.cache.invalidate(ctx, m.touched...)
	logger.Info("User updated successfully", map[string]interface{}{
		"user_id":   id,
		"couple_id": updated.CoupleID,
	})
	return updated, nil
}

// DeleteUser removes the user. A couple left without members is dissolved;
// wishes the user added to a surviving couple stay, with user_added_id cleared.
func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	logger.Info("Deleting user", map[string]interface{}{
		"user_id": id,
	})

	var m *membership
	err := runInTx(ctx, s.db, ErrDeletionFailed, func(tx *gorm.DB) error {
		m = newMembership(tx, s.userRepo, s.coupleRepo, s.wishRepo)

		user, err := m.users.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return userNotFound(id)
			}
			return err
		}

		if user.CoupleID != nil {
			if _, err := m.depart(ctx, *user.CoupleID, id); err != nil {
				return err
			}
		}
		authored, err := m.wishes.CoupleIDsByUserAdded(ctx, id)
		if err != nil {
			return err
		}
		m.touch(authored...)
		if err := m.wishes.ClearUserAdded(ctx, id); err != nil {
			return err
		}
		return m.users.Delete(ctx, id)
	})
	if err != nil {
		logger.Error("Failed to delete user", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}

	s.cache.invalidate(ctx, m.touched...)
	logger.Info("User deleted successfully", map[string]interface{}{
		"user_id": id,
	})
	return nil
}
