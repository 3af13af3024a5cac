package service

import (
	"context"
	"errors"
	"slices"

	"github.com/coupleswish/wishes-backend/internal/app/model"
	"github.com/coupleswish/wishes-backend/internal/app/repository"
	"github.com/coupleswish/wishes-backend/pkg/logger"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

type CoupleService interface {
	ListCouples(ctx context.Context) ([]model.Couple, error)
	GetCouple(ctx context.Context, id uint) (*model.Couple, error)
	CreateCouple(ctx context.Context, user1ID int64, user2ID *int64) (*model.Couple, error)
	UpdateCouple(ctx context.Context, id uint, user1ID int64, user2ID *int64) (*model.Couple, error)
	DeleteCouple(ctx context.Context, id uint) error
	DissolveEmptyCouples(ctx context.Context) (int, error)
}

type coupleService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	coupleRepo repository.CoupleRepository
	wishRepo   repository.WishRepository
	cache      *CoupleCache
}

func NewCoupleService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	coupleRepo repository.CoupleRepository,
	wishRepo repository.WishRepository,
	cache *CoupleCache,
) CoupleService {
	return &coupleService{
		db:         db,
		userRepo:   userRepo,
		coupleRepo: coupleRepo,
		wishRepo:   wishRepo,
		cache:      cache,
	}
}

// memberIDs validates the requested member set: one or two distinct users.
func memberIDs(user1ID int64, user2ID *int64) ([]int64, error) {
	if user1ID == 0 {
		return nil, ErrInvalidMembers
	}
	ids := []int64{user1ID}
	if user2ID != nil && *user2ID != 0 {
		if *user2ID == user1ID {
			return nil, ErrInvalidMembers
		}
		ids = append(ids, *user2ID)
	}
	return ids, nil
}

// loadMembers fetches the users in order, failing on the first missing one.
func loadMembers(ctx context.Context, users repository.UserRepository, ids []int64) ([]*model.User, error) {
	members := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		user, err := users.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Couple member not found", map[string]interface{}{
					"user_id": id,
				})
				return nil, userNotFound(id)
			}
			return nil, err
		}
		members = append(members, user)
	}
	return members, nil
}

func currentCouples(members []*model.User) []uint {
	var ids []uint
	for _, u := range members {
		if u.CoupleID != nil {
			ids = append(ids, *u.CoupleID)
		}
	}
	return ids
}

func (s *coupleService) ListCouples(ctx context.Context) ([]model.Couple, error) {
	couples, err := s.coupleRepo.FindAllWithUsers(ctx)
	if err != nil {
		logger.Error("Failed to list couples", err)
		return nil, err
	}
	return couples, nil
}

func (s *coupleService) GetCouple(ctx context.Context, id uint) (*model.Couple, error) {
	if couple, ok := s.cache.get(ctx, id); ok {
		logger.Debug("Couple served from cache", map[string]interface{}{
			"couple_id": id,
		})
		return couple, nil
	}

	couple, err := s.coupleRepo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Couple not found", map[string]interface{}{
				"couple_id": id,
			})
			return nil, coupleNotFound(id)
		}
		return nil, err
	}

	s.cache.set(ctx, couple)
	return couple, nil
}

// CreateCouple pairs one or two existing users. Members that belonged to
// another couple leave it first, which may dissolve that couple.
func (s *coupleService) CreateCouple(ctx context.Context, user1ID int64, user2ID *int64) (*model.Couple, error) {
	ids, err := memberIDs(user1ID, user2ID)
	if err != nil {
		return nil, err
	}

	logger.Info("Creating couple", map[string]interface{}{
		"user_ids": ids,
	})

	var created *model.Couple
	var m *membership
	err = runInTx(ctx, s.db, ErrCreationFailed, func(tx *gorm.DB) error {
		m = newMembership(tx, s.userRepo, s.coupleRepo, s.wishRepo)

		members, err := loadMembers(ctx, m.users, ids)
		if err != nil {
			return err
		}
		if err := m.lockCouples(ctx, currentCouples(members)...); err != nil {
			return err
		}

		couple := &model.Couple{}
		if err := m.couples.Create(ctx, couple); err != nil {
			return err
		}
		for _, member := range members {
			if err := m.moveInto(ctx, couple.ID, member); err != nil {
				return err
			}
		}

		created, err = m.couples.FindDetail(ctx, couple.ID)
		return err
	})
	if err != nil {
		logger.Error("Failed to create couple", err, map[string]interface{}{
			"user_ids": ids,
		})
		return nil, err
	}

	s.cache.invalidate(ctx, m.touched...)
	logger.Info("Couple created successfully", map[string]interface{}{
		"couple_id": created.ID,
		"members":   len(created.Users),
	})
	return created, nil
}

// UpdateCouple replaces the member set. Former members are detached, never deleted.
func (s *coupleService) UpdateCouple(ctx context.Context, id uint, user1ID int64, user2ID *int64) (*model.Couple, error) {
	ids, err := memberIDs(user1ID, user2ID)
	if err != nil {
		return nil, err
	}

	logger.Info("Updating couple members", map[string]interface{}{
		"couple_id": id,
		"user_ids":  ids,
	})

	var updated *model.Couple
	var m *membership
	err = runInTx(ctx, s.db, ErrUpdateFailed, func(tx *gorm.DB) error {
		m = newMembership(tx, s.userRepo, s.coupleRepo, s.wishRepo)

		if _, err := m.couples.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return coupleNotFound(id)
			}
			return err
		}

		members, err := loadMembers(ctx, m.users, ids)
		if err != nil {
			return err
		}
		if err := m.lockCouples(ctx, append(currentCouples(members), id)...); err != nil {
			return err
		}

		current, err := m.users.FindByCouple(ctx, id)
		if err != nil {
			return err
		}
		for _, old := range current {
			if !slices.Contains(ids, old.ID) {
				if err := m.users.SetCouple(ctx, old.ID, nil); err != nil {
					return err
				}
			}
		}
		for _, member := range members {
			if err := m.moveInto(ctx, id, member); err != nil {
				return err
			}
		}
		if err := m.couples.Touch(ctx, id); err != nil {
			return err
		}
		m.touch(id)

		updated, err = m.couples.FindDetail(ctx, id)
		return err
	})
	if err != nil {
		logger.Error("Failed to update couple", err, map[string]interface{}{
			"couple_id": id,
		})
		return nil, err
	}

	s.cache.invalidate(ctx, m.touched...)
	logger.Info("Couple updated successfully", map[string]interface{}{
		"couple_id": id,
		"members":   len(updated.Users),
	})
	return updated, nil
}

// DeleteCouple deletes the couple and its wishes and detaches its members.
func (s *coupleService) DeleteCouple(ctx context.Context, id uint) error {
	logger.Info("Deleting couple", map[string]interface{}{
		"couple_id": id,
	})

	var m *membership
	err := runInTx(ctx, s.db, ErrDeletionFailed, func(tx *gorm.DB) error {
		m = newMembership(tx, s.userRepo, s.coupleRepo, s.wishRepo)

		if _, err := m.couples.LockByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return coupleNotFound(id)
			}
			return err
		}
		return m.dissolve(ctx, id)
	})
	if err != nil {
		logger.Error("Failed to delete couple", err, map[string]interface{}{
			"couple_id": id,
		})
		return err
	}

	s.cache.invalidate(ctx, m.touched...)
	logger.Info("Couple deleted successfully", map[string]interface{}{
		"couple_id": id,
	})
	return nil
}

// DissolveEmptyCouples deletes couples that no user references, e.g. rows
// written before membership rules were enforced. Each couple is re-counted
// under its row lock in its own transaction.
func (s *coupleService) DissolveEmptyCouples(ctx context.Context) (int, error) {
	ids, err := s.coupleRepo.FindEmptyIDs(ctx)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	logger.Info("Dissolving empty couples", map[string]interface{}{
		"candidates": len(ids),
	})

	var errs error
	dissolved := 0
	for _, id := range ids {
		removed := false
		m := &membership{}
		err := runInTx(ctx, s.db, ErrDeletionFailed, func(tx *gorm.DB) error {
			m = newMembership(tx, s.userRepo, s.coupleRepo, s.wishRepo)
			if _, err := m.couples.LockByID(ctx, id); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil
				}
				return err
			}
			count, err := m.users.CountByCouple(ctx, id)
			if err != nil || count > 0 {
				return err
			}
			removed = true
			return m.dissolve(ctx, id)
		})
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		s.cache.invalidate(ctx, m.touched...)
		if removed {
			dissolved++
		}
	}

	if errs != nil {
		logger.Error("Some empty couples could not be dissolved", errs, map[string]interface{}{
			"dissolved": dissolved,
		})
	}
	return dissolved, errs
}
