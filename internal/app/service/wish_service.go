package service

import (
	"bytes"
	"context"
	"errors"

	"github.com/coupleswish/wishes-backend/internal/app/model"
	"github.com/coupleswish/wishes-backend/internal/app/repository"
	"github.com/coupleswish/wishes-backend/pkg/logger"
	"gorm.io/gorm"
)

type CreateWishInput struct {
	Name        string
	Price       float64
	CoupleID    uint
	UserAddedID int64
	Article     *int64
	URL         string
	Image       string
}

type WishService interface {
	ListWishes(ctx context.Context) ([]model.Wish, error)
	GetWish(ctx context.Context, id uint) (*model.Wish, error)
	ListCoupleWishes(ctx context.Context, coupleID uint) ([]model.Wish, error)
	CreateWish(ctx context.Context, input CreateWishInput) (*model.Wish, error)
	UpdateWish(ctx context.Context, id uint, patch model.WishPatch) (*model.Wish, error)
	DeleteWish(ctx context.Context, id uint) error
	ExportCoupleWishes(ctx context.Context, coupleID uint) (*bytes.Buffer, error)
}

type wishService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	coupleRepo repository.CoupleRepository
	wishRepo   repository.WishRepository
	cache      *CoupleCache
}

func NewWishService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	coupleRepo repository.CoupleRepository,
	wishRepo repository.WishRepository,
	cache *CoupleCache,
) WishService {
	return &wishService{
		db:         db,
		userRepo:   userRepo,
		coupleRepo: coupleRepo,
		wishRepo:   wishRepo,
		cache:      cache,
	}
}

func (s *wishService) ListWishes(ctx context.Context) ([]model.Wish, error) {
	wishes, err := s.wishRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to list wishes", err)
		return nil, err
	}
	return wishes, nil
}

func (s *wishService) GetWish(ctx context.Context, id uint) (*model.Wish, error) {
	wish, err := s.wishRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Wish not found", map[string]interface{}{
				"wish_id": id,
			})
			return nil, wishNotFound(id)
		}
		return nil, err
	}
	return wish, nil
}

func (s *wishService) ListCoupleWishes(ctx context.Context, coupleID uint) ([]model.Wish, error) {
	if _, err := s.coupleRepo.FindByID(ctx, coupleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, coupleNotFound(coupleID)
		}
		return nil, err
	}
	return s.wishRepo.FindByCouple(ctx, coupleID)
}

// CreateWish checks the couple first, then the user who adds the wish. The
// couple row stays locked until commit so a concurrent dissolve cannot orphan
// the new wish.
func (s *wishService) CreateWish(ctx context.Context, input CreateWishInput) (*model.Wish, error) {
	logger.Info("Creating wish", map[string]interface{}{
		"couple_id":     input.CoupleID,
		"user_added_id": input.UserAddedID,
		"name":          input.Name,
	})

	var created *model.Wish
	err := runInTx(ctx, s.db, ErrCreationFailed, func(tx *gorm.DB) error {
		couples := s.coupleRepo.WithTx(tx)
		users := s.userRepo.WithTx(tx)
		wishes := s.wishRepo.WithTx(tx)

		if _, err := couples.LockByID(ctx, input.CoupleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return coupleNotFound(input.CoupleID)
			}
			return err
		}
		exists, err := users.Exists(ctx, input.UserAddedID)
		if err != nil {
			return err
		}
		if !exists {
			return userNotFound(input.UserAddedID)
		}

		userAdded := input.UserAddedID
		wish := &model.Wish{
			Name:        input.Name,
			Price:       input.Price,
			Article:     input.Article,
			URL:         input.URL,
			Image:       input.Image,
			CoupleID:    input.CoupleID,
			UserAddedID: &userAdded,
		}
		if err := wishes.Create(ctx, wish); err != nil {
			return err
		}
		created = wish
		return nil
	})
	if err != nil {
		logger.Error("Failed to create wish", err, map[string]interface{}{
			"couple_id": input.CoupleID,
		})
		return nil, err
	}

	s.cache.invalidate(ctx, created.CoupleID)
	logger.Info("Wish created successfully", map[string]interface{}{
		"wish_id":   created.ID,
		"couple_id": created.CoupleID,
	})
	return created, nil
}

func (s *wishService) UpdateWish(ctx context.Context, id uint, patch model.WishPatch) (*model.Wish, error) {
	logger.Info("Updating wish", map[string]interface{}{
		"wish_id": id,
	})

	var updated *model.Wish
	err := runInTx(ctx, s.db, ErrUpdateFailed, func(tx *gorm.DB) error {
		wishes := s.wishRepo.WithTx(tx)

		wish, err := wishes.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return wishNotFound(id)
			}
			return err
		}
		if patch.Empty() {
			updated = wish
			return nil
		}

		patch.Apply(wish)
		if err := wishes.Save(ctx, wish); err != nil {
			return err
		}
		updated = wish
		return nil
	})
	if err != nil {
		logger.Error("Failed to update wish", err, map[string]interface{}{
			"wish_id": id,
		})
		return nil, err
	}

	s.cache.invalidate(ctx, updated.CoupleID)
	logger.Info("Wish updated successfully", map[string]interface{}{
		"wish_id": id,
	})
	return updated, nil
}

func (s *wishService) DeleteWish(ctx context.Context, id uint) error {
	logger.Info("Deleting wish", map[string]interface{}{
		"wish_id": id,
	})

	var coupleID uint
	err := runInTx(ctx, s.db, ErrDeletionFailed, func(tx *gorm.DB) error {
		wishes := s.wishRepo.WithTx(tx)

		wish, err := wishes.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return wishNotFound(id)
			}
			return err
		}
		coupleID = wish.CoupleID
		return wishes.Delete(ctx, id)
	})
	if err != nil {
		logger.Error("Failed to delete wish", err, map[string]interface{}{
			"wish_id": id,
		})
		return err
	}

	s.cache.invalidate(ctx, coupleID)
	logger.Info("Wish deleted successfully", map[string]interface{}{
		"wish_id": id,
	})
	return nil
}
