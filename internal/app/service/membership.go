package service

import (
	"context"
	"errors"
	"slices"

	"github.com/coupleswish/wishes-backend/internal/app/model"
	"github.com/coupleswish/wishes-backend/internal/app/repository"
	"github.com/coupleswish/wishes-backend/pkg/logger"
	"gorm.io/gorm"
)

// membership runs the couple lifecycle steps on repositories bound to one transaction.
type membership struct {
	users   repository.UserRepository
	couples repository.CoupleRepository
	wishes  repository.WishRepository

	// touched collects every couple id whose cached detail became stale.
	touched []uint
}

func newMembership(tx *gorm.DB, users repository.UserRepository, couples repository.CoupleRepository, wishes repository.WishRepository) *membership {
	return &membership{
		users:   users.WithTx(tx),
		couples: couples.WithTx(tx),
		wishes:  wishes.WithTx(tx),
	}
}

func (m *membership) touch(ids ...uint) {
	for _, id := range ids {
		if id != 0 && !slices.Contains(m.touched, id) {
			m.touched = append(m.touched, id)
		}
	}
}

// lockCouples takes row locks on the given couples in ascending id order so
// that two transactions moving users between the same couples cannot deadlock.
// Missing couples are skipped.
func (m *membership) lockCouples(ctx context.Context, ids ...uint) error {
	sorted := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id != 0 && !slices.Contains(sorted, id) {
			sorted = append(sorted, id)
		}
	}
	slices.Sort(sorted)

	for _, id := range sorted {
		if _, err := m.couples.LockByID(ctx, id); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return nil
}

// depart removes userID from coupleID. The couple row is locked before the
// other members are counted, so a user already detached by a concurrent
// transaction never dissolves a couple that still has a member.
func (m *membership) depart(ctx context.Context, coupleID uint, userID int64) (bool, error) {
	couple, err := m.couples.LockByID(ctx, coupleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, m.users.SetCouple(ctx, userID, nil)
		}
		return false, err
	}

	others, err := m.users.CountOtherMembers(ctx, couple.ID, userID)
	if err != nil {
		return false, err
	}

	if err := m.users.SetCouple(ctx, userID, nil); err != nil {
		return false, err
	}
	m.touch(couple.ID)

	if others == 0 {
		logger.Info("Last member left couple, dissolving it", map[string]interface{}{
			"couple_id": couple.ID,
			"user_id":   userID,
		})
		return true, m.dissolve(ctx, couple.ID)
	}

	logger.Debug("Member left couple", map[string]interface{}{
		"couple_id":         couple.ID,
		"user_id":           userID,
		"remaining_members": others,
	})
	return false, m.couples.Touch(ctx, couple.ID)
}

// join attaches userID to coupleID after checking the couple has room.
func (m *membership) join(ctx context.Context, coupleID uint, userID int64) error {
	couple, err := m.couples.LockByID(ctx, coupleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return coupleNotFound(coupleID)
		}
		return err
	}

	count, err := m.users.CountByCouple(ctx, couple.ID)
	if err != nil {
		return err
	}
	if count >= model.MaxCoupleMembers {
		logger.Warn("Cannot join couple: already full", map[string]interface{}{
			"couple_id": couple.ID,
			"user_id":   userID,
		})
		return ErrCoupleFull
	}

	coupleRef := couple.ID
	if err := m.users.SetCouple(ctx, userID, &coupleRef); err != nil {
		return err
	}
	m.touch(couple.ID)
	return m.couples.Touch(ctx, couple.ID)
}

// moveInto detaches user from any other couple (applying the shrink rule) and attaches it to coupleID without a capacity check.
func (m *membership) moveInto(ctx context.Context, coupleID uint, user *model.User) error {
	if user.CoupleID != nil {
		if *user.CoupleID == coupleID {
			return nil
		}
		if _, err := m.depart(ctx, *user.CoupleID, user.ID); err != nil {
			return err
		}
	}
	coupleRef := coupleID
	return m.users.SetCouple(ctx, user.ID, &coupleRef)
}

// dissolve deletes the couple's wishes, detaches any remaining members and
// deletes the couple itself.
func (m *membership) dissolve(ctx context.Context, coupleID uint) error {
	removed, err := m.wishes.DeleteByCouple(ctx, coupleID)
	if err != nil {
		return err
	}
	if err := m.users.DetachAll(ctx, coupleID); err != nil {
		return err
	}
	if err := m.couples.Delete(ctx, coupleID); err != nil {
		return err
	}
	m.touch(coupleID)

	logger.Info("Couple dissolved", map[string]interface{}{
		"couple_id":      coupleID,
		"wishes_removed": removed,
	})
	return nil
}
