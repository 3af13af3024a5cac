package service

import (
	"context"
	"fmt"
	"time"

	"github.com/coupleswish/wishes-backend/internal/app/model"
	"github.com/coupleswish/wishes-backend/pkg/logger"
)

// JSONStore is the key/value backend of the couple cache.
type JSONStore interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CoupleCache keeps couple details (members and wishes) by id.
// A nil *CoupleCache is valid and caches nothing.
type CoupleCache struct {
	store JSONStore
	ttl   time.Duration
}

func NewCoupleCache(store JSONStore, ttl time.Duration) *CoupleCache {
	if store == nil {
		return nil
	}
	return &CoupleCache{store: store, ttl: ttl}
}

func coupleKey(id uint) string {
	return fmt.Sprintf("couple:detail:%d", id)
}

func (c *CoupleCache) get(ctx context.Context, id uint) (*model.Couple, bool) {
	if c == nil {
		return nil, false
	}
	var couple model.Couple
	found, err := c.store.GetJSON(ctx, coupleKey(id), &couple)
	if err != nil {
		logger.Warn("Couple cache read failed", map[string]interface{}{
			"couple_id": id,
			"error":     err.Error(),
		})
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &couple, true
}

func (c *CoupleCache) set(ctx context.Context, couple *model.Couple) {
	if c == nil || couple == nil {
		return
	}
	if err := c.store.SetJSON(ctx, coupleKey(couple.ID), couple, c.ttl); err != nil {
		logger.Warn("Couple cache write failed", map[string]interface{}{
			"couple_id": couple.ID,
			"error":     err.Error(),
		})
	}
}

func (c *CoupleCache) invalidate(ctx context.Context, ids ...uint) {
	if c == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != 0 {
			keys = append(keys, coupleKey(id))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := c.store.Delete(ctx, keys...); err != nil {
		logger.Warn("Couple cache invalidation failed", map[string]interface{}{
			"couple_ids": ids,
			"error":      err.Error(),
		})
	}
}
