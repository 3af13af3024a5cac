package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/coupleswish/wishes-backend/internal/app/model"
	"github.com/coupleswish/wishes-backend/internal/app/repository"
	"github.com/coupleswish/wishes-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServices struct {
	db      *gorm.DB
	users   UserService
	couples CoupleService
	wishes  WishService
}

func setupServices(t *testing.T, cache *CoupleCache) *testServices {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	coupleRepo := repository.NewCoupleRepository(testDB)
	wishRepo := repository.NewWishRepository(testDB)

	return &testServices{
		db:      testDB,
		users:   NewUserService(testDB, userRepo, coupleRepo, wishRepo, cache),
		couples: NewCoupleService(testDB, userRepo, coupleRepo, wishRepo, cache),
		wishes:  NewWishService(testDB, userRepo, coupleRepo, wishRepo, cache),
	}
}

func (s *testServices) mustCreateUser(t *testing.T, id int64, username string) *model.User {
	user, err := s.users.CreateUser(context.Background(), id, username, nil)
	require.NoError(t, err)
	return user
}

func (s *testServices) mustCreateWish(t *testing.T, coupleID uint, userID int64, name string) *model.Wish {
	wish, err := s.wishes.CreateWish(context.Background(), CreateWishInput{
		Name:        name,
		Price:       10,
		CoupleID:    coupleID,
		UserAddedID: userID,
	})
	require.NoError(t, err)
	return wish
}

func ptr[T any](v T) *T {
	return &v
}

// memoryStore is an in-process JSONStore for cache tests.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[string][]byte{}}
}

func (m *memoryStore) GetJSON(_ context.Context, key string, dst interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *memoryStore) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *memoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	m.deletes++
	return nil
}

func (m *memoryStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}
