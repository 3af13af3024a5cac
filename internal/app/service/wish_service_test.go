package service

import (
	"context"
	"errors"
	"testing"

	"github.com/coupleswish/wishes-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishService_CreateWish(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	s.mustCreateUser(t, 1, "alice")
	couple, err := s.couples.CreateCouple(ctx, 1, nil)
	require.NoError(t, err)

	created, err := s.wishes.CreateWish(ctx, CreateWishInput{
		Name:        "Espresso machine",
		Price:       249.9,
		CoupleID:    couple.ID,
		UserAddedID: 1,
		Article:     ptr(int64(40012)),
		URL:         "https://shop.example/espresso",
		Image:       "https://cdn.example/espresso.png",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	found, err := s.wishes.GetWish(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Espresso machine", found.Name)
	assert.Equal(t, 249.9, found.Price)
	require.NotNil(t, found.Article)
	assert.Equal(t, int64(40012), *found.Article)
	require.NotNil(t, found.UserAddedID)
	assert.Equal(t, int64(1), *found.UserAddedID)
	assert.Equal(t, couple.ID, found.CoupleID)
}

func TestWishService_CreateWish_MissingReferences(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	s.mustCreateUser(t, 1, "alice")
	couple, err := s.couples.CreateCouple(ctx, 1, nil)
	require.NoError(t, err)

	tests := []struct {
		name       string
		coupleID   uint
		userID     int64
		wantEntity string
	}{
		{name: "unknown couple", coupleID: 999, userID: 1, wantEntity: EntityCouple},
		{name: "unknown user", coupleID: couple.ID, userID: 55, wantEntity: EntityUser},
		{name: "both unknown reports the couple", coupleID: 999, userID: 55, wantEntity: EntityCouple},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.wishes.CreateWish(ctx, CreateWishInput{
				Name:        "Ghost",
				CoupleID:    tt.coupleID,
				UserAddedID: tt.userID,
			})
			var nf *NotFoundError
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, tt.wantEntity, nf.Entity)
		})
	}

	all, err := s.wishes.ListWishes(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestWishService_ListCoupleWishes(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	s.mustCreateUser(t, 1, "alice")
	s.mustCreateUser(t, 2, "bob")
	first, err := s.couples.CreateCouple(ctx, 1, nil)
	require.NoError(t, err)
	second, err := s.couples.CreateCouple(ctx, 2, nil)
	require.NoError(t, err)

	s.mustCreateWish(t, first.ID, 1, "Plant")
	s.mustCreateWish(t, first.ID, 1, "Rug")
	s.mustCreateWish(t, second.ID, 2, "Drill")

	wishes, err := s.wishes.ListCoupleWishes(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, wishes, 2)

	all, err := s.wishes.ListWishes(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = s.wishes.ListCoupleWishes(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWishService_UpdateWish(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	s.mustCreateUser(t, 1, "alice")
	couple, err := s.couples.CreateCouple(ctx, 1, nil)
	require.NoError(t, err)
	wish := s.mustCreateWish(t, couple.ID, 1, "Chair")

	updated, err := s.wishes.UpdateWish(ctx, wish.ID, model.WishPatch{
		Price: ptr(55.5),
		URL:   ptr("https://shop.example/chair"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Chair", updated.Name)
	assert.Equal(t, 55.5, updated.Price)

	found, err := s.wishes.GetWish(ctx, wish.ID)
	require.NoError(t, err)
	assert.Equal(t, 55.5, found.Price)
	assert.Equal(t, "https://shop.example/chair", found.URL)

	unchanged, err := s.wishes.UpdateWish(ctx, wish.ID, model.WishPatch{})
	require.NoError(t, err)
	assert.Equal(t, 55.5, unchanged.Price)

	_, err = s.wishes.UpdateWish(ctx, 999, model.WishPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWishService_DeleteWish(t *testing.T) {
	s := setupServices(t, nil)
	ctx := context.Background()
	s.mustCreateUser(t, 1, "alice")
	couple, err := s.couples.CreateCouple(ctx, 1, nil)
	require.NoError(t, err)
	wish := s.mustCreateWish(t, couple.ID, 1, "Mug")

	require.NoError(t, s.wishes.DeleteWish(ctx, wish.ID))

	_, err = s.wishes.GetWish(ctx, wish.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.wishes.DeleteWish(ctx, wish.ID), ErrNotFound)

	_, err = s.couples.GetCouple(ctx, couple.ID)
	assert.NoError(t, err, "deleting a wish leaves the couple")
}
