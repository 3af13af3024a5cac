package controller

import (
	"bytes"
	"net/http"
	"testing"

	apperrors "github.com/coupleswish/wishes-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func setupWishFixture(t *testing.T) (*testApp, CoupleDetail) {
	app := setupControllerTest(t)
	seedUsers(t, app, "alice", "bob")

	w := app.do(t, http.MethodPost, "/couples", map[string]interface{}{"user1_id": 1, "user2_id": 2})
	requireStatus(t, w, http.StatusCreated)
	return app, decode[CoupleDetail](t, w)
}

func TestWishController_ListWishes_EmptyIs404(t *testing.T) {
	app := setupControllerTest(t)

	w := app.do(t, http.MethodGet, "/wishes", nil)
	requireStatus(t, w, http.StatusNotFound)
	assert.Equal(t, apperrors.WishListEmpty, decode[errorBody](t, w).Error)
}

func TestWishController_CreateAndGet(t *testing.T) {
	app, couple := setupWishFixture(t)

	w := app.do(t, http.MethodPost, "/wishes", map[string]interface{}{
		"name":          "Tent",
		"price":         120.5,
		"couple_id":     couple.ID,
		"user_added_id": 1,
		"article":       4455,
		"url":           "https://shop.example/tent",
	})
	requireStatus(t, w, http.StatusCreated)
	created := decode[WishResponse](t, w)
	assert.Equal(t, "Tent", created.Name)
	assert.Equal(t, couple.ID, created.CoupleID)
	require.NotNil(t, created.UserAddedID)
	assert.Equal(t, int64(1), *created.UserAddedID)

	w = app.do(t, http.MethodGet, "/wishes/"+itoa(created.ID), nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, 120.5, decode[WishResponse](t, w).Price)

	w = app.do(t, http.MethodGet, "/wishes", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Len(t, decode[[]WishResponse](t, w), 1)

	w = app.do(t, http.MethodGet, "/couples/"+itoa(couple.ID), nil)
	requireStatus(t, w, http.StatusOK)
	assert.Len(t, decode[CoupleDetail](t, w).Wishes, 1)

	w = app.do(t, http.MethodGet, "/couples/"+itoa(couple.ID)+"/wishes", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Len(t, decode[[]WishResponse](t, w), 1)
}

func TestWishController_CreateWish_Errors(t *testing.T) {
	app, couple := setupWishFixture(t)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantCode   string
	}{
		{"missing couple", map[string]interface{}{"name": "x", "price": 1, "user_added_id": 1}, http.StatusBadRequest, apperrors.ValidationRequired},
		{"negative price", map[string]interface{}{"name": "x", "price": -1, "couple_id": couple.ID, "user_added_id": 1}, http.StatusBadRequest, apperrors.ValidationInvalidInput},
		{"empty name", map[string]interface{}{"name": "", "price": 1, "couple_id": couple.ID, "user_added_id": 1}, http.StatusBadRequest, apperrors.ValidationInvalidInput},
		{"unknown couple", map[string]interface{}{"name": "x", "price": 1, "couple_id": 999, "user_added_id": 1}, http.StatusNotFound, apperrors.CoupleNotFound},
		{"unknown user", map[string]interface{}{"name": "x", "price": 1, "couple_id": couple.ID, "user_added_id": 55}, http.StatusNotFound, apperrors.UserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(t, http.MethodPost, "/wishes", tt.body)
			requireStatus(t, w, tt.wantStatus)
			assert.Equal(t, tt.wantCode, decode[errorBody](t, w).Error)
		})
	}

	requireStatus(t, app.do(t, http.MethodGet, "/wishes", nil), http.StatusNotFound)
}

func TestWishController_UpdateAndDelete(t *testing.T) {
	app, couple := setupWishFixture(t)

	w := app.do(t, http.MethodPost, "/wishes", map[string]interface{}{
		"name": "Chair", "price": 40, "couple_id": couple.ID, "user_added_id": 2,
	})
	requireStatus(t, w, http.StatusCreated)
	path := "/wishes/" + itoa(decode[WishResponse](t, w).ID)

	w = app.do(t, http.MethodPut, path, map[string]interface{}{"price": 35, "image": "https://cdn.example/chair.png"})
	requireStatus(t, w, http.StatusOK)

	w = app.do(t, http.MethodGet, path, nil)
	got := decode[WishResponse](t, w)
	assert.Equal(t, "Chair", got.Name)
	assert.Equal(t, 35.0, got.Price)
	assert.Equal(t, "https://cdn.example/chair.png", got.Image)

	requireStatus(t, app.do(t, http.MethodPut, path, map[string]interface{}{"price": -5}), http.StatusBadRequest)
	requireStatus(t, app.do(t, http.MethodPut, "/wishes/999", map[string]interface{}{"name": "x"}), http.StatusNotFound)

	requireStatus(t, app.do(t, http.MethodDelete, path, nil), http.StatusOK)
	requireStatus(t, app.do(t, http.MethodGet, path, nil), http.StatusNotFound)
	requireStatus(t, app.do(t, http.MethodDelete, path, nil), http.StatusNotFound)
}

func TestWishController_ExportCoupleWishes(t *testing.T) {
	app, couple := setupWishFixture(t)

	requireStatus(t, app.do(t, http.MethodPost, "/wishes", map[string]interface{}{
		"name": "Lamp", "price": 25, "couple_id": couple.ID, "user_added_id": 1,
	}), http.StatusCreated)

	w := app.do(t, http.MethodGet, "/couples/"+itoa(couple.ID)+"/wishes/export", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Wishes")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Lamp", rows[1][1])

	requireStatus(t, app.do(t, http.MethodGet, "/couples/999/wishes/export", nil), http.StatusNotFound)
}
