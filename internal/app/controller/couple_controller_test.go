package controller

import (
	"net/http"
	"testing"

	apperrors "github.com/coupleswish/wishes-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUsers(t *testing.T, app *testApp, names ...string) {
	for i, name := range names {
		w := app.do(t, http.MethodPost, "/users", map[string]interface{}{"id": i + 1, "username": name})
		requireStatus(t, w, http.StatusCreated)
	}
}

func TestCoupleController_CreateAndGet(t *testing.T) {
	app := setupControllerTest(t)
	seedUsers(t, app, "alice", "bob")

	w := app.do(t, http.MethodPost, "/couples", map[string]interface{}{"user1_id": 1, "user2_id": 2})
	requireStatus(t, w, http.StatusCreated)
	created := decode[CoupleDetail](t, w)
	assert.NotZero(t, created.ID)
	require.Len(t, created.Users, 2)
	assert.Empty(t, created.Wishes)

	w = app.do(t, http.MethodGet, "/couples/"+itoa(created.ID), nil)
	requireStatus(t, w, http.StatusOK)
	detail := decode[CoupleDetail](t, w)
	assert.Equal(t, "alice", detail.Users[0].Username)

	w = app.do(t, http.MethodGet, "/couples", nil)
	requireStatus(t, w, http.StatusOK)
	list := decode[[]CoupleWithUsers](t, w)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Users, 2)
}

func TestCoupleController_CreateCouple_Errors(t *testing.T) {
	app := setupControllerTest(t)
	seedUsers(t, app, "alice")

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{"missing user1", map[string]interface{}{"user2_id": 1}, http.StatusBadRequest, apperrors.ValidationRequired},
		{"unknown user", map[string]interface{}{"user1_id": 1, "user2_id": 77}, http.StatusNotFound, apperrors.UserNotFound},
		{"same user twice", map[string]interface{}{"user1_id": 1, "user2_id": 1}, http.StatusBadRequest, apperrors.ValidationInvalidMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(t, http.MethodPost, "/couples", tt.body)
			requireStatus(t, w, tt.wantStatus)
			assert.Equal(t, tt.wantCode, decode[errorBody](t, w).Error)
		})
	}
}

func TestCoupleController_UpdateCouple(t *testing.T) {
	app := setupControllerTest(t)
	seedUsers(t, app, "alice", "bob", "carol")

	w := app.do(t, http.MethodPost, "/couples", map[string]interface{}{"user1_id": 1, "user2_id": 2})
	requireStatus(t, w, http.StatusCreated)
	couple := decode[CoupleDetail](t, w)
	path := "/couples/" + itoa(couple.ID)

	w = app.do(t, http.MethodPut, path, map[string]interface{}{"user2_id": 3})
	requireStatus(t, w, http.StatusBadRequest)

	w = app.do(t, http.MethodPut, path, map[string]interface{}{"user1_id": 1, "user2_id": 3})
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "success", decode[StatusResponse](t, w).Status)

	w = app.do(t, http.MethodGet, path, nil)
	detail := decode[CoupleDetail](t, w)
	require.Len(t, detail.Users, 2)
	assert.Equal(t, int64(3), detail.Users[1].ID)

	w = app.do(t, http.MethodPut, "/couples/999", map[string]interface{}{"user1_id": 1})
	requireStatus(t, w, http.StatusNotFound)
}

func TestCoupleController_DeleteCouple(t *testing.T) {
	app := setupControllerTest(t)
	seedUsers(t, app, "alice")

	w := app.do(t, http.MethodPost, "/couples", map[string]interface{}{"user1_id": 1})
	requireStatus(t, w, http.StatusCreated)
	couple := decode[CoupleDetail](t, w)
	path := "/couples/" + itoa(couple.ID)

	requireStatus(t, app.do(t, http.MethodDelete, path, nil), http.StatusOK)
	requireStatus(t, app.do(t, http.MethodGet, path, nil), http.StatusNotFound)
	requireStatus(t, app.do(t, http.MethodDelete, path, nil), http.StatusNotFound)

	w = app.do(t, http.MethodGet, "/users/1", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Nil(t, decode[UserDetailResponse](t, w).CoupleID)

	requireStatus(t, app.do(t, http.MethodGet, "/couples/0", nil), http.StatusBadRequest)
}
