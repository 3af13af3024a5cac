package controller

import (
	"net/http"
	"testing"

	apperrors "github.com/coupleswish/wishes-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserController_CreateAndGet(t *testing.T) {
	app := setupControllerTest(t)

	w := app.do(t, http.MethodPost, "/users", map[string]interface{}{"id": 1001, "username": "alice"})
	requireStatus(t, w, http.StatusCreated)
	created := decode[UserResponse](t, w)
	assert.Equal(t, int64(1001), created.ID)
	assert.Nil(t, created.CoupleID)

	w = app.do(t, http.MethodGet, "/users/1001", nil)
	requireStatus(t, w, http.StatusOK)
	detail := decode[UserDetailResponse](t, w)
	assert.Equal(t, "alice", detail.Username)
	assert.True(t, detail.Status)
	assert.Equal(t, "success", detail.Message)

	w = app.do(t, http.MethodPost, "/users", map[string]interface{}{"id": 1001, "username": "alice"})
	requireStatus(t, w, http.StatusConflict)
	assert.Equal(t, apperrors.ResourceAlreadyExists, decode[errorBody](t, w).Error)

	w = app.do(t, http.MethodGet, "/users", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Len(t, decode[[]UserResponse](t, w), 1)
}

func TestUserController_CreateUser_Validation(t *testing.T) {
	app := setupControllerTest(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing id", map[string]interface{}{"username": "alice"}},
		{"short username", map[string]interface{}{"id": 1, "username": "al"}},
		{"malformed json", `{"id": `},
		{"negative couple", map[string]interface{}{"id": 1, "username": "alice", "couple_id": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(t, http.MethodPost, "/users", tt.body)
			requireStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestUserController_GetUser_Errors(t *testing.T) {
	app := setupControllerTest(t)

	w := app.do(t, http.MethodGet, "/users/abc", nil)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, apperrors.ValidationInvalidID, decode[errorBody](t, w).Error)

	w = app.do(t, http.MethodGet, "/users/42", nil)
	requireStatus(t, w, http.StatusNotFound)
	body := decode[errorBody](t, w)
	assert.Equal(t, apperrors.UserNotFound, body.Error)
	assert.Equal(t, "user 42 not found", body.Message)
}

func TestUserController_UpdateUser(t *testing.T) {
	app := setupControllerTest(t)
	requireStatus(t, app.do(t, http.MethodPost, "/users", map[string]interface{}{"id": 1, "username": "alice"}), http.StatusCreated)
	requireStatus(t, app.do(t, http.MethodPost, "/users", map[string]interface{}{"id": 2, "username": "bob"}), http.StatusCreated)
	w := app.do(t, http.MethodPost, "/couples", map[string]interface{}{"user1_id": 1, "user2_id": 2})
	requireStatus(t, w, http.StatusCreated)
	couple := decode[CoupleDetail](t, w)

	t.Run("rename", func(t *testing.T) {
		w := app.do(t, http.MethodPut, "/users/1", map[string]interface{}{"username": "alicia"})
		requireStatus(t, w, http.StatusOK)
		assert.Equal(t, "success", decode[StatusResponse](t, w).Status)
	})

	t.Run("empty body reports no username", func(t *testing.T) {
		w := app.do(t, http.MethodPut, "/users/1", map[string]interface{}{})
		requireStatus(t, w, http.StatusOK)
		resp := decode[StatusResponse](t, w)
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, "No username provided", resp.Message)
	})

	t.Run("couple change without username is a no-op", func(t *testing.T) {
		w := app.do(t, http.MethodPut, "/users/1", map[string]interface{}{"couple_id": 0})
		requireStatus(t, w, http.StatusOK)
		resp := decode[StatusResponse](t, w)
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, "No username provided", resp.Message)

		w = app.do(t, http.MethodGet, "/couples/"+itoa(couple.ID), nil)
		requireStatus(t, w, http.StatusOK)
		assert.Len(t, decode[CoupleDetail](t, w).Users, 2)
	})

	t.Run("null couple leaves", func(t *testing.T) {
		w := app.do(t, http.MethodPut, "/users/1", `{"username": "alicia", "couple_id": null}`)
		requireStatus(t, w, http.StatusOK)

		w = app.do(t, http.MethodGet, "/users/1", nil)
		assert.Nil(t, decode[UserDetailResponse](t, w).CoupleID)
	})

	t.Run("zero couple leaves and dissolves", func(t *testing.T) {
		w := app.do(t, http.MethodPut, "/users/2", map[string]interface{}{"username": "bob", "couple_id": 0})
		requireStatus(t, w, http.StatusOK)

		w = app.do(t, http.MethodGet, "/couples/"+itoa(couple.ID), nil)
		requireStatus(t, w, http.StatusNotFound)
	})

	t.Run("unknown user", func(t *testing.T) {
		w := app.do(t, http.MethodPut, "/users/99", map[string]interface{}{"username": "ghost"})
		requireStatus(t, w, http.StatusNotFound)
	})

	t.Run("unknown couple", func(t *testing.T) {
		w := app.do(t, http.MethodPut, "/users/1", map[string]interface{}{"username": "alicia", "couple_id": 999})
		requireStatus(t, w, http.StatusNotFound)
		assert.Equal(t, apperrors.CoupleNotFound, decode[errorBody](t, w).Error)
	})
}

func TestUserController_UpdateUser_CoupleFull(t *testing.T) {
	app := setupControllerTest(t)
	for i, name := range []string{"alice", "bob", "carol"} {
		requireStatus(t, app.do(t, http.MethodPost, "/users", map[string]interface{}{"id": i + 1, "username": name}), http.StatusCreated)
	}
	w := app.do(t, http.MethodPost, "/couples", map[string]interface{}{"user1_id": 1, "user2_id": 2})
	requireStatus(t, w, http.StatusCreated)
	couple := decode[CoupleDetail](t, w)

	w = app.do(t, http.MethodPut, "/users/3", map[string]interface{}{"username": "carol", "couple_id": couple.ID})
	requireStatus(t, w, http.StatusConflict)
	require.Equal(t, apperrors.CoupleFull, decode[errorBody](t, w).Error)
}

func TestUserController_DeleteUser(t *testing.T) {
	app := setupControllerTest(t)
	requireStatus(t, app.do(t, http.MethodPost, "/users", map[string]interface{}{"id": 1, "username": "alice"}), http.StatusCreated)

	w := app.do(t, http.MethodDelete, "/users/1", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "success", decode[StatusResponse](t, w).Status)

	w = app.do(t, http.MethodDelete, "/users/1", nil)
	requireStatus(t, w, http.StatusNotFound)
}
