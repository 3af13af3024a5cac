package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/coupleswish/wishes-backend/internal/app/repository"
	"github.com/coupleswish/wishes-backend/internal/app/service"
	"github.com/coupleswish/wishes-backend/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testApp struct {
	db      *gorm.DB
	router  *gin.Engine
	users   service.UserService
	couples service.CoupleService
	wishes  service.WishService
}

func setupControllerTest(t *testing.T) *testApp {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	coupleRepo := repository.NewCoupleRepository(testDB)
	wishRepo := repository.NewWishRepository(testDB)

	app := &testApp{
		db:      testDB,
		users:   service.NewUserService(testDB, userRepo, coupleRepo, wishRepo, nil),
		couples: service.NewCoupleService(testDB, userRepo, coupleRepo, wishRepo, nil),
		wishes:  service.NewWishService(testDB, userRepo, coupleRepo, wishRepo, nil),
	}

	gin.SetMode(gin.TestMode)
	app.router = gin.New()

	users := NewUserController(app.users)
	app.router.GET("/users", users.ListUsers)
	app.router.GET("/users/:id", users.GetUser)
	app.router.POST("/users", users.CreateUser)
	app.router.PUT("/users/:id", users.UpdateUser)
	app.router.DELETE("/users/:id", users.DeleteUser)

	couples := NewCoupleController(app.couples)
	app.router.GET("/couples", couples.ListCouples)
	app.router.GET("/couples/:id", couples.GetCouple)
	app.router.POST("/couples", couples.CreateCouple)
	app.router.PUT("/couples/:id", couples.UpdateCouple)
	app.router.DELETE("/couples/:id", couples.DeleteCouple)

	wishes := NewWishController(app.wishes)
	app.router.GET("/couples/:id/wishes", wishes.ListCoupleWishes)
	app.router.GET("/couples/:id/wishes/export", wishes.ExportCoupleWishes)
	app.router.GET("/wishes", wishes.ListWishes)
	app.router.GET("/wishes/:id", wishes.GetWish)
	app.router.POST("/wishes", wishes.CreateWish)
	app.router.PUT("/wishes/:id", wishes.UpdateWish)
	app.router.DELETE("/wishes/:id", wishes.DeleteWish)

	return app
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
