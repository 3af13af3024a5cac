package controller

import (
	"net/http"

	"github.com/coupleswish/wishes-backend/internal/app/model"
	"github.com/coupleswish/wishes-backend/internal/app/service"
	apperrors "github.com/coupleswish/wishes-backend/internal/errors"
	"github.com/coupleswish/wishes-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

type CreateUserRequest struct {
	ID       int64  `json:"id" binding:"required"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	CoupleID *uint  `json:"couple_id"`
}

// UpdateUserRequest: username is required for any change. An absent couple_id
// keeps the membership, null or 0 leaves the couple.
type UpdateUserRequest struct {
	Username *string                `json:"username" binding:"omitempty,min=3,max=50"`
	CoupleID model.MembershipChange `json:"couple_id"`
}

// ListUsers returns every user
// GET /users
func (ctrl *UserController) ListUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	users, err := ctrl.userService.ListUsers(c.Request.Context())
	if err != nil {
		log.Error("Failed to list users", err)
		apperrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponses(users))
}

// GetUser returns one user
// GET /users/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, ok := pathInt64(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserDetailResponse{
		UserResponse: toUserResponse(user),
		Message:      "success",
		Status:       true,
	})
}

// CreateUser registers a user under an externally supplied id
// POST /users
func (ctrl *UserController) CreateUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create user request", map[string]interface{}{
			"error": err.Error(),
		})
		respondBindError(c, err)
		return
	}

	user, err := ctrl.userService.CreateUser(c.Request.Context(), req.ID, req.Username, req.CoupleID)
	if err != nil {
		apperrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// UpdateUser renames the user and/or changes its couple
// PUT /users/:id
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := pathInt64(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update user request", map[string]interface{}{
			"user_id": id,
			"error":   err.Error(),
		})
		respondBindError(c, err)
		return
	}

	if req.Username == nil {
		log.Debug("Update without username ignored", map[string]interface{}{
			"user_id": id,
		})
		c.JSON(http.StatusOK, StatusResponse{Status: "error", Message: "No username provided"})
		return
	}

	if _, err := ctrl.userService.UpdateUser(c.Request.Context(), id, req.Username, req.CoupleID); err != nil {
		apperrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, statusSuccess)
}

// DeleteUser removes the user, dissolving a couple it leaves empty
// DELETE /users/:id
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	id, ok := pathInt64(c, "id")
	if !ok {
		return
	}

	if err := ctrl.userService.DeleteUser(c.Request.Context(), id); err != nil {
		apperrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, statusSuccess)
}
