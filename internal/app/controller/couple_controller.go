package controller

import (
	"net/http"

	"github.com/coupleswish/wishes-backend/internal/app/service"
	apperrors "github.com/coupleswish/wishes-backend/internal/errors"
	"github.com/coupleswish/wishes-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CoupleController struct {
	coupleService service.CoupleService
}

func NewCoupleController(coupleService service.CoupleService) *CoupleController {
	return &CoupleController{
		coupleService: coupleService,
	}
}

type CoupleMembersRequest struct {
	User1ID *int64 `json:"user1_id"`
	User2ID *int64 `json:"user2_id"`
}

// ListCouples returns every couple with its members
// GET /couples
func (ctrl *CoupleController) ListCouples(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	couples, err := ctrl.coupleService.ListCouples(c.Request.Context())
	if err != nil {
		log.Error("Failed to list couples", err)
		apperrors.RespondWithServiceError(c, err)
		return
	}

	out := make([]CoupleWithUsers, 0, len(couples))
	for i := range couples {
		out = append(out, toCoupleWithUsers(&couples[i]))
	}
	c.JSON(http.StatusOK, out)
}

// GetCouple returns the couple with members and wishes
// GET /couples/:id
func (ctrl *CoupleController) GetCouple(c *gin.Context) {
	id, ok := pathUint(c, "id")
	if !ok {
		return
	}

	couple, err := ctrl.coupleService.GetCouple(c.Request.Context(), id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCoupleDetail(couple))
}

// bindMembers reads the member ids, answering 400 when user1_id is missing.
func bindMembers(c *gin.Context) (*CoupleMembersRequest, bool) {
	var req CoupleMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid couple request", map[string]interface{}{
			"error": err.Error(),
		})
		respondBindError(c, err)
		return nil, false
	}
	if req.User1ID == nil || *req.User1ID == 0 {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "user1_id is required")
		return nil, false
	}
	return &req, true
}

// CreateCouple pairs one or two users
// POST /couples
func (ctrl *CoupleController) CreateCouple(c *gin.Context) {
	req, ok := bindMembers(c)
	if !ok {
		return
	}

	couple, err := ctrl.coupleService.CreateCouple(c.Request.Context(), *req.User1ID, req.User2ID)
	if err != nil {
		apperrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCoupleDetail(couple))
}

// UpdateCouple replaces the couple's members
// PUT /couples/:id
func (ctrl *CoupleController) UpdateCouple(c *gin.Context) {
	id, ok := pathUint(c, "id")
	if !ok {
		return
	}
	req, ok := bindMembers(c)
	if !ok {
		return
	}

	if _, err := ctrl.coupleService.UpdateCouple(c.Request.Context(), id, *req.User1ID, req.User2ID); err != nil {
		apperrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, statusSuccess)
}

// DeleteCouple deletes the couple and its wishes; members stay
// DELETE /couples/:id
func (ctrl *CoupleController) DeleteCouple(c *gin.Context) {
	id, ok := pathUint(c, "id")
	if !ok {
		return
	}

	if err := ctrl.coupleService.DeleteCouple(c.Request.Context(), id); err != nil {
		apperrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, statusSuccess)
}
