package controller

import (
	"fmt"
	"net/http"

	"github.com/coupleswish/wishes-backend/internal/app/model"
	"github.com/coupleswish/wishes-backend/internal/app/service"
	apperrors "github.com/coupleswish/wishes-backend/internal/errors"
	"github.com/coupleswish/wishes-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type WishController struct {
	wishService service.WishService
}

func NewWishController(wishService service.WishService) *WishController {
	return &WishController{
		wishService: wishService,
	}
}

type CreateWishRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Price       float64 `json:"price" binding:"gte=0"`
	CoupleID    uint    `json:"couple_id"`
	UserAddedID int64   `json:"user_added_id" binding:"required"`
	Article     *int64  `json:"article" binding:"omitempty,gte=0"`
	URL         string  `json:"url"`
	Image       string  `json:"image"`
}

type UpdateWishRequest struct {
	Name    *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Price   *float64 `json:"price" binding:"omitempty,gte=0"`
	Article *int64   `json:"article" binding:"omitempty,gte=0"`
	URL     *string  `json:"url"`
	Image   *string  `json:"image"`
}

func (r UpdateWishRequest) patch() model.WishPatch {
	return model.WishPatch{
		Name:    r.Name,
		Price:   r.Price,
		Article: r.Article,
		URL:     r.URL,
		Image:   r.Image,
	}
}

// ListWishes returns every wish; an empty list is answered with 404
// GET /wishes
func (ctrl *WishController) ListWishes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	wishes, err := ctrl.wishService.ListWishes(c.Request.Context())
	if err != nil {
		log.Error("Failed to list wishes", err)
		apperrors.RespondWithServiceError(c, err)
		return
	}
	if len(wishes) == 0 {
		apperrors.NotFound(c, apperrors.WishListEmpty, "No wishes found")
		return
	}

	c.JSON(http.StatusOK, toWishResponses(wishes))
}

// GetWish returns one wish
// GET /wishes/:id
func (ctrl *WishController) GetWish(c *gin.Context) {
	id, ok := pathUint(c, "id")
	if !ok {
		return
	}

	wish, err := ctrl.wishService.GetWish(c.Request.Context(), id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWishResponse(wish))
}

// ListCoupleWishes returns the couple's wishlist
// GET /couples/:id/wishes
func (ctrl *WishController) ListCoupleWishes(c *gin.Context) {
	coupleID, ok := pathUint(c, "id")
	if !ok {
		return
	}

	wishes, err := ctrl.wishService.ListCoupleWishes(c.Request.Context(), coupleID)
	if err != nil {
		apperrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWishResponses(wishes))
}

// ExportCoupleWishes downloads the couple's wishlist as xlsx
// GET /couples/:id/wishes/export
func (ctrl *WishController) ExportCoupleWishes(c *gin.Context) {
	coupleID, ok := pathUint(c, "id")
	if !ok {
		return
	}

	buf, err := ctrl.wishService.ExportCoupleWishes(c.Request.Context(), coupleID)
	if err != nil {
		apperrors.RespondWithServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="couple-%d-wishes.xlsx"`, coupleID))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// CreateWish adds a wish to a couple's list
// POST /wishes
func (ctrl *WishController) CreateWish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateWishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create wish request", map[string]interface{}{
			"error": err.Error(),
		})
		respondBindError(c, err)
		return
	}
	if req.CoupleID == 0 {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "couple_id is required")
		return
	}

	wish, err := ctrl.wishService.CreateWish(c.Request.Context(), service.CreateWishInput{
		Name:        req.Name,
		Price:       req.Price,
		CoupleID:    req.CoupleID,
		UserAddedID: req.UserAddedID,
		Article:     req.Article,
		URL:         req.URL,
		Image:       req.Image,
	})
	if err != nil {
		apperrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toWishResponse(wish))
}

// UpdateWish changes the provided fields of a wish
// PUT /wishes/:id
func (ctrl *WishController) UpdateWish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := pathUint(c, "id")
	if !ok {
		return
	}

	var req UpdateWishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update wish request", map[string]interface{}{
			"wish_id": id,
			"error":   err.Error(),
		})
		respondBindError(c, err)
		return
	}

	if _, err := ctrl.wishService.UpdateWish(c.Request.Context(), id, req.patch()); err != nil {
		apperrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, statusSuccess)
}

// DeleteWish removes a wish
// DELETE /wishes/:id
func (ctrl *WishController) DeleteWish(c *gin.Context) {
	id, ok := pathUint(c, "id")
	if !ok {
		return
	}

	if err := ctrl.wishService.DeleteWish(c.Request.Context(), id); err != nil {
		apperrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, statusSuccess)
}
