package controller

import (
	"context"
	"net/http"

	"github.com/coupleswish/wishes-backend/internal/app/service"
	apperrors "github.com/coupleswish/wishes-backend/internal/errors"
	"github.com/coupleswish/wishes-backend/internal/middleware"
	"github.com/coupleswish/wishes-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

// ImagePresigner issues upload urls for wish images. *storage.S3Storage implements it.
type ImagePresigner interface {
	PresignWishImage(ctx context.Context, coupleID uint, filename, contentType string) (*storage.PresignedURLResponse, error)
	ValidateContentType(contentType string, allowedTypes []string) error
}

type UploadController struct {
	presigner     ImagePresigner
	coupleService service.CoupleService
}

// NewUploadController builds the controller. A nil presigner disables uploads.
func NewUploadController(presigner ImagePresigner, coupleService service.CoupleService) *UploadController {
	return &UploadController{
		presigner:     presigner,
		coupleService: coupleService,
	}
}

type WishImageUploadRequest struct {
	CoupleID    uint   `json:"couple_id" binding:"required"`
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignWishImage returns a presigned PUT url for a wish image
// POST /uploads/wish-image
func (ctrl *UploadController) PresignWishImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.presigner == nil {
		apperrors.ServiceUnavailable(c, apperrors.UploadUnavailable, "Image uploads are not configured")
		return
	}

	var req WishImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		respondBindError(c, err)
		return
	}

	if err := ctrl.presigner.ValidateContentType(req.ContentType, storage.AllowedImageTypes); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}

	if _, err := ctrl.coupleService.GetCouple(c.Request.Context(), req.CoupleID); err != nil {
		apperrors.RespondWithServiceError(c, err)
		return
	}

	resp, err := ctrl.presigner.PresignWishImage(c.Request.Context(), req.CoupleID, req.Filename, req.ContentType)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"couple_id":    req.CoupleID,
			"content_type": req.ContentType,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to generate upload URL")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"couple_id": req.CoupleID,
		"key":       resp.Key,
	})
	c.JSON(http.StatusOK, resp)
}
