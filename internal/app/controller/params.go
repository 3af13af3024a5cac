package controller

import (
	"strconv"

	apperrors "github.com/coupleswish/wishes-backend/internal/errors"
	"github.com/gin-gonic/gin"
)

// pathUint reads a positive numeric path parameter, writing a 400 on failure.
func pathUint(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// pathInt64 reads a numeric user id path parameter, writing a 400 on failure.
func pathInt64(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// respondBindError writes a 400 for a failed ShouldBindJSON.
func respondBindError(c *gin.Context, err error) {
	if fields := apperrors.FieldErrors(err); fields != nil {
		apperrors.RespondWithValidationError(c, fields)
		return
	}
	apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Invalid request data: "+err.Error())
}
