package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`   // code from codes.go
	Message string `json:"message"` // human readable
}

// RespondWithError writes statusCode with the given code and message.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func ServiceUnavailable(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusServiceUnavailable, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error, please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError carries per-field messages for binding failures.
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: "Request body is invalid",
		Fields:  fields,
	})
}

// RespondWithServiceError maps a service error with FromService and writes it.
func RespondWithServiceError(c *gin.Context, err error) {
	status, info := FromService(err)
	RespondWithError(c, status, info.Code, info.Message)
}
