package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coupleswish/wishes-backend/internal/app/service"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// ErrorInfo is a response code plus a client-safe message.
type ErrorInfo struct {
	Code    string
	Message string
}

// FromService maps an error returned by the service layer to an HTTP status
// and response body. Unknown errors become a generic 500 so that datastore
// details never reach the client.
func FromService(err error) (int, ErrorInfo) {
	if err == nil {
		return http.StatusInternalServerError, ErrorInfo{
			Code:    InternalServerError,
			Message: "Internal server error",
		}
	}

	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		return http.StatusNotFound, ErrorInfo{
			Code:    notFoundCode(nf.Entity),
			Message: nf.Error(),
		}
	}

	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, ErrorInfo{Code: ResourceNotFound, Message: "Resource not found"}
	case errors.Is(err, service.ErrAlreadyExists):
		return http.StatusConflict, ErrorInfo{Code: ResourceAlreadyExists, Message: "User already exists"}
	case errors.Is(err, service.ErrCoupleFull):
		return http.StatusConflict, ErrorInfo{Code: CoupleFull, Message: "Couple already has two members"}
	case errors.Is(err, service.ErrInvalidMembers):
		return http.StatusBadRequest, ErrorInfo{Code: ValidationInvalidMember, Message: "A couple needs one or two distinct users"}
	case errors.Is(err, service.ErrCreationFailed):
		return http.StatusInternalServerError, ErrorInfo{Code: InternalCreateFailed, Message: "Creation failed"}
	case errors.Is(err, service.ErrUpdateFailed):
		return http.StatusInternalServerError, ErrorInfo{Code: InternalUpdateFailed, Message: "Update failed"}
	case errors.Is(err, service.ErrDeletionFailed):
		return http.StatusInternalServerError, ErrorInfo{Code: InternalDeleteFailed, Message: "Deletion failed"}
	}

	return http.StatusInternalServerError, ErrorInfo{
		Code:    InternalServerError,
		Message: "Internal server error, please try again later",
	}
}

func notFoundCode(entity string) string {
	switch entity {
	case service.EntityUser:
		return UserNotFound
	case service.EntityCouple:
		return CoupleNotFound
	case service.EntityWish:
		return WishNotFound
	default:
		return ResourceNotFound
	}
}

// FieldErrors turns gin binding failures into a field -> message map.
// Returns nil when err did not come from the validator.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[toSnake(fe.Field())] = fieldMessage(fe)
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// toSnake converts a Go field name such as CoupleID to couple_id.
func toSnake(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := (runes[i-1] >= 'a' && runes[i-1] <= 'z') || (runes[i-1] >= '0' && runes[i-1] <= '9')
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || (nextLower && runes[i-1] >= 'A' && runes[i-1] <= 'Z') {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
