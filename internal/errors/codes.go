package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map on the code, not the message.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed body
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // path id is not a number
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // wrong type or shape
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // value out of range
	ValidationRequired      = "VALIDATION_REQUIRED"       // required field missing
	ValidationInvalidMember = "VALIDATION_INVALID_MEMBERS"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Users (USER_) ====================
	UserNotFound = "USER_NOT_FOUND"

	// ==================== Couples (COUPLE_) ====================
	CoupleNotFound = "COUPLE_NOT_FOUND"
	CoupleFull     = "COUPLE_FULL" // already has two members

	// ==================== Wishes (WISH_) ====================
	WishNotFound  = "WISH_NOT_FOUND"
	WishListEmpty = "WISH_LIST_EMPTY"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadUnavailable     = "UPLOAD_UNAVAILABLE" // storage not configured
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalCreateFailed  = "INTERNAL_CREATE_FAILED"
	InternalUpdateFailed  = "INTERNAL_UPDATE_FAILED"
	InternalDeleteFailed  = "INTERNAL_DELETE_FAILED"
	InternalUnavailable   = "INTERNAL_UNAVAILABLE"
)
