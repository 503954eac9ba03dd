package dto

import "net/http"

// Transport level error codes. Domain errors keep their own codes.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	"ALREADY_EXISTS":    http.StatusConflict,
	"INVALID_INPUT":     http.StatusBadRequest,
	"INVALID_STATE":     http.StatusUnprocessableEntity,

	// Infrastructure; safe to retry
	ErrCodeUnavailable:    http.StatusServiceUnavailable,
	"ORDER_SUBMIT_FAILED": http.StatusServiceUnavailable,

	// Order submission, shown to the customer as is
	"INVALID_CUSTOMER_NAME": http.StatusUnprocessableEntity,
	"INVALID_PHONE_NUMBER":  http.StatusUnprocessableEntity,
	"EMPTY_CART":            http.StatusUnprocessableEntity,
	"ZERO_QUANTITY":         http.StatusUnprocessableEntity,
	"PRODUCT_UNAVAILABLE":   http.StatusUnprocessableEntity,
	"DUPLICATE_SUBMISSION":  http.StatusConflict,
	"INVALID_ORDER_STATUS":  http.StatusBadRequest,

	// Catalog and cart
	"INVALID_NAME":           http.StatusBadRequest,
	"INVALID_PRICE":          http.StatusBadRequest,
	"INVALID_SIZE":           http.StatusUnprocessableEntity,
	"INVALID_SESSION":        http.StatusBadRequest,
	"UNSUPPORTED_MEDIA_TYPE": http.StatusUnsupportedMediaType,
	"INVALID_IMPORT_FILE":    http.StatusUnprocessableEntity,
	ErrCodeRequestTooLarge:   http.StatusRequestEntityTooLarge,

	// Auth
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"INVALID_EMAIL":       http.StatusBadRequest,
	"INVALID_PASSWORD":    http.StatusBadRequest,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
