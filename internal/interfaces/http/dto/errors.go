package dto

import "net/http"

// Transport-level error codes
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeNotFound     = "NOT_FOUND"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Unknown codes default to 500 via GetHTTPStatus.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,

	// Resource errors
	"NOT_FOUND":      http.StatusNotFound,
	"PLAN_NOT_FOUND": http.StatusNotFound,

	// Conflicts
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"SUBSCRIPTION_EXISTS":  http.StatusConflict,

	// Business rule violations
	"INVALID_STATE":       http.StatusUnprocessableEntity,
	"PRICE_NOT_FOUND":     http.StatusUnprocessableEntity,
	"CODE_NOT_REDEEMABLE": http.StatusUnprocessableEntity,
	"USAGE_REJECTED":      http.StatusUnprocessableEntity,

	// Input errors
	"INVALID_INPUT":         http.StatusBadRequest,
	"INVALID_EMAIL":         http.StatusBadRequest,
	"INVALID_PRODUCT":       http.StatusBadRequest,
	"INVALID_NAME":          http.StatusBadRequest,
	"INVALID_SLUG":          http.StatusBadRequest,
	"INVALID_AMOUNT":        http.StatusBadRequest,
	"INVALID_CURRENCY":      http.StatusBadRequest,
	"INVALID_STATUS":        http.StatusBadRequest,
	"INVALID_USER":          http.StatusBadRequest,
	"INVALID_UNITS":         http.StatusBadRequest,
	"INVALID_PLAN_TYPE":     http.StatusBadRequest,
	"INVALID_PRICE_TYPE":    http.StatusBadRequest,
	"INVALID_DISCOUNT_TYPE": http.StatusBadRequest,
	"INVALID_INTERVAL":      http.StatusBadRequest,
	"INVALID_METRIC":        http.StatusBadRequest,
	"INVALID_GRANULARITY":   http.StatusBadRequest,
	"INVALID_AGGREGATE":     http.StatusBadRequest,
	"INVALID_SUBSCRIPTION":  http.StatusBadRequest,
	"INVALID_PROVIDER":      http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
