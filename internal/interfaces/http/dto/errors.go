package dto

import "net/http"

// Error codes returned by the API. These mirror the domain error codes so
// clients see one consistent vocabulary.
const (
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeAlreadyExists         = "ALREADY_EXISTS"
	ErrCodeInvalidInput          = "INVALID_INPUT"
	ErrCodeInvalidQuantity       = "INVALID_QUANTITY"
	ErrCodeInvalidCost           = "INVALID_COST"
	ErrCodeInvalidState          = "INVALID_STATE"
	ErrCodeInvalidStatus         = "INVALID_STATUS"
	ErrCodeInvalidTransition     = "INVALID_TRANSITION"
	ErrCodeInsufficientStock     = "INSUFFICIENT_STOCK"
	ErrCodeOptimisticLockFailed  = "OPTIMISTIC_LOCK_FAILED"
	ErrCodeConcurrencyConflict   = "CONCURRENCY_CONFLICT"
	ErrCodeInvalidTenant         = "INVALID_TENANT"
	ErrCodeInvalidIngredient     = "INVALID_INGREDIENT"
	ErrCodeInvalidUnit           = "INVALID_UNIT"
	ErrCodeInvalidTransactionTyp = "INVALID_TRANSACTION_TYPE"
	ErrCodeInternalError         = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:              http.StatusNotFound,
	ErrCodeAlreadyExists:         http.StatusConflict,
	ErrCodeOptimisticLockFailed:  http.StatusConflict,
	ErrCodeConcurrencyConflict:   http.StatusConflict,
	ErrCodeInvalidInput:          http.StatusBadRequest,
	ErrCodeInvalidQuantity:       http.StatusBadRequest,
	ErrCodeInvalidCost:           http.StatusBadRequest,
	ErrCodeInvalidStatus:         http.StatusBadRequest,
	ErrCodeInvalidTenant:         http.StatusBadRequest,
	ErrCodeInvalidIngredient:     http.StatusBadRequest,
	ErrCodeInvalidUnit:           http.StatusBadRequest,
	ErrCodeInvalidTransactionTyp: http.StatusBadRequest,
	ErrCodeInvalidState:          http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition:     http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:     http.StatusUnprocessableEntity,
	ErrCodeInternalError:         http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 so that new domain errors fail loudly
// instead of masquerading as client mistakes.
func GetHTTPStatus(errorCode string) int {
	if status, ok := errorCodeHTTPStatus[errorCode]; ok {
		return status
	}
	return http.StatusInternalServerError
}
