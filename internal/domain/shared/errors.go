package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrPlanNotFound        = NewDomainError("PLAN_NOT_FOUND", "Plan does not exist or is not active")
	ErrPriceNotFound       = NewDomainError("PRICE_NOT_FOUND", "No price exists for the active currency")
	ErrCodeNotRedeemable   = NewDomainError("CODE_NOT_REDEEMABLE", "Discount code cannot be redeemed")
	ErrSubscriptionExists  = NewDomainError("SUBSCRIPTION_EXISTS", "User already has an active subscription")
)
