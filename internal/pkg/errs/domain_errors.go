package errs

import "errors"

// Domain-specific sentinel errors for CQRS usecase layers
var (
	// Catalog errors
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("variant not found")

	// Purchase errors
	ErrPurchaseNotFound  = errors.New("purchase not found")
	ErrOrderNotFound     = errors.New("provider order not found")
	ErrNotRefundable     = errors.New("purchase is not refundable")
	ErrPaymentNotCleared = errors.New("payment not cleared by provider")

	// Discount errors
	ErrDiscountNotFound  = errors.New("discount code not found")
	ErrDiscountNotUsable = errors.New("discount code not usable")
	ErrDiscountExhausted = errors.New("discount code exhausted")

	// License errors
	ErrLicenseNotFound        = errors.New("license not found")
	ErrLicenseNotValid        = errors.New("license is not valid")
	ErrActivationNotFound     = errors.New("activation not found")
	ErrActivationLimitReached = errors.New("activation limit reached")

	// Payout errors
	ErrPayoutBelowMinimum   = errors.New("payout below minimum amount")
	ErrPayoutExceedsBalance = errors.New("payout exceeds available balance")

	// Authorization errors
	ErrNotResourceOwner = errors.New("actor is not the resource owner")

	// Gateway errors
	ErrGatewayFailure   = errors.New("payment gateway failure")
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
