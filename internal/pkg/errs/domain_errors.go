package errs

import "errors"

// Sentinel errors shared across usecase layers.
var (
	// Catalog
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product unavailable")

	// Coupon
	ErrCouponNotFound            = errors.New("coupon not found")
	ErrCouponExpired             = errors.New("coupon expired")
	ErrCouponNotYetValid         = errors.New("coupon not yet valid")
	ErrCouponRedemptionExhausted = errors.New("coupon redemption limit reached")

	// Checkout
	ErrEmptyCheckout        = errors.New("checkout has no items")
	ErrInvalidPayerEmail    = errors.New("invalid payer email")
	ErrPaymentNotCompleted  = errors.New("payment not completed")
	ErrProcessorUnreachable = errors.New("payment processor unreachable")

	// Persistence after a confirmed payment; must never be swallowed.
	ErrPersistenceFailure = errors.New("persistence failure after payment")

	// Generic
	ErrDomainValidation        = errors.New("domain validation error")
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
