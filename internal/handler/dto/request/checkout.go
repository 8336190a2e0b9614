package request

import "github.com/google/uuid"

type CreateSessionRequest struct {
	ProductIDs []uuid.UUID `json:"product_ids" binding:"required,min=1"`
	// Email is required for guest checkout and ignored for signed-in callers.
	Email      string  `json:"email"`
	CouponCode *string `json:"coupon_code"`
}

type ConfirmRequest struct {
	Reference string `json:"reference" binding:"required"`
	// CreateAccount provisions a member account for guest payers.
	CreateAccount bool `json:"create_account"`
}
