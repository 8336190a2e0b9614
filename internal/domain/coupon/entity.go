package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCouponInactive         = errors.New("coupon is not active")
	ErrCouponExpired          = errors.New("coupon has expired")
	ErrCouponNotYetValid      = errors.New("coupon is not yet valid")
	ErrRedemptionLimitReached = errors.New("coupon redemption limit reached")
)

type Coupon struct {
	id             uuid.UUID
	code           Code
	discount       Discount
	validFrom      *time.Time
	validUntil     *time.Time
	maxRedemptions *int32
	timesRedeemed  int32
	active         bool
}

func NewCoupon(
	id uuid.UUID,
	code string,
	amountOffCents *int64,
	percentOff *float64,
	validFrom, validUntil *time.Time,
	maxRedemptions *int32,
	timesRedeemed int32,
	active bool,
) (*Coupon, error) {
	couponCode, err := NewCode(code)
	if err != nil {
		return nil, err
	}

	discount, err := NewDiscount(amountOffCents, percentOff)
	if err != nil {
		return nil, err
	}

	return &Coupon{
		id:             id,
		code:           couponCode,
		discount:       discount,
		validFrom:      validFrom,
		validUntil:     validUntil,
		maxRedemptions: maxRedemptions,
		timesRedeemed:  timesRedeemed,
		active:         active,
	}, nil
}

// ValidateUsage checks every usability constraint at time t.
func (c *Coupon) ValidateUsage(t time.Time) error {
	if !c.active {
		return ErrCouponInactive
	}
	if c.validFrom != nil && t.Before(*c.validFrom) {
		return ErrCouponNotYetValid
	}
	if c.validUntil != nil && t.After(*c.validUntil) {
		return ErrCouponExpired
	}
	if c.maxRedemptions != nil && c.timesRedeemed >= *c.maxRedemptions {
		return ErrRedemptionLimitReached
	}
	return nil
}

// Evaluate returns the discount for a subtotal if the coupon is usable at t.
// Read-only: redemption counting is a separate concern.
func (c *Coupon) Evaluate(subtotalCents int64, t time.Time) (int64, error) {
	if err := c.ValidateUsage(t); err != nil {
		return 0, err
	}
	return c.discount.AmountFor(subtotalCents), nil
}

func (c *Coupon) ID() uuid.UUID           { return c.id }
func (c *Coupon) Code() Code              { return c.code }
func (c *Coupon) Discount() Discount      { return c.discount }
func (c *Coupon) ValidFrom() *time.Time   { return c.validFrom }
func (c *Coupon) ValidUntil() *time.Time  { return c.validUntil }
func (c *Coupon) MaxRedemptions() *int32  { return c.maxRedemptions }
func (c *Coupon) TimesRedeemed() int32    { return c.timesRedeemed }
func (c *Coupon) Active() bool            { return c.active }
