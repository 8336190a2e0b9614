package coupon

import (
	"errors"
	"math"
	"regexp"
	"strings"
)

var (
	ErrInvalidCouponCode      = errors.New("invalid coupon code format")
	ErrInvalidDiscountAmount  = errors.New("discount amount cannot be negative")
	ErrInvalidDiscountPercent = errors.New("percentage discount must be between 0 and 100")
	ErrAmbiguousDiscount      = errors.New("discount must be either fixed amount or percentage")
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

// Code is stored and compared upper-cased; lookups are case-insensitive.
type Code string

func NewCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

type Discount struct {
	amountOffCents *int64
	percentOff     *float64
}

func NewFixedDiscount(amountOffCents int64) (Discount, error) {
	if amountOffCents < 0 {
		return Discount{}, ErrInvalidDiscountAmount
	}
	return Discount{amountOffCents: &amountOffCents}, nil
}

func NewPercentageDiscount(percentOff float64) (Discount, error) {
	if percentOff < 0 || percentOff > 100 {
		return Discount{}, ErrInvalidDiscountPercent
	}
	return Discount{percentOff: &percentOff}, nil
}

func NewDiscount(amountOffCents *int64, percentOff *float64) (Discount, error) {
	if (amountOffCents != nil) == (percentOff != nil) {
		return Discount{}, ErrAmbiguousDiscount
	}
	if amountOffCents != nil {
		return NewFixedDiscount(*amountOffCents)
	}
	return NewPercentageDiscount(*percentOff)
}

func (d Discount) IsPercentage() bool {
	return d.percentOff != nil
}

func (d Discount) IsFixed() bool {
	return d.amountOffCents != nil
}

func (d Discount) AmountOffCents() int64 {
	if d.amountOffCents != nil {
		return *d.amountOffCents
	}
	return 0
}

func (d Discount) PercentOff() float64 {
	if d.percentOff != nil {
		return *d.percentOff
	}
	return 0
}

// AmountFor computes the discount for a subtotal, clamped so the payable
// amount never goes negative. Percentage discounts round half away from zero.
func (d Discount) AmountFor(subtotalCents int64) int64 {
	var amount int64
	if d.IsPercentage() {
		amount = int64(math.Round(float64(subtotalCents) * d.PercentOff() / 100.0))
	} else {
		amount = d.AmountOffCents()
	}
	if amount > subtotalCents {
		return subtotalCents
	}
	if amount < 0 {
		return 0
	}
	return amount
}
