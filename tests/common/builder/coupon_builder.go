//go:build unit || e2e

package builder

import (
	"time"

	domcoupon "conftix/internal/domain/coupon"
	"conftix/internal/usecase/commands"

	"github.com/google/uuid"
)

type CouponBuilder struct {
	ID             uuid.UUID
	Code           string
	AmountOffCents *int64
	PercentOff     *float64
	ValidFrom      *time.Time
	ValidUntil     *time.Time
	MaxRedemptions *int32
	TimesRedeemed  int32
	Active         bool
}

func NewCouponBuilder() *CouponBuilder {
	percent := 10.0
	return &CouponBuilder{
		ID:         uuid.New(),
		Code:       "SAVE10",
		PercentOff: &percent,
		Active:     true,
	}
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

func (b *CouponBuilder) AsFixed(amountOffCents int64) *CouponBuilder {
	b.Code = "TAKE5"
	b.AmountOffCents = &amountOffCents
	b.PercentOff = nil
	return b
}

func (b *CouponBuilder) BuildDomain() (*domcoupon.Coupon, error) {
	return domcoupon.NewCoupon(
		b.ID, b.Code,
		b.AmountOffCents, b.PercentOff,
		b.ValidFrom, b.ValidUntil,
		b.MaxRedemptions, b.TimesRedeemed,
		b.Active,
	)
}

func (b *CouponBuilder) BuildSnapshot() *commands.CouponSnapshot {
	return &commands.CouponSnapshot{
		ID:             b.ID,
		Code:           b.Code,
		AmountOffCents: b.AmountOffCents,
		PercentOff:     b.PercentOff,
		ValidFrom:      b.ValidFrom,
		ValidUntil:     b.ValidUntil,
		MaxRedemptions: b.MaxRedemptions,
		TimesRedeemed:  b.TimesRedeemed,
		Active:         b.Active,
	}
}
