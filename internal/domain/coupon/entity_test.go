//go:build unit

package coupon_test

import (
	"testing"
	"time"

	"conftix/internal/domain/coupon"
	"conftix/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.CouponBuilder)
	errIs  error
}

func TestNewCoupon(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewCouponBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.Equal(t, "SAVE10", actual.Code().String())
		assert.True(t, actual.Discount().IsPercentage())
		assert.Equal(t, 10.0, actual.Discount().PercentOff())
		assert.True(t, actual.Active())
	})

	t.Run("code validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "lowercase code is normalized",
				mutate: func(b *builder.CouponBuilder) { b.Code = "save10" },
			},
			{
				name:   "code with surrounding whitespace is trimmed",
				mutate: func(b *builder.CouponBuilder) { b.Code = "  SAVE10  " },
			},
			{
				name:   "empty code",
				mutate: func(b *builder.CouponBuilder) { b.Code = "" },
				errIs:  coupon.ErrInvalidCouponCode,
			},
			{
				name:   "code too short",
				mutate: func(b *builder.CouponBuilder) { b.Code = "AB" },
				errIs:  coupon.ErrInvalidCouponCode,
			},
			{
				name:   "code with invalid characters",
				mutate: func(b *builder.CouponBuilder) { b.Code = "SAVE-10" },
				errIs:  coupon.ErrInvalidCouponCode,
			},
		})
	})

	t.Run("discount validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name: "both fixed and percentage set",
				mutate: func(b *builder.CouponBuilder) {
					amount := int64(500)
					b.AmountOffCents = &amount
				},
				errIs: coupon.ErrAmbiguousDiscount,
			},
			{
				name: "neither fixed nor percentage set",
				mutate: func(b *builder.CouponBuilder) {
					b.PercentOff = nil
				},
				errIs: coupon.ErrAmbiguousDiscount,
			},
			{
				name: "negative fixed amount",
				mutate: func(b *builder.CouponBuilder) {
					b.AsFixed(-1)
				},
				errIs: coupon.ErrInvalidDiscountAmount,
			},
			{
				name: "percentage above 100",
				mutate: func(b *builder.CouponBuilder) {
					percent := 101.0
					b.PercentOff = &percent
				},
				errIs: coupon.ErrInvalidDiscountPercent,
			},
			{
				name: "percentage of exactly 100",
				mutate: func(b *builder.CouponBuilder) {
					percent := 100.0
					b.PercentOff = &percent
				},
			},
		})
	})
}

func TestCouponEvaluate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("percentage discount rounds half away from zero", func(t *testing.T) {
		c, err := builder.NewCouponBuilder().BuildDomain()
		require.NoError(t, err)

		// 10% of 19700 is exactly 1970
		discount, err := c.Evaluate(19700, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1970), discount)

		// 10% of 9905 is 990.5, rounds to 991
		discount, err = c.Evaluate(9905, now)
		require.NoError(t, err)
		assert.Equal(t, int64(991), discount)
	})

	t.Run("fixed discount clamps to subtotal", func(t *testing.T) {
		c, err := builder.NewCouponBuilder().AsFixed(5000).BuildDomain()
		require.NoError(t, err)

		discount, err := c.Evaluate(3000, now)
		require.NoError(t, err)
		assert.Equal(t, int64(3000), discount)

		discount, err = c.Evaluate(9900, now)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), discount)
	})

	t.Run("zero subtotal yields zero discount", func(t *testing.T) {
		c, err := builder.NewCouponBuilder().AsFixed(500).BuildDomain()
		require.NoError(t, err)

		discount, err := c.Evaluate(0, now)
		require.NoError(t, err)
		assert.Equal(t, int64(0), discount)
	})

	t.Run("usability window", func(t *testing.T) {
		past := now.Add(-24 * time.Hour)
		future := now.Add(24 * time.Hour)

		cases := []struct {
			name   string
			mutate func(*builder.CouponBuilder)
			errIs  error
		}{
			{
				name:   "inactive coupon",
				mutate: func(b *builder.CouponBuilder) { b.Active = false },
				errIs:  coupon.ErrCouponInactive,
			},
			{
				name:   "not yet valid",
				mutate: func(b *builder.CouponBuilder) { b.ValidFrom = &future },
				errIs:  coupon.ErrCouponNotYetValid,
			},
			{
				name:   "expired",
				mutate: func(b *builder.CouponBuilder) { b.ValidUntil = &past },
				errIs:  coupon.ErrCouponExpired,
			},
			{
				name: "inside validity window",
				mutate: func(b *builder.CouponBuilder) {
					b.ValidFrom = &past
					b.ValidUntil = &future
				},
			},
			{
				name: "redemption limit reached",
				mutate: func(b *builder.CouponBuilder) {
					limit := int32(100)
					b.MaxRedemptions = &limit
					b.TimesRedeemed = 100
				},
				errIs: coupon.ErrRedemptionLimitReached,
			},
			{
				name: "one redemption remaining",
				mutate: func(b *builder.CouponBuilder) {
					limit := int32(100)
					b.MaxRedemptions = &limit
					b.TimesRedeemed = 99
				},
			},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				entity, err := builder.NewCouponBuilder().With(c.mutate).BuildDomain()
				require.NoError(t, err)

				discount, err := entity.Evaluate(19700, now)
				if c.errIs == nil {
					require.NoError(t, err)
					assert.Equal(t, int64(1970), discount)
				} else {
					require.ErrorIs(t, err, c.errIs)
					assert.Equal(t, int64(0), discount)
				}
			})
		}
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewCouponBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
