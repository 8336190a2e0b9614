package queries

import (
	"context"
	"time"

	"conftix/internal/domain/coupon"
	"conftix/internal/infra"
	"conftix/internal/pkg/clock"
	"conftix/internal/pkg/errs"

	"github.com/google/uuid"
)

type CouponSnapshot struct {
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

type CouponEvaluation struct {
	AppliedCode   string
	DiscountCents int64
	SubtotalCents int64
	PayableCents  int64
}

type CouponReadStore interface {
	FindByCode(ctx context.Context, code string) (*CouponSnapshot, error)
}

type CouponQueries interface {
	// Evaluate is read-only: it never touches redemption counters.
	Evaluate(ctx context.Context, code string, subtotalCents int64) (*CouponEvaluation, error)
}

type couponQueriesImpl struct {
	readStore CouponReadStore
	clock     clock.Clock
}

func NewCouponQueries(readStore CouponReadStore, clock clock.Clock) CouponQueries {
	return &couponQueriesImpl{
		readStore: readStore,
		clock:     clock,
	}
}

func (q *couponQueriesImpl) Evaluate(ctx context.Context, code string, subtotalCents int64) (*CouponEvaluation, error) {
	if subtotalCents < 0 {
		return nil, errs.Mark(errs.New("negative subtotal"), errs.ErrDomainValidation)
	}

	snapshot, err := q.readStore.FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrCouponNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	entity, err := coupon.NewCoupon(
		snapshot.ID,
		snapshot.Code,
		snapshot.AmountOffCents,
		snapshot.PercentOff,
		snapshot.ValidFrom,
		snapshot.ValidUntil,
		snapshot.MaxRedemptions,
		snapshot.TimesRedeemed,
		snapshot.Active,
	)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	discount, err := entity.Evaluate(subtotalCents, q.clock.Now())
	if err != nil {
		return nil, mapCouponUsageError(err)
	}

	return &CouponEvaluation{
		AppliedCode:   entity.Code().String(),
		DiscountCents: discount,
		SubtotalCents: subtotalCents,
		PayableCents:  subtotalCents - discount,
	}, nil
}

func mapCouponUsageError(err error) error {
	switch err {
	case coupon.ErrCouponInactive:
		// Inactive coupons are indistinguishable from missing ones.
		return errs.ErrCouponNotFound
	case coupon.ErrCouponExpired:
		return errs.ErrCouponExpired
	case coupon.ErrCouponNotYetValid:
		return errs.ErrCouponNotYetValid
	case coupon.ErrRedemptionLimitReached:
		return errs.ErrCouponRedemptionExhausted
	}
	return errs.Mark(err, errs.ErrDomainValidation)
}
