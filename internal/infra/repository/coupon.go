package repository

import (
	"context"
	"errors"

	"conftix/internal/infra"
	"conftix/internal/usecase/commands"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CouponRepository serves both the command-side lookup and the read-side
// evaluation query. Codes are matched case-insensitively.
type CouponRepository struct {
	pool *pgxpool.Pool
}

func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*commands.CouponSnapshot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, code, amount_off_cents, percent_off,
		       valid_from, valid_until, max_redemptions, times_redeemed, active
		FROM coupons
		WHERE lower(code) = lower($1)`, code)

	var s commands.CouponSnapshot
	err := row.Scan(
		&s.ID,
		&s.Code,
		&s.AmountOffCents,
		&s.PercentOff,
		&s.ValidFrom,
		&s.ValidUntil,
		&s.MaxRedemptions,
		&s.TimesRedeemed,
		&s.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon", err)
	}
	return &s, nil
}
