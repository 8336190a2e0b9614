package repository

import (
	"context"
	"errors"

	"conftix/internal/domain/purchase"
	"conftix/internal/infra"
	"conftix/internal/usecase/commands"
	"conftix/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PurchaseRepository covers the write side of reconciliation and the
// read side of entitlement checks and purchase history.
type PurchaseRepository struct {
	pool *pgxpool.Pool
}

func NewPurchaseRepository(pool *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{pool: pool}
}

const purchaseColumns = `id, user_id, payer_email, product_id, replay_id, event_year,
	payment_reference, order_type, coupon_code, discount_cents, purchased_at`

func (r *PurchaseRepository) FindByPaymentReference(ctx context.Context, reference string) ([]commands.PurchaseRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+purchaseColumns+`
		FROM purchases
		WHERE payment_reference = $1
		ORDER BY purchased_at, id`, reference)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query purchases by reference", err)
	}
	defer rows.Close()

	var records []commands.PurchaseRecord
	for rows.Next() {
		record, err := scanPurchase(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan purchase", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate purchases", err)
	}
	return records, nil
}

// CreateAll inserts purchase rows within the caller's transaction. Rows that
// already exist for (payment_reference, product_id) are skipped, which makes
// confirmation replays converge on the first write.
func (r *PurchaseRepository) CreateAll(ctx context.Context, tx pgx.Tx, purchases []*purchase.Purchase) error {
	for _, p := range purchases {
		_, err := tx.Exec(ctx, `
			INSERT INTO purchases (
				id, user_id, payer_email, product_id, replay_id, event_year,
				payment_reference, order_type, coupon_code, discount_cents, purchased_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (payment_reference, product_id) DO NOTHING`,
			p.ID(),
			p.UserID(),
			p.PayerEmail(),
			p.ProductID(),
			p.ReplayID(),
			p.EventYear(),
			p.PaymentRef(),
			string(p.OrderType()),
			p.CouponCode(),
			p.DiscountCents(),
			p.PurchasedAt(),
		)
		if err != nil {
			return infra.WrapRepoErr("failed to insert purchase", err)
		}
	}
	return nil
}

// AttachUser assigns guest-owned rows of a payment reference to a user. Rows
// that already belong to someone are left alone.
func (r *PurchaseRepository) AttachUser(ctx context.Context, tx pgx.Tx, reference string, userID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE purchases
		SET user_id = $1
		WHERE payment_reference = $2 AND user_id IS NULL`,
		userID, reference)
	if err != nil {
		return infra.WrapRepoErr("failed to attach purchases to user", err)
	}
	return nil
}

func (r *PurchaseRepository) CreateGrant(ctx context.Context, grant *purchase.Purchase) (*commands.PurchaseRecord, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO purchases (
			id, user_id, payer_email, product_id, replay_id, event_year,
			payment_reference, order_type, coupon_code, discount_cents, purchased_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+purchaseColumns,
		grant.ID(),
		grant.UserID(),
		grant.PayerEmail(),
		grant.ProductID(),
		grant.ReplayID(),
		grant.EventYear(),
		grant.PaymentRef(),
		string(grant.OrderType()),
		grant.CouponCode(),
		grant.DiscountCents(),
		grant.PurchasedAt(),
	)

	record, err := scanPurchase(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, infra.WrapRepoErr("grant already exists", err, infra.KindDuplicateKey)
		}
		return nil, infra.WrapRepoErr("failed to insert grant", err)
	}
	return record, nil
}

// HasEntitlement reports whether a purchase row grants access to the replay:
// either an exact replay match or a whole-year row (NULL replay_id) for the
// same event year.
func (r *PurchaseRepository) HasEntitlement(ctx context.Context, userID uuid.UUID, replayID uuid.UUID, eventYear int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM purchases
			WHERE user_id = $1
			  AND (replay_id = $2 OR (replay_id IS NULL AND event_year = $3))
		)`, userID, replayID, eventYear).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check entitlement", err)
	}
	return exists, nil
}

func (r *PurchaseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]queries.PurchaseView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.product_id, pr.name, p.replay_id, p.event_year,
		       p.payment_reference, p.order_type, p.coupon_code, p.discount_cents, p.purchased_at
		FROM purchases p
		LEFT JOIN products pr ON pr.id = p.product_id
		WHERE p.user_id = $1
		ORDER BY p.purchased_at DESC, p.id`, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query user purchases", err)
	}
	defer rows.Close()

	var views []queries.PurchaseView
	for rows.Next() {
		var v queries.PurchaseView
		err := rows.Scan(
			&v.ID,
			&v.ProductID,
			&v.ProductName,
			&v.ReplayID,
			&v.EventYear,
			&v.PaymentReference,
			&v.OrderType,
			&v.CouponCode,
			&v.DiscountCents,
			&v.PurchasedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan user purchase", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate user purchases", err)
	}
	return views, nil
}

func scanPurchase(row pgx.Row) (*commands.PurchaseRecord, error) {
	var rec commands.PurchaseRecord
	var orderType string
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.PayerEmail,
		&rec.ProductID,
		&rec.ReplayID,
		&rec.EventYear,
		&rec.PaymentReference,
		&orderType,
		&rec.CouponCode,
		&rec.DiscountCents,
		&rec.PurchasedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.OrderType = orderType
	return &rec, nil
}
