package repository

import (
	"context"
	"errors"

	"conftix/internal/infra"
	"conftix/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, slug, name, kind, event_year, replay_id, amount_cents, currency, active`

func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*commands.ProductSnapshot, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	snapshot, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product", err)
	}
	return snapshot, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]commands.ProductSnapshot, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query products", err)
	}
	defer rows.Close()

	snapshots := make([]commands.ProductSnapshot, 0, len(ids))
	for rows.Next() {
		snapshot, err := scanProduct(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan product", err)
		}
		snapshots = append(snapshots, *snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate products", err)
	}
	return snapshots, nil
}

func scanProduct(row pgx.Row) (*commands.ProductSnapshot, error) {
	var s commands.ProductSnapshot
	err := row.Scan(
		&s.ID,
		&s.Slug,
		&s.Name,
		&s.Kind,
		&s.EventYear,
		&s.ReplayID,
		&s.AmountCents,
		&s.Currency,
		&s.Active,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
