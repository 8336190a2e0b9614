package repository

import (
	"context"
	"errors"

	"conftix/internal/domain/user"
	"conftix/internal/infra"
	"conftix/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindIDByEmail(ctx context.Context, email string) (*uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = lower($1)`, email).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by email", err)
	}
	return &id, nil
}

func (r *UserRepository) FindEmailByID(ctx context.Context, id uuid.UUID) (string, error) {
	var email string
	err := r.pool.QueryRow(ctx,
		`SELECT email FROM users WHERE id = $1`, id).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return "", infra.WrapRepoErr("failed to find user by id", err)
	}
	return email, nil
}

// CreateAccount inserts a member account within the caller's transaction.
// When the email is already registered the existing id is returned instead,
// so guest checkout never races itself into an error.
func (r *UserRepository) CreateAccount(ctx context.Context, tx pgx.Tx, email, passwordHash string) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, role, is_active)
		VALUES ($1, lower($2), $3, $4, TRUE)
		ON CONFLICT (email) DO UPDATE SET email = users.email
		RETURNING id`,
		uuid.New(), email, passwordHash, string(user.RoleMember)).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create account", err)
	}
	return id, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET last_login = now() WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, role, is_active, last_login, created_at
		FROM users WHERE id = $1`, id)

	view, _, err := scanUserView(row, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user", err)
	}
	return view, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*queries.UserView, string, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, role, is_active, last_login, created_at, password_hash
		FROM users WHERE email = lower($1)`, email)

	view, hash, err := scanUserView(row, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}
	return view, hash, nil
}

func scanUserView(row pgx.Row, withHash bool) (*queries.UserView, string, error) {
	var v queries.UserView
	var hash string

	dest := []any{&v.ID, &v.Email, &v.Role, &v.IsActive, &v.LastLogin, &v.CreatedAt}
	if withHash {
		dest = append(dest, &hash)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, "", err
	}
	return &v, hash, nil
}
