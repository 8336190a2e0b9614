//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike covers both a pool and a transaction so fixtures can run inside
// either.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Seeded catalog rows, stable across test runs so assertions can reference them.
var (
	SeedReplayProductID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	SeedReplayID        = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	SeedBundleProductID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	SeedPercentCouponID = uuid.MustParse("44444444-4444-4444-4444-444444444444")
	SeedFixedCouponID   = uuid.MustParse("55555555-5555-5555-5555-555555555555")
)

// bcrypt hash of "password123"
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO users (id, email, password_hash, role, is_active) VALUES ($1, $2, $3, $4, true) ON CONFLICT (email) DO NOTHING",
		userID, email, testPasswordHash, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

func CreateTestCoupon(t *testing.T, db DBLike, code string, percentOff float64) uuid.UUID {
	t.Helper()

	couponID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO coupons (id, code, percent_off, active) VALUES ($1, $2, $3, true) ON CONFLICT (code) DO NOTHING",
		couponID, code, percentOff)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM coupons WHERE code = $1", code).Scan(&couponID)
	}

	return couponID
}

// inserts the catalog and coupon rows the e2e flows depend on
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO products (id, slug, name, kind, event_year, replay_id, amount_cents, currency, active) VALUES
		    ($1, 'keynote-replay-2025', 'Keynote Replay 2025', 'single_replay', 2025, $2, 9900, 'USD', true),
		    ($3, 'all-access-2025', 'All Access 2025', 'year_bundle', 2025, NULL, 19700, 'USD', true)
		ON CONFLICT (slug) DO NOTHING;
	`, SeedReplayProductID, SeedReplayID, SeedBundleProductID)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO coupons (id, code, amount_off_cents, percent_off, active) VALUES
		    ($1, 'SAVE10', NULL, 10.0, true),
		    ($2, 'TAKE5', 500, NULL, true)
		ON CONFLICT (code) DO NOTHING;
	`, SeedPercentCouponID, SeedFixedCouponID)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('goose_db_version')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
