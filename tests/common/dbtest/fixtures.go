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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestProduct(t *testing.T, db DBLike, creatorID uuid.UUID, name string, priceCents int64) uuid.UUID {
	t.Helper()

	productID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO products (id, creator_id, name, price_cents, currency, is_active) VALUES ($1, $2, $3, $4, 'USD', true)",
		productID, creatorID, name, priceCents)
	require.NoError(t, err)

	return productID
}

func CreateTestVariant(t *testing.T, db DBLike, productID uuid.UUID, name string, priceCents int64) uuid.UUID {
	t.Helper()

	variantID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO product_variants (id, product_id, name, price_cents) VALUES ($1, $2, $3, $4)",
		variantID, productID, name, priceCents)
	require.NoError(t, err)

	return variantID
}

func CreateTestDiscountCode(t *testing.T, db DBLike, creatorID uuid.UUID, code, kind string, value int64, usageLimit *int32) uuid.UUID {
	t.Helper()

	codeID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO discount_codes (id, creator_id, code, kind, value, applies_to, usage_limit, is_active) VALUES ($1, $2, $3, $4, $5, 'all', $6, true) ON CONFLICT DO NOTHING",
		codeID, creatorID, code, kind, value, usageLimit)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM discount_codes WHERE code = $1", code).Scan(&codeID)
	}

	return codeID
}

func CreateTestPurchase(t *testing.T, db DBLike, customerID, productID, creatorID uuid.UUID, licenseKey, status string, amountCents int64) uuid.UUID {
	t.Helper()

	purchaseID := uuid.New()
	ctx := context.Background()

	feeCents := amountCents * 5 / 100
	_, err := db.Exec(ctx, `
		INSERT INTO purchases (
			id, customer_id, product_id, creator_id, provider,
			amount_cents, currency, platform_fee_cents, creator_earnings_cents,
			license_key, status, purchased_at
		) VALUES ($1, $2, $3, $4, 'sandbox', $5, 'USD', $6, $7, $8, $9,
			CASE WHEN $9 = 'COMPLETED' THEN now() ELSE NULL END)`,
		purchaseID, customerID, productID, creatorID,
		amountCents, feeCents, amountCents-feeCents, licenseKey, status)
	require.NoError(t, err)

	return purchaseID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
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

	return nil
}
