package repository

import (
	"context"
	"errors"
	"time"

	"digistore/internal/domain/purchase"
	"digistore/internal/infra"
	"digistore/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrCodeUniqueViolation = "23505"

type PurchaseRepository struct{}

func NewPurchaseRepository() *PurchaseRepository {
	return &PurchaseRepository{}
}

func (r *PurchaseRepository) Create(ctx context.Context, dbtx db.DBTX, p *purchase.Purchase) (uuid.UUID, error) {
	_, err := dbtx.Exec(ctx, `
INSERT INTO purchases (
	id, customer_id, product_id, variant_id, creator_id, provider,
	amount_cents, currency, platform_fee_cents, creator_earnings_cents,
	license_key, status, discount_code_id, discount_amount_cents
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
`,
		p.ID(), p.CustomerID(), p.ProductID(), p.VariantID(), p.CreatorID(), p.Provider(),
		p.AmountCents(), p.Currency(), p.PlatformFeeCents(), p.CreatorEarningsCents(),
		p.LicenseKey().String(), p.Status().String(), p.DiscountCodeID(), p.DiscountAmountCents(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return uuid.Nil, infra.WrapRepoErr("duplicate purchase", err, infra.KindDuplicateKey)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create purchase", err)
	}
	return p.ID(), nil
}

func (r *PurchaseRepository) AttachProviderOrder(ctx context.Context, dbtx db.DBTX, ids []uuid.UUID, orderID string) error {
	tag, err := dbtx.Exec(ctx, `
UPDATE purchases
SET provider_order_id = $1, updated_at = now()
WHERE id = ANY($2) AND status = 'PENDING'
`, orderID, ids)
	if err != nil {
		return infra.WrapRepoErr("failed to attach provider order", err)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return infra.WrapRepoErr("provider order attached to unexpected row count", nil, infra.KindConflict)
	}
	return nil
}

// Complete is the idempotence gate of the settlement path: the transition is
// a conditional update, and the caller runs side effects only when the update
// actually moved the row out of PENDING.
func (r *PurchaseRepository) Complete(ctx context.Context, dbtx db.DBTX, id uuid.UUID, transactionID string, now time.Time) (bool, error) {
	tag, err := dbtx.Exec(ctx, `
UPDATE purchases
SET status = 'COMPLETED', provider_transaction_id = $2, purchased_at = $3, updated_at = now()
WHERE id = $1 AND status = 'PENDING'
`, id, transactionID, now)
	if err != nil {
		return false, infra.WrapRepoErr("failed to complete purchase", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PurchaseRepository) Fail(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (bool, error) {
	tag, err := dbtx.Exec(ctx, `
UPDATE purchases
SET status = 'FAILED', updated_at = now()
WHERE id = $1 AND status = 'PENDING'
`, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to fail purchase", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PurchaseRepository) Refund(ctx context.Context, dbtx db.DBTX, id uuid.UUID, now time.Time) (bool, error) {
	tag, err := dbtx.Exec(ctx, `
UPDATE purchases
SET status = 'REFUNDED', refunded_at = $2, updated_at = now()
WHERE id = $1 AND status = 'COMPLETED'
`, id, now)
	if err != nil {
		return false, infra.WrapRepoErr("failed to refund purchase", err)
	}
	return tag.RowsAffected() > 0, nil
}
