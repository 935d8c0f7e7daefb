package readstore

import (
	"context"

	"digistore/internal/infra"
	"digistore/internal/infra/db"
	"digistore/internal/pkg/pgconv"
	"digistore/internal/usecase/queries"
	"digistore/internal/usecase/shared"

	"github.com/google/uuid"
)

type PurchaseReadStore struct {
	db db.DBTX
}

func NewPurchaseReadStore(db db.DBTX) *PurchaseReadStore {
	return &PurchaseReadStore{db: db}
}

const purchaseSnapshotColumns = `
	id, customer_id, product_id, variant_id, creator_id,
	provider, COALESCE(provider_order_id, ''), amount_cents, currency,
	platform_fee_cents, creator_earnings_cents, license_key, status,
	discount_code_id, discount_amount_cents, purchased_at, refunded_at
`

func (r *PurchaseReadStore) scanSnapshot(row interface{ Scan(dest ...any) error }) (*shared.PurchaseSnapshot, error) {
	var snap shared.PurchaseSnapshot
	err := row.Scan(
		&snap.ID, &snap.CustomerID, &snap.ProductID, &snap.VariantID, &snap.CreatorID,
		&snap.Provider, &snap.ProviderOrderID, &snap.AmountCents, &snap.Currency,
		&snap.PlatformFeeCents, &snap.CreatorEarningsCents, &snap.LicenseKey, &snap.Status,
		&snap.DiscountCodeID, &snap.DiscountAmountCents, &snap.PurchasedAt, &snap.RefundedAt,
	)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (r *PurchaseReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.PurchaseSnapshot, error) {
	snap, err := r.scanSnapshot(r.db.QueryRow(ctx,
		`SELECT `+purchaseSnapshotColumns+` FROM purchases WHERE id = $1`, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("purchase not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find purchase by ID", err)
	}
	return snap, nil
}

func (r *PurchaseReadStore) FindByLicenseKey(ctx context.Context, key string) (*shared.PurchaseSnapshot, error) {
	snap, err := r.scanSnapshot(r.db.QueryRow(ctx,
		`SELECT `+purchaseSnapshotColumns+` FROM purchases WHERE license_key = $1`, key))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("license not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find purchase by license key", err)
	}
	return snap, nil
}

// FindByProviderOrder returns every purchase stamped with the provider order,
// i.e. the whole cart of a single checkout.
func (r *PurchaseReadStore) FindByProviderOrder(ctx context.Context, orderID string) ([]*shared.PurchaseSnapshot, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+purchaseSnapshotColumns+` FROM purchases WHERE provider_order_id = $1 ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find purchases by provider order", err)
	}
	defer rows.Close()

	var result []*shared.PurchaseSnapshot
	for rows.Next() {
		snap, err := r.scanSnapshot(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan purchase row", err)
		}
		result = append(result, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read purchase rows", err)
	}
	return result, nil
}

// CreatorOfLicense resolves the creator who sold the given license key.
func (r *PurchaseReadStore) CreatorOfLicense(ctx context.Context, key string) (uuid.UUID, error) {
	var creatorID uuid.UUID
	err := r.db.QueryRow(ctx,
		`SELECT creator_id FROM purchases WHERE license_key = $1`, key).Scan(&creatorID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return uuid.Nil, infra.WrapRepoErr("license not found", err, infra.KindNotFound)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to resolve license creator", err)
	}
	return creatorID, nil
}

func (r *PurchaseReadStore) FindViewByID(ctx context.Context, id uuid.UUID) (*queries.PurchaseView, error) {
	var view queries.PurchaseView
	err := r.db.QueryRow(ctx, `
SELECT
	p.id, p.customer_id, p.product_id, pr.name, p.variant_id, v.name,
	p.creator_id, p.provider, p.amount_cents, p.currency,
	p.platform_fee_cents, p.creator_earnings_cents, p.license_key, p.status,
	d.code, p.discount_amount_cents, p.purchased_at, p.refunded_at, p.created_at
FROM purchases p
JOIN products pr ON pr.id = p.product_id
LEFT JOIN product_variants v ON v.id = p.variant_id
LEFT JOIN discount_codes d ON d.id = p.discount_code_id
WHERE p.id = $1
`, id).Scan(
		&view.ID, &view.CustomerID, &view.ProductID, &view.ProductName, &view.VariantID, &view.VariantName,
		&view.CreatorID, &view.Provider, &view.AmountCents, &view.Currency,
		&view.PlatformFeeCents, &view.CreatorEarningsCents, &view.LicenseKey, &view.Status,
		&view.DiscountCode, &view.DiscountAmountCents, &view.PurchasedAt, &view.RefundedAt, &view.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("purchase not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find purchase view", err)
	}
	return &view, nil
}

func (r *PurchaseReadStore) FindByCustomerID(ctx context.Context, customerID uuid.UUID, limit, offset int32) ([]*queries.PurchaseListItem, error) {
	rows, err := r.db.Query(ctx, `
SELECT p.id, p.product_id, pr.name, p.amount_cents, p.currency, p.status, p.license_key, p.purchased_at, p.created_at
FROM purchases p
JOIN products pr ON pr.id = p.product_id
WHERE p.customer_id = $1
ORDER BY p.created_at DESC, p.id DESC
LIMIT $2 OFFSET $3
`, customerID, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find purchases by customer", err)
	}
	defer rows.Close()

	var result []*queries.PurchaseListItem
	for rows.Next() {
		var item queries.PurchaseListItem
		if err := rows.Scan(
			&item.ID, &item.ProductID, &item.ProductName, &item.AmountCents,
			&item.Currency, &item.Status, &item.LicenseKey, &item.PurchasedAt, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan purchase list row", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read purchase list rows", err)
	}
	return result, nil
}
