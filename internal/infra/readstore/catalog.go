package readstore

import (
	"context"

	"digistore/internal/infra"
	"digistore/internal/infra/db"
	"digistore/internal/pkg/pgconv"
	"digistore/internal/usecase/shared"

	"github.com/google/uuid"
)

// CatalogReadStore reads the product and variant rows owned by the catalog
// service. This module never writes them.
type CatalogReadStore struct {
	db db.DBTX
}

func NewCatalogReadStore(db db.DBTX) *CatalogReadStore {
	return &CatalogReadStore{db: db}
}

func (r *CatalogReadStore) FindProductByID(ctx context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	var snap shared.ProductSnapshot
	err := r.db.QueryRow(ctx, `
SELECT id, creator_id, price_cents, currency, is_active
FROM products
WHERE id = $1
`, id).Scan(&snap.ID, &snap.CreatorID, &snap.PriceCents, &snap.Currency, &snap.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product by ID", err)
	}
	return &snap, nil
}

func (r *CatalogReadStore) FindVariantByID(ctx context.Context, id uuid.UUID) (*shared.VariantSnapshot, error) {
	var snap shared.VariantSnapshot
	err := r.db.QueryRow(ctx, `
SELECT id, product_id, price_cents
FROM product_variants
WHERE id = $1
`, id).Scan(&snap.ID, &snap.ProductID, &snap.PriceCents)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("variant not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find variant by ID", err)
	}
	return &snap, nil
}
