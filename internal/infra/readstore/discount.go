package readstore

import (
	"context"

	"digistore/internal/infra"
	"digistore/internal/infra/db"
	"digistore/internal/pkg/pgconv"
	"digistore/internal/usecase/shared"

	"github.com/google/uuid"
)

type DiscountReadStore struct {
	db db.DBTX
}

func NewDiscountReadStore(db db.DBTX) *DiscountReadStore {
	return &DiscountReadStore{db: db}
}

func (r *DiscountReadStore) FindByCode(ctx context.Context, code string) (*shared.DiscountSnapshot, error) {
	var snap shared.DiscountSnapshot
	err := r.db.QueryRow(ctx, `
SELECT id, creator_id, code, kind, value, applies_to, usage_limit, times_used, expires_at, is_active
FROM discount_codes
WHERE code = $1
`, code).Scan(
		&snap.ID, &snap.CreatorID, &snap.Code, &snap.Kind, &snap.Value,
		&snap.AppliesTo, &snap.UsageLimit, &snap.TimesUsed, &snap.ExpiresAt, &snap.IsActive,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("discount code not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find discount code", err)
	}

	rows, err := r.db.Query(ctx, `
SELECT product_id FROM discount_code_products WHERE discount_code_id = $1
`, snap.ID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load discount code products", err)
	}
	defer rows.Close()
	for rows.Next() {
		var productID uuid.UUID
		if err := rows.Scan(&productID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan discount code product", err)
		}
		snap.ProductIDs = append(snap.ProductIDs, productID)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read discount code products", err)
	}
	return &snap, nil
}
