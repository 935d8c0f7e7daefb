package repository

import (
	"context"

	"digistore/internal/infra"
	"digistore/internal/infra/db"

	"github.com/google/uuid"
)

type DiscountRepository struct{}

func NewDiscountRepository() *DiscountRepository {
	return &DiscountRepository{}
}

// IncrementUsage is the only mutation path for times_used. The limit guard
// lives in the same statement, so concurrent settlements cannot overshoot a
// usage_limit between a read and a write.
func (r *DiscountRepository) IncrementUsage(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (bool, error) {
	tag, err := dbtx.Exec(ctx, `
UPDATE discount_codes
SET times_used = times_used + 1, updated_at = now()
WHERE id = $1 AND (usage_limit IS NULL OR times_used < usage_limit)
`, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to increment discount usage", err)
	}
	return tag.RowsAffected() > 0, nil
}
