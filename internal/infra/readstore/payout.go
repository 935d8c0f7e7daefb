package readstore

import (
	"context"

	"digistore/internal/infra"
	"digistore/internal/infra/db"
	"digistore/internal/usecase/queries"
	"digistore/internal/usecase/shared"

	"github.com/google/uuid"
)

type PayoutReadStore struct {
	db db.DBTX
}

func NewPayoutReadStore(db db.DBTX) *PayoutReadStore {
	return &PayoutReadStore{db: db}
}

// Ledger aggregates a creator's settled earnings against their payout history.
// Refunded purchases fall out of the earned sum entirely.
func (r *PayoutReadStore) Ledger(ctx context.Context, creatorID uuid.UUID) (*shared.LedgerSnapshot, error) {
	var snap shared.LedgerSnapshot
	err := r.db.QueryRow(ctx, `
SELECT
	COALESCE((SELECT SUM(creator_earnings_cents) FROM purchases
		WHERE creator_id = $1 AND status = 'COMPLETED'), 0),
	COALESCE((SELECT SUM(amount_cents) FROM payouts
		WHERE creator_id = $1 AND status = 'COMPLETED'), 0),
	COALESCE((SELECT SUM(amount_cents) FROM payouts
		WHERE creator_id = $1 AND status IN ('PENDING', 'PROCESSING')), 0)
`, creatorID).Scan(&snap.EarnedCents, &snap.CompletedPayoutCents, &snap.PendingPayoutCents)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to aggregate creator ledger", err)
	}
	return &snap, nil
}

func (r *PayoutReadStore) BalanceByCreatorID(ctx context.Context, creatorID uuid.UUID) (*queries.BalanceView, error) {
	ledger, err := r.Ledger(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	return &queries.BalanceView{
		CreatorID:            creatorID,
		EarnedCents:          ledger.EarnedCents,
		CompletedPayoutCents: ledger.CompletedPayoutCents,
		PendingPayoutCents:   ledger.PendingPayoutCents,
		AvailableCents:       ledger.AvailableCents(),
	}, nil
}

func (r *PayoutReadStore) FindByCreatorID(ctx context.Context, creatorID uuid.UUID, limit, offset int32) ([]*queries.PayoutView, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, amount_cents, currency, status, processed_at, completed_at, failure_reason, created_at
FROM payouts
WHERE creator_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`, creatorID, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find payouts by creator", err)
	}
	defer rows.Close()

	var result []*queries.PayoutView
	for rows.Next() {
		var view queries.PayoutView
		if err := rows.Scan(
			&view.ID, &view.AmountCents, &view.Currency, &view.Status,
			&view.ProcessedAt, &view.CompletedAt, &view.FailureReason, &view.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan payout row", err)
		}
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read payout rows", err)
	}
	return result, nil
}
