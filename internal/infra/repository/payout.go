package repository

import (
	"context"

	"digistore/internal/domain/payout"
	"digistore/internal/infra"
	"digistore/internal/infra/db"

	"github.com/google/uuid"
)

type PayoutRepository struct{}

func NewPayoutRepository() *PayoutRepository {
	return &PayoutRepository{}
}

func (r *PayoutRepository) Create(ctx context.Context, dbtx db.DBTX, p *payout.Payout) (uuid.UUID, error) {
	_, err := dbtx.Exec(ctx, `
INSERT INTO payouts (id, creator_id, amount_cents, currency, status)
VALUES ($1, $2, $3, $4, $5)
`, p.ID(), p.CreatorID(), p.AmountCents(), p.Currency(), p.Status().String())
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create payout", err)
	}
	return p.ID(), nil
}
