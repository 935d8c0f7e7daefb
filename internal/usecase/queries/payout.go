package queries

import (
	"context"

	"github.com/google/uuid"
)

type PayoutQueries interface {
	Balance(ctx context.Context, creatorID uuid.UUID) (*BalanceView, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int32) ([]*PayoutView, error)
}

type PayoutViewRepo interface {
	BalanceByCreatorID(ctx context.Context, creatorID uuid.UUID) (*BalanceView, error)
	FindByCreatorID(ctx context.Context, creatorID uuid.UUID, limit, offset int32) ([]*PayoutView, error)
}

type payoutQueriesImpl struct {
	repo               PayoutViewRepo
	currency           string
	minimumPayoutCents int64
}

func NewPayoutQueries(repo PayoutViewRepo, currency string, minimumPayoutCents int64) PayoutQueries {
	return &payoutQueriesImpl{repo: repo, currency: currency, minimumPayoutCents: minimumPayoutCents}
}

func (q *payoutQueriesImpl) Balance(ctx context.Context, creatorID uuid.UUID) (*BalanceView, error) {
	view, err := q.repo.BalanceByCreatorID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	view.Currency = q.currency
	view.IsEligible = view.AvailableCents >= q.minimumPayoutCents
	return view, nil
}

func (q *payoutQueriesImpl) ListByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int32) ([]*PayoutView, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return q.repo.FindByCreatorID(ctx, creatorID, limit, offset)
}
