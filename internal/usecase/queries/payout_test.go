//go:build unit

package queries_test

import (
	"context"
	"testing"

	"digistore/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPayoutViewRepo struct {
	balance *queries.BalanceView

	gotLimit  int32
	gotOffset int32
}

func (s *stubPayoutViewRepo) BalanceByCreatorID(_ context.Context, _ uuid.UUID) (*queries.BalanceView, error) {
	return s.balance, nil
}

func (s *stubPayoutViewRepo) FindByCreatorID(_ context.Context, _ uuid.UUID, limit, offset int32) ([]*queries.PayoutView, error) {
	s.gotLimit, s.gotOffset = limit, offset
	return nil, nil
}

func TestPayoutQueries_Balance(t *testing.T) {
	const minimum = int64(1000)
	creatorID := uuid.New()

	testCases := []struct {
		name           string
		availableCents int64
		wantEligible   bool
	}{
		{"available above the minimum is eligible", 6500, true},
		{"available exactly at the minimum is eligible", 1000, true},
		{"available below the minimum is not eligible", 999, false},
		{"empty ledger is not eligible", 0, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubPayoutViewRepo{balance: &queries.BalanceView{
				CreatorID:      creatorID,
				AvailableCents: tc.availableCents,
			}}
			q := queries.NewPayoutQueries(repo, "USD", minimum)

			view, err := q.Balance(context.Background(), creatorID)
			require.NoError(t, err)

			assert.Equal(t, tc.wantEligible, view.IsEligible)
			assert.Equal(t, "USD", view.Currency)
		})
	}
}

func TestPayoutQueries_ListByCreator(t *testing.T) {
	t.Run("non-positive paging falls back to defaults", func(t *testing.T) {
		repo := &stubPayoutViewRepo{}
		q := queries.NewPayoutQueries(repo, "USD", 1000)

		_, err := q.ListByCreator(context.Background(), uuid.New(), 0, -3)
		require.NoError(t, err)

		assert.Equal(t, int32(50), repo.gotLimit)
		assert.Equal(t, int32(0), repo.gotOffset)
	})
}
