//go:build unit

package purchase_test

import (
	"testing"

	"digistore/internal/domain/purchase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFee(t *testing.T) {
	testCases := []struct {
		name         string
		amountCents  int64
		feePercent   int64
		wantFee      int64
		wantEarnings int64
	}{
		{name: "default 5 percent of 8000", amountCents: 8000, feePercent: 5, wantFee: 400, wantEarnings: 7600},
		{name: "fee floors on odd amounts", amountCents: 999, feePercent: 5, wantFee: 49, wantEarnings: 950},
		{name: "zero amount", amountCents: 0, feePercent: 5, wantFee: 0, wantEarnings: 0},
		{name: "zero fee percent", amountCents: 8000, feePercent: 0, wantFee: 0, wantEarnings: 8000},
		{name: "full fee percent", amountCents: 8000, feePercent: 100, wantFee: 8000, wantEarnings: 0},
		{name: "one cent", amountCents: 1, feePercent: 5, wantFee: 0, wantEarnings: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			split, err := purchase.SplitFee(tc.amountCents, tc.feePercent)
			require.NoError(t, err)
			assert.Equal(t, tc.wantFee, split.PlatformFeeCents)
			assert.Equal(t, tc.wantEarnings, split.CreatorEarningsCents)
			assert.Equal(t, tc.amountCents, split.PlatformFeeCents+split.CreatorEarningsCents)
		})
	}
}

func TestSplitFee_Conservation(t *testing.T) {
	// Fee plus earnings must equal the amount for every percent.
	for percent := int64(0); percent <= 100; percent++ {
		split, err := purchase.SplitFee(12345, percent)
		require.NoError(t, err)
		assert.Equal(t, int64(12345), split.PlatformFeeCents+split.CreatorEarningsCents)
	}
}

func TestSplitFee_InvalidPercent(t *testing.T) {
	_, err := purchase.SplitFee(1000, -1)
	assert.ErrorIs(t, err, purchase.ErrInvalidFeePercent)

	_, err = purchase.SplitFee(1000, 101)
	assert.ErrorIs(t, err, purchase.ErrInvalidFeePercent)
}
