package purchase

import "errors"

var ErrInvalidFeePercent = errors.New("fee percent must be between 0 and 100")

const DefaultFeePercent = 5

type FeeSplit struct {
	PlatformFeeCents     int64
	CreatorEarningsCents int64
}

// SplitFee divides a sale amount between platform and creator. The platform
// fee floors, the creator keeps the remainder, so the two halves always sum
// to the amount exactly.
func SplitFee(amountCents int64, feePercent int64) (FeeSplit, error) {
	if feePercent < 0 || feePercent > 100 {
		return FeeSplit{}, ErrInvalidFeePercent
	}
	if amountCents < 0 {
		amountCents = 0
	}
	fee := amountCents * feePercent / 100
	return FeeSplit{
		PlatformFeeCents:     fee,
		CreatorEarningsCents: amountCents - fee,
	}, nil
}
