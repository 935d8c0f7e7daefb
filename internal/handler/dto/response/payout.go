package response

import (
	"time"

	"digistore/internal/usecase/commands"
	"digistore/internal/usecase/queries"

	"github.com/google/uuid"
)

type PayoutResponse struct {
	PayoutID       uuid.UUID `json:"payout_id"`
	AmountCents    int64     `json:"amount_cents"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	AvailableCents int64     `json:"available_cents"`
}

func FromPayoutResult(result *commands.PayoutResult) PayoutResponse {
	return PayoutResponse{
		PayoutID:       result.PayoutID,
		AmountCents:    result.AmountCents,
		Currency:       result.Currency,
		Status:         result.Status,
		AvailableCents: result.AvailableCents,
	}
}

type BalanceResponse struct {
	Currency             string `json:"currency"`
	EarnedCents          int64  `json:"earned_cents"`
	CompletedPayoutCents int64  `json:"completed_payout_cents"`
	PendingPayoutCents   int64  `json:"pending_payout_cents"`
	AvailableCents       int64  `json:"available_cents"`
	IsEligible           bool   `json:"is_eligible"`
}

func FromBalanceView(view *queries.BalanceView) BalanceResponse {
	return BalanceResponse{
		Currency:             view.Currency,
		EarnedCents:          view.EarnedCents,
		CompletedPayoutCents: view.CompletedPayoutCents,
		PendingPayoutCents:   view.PendingPayoutCents,
		AvailableCents:       view.AvailableCents,
		IsEligible:           view.IsEligible,
	}
}

type PayoutViewResponse struct {
	ID            uuid.UUID  `json:"id"`
	AmountCents   int64      `json:"amount_cents"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	FailureReason *string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func FromPayoutViews(views []*queries.PayoutView) []PayoutViewResponse {
	result := make([]PayoutViewResponse, len(views))
	for i, v := range views {
		result[i] = PayoutViewResponse{
			ID:            v.ID,
			AmountCents:   v.AmountCents,
			Currency:      v.Currency,
			Status:        v.Status,
			ProcessedAt:   v.ProcessedAt,
			CompletedAt:   v.CompletedAt,
			FailureReason: v.FailureReason,
			CreatedAt:     v.CreatedAt,
		}
	}
	return result
}
