package request

type RequestPayoutRequest struct {
	// AmountCents defaults to the full available balance when omitted.
	AmountCents *int64 `json:"amount_cents,omitempty" binding:"omitempty,min=1"`
}
