package shared

import (
	"time"

	"github.com/google/uuid"
)

// Minimal snapshots for command-side reads. The catalog rows are owned by the
// out-of-scope product service; this module only ever reads them.

type ProductSnapshot struct {
	ID         uuid.UUID
	CreatorID  uuid.UUID
	PriceCents int64
	Currency   string
	IsActive   bool
}

type VariantSnapshot struct {
	ID         uuid.UUID
	ProductID  uuid.UUID
	PriceCents int64
}

type DiscountSnapshot struct {
	ID         uuid.UUID
	CreatorID  uuid.UUID
	Code       string
	Kind       string
	Value      int64
	AppliesTo  string
	ProductIDs []uuid.UUID
	UsageLimit *int32
	TimesUsed  int32
	ExpiresAt  *time.Time
	IsActive   bool
}

type PurchaseSnapshot struct {
	ID                   uuid.UUID
	CustomerID           uuid.UUID
	ProductID            uuid.UUID
	VariantID            *uuid.UUID
	CreatorID            uuid.UUID
	Provider             string
	ProviderOrderID      string
	AmountCents          int64
	Currency             string
	PlatformFeeCents     int64
	CreatorEarningsCents int64
	LicenseKey           string
	Status               string
	DiscountCodeID       *uuid.UUID
	DiscountAmountCents  int64
	PurchasedAt          *time.Time
	RefundedAt           *time.Time
}

type ActivationSnapshot struct {
	ID          uuid.UUID
	LicenseKey  string
	MachineID   string
	DeviceName  *string
	OSInfo      *string
	IPAddress   *string
	IsActive    bool
	ActivatedAt time.Time
}

// LedgerSnapshot aggregates a creator's settled history for balance math.
type LedgerSnapshot struct {
	EarnedCents          int64 // Σ creator earnings over COMPLETED purchases
	CompletedPayoutCents int64 // Σ amount over COMPLETED payouts
	PendingPayoutCents   int64 // Σ amount over PENDING and PROCESSING payouts
}

func (l LedgerSnapshot) AvailableCents() int64 {
	return l.EarnedCents - l.CompletedPayoutCents - l.PendingPayoutCents
}
