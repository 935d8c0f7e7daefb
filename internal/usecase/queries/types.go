package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type PurchaseView struct {
	ID                   uuid.UUID  `json:"id"`
	CustomerID           uuid.UUID  `json:"customer_id"`
	ProductID            uuid.UUID  `json:"product_id"`
	ProductName          string     `json:"product_name"`
	VariantID            *uuid.UUID `json:"variant_id,omitempty"`
	VariantName          *string    `json:"variant_name,omitempty"`
	CreatorID            uuid.UUID  `json:"creator_id"`
	Provider             string     `json:"provider"`
	AmountCents          int64      `json:"amount_cents"`
	Currency             string     `json:"currency"`
	PlatformFeeCents     int64      `json:"platform_fee_cents"`
	CreatorEarningsCents int64      `json:"creator_earnings_cents"`
	LicenseKey           string     `json:"license_key"`
	Status               string     `json:"status"`
	DiscountCode         *string    `json:"discount_code,omitempty"`
	DiscountAmountCents  int64      `json:"discount_amount_cents"`
	PurchasedAt          *time.Time `json:"purchased_at,omitempty"`
	RefundedAt           *time.Time `json:"refunded_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

type PurchaseListItem struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   uuid.UUID  `json:"product_id"`
	ProductName string     `json:"product_name"`
	AmountCents int64      `json:"amount_cents"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	LicenseKey  string     `json:"license_key"`
	PurchasedAt *time.Time `json:"purchased_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ActivationView struct {
	ID            uuid.UUID  `json:"id"`
	MachineID     string     `json:"machine_id"`
	DeviceName    *string    `json:"device_name,omitempty"`
	OSInfo        *string    `json:"os_info,omitempty"`
	IPAddress     *string    `json:"ip_address,omitempty"`
	IsActive      bool       `json:"is_active"`
	ActivatedAt   time.Time  `json:"activated_at"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
}

type PayoutView struct {
	ID            uuid.UUID  `json:"id"`
	AmountCents   int64      `json:"amount_cents"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	FailureReason *string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type BalanceView struct {
	CreatorID            uuid.UUID `json:"creator_id"`
	Currency             string    `json:"currency"`
	EarnedCents          int64     `json:"earned_cents"`
	CompletedPayoutCents int64     `json:"completed_payout_cents"`
	PendingPayoutCents   int64     `json:"pending_payout_cents"`
	AvailableCents       int64     `json:"available_cents"`
	// IsEligible reports whether the available balance clears the payout minimum.
	IsEligible bool `json:"is_eligible"`
}
