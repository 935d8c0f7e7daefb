package purchase

import (
	"errors"
	"time"

	"digistore/internal/domain/license"

	"github.com/google/uuid"
)

var (
	ErrNegativeAmount    = errors.New("purchase amount cannot be negative")
	ErrDiscountExceeds   = errors.New("discount cannot exceed the price")
	ErrSplitNotConserved = errors.New("platform fee and creator earnings must sum to the amount")
	ErrMissingCurrency   = errors.New("currency required")
)

type Purchase struct {
	id                    uuid.UUID
	customerID            uuid.UUID
	productID             uuid.UUID
	variantID             *uuid.UUID
	creatorID             uuid.UUID
	provider              string
	providerOrderID       string
	amountCents           int64
	currency              string
	platformFeeCents      int64
	creatorEarningsCents  int64
	licenseKey            license.Key
	status                Status
	discountCodeID        *uuid.UUID
	discountAmountCents   int64
	providerTransactionID *string
	purchasedAt           *time.Time
	refundedAt            *time.Time
	createdAt             time.Time
	updatedAt             time.Time
}

type NewPurchaseParams struct {
	CustomerID          uuid.UUID
	ProductID           uuid.UUID
	VariantID           *uuid.UUID
	CreatorID           uuid.UUID
	Provider            string
	PriceCents          int64
	Currency            string
	FeePercent          int64
	DiscountCodeID      *uuid.UUID
	DiscountAmountCents int64
}

// NewPurchase builds a PENDING purchase with its license key pre-assigned.
// Money invariants are established here: amount = price - discount and
// platformFee + creatorEarnings = amount.
func NewPurchase(p NewPurchaseParams) (*Purchase, error) {
	if p.Currency == "" {
		return nil, ErrMissingCurrency
	}
	if p.DiscountAmountCents < 0 || p.PriceCents < 0 {
		return nil, ErrNegativeAmount
	}
	if p.DiscountAmountCents > p.PriceCents {
		return nil, ErrDiscountExceeds
	}

	amount := p.PriceCents - p.DiscountAmountCents
	split, err := SplitFee(amount, p.FeePercent)
	if err != nil {
		return nil, err
	}

	key, err := license.IssueKey()
	if err != nil {
		return nil, err
	}

	return &Purchase{
		id:                   uuid.New(),
		customerID:           p.CustomerID,
		productID:            p.ProductID,
		variantID:            p.VariantID,
		creatorID:            p.CreatorID,
		provider:             p.Provider,
		amountCents:          amount,
		currency:             p.Currency,
		platformFeeCents:     split.PlatformFeeCents,
		creatorEarningsCents: split.CreatorEarningsCents,
		licenseKey:           key,
		status:               StatusPending,
		discountCodeID:       p.DiscountCodeID,
		discountAmountCents:  p.DiscountAmountCents,
	}, nil
}

type ReconstructParams struct {
	ID                    uuid.UUID
	CustomerID            uuid.UUID
	ProductID             uuid.UUID
	VariantID             *uuid.UUID
	CreatorID             uuid.UUID
	Provider              string
	ProviderOrderID       string
	AmountCents           int64
	Currency              string
	PlatformFeeCents      int64
	CreatorEarningsCents  int64
	LicenseKey            license.Key
	Status                Status
	DiscountCodeID        *uuid.UUID
	DiscountAmountCents   int64
	ProviderTransactionID *string
	PurchasedAt           *time.Time
	RefundedAt            *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func Reconstruct(p ReconstructParams) (*Purchase, error) {
	if p.PlatformFeeCents+p.CreatorEarningsCents != p.AmountCents {
		return nil, ErrSplitNotConserved
	}
	return &Purchase{
		id:                    p.ID,
		customerID:            p.CustomerID,
		productID:             p.ProductID,
		variantID:             p.VariantID,
		creatorID:             p.CreatorID,
		provider:              p.Provider,
		providerOrderID:       p.ProviderOrderID,
		amountCents:           p.AmountCents,
		currency:              p.Currency,
		platformFeeCents:      p.PlatformFeeCents,
		creatorEarningsCents:  p.CreatorEarningsCents,
		licenseKey:            p.LicenseKey,
		status:                p.Status,
		discountCodeID:        p.DiscountCodeID,
		discountAmountCents:   p.DiscountAmountCents,
		providerTransactionID: p.ProviderTransactionID,
		purchasedAt:           p.PurchasedAt,
		refundedAt:            p.RefundedAt,
		createdAt:             p.CreatedAt,
		updatedAt:             p.UpdatedAt,
	}, nil
}

// AttachProviderOrder records the provider-side order identifier created at
// checkout. Sibling cart lines share the same identifier.
func (p *Purchase) AttachProviderOrder(orderID string) {
	p.providerOrderID = orderID
}

func (p *Purchase) Complete(transactionID string, now time.Time) error {
	if !p.status.CanTransitionTo(StatusCompleted) {
		return ErrIllegalTransition
	}
	p.status = StatusCompleted
	p.providerTransactionID = &transactionID
	p.purchasedAt = &now
	return nil
}

func (p *Purchase) Fail() error {
	if !p.status.CanTransitionTo(StatusFailed) {
		return ErrIllegalTransition
	}
	p.status = StatusFailed
	return nil
}

func (p *Purchase) Refund(now time.Time) error {
	if !p.status.CanTransitionTo(StatusRefunded) {
		return ErrIllegalTransition
	}
	p.status = StatusRefunded
	p.refundedAt = &now
	return nil
}

// LicenseValid reports whether the license key attached to this purchase
// grants entitlement: only COMPLETED purchases do.
func (p *Purchase) LicenseValid() bool {
	return p.status == StatusCompleted
}

func (p *Purchase) ID() uuid.UUID                  { return p.id }
func (p *Purchase) CustomerID() uuid.UUID          { return p.customerID }
func (p *Purchase) ProductID() uuid.UUID           { return p.productID }
func (p *Purchase) VariantID() *uuid.UUID          { return p.variantID }
func (p *Purchase) CreatorID() uuid.UUID           { return p.creatorID }
func (p *Purchase) Provider() string               { return p.provider }
func (p *Purchase) ProviderOrderID() string        { return p.providerOrderID }
func (p *Purchase) AmountCents() int64             { return p.amountCents }
func (p *Purchase) Currency() string               { return p.currency }
func (p *Purchase) PlatformFeeCents() int64        { return p.platformFeeCents }
func (p *Purchase) CreatorEarningsCents() int64    { return p.creatorEarningsCents }
func (p *Purchase) LicenseKey() license.Key        { return p.licenseKey }
func (p *Purchase) Status() Status                 { return p.status }
func (p *Purchase) DiscountCodeID() *uuid.UUID     { return p.discountCodeID }
func (p *Purchase) DiscountAmountCents() int64     { return p.discountAmountCents }
func (p *Purchase) ProviderTransactionID() *string { return p.providerTransactionID }
func (p *Purchase) PurchasedAt() *time.Time        { return p.purchasedAt }
func (p *Purchase) RefundedAt() *time.Time         { return p.refundedAt }
func (p *Purchase) CreatedAt() time.Time           { return p.createdAt }
func (p *Purchase) UpdatedAt() time.Time           { return p.updatedAt }
