package discount

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCodeInactive     = errors.New("discount code is inactive")
	ErrCodeExpired      = errors.New("discount code has expired")
	ErrCodeExhausted    = errors.New("discount code usage limit reached")
	ErrCodeNotForItem   = errors.New("discount code does not apply to this product")
	ErrMissingProductID = errors.New("product id required for product-scoped code")
)

type DiscountCode struct {
	id         uuid.UUID
	creatorID  uuid.UUID
	code       Code
	value      Value
	appliesTo  AppliesTo
	productIDs []uuid.UUID
	usageLimit *int32
	timesUsed  int32
	expiresAt  *time.Time
	isActive   bool
	createdAt  time.Time
	updatedAt  time.Time
}

func NewDiscountCode(
	creatorID uuid.UUID,
	code Code,
	value Value,
	appliesTo AppliesTo,
	productIDs []uuid.UUID,
	usageLimit *int32,
	expiresAt *time.Time,
) (*DiscountCode, error) {
	if appliesTo == AppliesToProducts && len(productIDs) == 0 {
		return nil, ErrMissingProductID
	}
	return &DiscountCode{
		id:         uuid.New(),
		creatorID:  creatorID,
		code:       code,
		value:      value,
		appliesTo:  appliesTo,
		productIDs: productIDs,
		usageLimit: usageLimit,
		isActive:   true,
		expiresAt:  expiresAt,
	}, nil
}

func Reconstruct(
	id, creatorID uuid.UUID,
	code Code,
	value Value,
	appliesTo AppliesTo,
	productIDs []uuid.UUID,
	usageLimit *int32,
	timesUsed int32,
	expiresAt *time.Time,
	isActive bool,
	createdAt, updatedAt time.Time,
) *DiscountCode {
	return &DiscountCode{
		id:         id,
		creatorID:  creatorID,
		code:       code,
		value:      value,
		appliesTo:  appliesTo,
		productIDs: productIDs,
		usageLimit: usageLimit,
		timesUsed:  timesUsed,
		expiresAt:  expiresAt,
		isActive:   isActive,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// ValidateFor checks every rejection rule for applying this code to a product
// at a point in time. A nil productID is accepted only for all-product codes.
func (d *DiscountCode) ValidateFor(productID *uuid.UUID, now time.Time) error {
	if !d.isActive {
		return ErrCodeInactive
	}
	if d.expiresAt != nil && now.After(*d.expiresAt) {
		return ErrCodeExpired
	}
	if d.usageLimit != nil && d.timesUsed >= *d.usageLimit {
		return ErrCodeExhausted
	}
	if d.appliesTo == AppliesToProducts {
		if productID == nil {
			return ErrMissingProductID
		}
		if !d.appliesToProduct(*productID) {
			return ErrCodeNotForItem
		}
	}
	return nil
}

// AmountOff prices the code against a single item. Callers must have run
// ValidateFor first.
func (d *DiscountCode) AmountOff(priceCents int64) int64 {
	return d.value.AmountOff(priceCents)
}

func (d *DiscountCode) appliesToProduct(productID uuid.UUID) bool {
	for _, id := range d.productIDs {
		if id == productID {
			return true
		}
	}
	return false
}

func (d *DiscountCode) HasRemainingUses() bool {
	return d.usageLimit == nil || d.timesUsed < *d.usageLimit
}

func (d *DiscountCode) ID() uuid.UUID           { return d.id }
func (d *DiscountCode) CreatorID() uuid.UUID    { return d.creatorID }
func (d *DiscountCode) Code() Code              { return d.code }
func (d *DiscountCode) Value() Value            { return d.value }
func (d *DiscountCode) AppliesTo() AppliesTo    { return d.appliesTo }
func (d *DiscountCode) ProductIDs() []uuid.UUID { return d.productIDs }
func (d *DiscountCode) UsageLimit() *int32      { return d.usageLimit }
func (d *DiscountCode) TimesUsed() int32        { return d.timesUsed }
func (d *DiscountCode) ExpiresAt() *time.Time   { return d.expiresAt }
func (d *DiscountCode) IsActive() bool          { return d.isActive }
func (d *DiscountCode) CreatedAt() time.Time    { return d.createdAt }
func (d *DiscountCode) UpdatedAt() time.Time    { return d.updatedAt }
