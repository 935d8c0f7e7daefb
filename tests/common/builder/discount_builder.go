//go:build unit || e2e

package builder

import (
	"time"

	"digistore/internal/domain/discount"

	"github.com/google/uuid"
)

type DiscountBuilder struct {
	id         uuid.UUID
	creatorID  uuid.UUID
	code       string
	kind       string
	amount     int64
	appliesTo  string
	productIDs []uuid.UUID
	usageLimit *int32
	timesUsed  int32
	expiresAt  *time.Time
	isActive   bool
}

func NewDiscountBuilder() *DiscountBuilder {
	return &DiscountBuilder{
		id:        uuid.New(),
		creatorID: uuid.New(),
		code:      "SAVE20",
		kind:      "percentage",
		amount:    20,
		appliesTo: "all",
		isActive:  true,
	}
}

func (b *DiscountBuilder) WithCode(code string) *DiscountBuilder {
	b.code = code
	return b
}

func (b *DiscountBuilder) WithKind(kind string, amount int64) *DiscountBuilder {
	b.kind = kind
	b.amount = amount
	return b
}

func (b *DiscountBuilder) WithProducts(ids ...uuid.UUID) *DiscountBuilder {
	b.appliesTo = "specific-products"
	b.productIDs = ids
	return b
}

func (b *DiscountBuilder) WithUsageLimit(limit, used int32) *DiscountBuilder {
	b.usageLimit = &limit
	b.timesUsed = used
	return b
}

func (b *DiscountBuilder) WithExpiry(t time.Time) *DiscountBuilder {
	b.expiresAt = &t
	return b
}

func (b *DiscountBuilder) Inactive() *DiscountBuilder {
	b.isActive = false
	return b
}

func (b *DiscountBuilder) BuildDomain() (*discount.DiscountCode, error) {
	code, err := discount.NewCode(b.code)
	if err != nil {
		return nil, err
	}
	kind, err := discount.NewKind(b.kind)
	if err != nil {
		return nil, err
	}
	value, err := discount.NewValue(kind, b.amount)
	if err != nil {
		return nil, err
	}
	appliesTo, err := discount.NewAppliesTo(b.appliesTo)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return discount.Reconstruct(
		b.id, b.creatorID, code, value, appliesTo, b.productIDs,
		b.usageLimit, b.timesUsed, b.expiresAt, b.isActive, now, now,
	), nil
}
