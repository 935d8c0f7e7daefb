//go:build unit || e2e

package builder

import (
	"time"

	"digistore/internal/domain/license"
	"digistore/internal/domain/purchase"

	"github.com/google/uuid"
)

type PurchaseBuilder struct {
	customerID     uuid.UUID
	productID      uuid.UUID
	variantID      *uuid.UUID
	creatorID      uuid.UUID
	provider       string
	priceCents     int64
	currency       string
	feePercent     int64
	discountCodeID *uuid.UUID
	discountCents  int64
}

func NewPurchaseBuilder() *PurchaseBuilder {
	return &PurchaseBuilder{
		customerID: uuid.New(),
		productID:  uuid.New(),
		creatorID:  uuid.New(),
		provider:   "sandbox",
		priceCents: 10000,
		currency:   "USD",
		feePercent: purchase.DefaultFeePercent,
	}
}

func (b *PurchaseBuilder) WithPrice(cents int64) *PurchaseBuilder {
	b.priceCents = cents
	return b
}

func (b *PurchaseBuilder) WithFeePercent(percent int64) *PurchaseBuilder {
	b.feePercent = percent
	return b
}

func (b *PurchaseBuilder) WithDiscount(codeID uuid.UUID, cents int64) *PurchaseBuilder {
	b.discountCodeID = &codeID
	b.discountCents = cents
	return b
}

func (b *PurchaseBuilder) WithCurrency(currency string) *PurchaseBuilder {
	b.currency = currency
	return b
}

func (b *PurchaseBuilder) WithCreator(id uuid.UUID) *PurchaseBuilder {
	b.creatorID = id
	return b
}

func (b *PurchaseBuilder) BuildDomain() (*purchase.Purchase, error) {
	return purchase.NewPurchase(purchase.NewPurchaseParams{
		CustomerID:          b.customerID,
		ProductID:           b.productID,
		VariantID:           b.variantID,
		CreatorID:           b.creatorID,
		Provider:            b.provider,
		PriceCents:          b.priceCents,
		Currency:            b.currency,
		FeePercent:          b.feePercent,
		DiscountCodeID:      b.discountCodeID,
		DiscountAmountCents: b.discountCents,
	})
}

// BuildCompleted returns a purchase already driven through settlement.
func (b *PurchaseBuilder) BuildCompleted() (*purchase.Purchase, error) {
	p, err := b.BuildDomain()
	if err != nil {
		return nil, err
	}
	p.AttachProviderOrder("order_test")
	if err := p.Complete("pay_test", time.Now()); err != nil {
		return nil, err
	}
	return p, nil
}

type ActivationBuilder struct {
	key       license.Key
	machineID string
	info      license.DeviceInfo
}

func NewActivationBuilder() *ActivationBuilder {
	key, _ := license.IssueKey()
	return &ActivationBuilder{
		key:       key,
		machineID: "machine-01",
	}
}

func (b *ActivationBuilder) WithKey(key license.Key) *ActivationBuilder {
	b.key = key
	return b
}

func (b *ActivationBuilder) WithMachineID(id string) *ActivationBuilder {
	b.machineID = id
	return b
}

func (b *ActivationBuilder) BuildDomain() (*license.Activation, error) {
	return license.NewActivation(b.key, b.machineID, b.info, time.Now())
}
