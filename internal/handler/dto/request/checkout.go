package request

import (
	"strings"

	"github.com/google/uuid"
)

type CheckoutItem struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
}

type CheckoutRequest struct {
	Items        []CheckoutItem `json:"items" binding:"required,min=1,max=20,dive"`
	DiscountCode *string        `json:"discount_code,omitempty"`
}

func (r CheckoutRequest) GetDiscountCode() *string {
	if r.DiscountCode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.DiscountCode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

type VerifyCheckoutRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
}

type ValidateDiscountRequest struct {
	Code      string     `json:"code" binding:"required"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	// PriceCents previews the discounted amount when supplied.
	PriceCents *int64 `json:"price_cents,omitempty" binding:"omitempty,min=0"`
}
