package response

import (
	"time"

	"digistore/internal/usecase/queries"

	"github.com/google/uuid"
)

type PurchaseResponse struct {
	ID                   uuid.UUID  `json:"id"`
	ProductID            uuid.UUID  `json:"product_id"`
	ProductName          string     `json:"product_name"`
	VariantID            *uuid.UUID `json:"variant_id,omitempty"`
	VariantName          *string    `json:"variant_name,omitempty"`
	Provider             string     `json:"provider"`
	AmountCents          int64      `json:"amount_cents"`
	Currency             string     `json:"currency"`
	PlatformFeeCents     int64      `json:"platform_fee_cents"`
	CreatorEarningsCents int64      `json:"creator_earnings_cents"`
	LicenseKey           string     `json:"license_key,omitempty"`
	Status               string     `json:"status"`
	DiscountCode         *string    `json:"discount_code,omitempty"`
	DiscountAmountCents  int64      `json:"discount_amount_cents"`
	PurchasedAt          *time.Time `json:"purchased_at,omitempty"`
	RefundedAt           *time.Time `json:"refunded_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

func FromPurchaseView(view *queries.PurchaseView) PurchaseResponse {
	key := view.LicenseKey
	if view.Status != "COMPLETED" {
		key = ""
	}
	return PurchaseResponse{
		ID:                   view.ID,
		ProductID:            view.ProductID,
		ProductName:          view.ProductName,
		VariantID:            view.VariantID,
		VariantName:          view.VariantName,
		Provider:             view.Provider,
		AmountCents:          view.AmountCents,
		Currency:             view.Currency,
		PlatformFeeCents:     view.PlatformFeeCents,
		CreatorEarningsCents: view.CreatorEarningsCents,
		LicenseKey:           key,
		Status:               view.Status,
		DiscountCode:         view.DiscountCode,
		DiscountAmountCents:  view.DiscountAmountCents,
		PurchasedAt:          view.PurchasedAt,
		RefundedAt:           view.RefundedAt,
		CreatedAt:            view.CreatedAt,
	}
}

type PurchaseListItemResponse struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   uuid.UUID  `json:"product_id"`
	ProductName string     `json:"product_name"`
	AmountCents int64      `json:"amount_cents"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	LicenseKey  string     `json:"license_key,omitempty"`
	PurchasedAt *time.Time `json:"purchased_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func FromPurchaseListItems(items []*queries.PurchaseListItem) []PurchaseListItemResponse {
	result := make([]PurchaseListItemResponse, len(items))
	for i, item := range items {
		key := item.LicenseKey
		if item.Status != "COMPLETED" {
			key = ""
		}
		result[i] = PurchaseListItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			AmountCents: item.AmountCents,
			Currency:    item.Currency,
			Status:      item.Status,
			LicenseKey:  key,
			PurchasedAt: item.PurchasedAt,
			CreatedAt:   item.CreatedAt,
		}
	}
	return result
}
