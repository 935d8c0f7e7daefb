package response

import (
	"digistore/internal/usecase/commands"

	"github.com/google/uuid"
)

type CheckoutLineResponse struct {
	PurchaseID  uuid.UUID  `json:"purchase_id"`
	ProductID   uuid.UUID  `json:"product_id"`
	VariantID   *uuid.UUID `json:"variant_id,omitempty"`
	AmountCents int64      `json:"amount_cents"`
}

type CheckoutResponse struct {
	OrderID        string                 `json:"order_id,omitempty"`
	Provider       string                 `json:"provider"`
	TotalCents     int64                  `json:"total_cents"`
	DiscountCents  int64                  `json:"discount_cents"`
	Currency       string                 `json:"currency"`
	PaymentPending bool                   `json:"payment_pending"`
	Lines          []CheckoutLineResponse `json:"lines"`
}

func FromCheckoutResult(result *commands.CheckoutResult) CheckoutResponse {
	lines := make([]CheckoutLineResponse, len(result.Lines))
	for i, line := range result.Lines {
		lines[i] = CheckoutLineResponse{
			PurchaseID:  line.PurchaseID,
			ProductID:   line.ProductID,
			VariantID:   line.VariantID,
			AmountCents: line.AmountCents,
		}
	}
	return CheckoutResponse{
		OrderID:        result.OrderID,
		Provider:       result.Provider,
		TotalCents:     result.TotalCents,
		DiscountCents:  result.DiscountCents,
		Currency:       result.Currency,
		PaymentPending: result.PaymentPending,
		Lines:          lines,
	}
}

type SettledPurchaseResponse struct {
	PurchaseID uuid.UUID `json:"purchase_id"`
	LicenseKey string    `json:"license_key,omitempty"`
	Status     string    `json:"status"`
}

type VerifyCheckoutResponse struct {
	OrderID   string                    `json:"order_id"`
	Status    string                    `json:"status"`
	Purchases []SettledPurchaseResponse `json:"purchases"`
}

func FromVerifyResult(result *commands.VerifyCheckoutResult) VerifyCheckoutResponse {
	purchases := make([]SettledPurchaseResponse, len(result.Purchases))
	for i, p := range result.Purchases {
		key := p.LicenseKey
		// License keys are only delivered once payment has cleared.
		if p.Status != "COMPLETED" {
			key = ""
		}
		purchases[i] = SettledPurchaseResponse{
			PurchaseID: p.PurchaseID,
			LicenseKey: key,
			Status:     p.Status,
		}
	}
	return VerifyCheckoutResponse{
		OrderID:   result.OrderID,
		Status:    result.Status,
		Purchases: purchases,
	}
}

type DiscountPreviewResponse struct {
	Valid          bool    `json:"valid"`
	Code           string  `json:"code"`
	Kind           string  `json:"kind"`
	Value          int64   `json:"value"`
	AmountOffCents *int64  `json:"amount_off_cents,omitempty"`
	Reason         *string `json:"reason,omitempty"`
}

func FromDiscountPreview(preview *commands.DiscountPreview) DiscountPreviewResponse {
	return DiscountPreviewResponse{
		Valid:          preview.Valid,
		Code:           preview.Code,
		Kind:           preview.Kind,
		Value:          preview.Value,
		AmountOffCents: preview.AmountOffCents,
		Reason:         preview.Reason,
	}
}
