package shared

import (
	"context"

	"github.com/google/uuid"
)

// PaymentStatus is the provider-side state of a payment attempt.
type PaymentStatus string

const (
	PaymentStatusCreated  PaymentStatus = "created"
	PaymentStatusCaptured PaymentStatus = "captured"
	PaymentStatusFailed   PaymentStatus = "failed"
)

type PaymentResult struct {
	PaymentID string
	OrderID   string
	Status    PaymentStatus
}

// Webhook event types every provider adapter normalizes to.
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
)

// WebhookEvent is a provider notification normalized by the adapter.
// Exactly one of PurchaseID or OrderID identifies the settlement target;
// signature verification happens inside ParseWebhook.
type WebhookEvent struct {
	EventType  string
	PaymentID  string
	OrderID    string
	PurchaseID *uuid.UUID
}

// PaymentGateway is the single capability interface every provider variant
// implements. Calls must respect ctx deadlines; a timeout leaves purchases
// PENDING for later webhook reconciliation.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountCents int64, currency, receipt string) (string, error)
	RetrievePayment(ctx context.Context, paymentID string) (*PaymentResult, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
