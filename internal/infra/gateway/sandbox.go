package gateway

import (
	"context"
	"strings"
	"sync"

	"digistore/internal/pkg/errs"
	"digistore/internal/usecase/shared"

	"github.com/google/uuid"
)

// SandboxGateway is a deterministic in-process provider for development and
// tests. Orders live only in memory; a payment id containing "fail" resolves
// to a failed payment so both settlement paths can be driven end to end.
type SandboxGateway struct {
	secret string

	mu     sync.Mutex
	orders map[string]sandboxOrder
}

type sandboxOrder struct {
	amountCents int64
	currency    string
	receipt     string
}

func NewSandboxGateway(webhookSecret string) *SandboxGateway {
	return &SandboxGateway{
		secret: webhookSecret,
		orders: make(map[string]sandboxOrder),
	}
}

func (g *SandboxGateway) CreateOrder(_ context.Context, amountCents int64, currency, receipt string) (string, error) {
	if amountCents <= 0 {
		return "", errs.Mark(errs.New("sandbox rejects non-positive order amount"), errs.ErrGatewayFailure)
	}
	orderID := "order_sbx_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	g.mu.Lock()
	g.orders[orderID] = sandboxOrder{amountCents: amountCents, currency: currency, receipt: receipt}
	g.mu.Unlock()

	return orderID, nil
}

func (g *SandboxGateway) RetrievePayment(_ context.Context, paymentID string) (*shared.PaymentResult, error) {
	if paymentID == "" {
		return nil, errs.Mark(errs.New("empty payment id"), errs.ErrGatewayFailure)
	}

	status := shared.PaymentStatusCaptured
	if strings.Contains(paymentID, "fail") {
		status = shared.PaymentStatusFailed
	}

	// Sandbox payment ids embed the order id: pay_sbx_<order id>.
	orderID := strings.TrimPrefix(paymentID, "pay_sbx_")

	return &shared.PaymentResult{
		PaymentID: paymentID,
		OrderID:   orderID,
		Status:    status,
	}, nil
}

func (g *SandboxGateway) ParseWebhook(payload []byte, signature string) (*shared.WebhookEvent, error) {
	if err := verifySignature(g.secret, payload, signature); err != nil {
		return nil, err
	}
	return parseEnvelope(payload)
}
