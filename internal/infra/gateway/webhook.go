package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"digistore/internal/pkg/errs"
	"digistore/internal/usecase/shared"

	"github.com/google/uuid"
)

// webhookEnvelope is the normalized notification body shared by the sandbox
// and REST providers.
type webhookEnvelope struct {
	EventType  string `json:"event_type"`
	PaymentID  string `json:"payment_id"`
	OrderID    string `json:"order_id"`
	PurchaseID string `json:"purchase_id,omitempty"`
}

func verifySignature(secret string, payload []byte, signature string) error {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return errs.Mark(errs.New("webhook signature mismatch"), errs.ErrInvalidSignature)
	}
	return nil
}

func parseEnvelope(payload []byte) (*shared.WebhookEvent, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, errs.Wrap(err, "failed to decode webhook payload")
	}

	switch env.EventType {
	case shared.EventPaymentCaptured, shared.EventPaymentFailed:
	default:
		return nil, errs.New("unsupported webhook event type: " + env.EventType)
	}
	if env.PaymentID == "" {
		return nil, errs.New("webhook payload missing payment id")
	}
	if env.OrderID == "" && env.PurchaseID == "" {
		return nil, errs.New("webhook payload missing settlement target")
	}

	event := &shared.WebhookEvent{
		EventType: env.EventType,
		PaymentID: env.PaymentID,
		OrderID:   env.OrderID,
	}
	if env.PurchaseID != "" {
		id, err := uuid.Parse(env.PurchaseID)
		if err != nil {
			return nil, errs.Wrap(err, "invalid purchase id in webhook payload")
		}
		event.PurchaseID = &id
	}
	return event, nil
}

// SignPayload computes the signature a provider would attach to payload.
// Exposed for the sandbox provider and for tests.
func SignPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
