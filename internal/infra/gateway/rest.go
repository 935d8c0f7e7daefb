package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"digistore/internal/pkg/config"
	"digistore/internal/pkg/errs"
	"digistore/internal/usecase/shared"
)

// RESTGateway talks to a provider exposing the usual two-step order flow:
// POST /v1/orders to open an order, GET /v1/payments/{id} to poll a payment.
// Every call is bounded by the configured timeout so a slow provider cannot
// hold a checkout open; callers treat a deadline error as "still pending".
type RESTGateway struct {
	baseURL    string
	apiKey     string
	secret     string
	httpClient *http.Client
}

func NewRESTGateway(cfg config.GatewayConfig) (*RESTGateway, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errs.New("gateway base URL required for rest provider")
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, errs.Wrap(err, "invalid gateway base URL")
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, errs.New("gateway base URL must be absolute: " + base)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &RESTGateway{
		baseURL:    base,
		apiKey:     cfg.APIKey,
		secret:     cfg.WebhookSecret,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type createOrderRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

type paymentResponse struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

func (g *RESTGateway) CreateOrder(ctx context.Context, amountCents int64, currency, receipt string) (string, error) {
	body, err := json.Marshal(createOrderRequest{
		AmountCents: amountCents,
		Currency:    currency,
		Receipt:     receipt,
	})
	if err != nil {
		return "", errs.Wrap(err, "failed to encode order request")
	}

	var resp createOrderResponse
	if err := g.do(ctx, http.MethodPost, "/v1/orders", body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", errs.Mark(errs.New("provider returned empty order id"), errs.ErrGatewayFailure)
	}
	return resp.ID, nil
}

func (g *RESTGateway) RetrievePayment(ctx context.Context, paymentID string) (*shared.PaymentResult, error) {
	var resp paymentResponse
	path := "/v1/payments/" + url.PathEscape(paymentID)
	if err := g.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	var status shared.PaymentStatus
	switch resp.Status {
	case "created", "authorized":
		status = shared.PaymentStatusCreated
	case "captured":
		status = shared.PaymentStatusCaptured
	case "failed":
		status = shared.PaymentStatusFailed
	default:
		return nil, errs.Mark(errs.New("unknown payment status: "+resp.Status), errs.ErrGatewayFailure)
	}

	return &shared.PaymentResult{
		PaymentID: resp.ID,
		OrderID:   resp.OrderID,
		Status:    status,
	}, nil
}

func (g *RESTGateway) ParseWebhook(payload []byte, signature string) (*shared.WebhookEvent, error) {
	if err := verifySignature(g.secret, payload, signature); err != nil {
		return nil, err
	}
	return parseEnvelope(payload)
}

func (g *RESTGateway) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return errs.Wrap(err, "failed to build gateway request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return errs.Mark(errs.Wrap(err, "gateway request failed"), errs.ErrGatewayFailure)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read a bounded slice of the body for diagnostics.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := fmt.Sprintf("gateway returned status %d: %s", resp.StatusCode, string(snippet))
		return errs.Mark(errs.New(msg), errs.ErrGatewayFailure)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errs.Mark(errs.Wrap(err, "failed to decode gateway response"), errs.ErrGatewayFailure)
		}
	}
	return nil
}
