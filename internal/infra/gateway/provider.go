package gateway

import (
	"digistore/internal/pkg/config"
	"digistore/internal/pkg/errs"
	"digistore/internal/usecase/shared"
)

const (
	ProviderSandbox = "sandbox"
	ProviderREST    = "rest"
)

// New selects the PaymentGateway implementation from configuration.
func New(cfg config.GatewayConfig) (shared.PaymentGateway, error) {
	switch cfg.Provider {
	case ProviderSandbox:
		return NewSandboxGateway(cfg.WebhookSecret), nil
	case ProviderREST:
		return NewRESTGateway(cfg)
	default:
		return nil, errs.New("unknown gateway provider: " + cfg.Provider)
	}
}
