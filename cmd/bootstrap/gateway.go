package bootstrap

import (
	"digistore/internal/infra/gateway"
	"digistore/internal/pkg/config"
	"digistore/internal/usecase/shared"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		NewPaymentGateway,
	),
)

func NewPaymentGateway(cfg config.Config) (shared.PaymentGateway, error) {
	return gateway.New(cfg.Gateway)
}
