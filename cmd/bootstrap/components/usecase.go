package components

import (
	"digistore/internal/pkg/clock"
	"digistore/internal/pkg/config"
	"digistore/internal/usecase"
	"digistore/internal/usecase/commands"
	"digistore/internal/usecase/queries"
	"digistore/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
	usecaseValidatorsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewCheckoutCommands,
		commands.NewSettlementUseCase,
		NewLicenseCommands,
		NewPayoutCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewPurchaseQueries,
		queries.NewLicenseQueries,
		NewPayoutQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewCheckoutCommands(
	uow shared.UnitOfWork,
	gateway shared.PaymentGateway,
	cfg config.Config,
	clk clock.Clock,
) commands.CheckoutCommands {
	return commands.NewCheckoutUseCase(uow, gateway, cfg.Settlement, cfg.Gateway.Provider, clk)
}

func NewLicenseCommands(
	uow shared.UnitOfWork,
	cache commands.ValidationCache,
	cfg config.Config,
	clk clock.Clock,
) commands.LicenseCommands {
	return commands.NewLicenseUseCase(uow, cache, cfg.Settlement.ActivationLimit, clk)
}

func NewPayoutCommands(
	uow shared.UnitOfWork,
	cfg config.Config,
	clk clock.Clock,
) commands.PayoutCommands {
	return commands.NewPayoutUseCase(uow, cfg.Settlement, clk)
}

func NewPayoutQueries(repo queries.PayoutViewRepo, cfg config.Config) queries.PayoutQueries {
	return queries.NewPayoutQueries(repo, cfg.Settlement.Currency, cfg.Settlement.MinimumPayoutCents)
}
