package components

import (
	"digistore/internal/handler"
	"digistore/internal/handler/api"
	"digistore/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCheckoutHandler,
		api.NewWebhookHandler,
		api.NewPurchaseHandler,
		api.NewDiscountHandler,
		api.NewLicenseHandler,
		api.NewPayoutHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
