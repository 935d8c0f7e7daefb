package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"digistore/internal/domain/actor"
	"digistore/internal/handler/api"
	"digistore/internal/handler/middleware"
	"digistore/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	checkoutHandler *api.CheckoutHandler,
	webhookHandler *api.WebhookHandler,
	purchaseHandler *api.PurchaseHandler,
	discountHandler *api.DiscountHandler,
	licenseHandler *api.LicenseHandler,
	payoutHandler *api.PayoutHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, checkoutHandler, webhookHandler, purchaseHandler, discountHandler, licenseHandler, payoutHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	checkoutHandler *api.CheckoutHandler,
	webhookHandler *api.WebhookHandler,
	purchaseHandler *api.PurchaseHandler,
	discountHandler *api.DiscountHandler,
	licenseHandler *api.LicenseHandler,
	payoutHandler *api.PayoutHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		// Payment provider callbacks authenticate with an HMAC signature,
		// not a bearer token.
		webhooks := apiGroup.Group("/webhooks")
		{
			addRoutes(webhooks, []route{
				{Method: http.MethodPost, Path: "/payment", Handler: webhookHandler.HandlePaymentWebhook},
			})
		}

		// License validation and activation are called by installed software
		// holding only a license key.
		licenses := apiGroup.Group("/licenses")
		{
			addRoutes(licenses, []route{
				{Method: http.MethodPost, Path: "/validate", Handler: licenseHandler.ValidateLicense},
				{Method: http.MethodPost, Path: "/activate", Handler: licenseHandler.ActivateLicense},
				{Method: http.MethodPost, Path: "/deactivate", Handler: licenseHandler.DeactivateLicense},
			})

			licenseAdmin := licenses.Group("")
			licenseAdmin.Use(authMiddleware.RequireAuth())
			licenseAdmin.Use(authMiddleware.RequireRole(actor.RoleCreator, actor.RoleAdmin))
			addRoutes(licenseAdmin, []route{
				{Method: http.MethodPost, Path: "/:key/revoke", Handler: licenseHandler.RevokeLicense},
				{Method: http.MethodGet, Path: "/:key/activations", Handler: licenseHandler.ListActivations},
			})
		}

		checkout := apiGroup.Group("/checkout")
		checkout.Use(authMiddleware.RequireAuth())
		{
			addRoutes(checkout, []route{
				{Method: http.MethodPost, Path: "", Handler: checkoutHandler.Checkout},
				{Method: http.MethodPost, Path: "/verify", Handler: checkoutHandler.VerifyCheckout},
			})
		}

		purchases := apiGroup.Group("/purchases")
		purchases.Use(authMiddleware.RequireAuth())
		{
			addRoutes(purchases, []route{
				{Method: http.MethodGet, Path: "", Handler: purchaseHandler.ListPurchases},
				{Method: http.MethodGet, Path: "/:id", Handler: purchaseHandler.GetPurchase},
				{Method: http.MethodPost, Path: "/:id/refund", Handler: purchaseHandler.RefundPurchase},
			})
		}

		discounts := apiGroup.Group("/discounts")
		discounts.Use(authMiddleware.RequireAuth())
		{
			addRoutes(discounts, []route{
				{Method: http.MethodPost, Path: "/validate", Handler: discountHandler.ValidateDiscount},
			})
		}

		creators := apiGroup.Group("/creators")
		creators.Use(authMiddleware.RequireAuth())
		creators.Use(authMiddleware.RequireRole(actor.RoleCreator, actor.RoleAdmin))
		{
			addRoutes(creators, []route{
				{Method: http.MethodGet, Path: "/balance", Handler: payoutHandler.GetBalance},
				{Method: http.MethodPost, Path: "/payouts", Handler: payoutHandler.RequestPayout},
				{Method: http.MethodGet, Path: "/payouts", Handler: payoutHandler.ListPayouts},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
