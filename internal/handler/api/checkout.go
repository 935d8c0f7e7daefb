package api

import (
	"errors"
	"net/http"

	reqdto "digistore/internal/handler/dto/request"
	resdto "digistore/internal/handler/dto/response"
	"digistore/internal/handler/middleware"
	"digistore/internal/pkg/errs"
	"digistore/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkout   commands.CheckoutCommands
	settlement commands.SettlementCommands
}

func NewCheckoutHandler(checkout commands.CheckoutCommands, settlement commands.SettlementCommands) *CheckoutHandler {
	return &CheckoutHandler{
		checkout:   checkout,
		settlement: settlement,
	}
}

// @Summary Create checkout
// @Description Price the cart, create pending purchases and open a provider order
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CheckoutRequest true "Cart contents"
// @Success 201 {object} resdto.CheckoutResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	customerID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CheckoutRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.checkout.Checkout(c.Request.Context(), customerID, req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		case errors.Is(err, errs.ErrVariantNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Variant not found",
			})
		case errors.Is(err, errs.ErrDiscountNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Discount code not found",
			})
		case errors.Is(err, errs.ErrDiscountExhausted):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Discount code has no uses left",
			})
		case errors.Is(err, errs.ErrDiscountNotUsable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Discount code cannot be applied to this cart",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Cart failed validation",
			})
		case errors.Is(err, errs.ErrGatewayFailure):
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Payment provider rejected the order",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromCheckoutResult(result))
}

// @Summary Verify checkout
// @Description Poll the provider for the payment outcome and settle accordingly
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.VerifyCheckoutRequest true "Order and payment identifiers"
// @Success 200 {object} resdto.VerifyCheckoutResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /checkout/verify [post]
func (h *CheckoutHandler) VerifyCheckout(c *gin.Context) {
	customerID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.VerifyCheckoutRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.settlement.VerifyCheckout(c.Request.Context(), customerID, req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, errs.ErrPaymentNotCleared):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Payment has not cleared yet",
			})
		case errors.Is(err, errs.ErrGatewayFailure):
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Payment provider unavailable",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromVerifyResult(result))
}
