package api

import (
	"errors"
	"net/http"
	"strconv"

	resdto "digistore/internal/handler/dto/response"
	"digistore/internal/handler/middleware"
	"digistore/internal/pkg/errs"
	"digistore/internal/usecase/commands"
	"digistore/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PurchaseHandler struct {
	purchaseQueries queries.PurchaseQueries
	settlement      commands.SettlementCommands
}

func NewPurchaseHandler(purchaseQueries queries.PurchaseQueries, settlement commands.SettlementCommands) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseQueries: purchaseQueries,
		settlement:      settlement,
	}
}

// @Summary Get purchase
// @Description Fetch one purchase visible to the caller
// @Tags purchases
// @Produce json
// @Security BearerAuth
// @Param id path string true "Purchase ID"
// @Success 200 {object} resdto.PurchaseResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /purchases/{id} [get]
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	role, _ := middleware.GetActorRole(c)

	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid purchase ID",
		})
		return
	}

	view, err := h.purchaseQueries.GetByID(c.Request.Context(), actorID, role, purchaseID)
	if err != nil {
		if errors.Is(err, errs.ErrPurchaseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Purchase not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromPurchaseView(view))
}

// @Summary List purchases
// @Description List the caller's purchase history, newest first
// @Tags purchases
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Offset"
// @Success 200 {array} resdto.PurchaseListItemResponse
// @Failure 401 {object} map[string]string
// @Router /purchases [get]
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	limit := parseInt32Query(c, "limit", 0)
	offset := parseInt32Query(c, "offset", 0)

	items, err := h.purchaseQueries.ListByCustomer(c.Request.Context(), actorID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromPurchaseListItems(items))
}

// @Summary Refund purchase
// @Description Refund a completed purchase and cut off its license
// @Tags purchases
// @Produce json
// @Security BearerAuth
// @Param id path string true "Purchase ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /purchases/{id}/refund [post]
func (h *PurchaseHandler) RefundPurchase(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	role, _ := middleware.GetActorRole(c)

	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid purchase ID",
		})
		return
	}

	err = h.settlement.Refund(c.Request.Context(), actorID, role, purchaseID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrPurchaseNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Purchase not found",
			})
		case errors.Is(err, errs.ErrNotResourceOwner):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Only the product's creator or an admin may refund",
			})
		case errors.Is(err, errs.ErrNotRefundable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Purchase is not refundable",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "refunded",
	})
}

func parseInt32Query(c *gin.Context, name string, fallback int32) int32 {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(v)
}
