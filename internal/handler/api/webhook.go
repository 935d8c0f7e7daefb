package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"digistore/internal/pkg/errs"
	"digistore/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

const webhookSignatureHeader = "X-Webhook-Signature"

// Providers retry webhooks until they see 200, so acknowledge everything we
// can never process (unknown order, already settled) and reserve error codes
// for transient failures worth retrying.
type WebhookHandler struct {
	settlement commands.SettlementCommands
}

func NewWebhookHandler(settlement commands.SettlementCommands) *WebhookHandler {
	return &WebhookHandler{settlement: settlement}
}

// @Summary Payment webhook
// @Description Receive a signed payment event from the provider
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Webhook-Signature header string true "HMAC-SHA256 signature of the raw body"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /webhooks/payment [post]
func (h *WebhookHandler) HandlePaymentWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unreadable request body",
		})
		return
	}

	signature := c.GetHeader(webhookSignatureHeader)
	if signature == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Missing webhook signature",
		})
		return
	}

	err = h.settlement.HandleWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidSignature):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid webhook signature",
			})
		case errors.Is(err, errs.ErrOrderNotFound), errors.Is(err, errs.ErrPurchaseNotFound):
			slog.Warn("webhook referenced unknown settlement target", "error", err.Error())
			c.JSON(http.StatusOK, gin.H{
				"status": "ignored",
			})
		case errors.Is(err, errs.ErrDatabaseOperationFailed):
			// Let the provider retry.
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unprocessable webhook payload",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "processed",
	})
}
