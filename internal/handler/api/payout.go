package api

import (
	"errors"
	"net/http"

	reqdto "digistore/internal/handler/dto/request"
	resdto "digistore/internal/handler/dto/response"
	"digistore/internal/handler/middleware"
	"digistore/internal/pkg/errs"
	"digistore/internal/usecase/commands"
	"digistore/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PayoutHandler struct {
	payouts       commands.PayoutCommands
	payoutQueries queries.PayoutQueries
}

func NewPayoutHandler(payouts commands.PayoutCommands, payoutQueries queries.PayoutQueries) *PayoutHandler {
	return &PayoutHandler{
		payouts:       payouts,
		payoutQueries: payoutQueries,
	}
}

// @Summary Creator balance
// @Description Earned, paid-out, and available amounts for the calling creator, plus payout eligibility
// @Tags creators
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.BalanceResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /creators/balance [get]
func (h *PayoutHandler) GetBalance(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	view, err := h.payoutQueries.Balance(c.Request.Context(), actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBalanceView(view))
}

// @Summary Request payout
// @Description Withdraw from the available balance; omitting the amount withdraws everything
// @Tags creators
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.RequestPayoutRequest true "Amount to withdraw"
// @Success 201 {object} resdto.PayoutResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /creators/payouts [post]
func (h *PayoutHandler) RequestPayout(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.RequestPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.payouts.RequestPayout(c.Request.Context(), actorID, req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrPayoutBelowMinimum):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Amount is below the payout minimum",
			})
		case errors.Is(err, errs.ErrPayoutExceedsBalance):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Amount exceeds the available balance",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromPayoutResult(result))
}

// @Summary List payouts
// @Description Payout history for the calling creator, newest first
// @Tags creators
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Offset"
// @Success 200 {array} resdto.PayoutViewResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /creators/payouts [get]
func (h *PayoutHandler) ListPayouts(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	limit := parseInt32Query(c, "limit", 0)
	offset := parseInt32Query(c, "offset", 0)

	views, err := h.payoutQueries.ListByCreator(c.Request.Context(), actorID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromPayoutViews(views))
}
