package api

import (
	"errors"
	"net/http"

	reqdto "digistore/internal/handler/dto/request"
	resdto "digistore/internal/handler/dto/response"
	"digistore/internal/pkg/errs"
	"digistore/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type DiscountHandler struct {
	checkout commands.CheckoutCommands
}

func NewDiscountHandler(checkout commands.CheckoutCommands) *DiscountHandler {
	return &DiscountHandler{checkout: checkout}
}

// @Summary Validate discount code
// @Description Check a discount code before checkout and preview the amount off
// @Tags discounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ValidateDiscountRequest true "Discount code to check"
// @Success 200 {object} resdto.DiscountPreviewResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /discounts/validate [post]
func (h *DiscountHandler) ValidateDiscount(c *gin.Context) {
	var req reqdto.ValidateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	preview, err := h.checkout.ValidateDiscount(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrDiscountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Discount code not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromDiscountPreview(preview))
}
