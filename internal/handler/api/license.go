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

type LicenseHandler struct {
	licenses       commands.LicenseCommands
	licenseQueries queries.LicenseQueries
}

func NewLicenseHandler(licenses commands.LicenseCommands, licenseQueries queries.LicenseQueries) *LicenseHandler {
	return &LicenseHandler{
		licenses:       licenses,
		licenseQueries: licenseQueries,
	}
}

// @Summary Validate license
// @Description Check whether a license key currently grants access
// @Tags licenses
// @Accept json
// @Produce json
// @Param request body reqdto.ValidateLicenseRequest true "License key and optional machine"
// @Success 200 {object} resdto.LicenseValidationResponse
// @Failure 400 {object} map[string]string
// @Router /licenses/validate [post]
func (h *LicenseHandler) ValidateLicense(c *gin.Context) {
	var req reqdto.ValidateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.licenses.Validate(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromValidationResult(result))
}

// @Summary Activate license
// @Description Bind a license key to a machine, subject to the activation limit
// @Tags licenses
// @Accept json
// @Produce json
// @Param request body reqdto.ActivateLicenseRequest true "License key and machine"
// @Success 200 {object} resdto.ActivationResponse
// @Success 201 {object} resdto.ActivationResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /licenses/activate [post]
func (h *LicenseHandler) ActivateLicense(c *gin.Context) {
	var req reqdto.ActivateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	if ip := c.ClientIP(); ip != "" {
		req.IPAddress = &ip
	}

	result, err := h.licenses.Activate(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrLicenseNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "License not found",
			})
		case errors.Is(err, errs.ErrLicenseNotValid):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "License does not grant access",
			})
		case errors.Is(err, errs.ErrActivationLimitReached):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Activation limit reached",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid license key or machine ID",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromActivationResult(result))
}

// @Summary Deactivate license
// @Description Release a machine slot held by a license key
// @Tags licenses
// @Accept json
// @Produce json
// @Param request body reqdto.DeactivateLicenseRequest true "License key and machine"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /licenses/deactivate [post]
func (h *LicenseHandler) DeactivateLicense(c *gin.Context) {
	var req reqdto.DeactivateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	err := h.licenses.Deactivate(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrActivationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No active activation for that machine",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid license key or machine ID",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "deactivated",
	})
}

// @Summary Revoke license
// @Description Deactivate every machine holding the key at once
// @Tags licenses
// @Produce json
// @Security BearerAuth
// @Param key path string true "License key"
// @Success 200 {object} resdto.RevokeResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /licenses/{key}/revoke [post]
func (h *LicenseHandler) RevokeLicense(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	role, _ := middleware.GetActorRole(c)

	result, err := h.licenses.Revoke(c.Request.Context(), actorID, role, c.Param("key"))
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrLicenseNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "License not found",
			})
		case errors.Is(err, errs.ErrNotResourceOwner):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Only the license's creator or an admin may revoke",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid license key",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromRevokeResult(result))
}

// @Summary List activations
// @Description Device roster for a license key, visible to its creator and admins
// @Tags licenses
// @Produce json
// @Security BearerAuth
// @Param key path string true "License key"
// @Success 200 {array} resdto.ActivationViewResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /licenses/{key}/activations [get]
func (h *LicenseHandler) ListActivations(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	role, _ := middleware.GetActorRole(c)

	views, err := h.licenseQueries.ListActivations(c.Request.Context(), actorID, role, c.Param("key"))
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrLicenseNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "License not found",
			})
		case errors.Is(err, errs.ErrNotResourceOwner):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Only the license's creator or an admin may list activations",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromActivationViews(views))
}
