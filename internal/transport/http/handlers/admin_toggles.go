package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
	"github.com/firuln/cepet-deal-sub004/internal/repository"
	"github.com/firuln/cepet-deal-sub004/internal/transport/http/middleware"
	"github.com/firuln/cepet-deal-sub004/internal/usecase"
)

// ToggleHandler exposes administrative feature toggle endpoints.
type ToggleHandler struct {
	service *usecase.ToggleService
}

// NewToggleHandler constructs a new handler instance.
func NewToggleHandler(service *usecase.ToggleService) *ToggleHandler {
	return &ToggleHandler{service: service}
}

// ToggleFinance godoc
// @Summary Toggle a user's finance access
// @Description Flips the financeEnabled flag for the given user and returns the new value.
// @Tags Admin
// @Security Bearer
// @Produce json
// @Param userId path string true "User identifier"
// @Success 200 {object} FinanceToggleResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/admin/users/{userId}/toggle-finance [post]
func (h *ToggleHandler) ToggleFinance(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "toggle service unavailable"))
		return
	}

	actor, _ := middleware.GetIdentity(c)
	userID := strings.TrimSpace(c.Param("userId"))

	result, err := h.service.Toggle(c.Request.Context(), actor, domain.EntityKindUser, userID, "financeEnabled")
	if err != nil {
		h.respondToggleError(c, err, domain.EntityKindUser, "Failed to toggle finance feature")
		return
	}

	c.JSON(http.StatusOK, FinanceToggleResponse{
		Success:        true,
		FinanceEnabled: result.NewValue,
	})
}

// Toggle flips a registered boolean field on any supported entity kind.
// The kind and field come from the route, so new toggles only need a
// registry entry.
func (h *ToggleHandler) Toggle(kind domain.EntityKind, field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.service == nil {
			c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "toggle service unavailable"))
			return
		}

		actor, _ := middleware.GetIdentity(c)
		entityID := strings.TrimSpace(c.Param("id"))

		result, err := h.service.Toggle(c.Request.Context(), actor, kind, entityID, field)
		if err != nil {
			h.respondToggleError(c, err, kind, "Failed to toggle feature")
			return
		}

		// The flipped field names its own key, mirroring FinanceToggleResponse.
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			result.Field: result.NewValue,
		})
	}
}

func (h *ToggleHandler) respondToggleError(c *gin.Context, err error, kind domain.EntityKind, fallbackMessage string) {
	switch {
	case errors.Is(err, usecase.ErrEntityIDRequired):
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "entity id is required"))
	case errors.Is(err, usecase.ErrUnauthenticated), errors.Is(err, usecase.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, usecase.ErrUnknownToggle):
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unknown toggle field"))
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": kind.Label() + " not found"})
	default:
		// Detail stays in the server log; the response carries a stable message.
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMessage})
	}
}
