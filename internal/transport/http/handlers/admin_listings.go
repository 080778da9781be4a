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

// ModerationHandler exposes administrative listing moderation endpoints.
type ModerationHandler struct {
	service *usecase.ListingService
}

// NewModerationHandler constructs a new handler instance.
func NewModerationHandler(service *usecase.ListingService) *ModerationHandler {
	return &ModerationHandler{service: service}
}

// Moderate godoc
// @Summary Decide on a pending listing
// @Description Approves or rejects a pending listing.
// @Tags Admin
// @Security Bearer
// @Accept json
// @Produce json
// @Param id path string true "Listing identifier"
// @Param request body ModerateListingRequest true "Moderation decision"
// @Success 200 {object} ListingDetail
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/admin/listings/{id}/moderate [post]
func (h *ModerationHandler) Moderate(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "listing service unavailable"))
		return
	}

	listingID := strings.TrimSpace(c.Param("id"))
	if listingID == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "listing id is required"))
		return
	}

	var req ModerateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	actor, _ := middleware.GetIdentity(c)
	decision := domain.ListingStatus(strings.ToLower(strings.TrimSpace(req.Decision)))

	listing, err := h.service.Moderate(c.Request.Context(), actor, listingID, decision)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidDecision):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		case errors.Is(err, usecase.ErrUnauthenticated), errors.Is(err, usecase.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to moderate listing"))
		}
		return
	}

	c.JSON(http.StatusOK, newListingDetail(*listing))
}
