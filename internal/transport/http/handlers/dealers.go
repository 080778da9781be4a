package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/firuln/cepet-deal-sub004/internal/repository"
	"github.com/firuln/cepet-deal-sub004/internal/usecase"
)

// DealerHandler exposes public dealer profile endpoints.
type DealerHandler struct {
	service *usecase.DealerService
}

// NewDealerHandler constructs a new handler instance.
func NewDealerHandler(service *usecase.DealerService) *DealerHandler {
	return &DealerHandler{service: service}
}

// GetBySlug returns a dealer profile by its public slug.
func (h *DealerHandler) GetBySlug(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "dealer service unavailable"))
		return
	}

	slug := strings.TrimSpace(c.Param("slug"))

	dealer, err := h.service.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "Dealer not found"},
		}, http.StatusInternalServerError, "failed to fetch dealer")
		return
	}

	c.JSON(http.StatusOK, newDealerResponse(*dealer))
}
