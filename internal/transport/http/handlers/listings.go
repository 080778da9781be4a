package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/firuln/cepet-deal-sub004/internal/repository"
	"github.com/firuln/cepet-deal-sub004/internal/transport/http/middleware"
	"github.com/firuln/cepet-deal-sub004/internal/usecase"
)

// ListingHandler exposes storefront listing endpoints.
type ListingHandler struct {
	service *usecase.ListingService
}

// NewListingHandler constructs a new handler instance.
func NewListingHandler(service *usecase.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// List godoc
// @Summary Browse published listings
// @Description Returns a page of approved, published listings ordered by recency.
// @Tags Listings
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} ListingListResponse
// @Router /api/v1/listings [get]
func (h *ListingHandler) List(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "listing service unavailable"))
		return
	}

	page, pageSize := paginationParams(c)

	listings, err := h.service.ListPublished(c.Request.Context(), page, pageSize)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list listings"))
		return
	}

	response := ListingListResponse{
		Listings: make([]ListingSummary, 0, len(listings)),
		Page:     page,
		PageSize: pageSize,
	}
	for _, l := range listings {
		response.Listings = append(response.Listings, newListingSummary(l))
	}

	c.JSON(http.StatusOK, response)
}

// GetBySlug godoc
// @Summary Fetch one published listing
// @Tags Listings
// @Produce json
// @Param slug path string true "Listing slug"
// @Success 200 {object} ListingDetail
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/listings/{slug} [get]
func (h *ListingHandler) GetBySlug(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "listing service unavailable"))
		return
	}

	slug := strings.TrimSpace(c.Param("slug"))

	listing, err := h.service.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "Listing not found"},
		}, http.StatusInternalServerError, "failed to fetch listing")
		return
	}

	c.JSON(http.StatusOK, newListingDetail(*listing))
}

// Create godoc
// @Summary Create a listing draft
// @Description Creates a pending listing for the caller's dealership. Admins may create for any dealer.
// @Tags Listings
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body CreateListingRequest true "Listing payload"
// @Success 201 {object} ListingDetail
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/listings [post]
func (h *ListingHandler) Create(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "listing service unavailable"))
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	actor, _ := middleware.GetIdentity(c)
	input := usecase.CreateListingInput{
		DealerID:   req.DealerID,
		Title:      req.Title,
		Make:       req.Make,
		Model:      req.Model,
		Year:       req.Year,
		PriceMinor: req.PriceMinor,
		Currency:   req.Currency,
		MileageKm:  req.MileageKm,
	}

	listing, err := h.service.Create(c.Request.Context(), actor, input)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidListing):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		case errors.Is(err, usecase.ErrDealerNotFound):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "dealer not found"))
		case errors.Is(err, usecase.ErrUnauthenticated), errors.Is(err, usecase.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to create listing"))
		}
		return
	}

	c.JSON(http.StatusCreated, newListingDetail(*listing))
}
