package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse describes the liveness payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse describes the readiness payload with per-dependency status.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// FinanceToggleResponse is the payload returned when a user's finance access flag is flipped.
type FinanceToggleResponse struct {
	Success        bool `json:"success"`
	FinanceEnabled bool `json:"financeEnabled"`
}

// IdentityResponse describes the authenticated caller.
type IdentityResponse struct {
	SubjectID string `json:"subject_id"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
}

// UserSummary describes a minimal view of a user returned by admin endpoints.
type UserSummary struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	FinanceEnabled bool      `json:"financeEnabled"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

func newUserSummary(u domain.User) UserSummary {
	return UserSummary{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           string(u.Role),
		FinanceEnabled: u.FinanceEnabled,
		Active:         u.Active,
		CreatedAt:      u.CreatedAt,
	}
}

// UserListResponse wraps the admin user listing.
type UserListResponse struct {
	Users []UserSummary `json:"users"`
}

// DealerResponse describes a dealer profile.
type DealerResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	City           *string `json:"city,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	FinanceEnabled bool    `json:"financeEnabled"`
	Verified       bool    `json:"verified"`
}

func newDealerResponse(d domain.Dealer) DealerResponse {
	return DealerResponse{
		ID:             d.ID,
		Name:           d.Name,
		Slug:           d.Slug,
		City:           d.City,
		Phone:          d.Phone,
		FinanceEnabled: d.FinanceEnabled,
		Verified:       d.Verified,
	}
}

// ListingSummary is the compact listing view used in collection responses.
type ListingSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Make       string `json:"make"`
	Model      string `json:"model"`
	Year       int    `json:"year"`
	PriceMinor int64  `json:"price_minor"`
	Currency   string `json:"currency"`
	Featured   bool   `json:"featured"`
}

// ListingDetail is the full listing view returned for a single listing.
type ListingDetail struct {
	ListingSummary
	DealerID  string    `json:"dealer_id"`
	MileageKm *int      `json:"mileage_km,omitempty"`
	Status    string    `json:"status"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
}

func newListingSummary(l domain.Listing) ListingSummary {
	return ListingSummary{
		ID:         l.ID,
		Title:      l.Title,
		Slug:       l.Slug,
		Make:       l.Make,
		Model:      l.Model,
		Year:       l.Year,
		PriceMinor: l.PriceMinor,
		Currency:   l.Currency,
		Featured:   l.Featured,
	}
}

func newListingDetail(l domain.Listing) ListingDetail {
	return ListingDetail{
		ListingSummary: newListingSummary(l),
		DealerID:       l.DealerID,
		MileageKm:      l.MileageKm,
		Status:         string(l.Status),
		Published:      l.Published,
		CreatedAt:      l.CreatedAt,
	}
}

// ListingListResponse wraps a page of listings.
type ListingListResponse struct {
	Listings []ListingSummary `json:"listings"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// CreateListingRequest defines the payload for creating a listing.
type CreateListingRequest struct {
	DealerID   string `json:"dealer_id" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Make       string `json:"make" binding:"required"`
	Model      string `json:"model" binding:"required"`
	Year       int    `json:"year" binding:"required"`
	PriceMinor int64  `json:"price_minor" binding:"required"`
	Currency   string `json:"currency" binding:"required"`
	MileageKm  *int   `json:"mileage_km"`
}

// ModerateListingRequest defines the payload for a moderation decision.
type ModerateListingRequest struct {
	Decision string `json:"decision" binding:"required"`
}

// ArticleSummary is the compact article view used in collection responses.
type ArticleSummary struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// ArticleDetail is the full article view.
type ArticleDetail struct {
	ArticleSummary
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func newArticleSummary(a domain.Article) ArticleSummary {
	return ArticleSummary{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		PublishedAt: a.PublishedAt,
	}
}

func newArticleDetail(a domain.Article) ArticleDetail {
	return ArticleDetail{
		ArticleSummary: newArticleSummary(a),
		Body:           a.Body,
		CreatedAt:      a.CreatedAt,
	}
}

// ArticleListResponse wraps a page of articles.
type ArticleListResponse struct {
	Articles []ArticleSummary `json:"articles"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// CreateArticleRequest defines the payload for creating an article draft.
type CreateArticleRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}
