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

// ArticleHandler exposes editorial content endpoints.
type ArticleHandler struct {
	service *usecase.ArticleService
}

// NewArticleHandler constructs a new handler instance.
func NewArticleHandler(service *usecase.ArticleService) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// List returns published articles ordered by publish date.
func (h *ArticleHandler) List(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "article service unavailable"))
		return
	}

	page, pageSize := paginationParams(c)

	articles, err := h.service.ListPublished(c.Request.Context(), page, pageSize)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list articles"))
		return
	}

	response := ArticleListResponse{
		Articles: make([]ArticleSummary, 0, len(articles)),
		Page:     page,
		PageSize: pageSize,
	}
	for _, a := range articles {
		response.Articles = append(response.Articles, newArticleSummary(a))
	}

	c.JSON(http.StatusOK, response)
}

// GetBySlug returns one published article. Drafts respond 404.
func (h *ArticleHandler) GetBySlug(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "article service unavailable"))
		return
	}

	slug := strings.TrimSpace(c.Param("slug"))

	article, err := h.service.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: "Article not found"},
		}, http.StatusInternalServerError, "failed to fetch article")
		return
	}

	c.JSON(http.StatusOK, newArticleDetail(*article))
}

// Create stores a new article draft authored by the caller.
func (h *ArticleHandler) Create(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "article service unavailable"))
		return
	}

	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	actor, _ := middleware.GetIdentity(c)

	article, err := h.service.Create(c.Request.Context(), actor, usecase.CreateArticleInput{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidArticle):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
		case errors.Is(err, usecase.ErrUnauthenticated), errors.Is(err, usecase.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to create article"))
		}
		return
	}

	c.JSON(http.StatusCreated, newArticleDetail(*article))
}
