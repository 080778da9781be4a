package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
	"github.com/firuln/cepet-deal-sub004/internal/core/port"
	"github.com/firuln/cepet-deal-sub004/internal/repository"
)

// ErrInvalidArticle indicates the create payload failed validation.
var ErrInvalidArticle = errors.New("invalid article")

// CreateArticleInput captures the payload for creating an article draft.
type CreateArticleInput struct {
	Title string
	Body  string
}

// ArticleService manages editorial content.
type ArticleService struct {
	articles port.ArticleRepository
	events   port.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewArticleService constructs an ArticleService.
func NewArticleService(articles port.ArticleRepository, events port.EventPublisher, logger *zap.Logger) *ArticleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArticleService{articles: articles, events: events, logger: logger, now: time.Now}
}

// ListPublished returns a page of published articles.
func (s *ArticleService) ListPublished(ctx context.Context, page, pageSize int) ([]domain.Article, error) {
	offset, limit := normalizePage(page, pageSize)

	articles, err := s.articles.ListPublished(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list published articles: %w", err)
	}

	return articles, nil
}

// GetBySlug returns a single published article. Drafts are indistinguishable
// from absent articles for public callers.
func (s *ArticleService) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if !article.Published {
		return nil, repository.ErrNotFound
	}

	return article, nil
}

// Create records a new unpublished draft. Admin only; the role check runs
// before any persistence access.
func (s *ArticleService) Create(ctx context.Context, actor domain.Identity, input CreateArticleInput) (*domain.Article, error) {
	if !actor.Present() {
		return nil, ErrUnauthenticated
	}
	if !actor.HasAnyRole(domain.RoleAdmin) {
		return nil, ErrForbidden
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidArticle)
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, fmt.Errorf("%w: body is required", ErrInvalidArticle)
	}

	now := s.now().UTC()
	article := domain.Article{
		ID:        uuid.NewString(),
		AuthorID:  actor.SubjectID,
		Title:     title,
		Slug:      uniqueSlug(title),
		Body:      input.Body,
		Published: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	if s.events != nil {
		event := domain.ArticleCreatedEvent{
			EventID:   uuid.NewString(),
			ArticleID: article.ID,
			AuthorID:  article.AuthorID,
			Title:     article.Title,
			CreatedAt: now,
		}
		if err := s.events.PublishArticleCreated(ctx, event); err != nil {
			s.logger.Warn("failed to publish article created event",
				zap.String("article_id", article.ID),
				zap.Error(err),
			)
		}
	}

	return &article, nil
}
