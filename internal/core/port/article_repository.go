package port

import (
	"context"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
)

// ArticleRepository abstracts persistence for editorial articles.
type ArticleRepository interface {
	ToggleStore
	Create(ctx context.Context, article domain.Article) error
	GetBySlug(ctx context.Context, slug string) (*domain.Article, error)
	ListPublished(ctx context.Context, offset, limit int) ([]domain.Article, error)
}
