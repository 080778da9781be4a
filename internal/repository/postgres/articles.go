package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
	"github.com/firuln/cepet-deal-sub004/internal/core/port"
	"github.com/firuln/cepet-deal-sub004/internal/repository"
)

const articlesTable = "market.articles"

var articleToggleColumns = toggleColumns{
	"published": "published",
}

// ArticleRepository implements port.ArticleRepository using PostgreSQL.
type ArticleRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewArticleRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewArticleRepository(exec pgExecutor) *ArticleRepository {
	return &ArticleRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var articleColumns = []string{
	"id",
	"author_id",
	"title",
	"slug",
	"body",
	"published",
	"published_at",
	"created_at",
	"updated_at",
}

// Create inserts a new article row.
func (r *ArticleRepository) Create(ctx context.Context, article domain.Article) error {
	stmt, args, err := r.builder.Insert(articlesTable).
		Columns(articleColumns...).
		Values(
			article.ID,
			article.AuthorID,
			article.Title,
			article.Slug,
			article.Body,
			article.Published,
			article.PublishedAt,
			article.CreatedAt,
			article.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert article sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert article: %w", err)
	}

	return nil
}

// GetBySlug retrieves an article by its public slug.
func (r *ArticleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	stmt, args, err := r.builder.
		Select(articleColumns...).
		From(articlesTable).
		Where(squirrel.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select article sql: %w", err)
	}

	return scanArticle(r.exec.QueryRow(ctx, stmt, args...))
}

// ListPublished returns published articles ordered newest first.
func (r *ArticleRepository) ListPublished(ctx context.Context, offset, limit int) ([]domain.Article, error) {
	stmt, args, err := r.builder.
		Select(articleColumns...).
		From(articlesTable).
		Where(squirrel.Eq{"published": true}).
		OrderBy("published_at DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list articles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}

	return articles, nil
}

// GetBoolField reads a registered boolean field for the toggle path.
func (r *ArticleRepository) GetBoolField(ctx context.Context, id, field string) (bool, error) {
	return getBoolField(ctx, r.exec, r.builder, articlesTable, articleToggleColumns, id, field)
}

// CompareAndSetBoolField conditionally flips a registered boolean field.
func (r *ArticleRepository) CompareAndSetBoolField(ctx context.Context, id, field string, expected, next bool) (bool, error) {
	return compareAndSetBoolField(ctx, r.exec, r.builder, articlesTable, articleToggleColumns, id, field, expected, next)
}

func scanArticle(row pgx.Row) (*domain.Article, error) {
	var article domain.Article
	if err := row.Scan(
		&article.ID,
		&article.AuthorID,
		&article.Title,
		&article.Slug,
		&article.Body,
		&article.Published,
		&article.PublishedAt,
		&article.CreatedAt,
		&article.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan article: %w", err)
	}
	return &article, nil
}

var _ port.ArticleRepository = (*ArticleRepository)(nil)
