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

const listingsTable = "market.listings"

var listingToggleColumns = toggleColumns{
	"featured":  "featured",
	"published": "published",
}

// ListingRepository implements port.ListingRepository using PostgreSQL.
type ListingRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewListingRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewListingRepository(exec pgExecutor) *ListingRepository {
	return &ListingRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var listingColumns = []string{
	"id",
	"dealer_id",
	"title",
	"slug",
	"make",
	"model",
	"year",
	"price_minor",
	"currency",
	"mileage_km",
	"status",
	"published",
	"featured",
	"created_at",
	"updated_at",
}

// Create inserts a new listing row.
func (r *ListingRepository) Create(ctx context.Context, listing domain.Listing) error {
	stmt, args, err := r.builder.Insert(listingsTable).
		Columns(listingColumns...).
		Values(
			listing.ID,
			listing.DealerID,
			listing.Title,
			listing.Slug,
			listing.Make,
			listing.Model,
			listing.Year,
			listing.PriceMinor,
			listing.Currency,
			listing.MileageKm,
			listing.Status,
			listing.Published,
			listing.Featured,
			listing.CreatedAt,
			listing.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert listing sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert listing: %w", err)
	}

	return nil
}

// GetByID retrieves a listing by identifier.
func (r *ListingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetBySlug retrieves a listing by its public slug.
func (r *ListingRepository) GetBySlug(ctx context.Context, slug string) (*domain.Listing, error) {
	return r.getBy(ctx, squirrel.Eq{"slug": slug})
}

// ListPublished returns approved, published listings ordered newest first.
func (r *ListingRepository) ListPublished(ctx context.Context, offset, limit int) ([]domain.Listing, error) {
	stmt, args, err := r.builder.
		Select(listingColumns...).
		From(listingsTable).
		Where(squirrel.Eq{"published": true, "status": domain.ListingStatusApproved}).
		OrderBy("created_at DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list listings sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}

	return listings, nil
}

// UpdateStatus applies a moderation decision to a listing.
func (r *ListingRepository) UpdateStatus(ctx context.Context, id string, status domain.ListingStatus) error {
	stmt, args, err := r.builder.
		Update(listingsTable).
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update listing status sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update listing status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// GetBoolField reads a registered boolean field for the toggle path.
func (r *ListingRepository) GetBoolField(ctx context.Context, id, field string) (bool, error) {
	return getBoolField(ctx, r.exec, r.builder, listingsTable, listingToggleColumns, id, field)
}

// CompareAndSetBoolField conditionally flips a registered boolean field.
func (r *ListingRepository) CompareAndSetBoolField(ctx context.Context, id, field string, expected, next bool) (bool, error) {
	return compareAndSetBoolField(ctx, r.exec, r.builder, listingsTable, listingToggleColumns, id, field, expected, next)
}

func (r *ListingRepository) getBy(ctx context.Context, predicate squirrel.Eq) (*domain.Listing, error) {
	stmt, args, err := r.builder.
		Select(listingColumns...).
		From(listingsTable).
		Where(predicate).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select listing sql: %w", err)
	}

	return scanListing(r.exec.QueryRow(ctx, stmt, args...))
}

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var listing domain.Listing
	if err := row.Scan(
		&listing.ID,
		&listing.DealerID,
		&listing.Title,
		&listing.Slug,
		&listing.Make,
		&listing.Model,
		&listing.Year,
		&listing.PriceMinor,
		&listing.Currency,
		&listing.MileageKm,
		&listing.Status,
		&listing.Published,
		&listing.Featured,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan listing: %w", err)
	}
	return &listing, nil
}

var _ port.ListingRepository = (*ListingRepository)(nil)
