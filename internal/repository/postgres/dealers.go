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

const dealersTable = "market.dealers"

var dealerToggleColumns = toggleColumns{
	"financeEnabled": "finance_enabled",
	"verified":       "verified",
}

// DealerRepository implements port.DealerRepository using PostgreSQL.
type DealerRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewDealerRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewDealerRepository(exec pgExecutor) *DealerRepository {
	return &DealerRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var dealerColumns = []string{
	"id",
	"owner_user_id",
	"name",
	"slug",
	"city",
	"phone",
	"finance_enabled",
	"verified",
	"created_at",
	"updated_at",
}

// Create inserts a new dealer row.
func (r *DealerRepository) Create(ctx context.Context, dealer domain.Dealer) error {
	stmt, args, err := r.builder.Insert(dealersTable).
		Columns(dealerColumns...).
		Values(
			dealer.ID,
			dealer.OwnerUserID,
			dealer.Name,
			dealer.Slug,
			dealer.City,
			dealer.Phone,
			dealer.FinanceEnabled,
			dealer.Verified,
			dealer.CreatedAt,
			dealer.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert dealer sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert dealer: %w", err)
	}

	return nil
}

// GetByID retrieves a dealer by identifier.
func (r *DealerRepository) GetByID(ctx context.Context, id string) (*domain.Dealer, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetBySlug retrieves a dealer by its public slug.
func (r *DealerRepository) GetBySlug(ctx context.Context, slug string) (*domain.Dealer, error) {
	return r.getBy(ctx, squirrel.Eq{"slug": slug})
}

// GetBoolField reads a registered boolean field for the toggle path.
func (r *DealerRepository) GetBoolField(ctx context.Context, id, field string) (bool, error) {
	return getBoolField(ctx, r.exec, r.builder, dealersTable, dealerToggleColumns, id, field)
}

// CompareAndSetBoolField conditionally flips a registered boolean field.
func (r *DealerRepository) CompareAndSetBoolField(ctx context.Context, id, field string, expected, next bool) (bool, error) {
	return compareAndSetBoolField(ctx, r.exec, r.builder, dealersTable, dealerToggleColumns, id, field, expected, next)
}

func (r *DealerRepository) getBy(ctx context.Context, predicate squirrel.Eq) (*domain.Dealer, error) {
	stmt, args, err := r.builder.
		Select(dealerColumns...).
		From(dealersTable).
		Where(predicate).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select dealer sql: %w", err)
	}

	var dealer domain.Dealer
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&dealer.ID,
		&dealer.OwnerUserID,
		&dealer.Name,
		&dealer.Slug,
		&dealer.City,
		&dealer.Phone,
		&dealer.FinanceEnabled,
		&dealer.Verified,
		&dealer.CreatedAt,
		&dealer.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan dealer: %w", err)
	}

	return &dealer, nil
}

var _ port.DealerRepository = (*DealerRepository)(nil)
