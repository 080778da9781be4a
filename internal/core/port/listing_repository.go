package port

import (
	"context"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
)

// ListingRepository abstracts persistence for vehicle listings.
type ListingRepository interface {
	ToggleStore
	Create(ctx context.Context, listing domain.Listing) error
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Listing, error)
	ListPublished(ctx context.Context, offset, limit int) ([]domain.Listing, error)
	UpdateStatus(ctx context.Context, id string, status domain.ListingStatus) error
}
