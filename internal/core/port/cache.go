package port

import (
	"context"
	"time"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
)

// ListingCache stores rendered listing pages for cheap public reads.
type ListingCache interface {
	GetPage(ctx context.Context, offset, limit int) ([]domain.Listing, bool, error)
	SetPage(ctx context.Context, offset, limit int, listings []domain.Listing, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}
