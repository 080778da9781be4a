package port

import (
	"context"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
)

// DealerRepository abstracts persistence for dealer accounts.
type DealerRepository interface {
	ToggleStore
	Create(ctx context.Context, dealer domain.Dealer) error
	GetByID(ctx context.Context, id string) (*domain.Dealer, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Dealer, error)
}
