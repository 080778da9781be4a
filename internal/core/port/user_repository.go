package port

import (
	"context"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
)

// UserRepository abstracts persistence for marketplace accounts.
type UserRepository interface {
	ToggleStore
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, error)
}
