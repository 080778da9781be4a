package usecase

import (
	"context"
	"fmt"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
	"github.com/firuln/cepet-deal-sub004/internal/core/port"
)

// UserService exposes administrative account queries.
type UserService struct {
	users port.UserRepository
}

// NewUserService constructs a UserService.
func NewUserService(users port.UserRepository) *UserService {
	return &UserService{users: users}
}

// ListUsers returns a page of accounts for the admin console. Admin only;
// the role check runs before any persistence access.
func (s *UserService) ListUsers(ctx context.Context, actor domain.Identity, page, pageSize int) ([]domain.User, error) {
	if !actor.Present() {
		return nil, ErrUnauthenticated
	}
	if !actor.HasAnyRole(domain.RoleAdmin) {
		return nil, ErrForbidden
	}

	offset, limit := normalizePage(page, pageSize)

	users, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}
