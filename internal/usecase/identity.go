package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
	"github.com/firuln/cepet-deal-sub004/internal/infra/security"
)

var (
	// ErrInvalidSessionToken indicates the presented token could not be verified.
	ErrInvalidSessionToken = errors.New("invalid session token")
	// ErrExpiredSessionToken indicates the presented token is past its expiry.
	ErrExpiredSessionToken = errors.New("session token expired")
)

// IdentityService resolves a session token into a request-scoped identity.
// It is the only component that understands the token wire format; everything
// downstream consumes domain.Identity.
type IdentityService struct {
	tokens *security.TokenManager
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(tokens *security.TokenManager) *IdentityService {
	return &IdentityService{tokens: tokens}
}

// Resolve validates the token and maps its claims onto an Identity.
func (s *IdentityService) Resolve(_ context.Context, token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Identity{}, ErrInvalidSessionToken
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return domain.Identity{}, ErrExpiredSessionToken
		}
		return domain.Identity{}, ErrInvalidSessionToken
	}

	role := domain.Role(strings.ToUpper(strings.TrimSpace(claims.Role)))
	if !role.Valid() {
		role = domain.RoleUser
	}

	return domain.Identity{
		SubjectID: claims.UserID,
		Email:     claims.Email,
		Role:      role,
		SessionID: claims.SessionID,
	}, nil
}
