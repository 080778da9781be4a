package usecase

import (
	"context"
	"strings"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
	"github.com/firuln/cepet-deal-sub004/internal/core/port"
)

// DealerService exposes public dealer lookups.
type DealerService struct {
	dealers port.DealerRepository
}

// NewDealerService constructs a DealerService.
func NewDealerService(dealers port.DealerRepository) *DealerService {
	return &DealerService{dealers: dealers}
}

// GetBySlug returns the dealer profile for a public page.
func (s *DealerService) GetBySlug(ctx context.Context, slug string) (*domain.Dealer, error) {
	return s.dealers.GetBySlug(ctx, strings.TrimSpace(slug))
}
