package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
	"github.com/firuln/cepet-deal-sub004/internal/core/port"
	"github.com/firuln/cepet-deal-sub004/internal/repository"
)

var (
	// ErrInvalidListing indicates the create payload failed validation.
	ErrInvalidListing = errors.New("invalid listing")
	// ErrInvalidDecision indicates an unknown moderation decision.
	ErrInvalidDecision = errors.New("decision must be approved or rejected")
	// ErrDealerNotFound is returned when the listing's dealer does not exist.
	ErrDealerNotFound = errors.New("dealer not found")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CreateListingInput captures the payload for creating a listing.
type CreateListingInput struct {
	DealerID   string
	Title      string
	Make       string
	Model      string
	Year       int
	PriceMinor int64
	Currency   string
	MileageKm  *int
}

// ListingService manages vehicle listings and their moderation lifecycle.
type ListingService struct {
	listings port.ListingRepository
	dealers  port.DealerRepository
	cache    port.ListingCache
	events   port.EventPublisher
	logger   *zap.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewListingService constructs a ListingService.
func NewListingService(listings port.ListingRepository, dealers port.DealerRepository, events port.EventPublisher, logger *zap.Logger) *ListingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingService{
		listings: listings,
		dealers:  dealers,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// WithCache attaches a read cache for published listing pages.
func (s *ListingService) WithCache(cache port.ListingCache, ttl time.Duration) *ListingService {
	s.cache = cache
	if ttl <= 0 {
		ttl = time.Minute
	}
	s.cacheTTL = ttl
	return s
}

// ListPublished returns a page of approved, published listings. Cache errors
// degrade to a direct read.
func (s *ListingService) ListPublished(ctx context.Context, page, pageSize int) ([]domain.Listing, error) {
	offset, limit := normalizePage(page, pageSize)

	if s.cache != nil {
		cached, hit, err := s.cache.GetPage(ctx, offset, limit)
		if err != nil {
			s.logger.Warn("listing cache read failed", zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	listings, err := s.listings.ListPublished(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list published listings: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetPage(ctx, offset, limit, listings, s.cacheTTL); err != nil {
			s.logger.Warn("listing cache write failed", zap.Error(err))
		}
	}

	return listings, nil
}

// GetBySlug returns a single published listing. Unpublished or unapproved
// listings are indistinguishable from absent ones for public callers.
func (s *ListingService) GetBySlug(ctx context.Context, slug string) (*domain.Listing, error) {
	listing, err := s.listings.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if !listing.Published || listing.Status != domain.ListingStatusApproved {
		return nil, repository.ErrNotFound
	}

	return listing, nil
}

// Create records a new listing in the pending moderation state. Dealers may
// only create listings for dealerships they own; admins are unrestricted.
func (s *ListingService) Create(ctx context.Context, actor domain.Identity, input CreateListingInput) (*domain.Listing, error) {
	if !actor.Present() {
		return nil, ErrUnauthenticated
	}
	if !actor.HasAnyRole(domain.RoleDealer, domain.RoleAdmin) {
		return nil, ErrForbidden
	}

	if err := validateListingInput(input); err != nil {
		return nil, err
	}

	dealer, err := s.dealers.GetByID(ctx, input.DealerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDealerNotFound
		}
		return nil, fmt.Errorf("lookup dealer: %w", err)
	}

	if actor.Role != domain.RoleAdmin && dealer.OwnerUserID != actor.SubjectID {
		return nil, ErrForbidden
	}

	now := s.now().UTC()
	listing := domain.Listing{
		ID:         uuid.NewString(),
		DealerID:   dealer.ID,
		Title:      strings.TrimSpace(input.Title),
		Slug:       uniqueSlug(input.Title),
		Make:       strings.TrimSpace(input.Make),
		Model:      strings.TrimSpace(input.Model),
		Year:       input.Year,
		PriceMinor: input.PriceMinor,
		Currency:   strings.ToUpper(strings.TrimSpace(input.Currency)),
		MileageKm:  input.MileageKm,
		Status:     domain.ListingStatusPending,
		Published:  false,
		Featured:   false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	return &listing, nil
}

// Moderate applies an approve/reject decision to a pending listing. The role
// check runs before any entity read.
func (s *ListingService) Moderate(ctx context.Context, actor domain.Identity, listingID string, decision domain.ListingStatus) (*domain.Listing, error) {
	if !actor.Present() {
		return nil, ErrUnauthenticated
	}
	if !actor.HasAnyRole(domain.RoleAdmin) {
		return nil, ErrForbidden
	}

	if decision != domain.ListingStatusApproved && decision != domain.ListingStatusRejected {
		return nil, ErrInvalidDecision
	}

	listing, err := s.listings.GetByID(ctx, strings.TrimSpace(listingID))
	if err != nil {
		return nil, err
	}

	if err := s.listings.UpdateStatus(ctx, listing.ID, decision); err != nil {
		return nil, fmt.Errorf("update listing status: %w", err)
	}
	listing.Status = decision

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("listing cache invalidation failed", zap.Error(err))
		}
	}

	if s.events != nil {
		event := domain.ListingModeratedEvent{
			EventID:     uuid.NewString(),
			ListingID:   listing.ID,
			DealerID:    listing.DealerID,
			Decision:    decision,
			ActorID:     actor.SubjectID,
			ModeratedAt: s.now().UTC(),
		}
		if err := s.events.PublishListingModerated(ctx, event); err != nil {
			s.logger.Warn("failed to publish listing moderated event",
				zap.String("listing_id", listing.ID),
				zap.Error(err),
			)
		}
	}

	return listing, nil
}

func validateListingInput(input CreateListingInput) error {
	if strings.TrimSpace(input.DealerID) == "" {
		return fmt.Errorf("%w: dealer id is required", ErrInvalidListing)
	}
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidListing)
	}
	if strings.TrimSpace(input.Make) == "" || strings.TrimSpace(input.Model) == "" {
		return fmt.Errorf("%w: make and model are required", ErrInvalidListing)
	}
	if input.Year < 1900 || input.Year > time.Now().Year()+1 {
		return fmt.Errorf("%w: year out of range", ErrInvalidListing)
	}
	if input.PriceMinor <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidListing)
	}
	if len(strings.TrimSpace(input.Currency)) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidListing)
	}
	return nil
}

func normalizePage(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return (page - 1) * pageSize, pageSize
}
