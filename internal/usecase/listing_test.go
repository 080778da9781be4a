package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
	"github.com/firuln/cepet-deal-sub004/internal/repository"
)

type stubListingRepo struct {
	stubToggleStore

	listings map[string]*domain.Listing
	bySlug   map[string]*domain.Listing

	created       []domain.Listing
	statusUpdates []string
	getByIDCalls  int
	listCalls     int
}

func newStubListingRepo() *stubListingRepo {
	return &stubListingRepo{
		stubToggleStore: *newStubToggleStore(),
		listings:        make(map[string]*domain.Listing),
		bySlug:          make(map[string]*domain.Listing),
	}
}

func (s *stubListingRepo) add(l domain.Listing) {
	copy := l
	s.listings[l.ID] = &copy
	s.bySlug[l.Slug] = &copy
}

func (s *stubListingRepo) Create(_ context.Context, listing domain.Listing) error {
	s.created = append(s.created, listing)
	s.add(listing)
	return nil
}

func (s *stubListingRepo) GetByID(_ context.Context, id string) (*domain.Listing, error) {
	s.getByIDCalls++
	l, ok := s.listings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *l
	return &copy, nil
}

func (s *stubListingRepo) GetBySlug(_ context.Context, slug string) (*domain.Listing, error) {
	l, ok := s.bySlug[slug]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *l
	return &copy, nil
}

func (s *stubListingRepo) ListPublished(_ context.Context, _, _ int) ([]domain.Listing, error) {
	s.listCalls++
	var out []domain.Listing
	for _, l := range s.listings {
		if l.Published && l.Status == domain.ListingStatusApproved {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (s *stubListingRepo) UpdateStatus(_ context.Context, id string, status domain.ListingStatus) error {
	l, ok := s.listings[id]
	if !ok {
		return repository.ErrNotFound
	}
	l.Status = status
	s.statusUpdates = append(s.statusUpdates, id)
	return nil
}

type stubDealerRepo struct {
	stubToggleStore
	dealers map[string]*domain.Dealer
}

func newStubDealerRepo() *stubDealerRepo {
	return &stubDealerRepo{
		stubToggleStore: *newStubToggleStore(),
		dealers:         make(map[string]*domain.Dealer),
	}
}

func (s *stubDealerRepo) Create(_ context.Context, dealer domain.Dealer) error {
	copy := dealer
	s.dealers[dealer.ID] = &copy
	return nil
}

func (s *stubDealerRepo) GetByID(_ context.Context, id string) (*domain.Dealer, error) {
	d, ok := s.dealers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *d
	return &copy, nil
}

func (s *stubDealerRepo) GetBySlug(_ context.Context, slug string) (*domain.Dealer, error) {
	for _, d := range s.dealers {
		if d.Slug == slug {
			copy := *d
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

type stubListingCache struct {
	pages       map[string][]domain.Listing
	invalidated int
	getErr      error
}

func newStubListingCache() *stubListingCache {
	return &stubListingCache{pages: make(map[string][]domain.Listing)}
}

func cachePageKey(offset, limit int) string {
	return fmt.Sprintf("%d:%d", offset, limit)
}

func (s *stubListingCache) GetPage(_ context.Context, offset, limit int) ([]domain.Listing, bool, error) {
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	page, ok := s.pages[cachePageKey(offset, limit)]
	return page, ok, nil
}

func (s *stubListingCache) SetPage(_ context.Context, offset, limit int, listings []domain.Listing, _ time.Duration) error {
	s.pages[cachePageKey(offset, limit)] = listings
	return nil
}

func (s *stubListingCache) Invalidate(_ context.Context) error {
	s.invalidated++
	s.pages = make(map[string][]domain.Listing)
	return nil
}

func validListingInput() CreateListingInput {
	return CreateListingInput{
		DealerID:   "dealer-1",
		Title:      "2019 Toyota Avanza G",
		Make:       "Toyota",
		Model:      "Avanza",
		Year:       2019,
		PriceMinor: 15500000000,
		Currency:   "idr",
	}
}

func newListingFixture(listings *stubListingRepo, dealers *stubDealerRepo) *ListingService {
	owner := "owner-1"
	dealers.dealers["dealer-1"] = &domain.Dealer{ID: "dealer-1", OwnerUserID: owner, Name: "Surabaya Motors", Slug: "surabaya-motors"}
	return NewListingService(listings, dealers, &capturingPublisher{}, nil)
}

func TestCreateListingStartsPendingAndUnpublished(t *testing.T) {
	listings := newStubListingRepo()
	dealers := newStubDealerRepo()
	svc := newListingFixture(listings, dealers)

	dealer := domain.Identity{SubjectID: "owner-1", Role: domain.RoleDealer}

	listing, err := svc.Create(context.Background(), dealer, validListingInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if listing.Status != domain.ListingStatusPending {
		t.Fatalf("expected pending status, got %s", listing.Status)
	}
	if listing.Published || listing.Featured {
		t.Fatalf("new listing must start unpublished and unfeatured")
	}
	if listing.Currency != "IDR" {
		t.Fatalf("expected normalized currency IDR, got %s", listing.Currency)
	}
	if listing.Slug == "" {
		t.Fatalf("expected generated slug")
	}
}

func TestCreateListingRejectsForeignDealer(t *testing.T) {
	listings := newStubListingRepo()
	dealers := newStubDealerRepo()
	svc := newListingFixture(listings, dealers)

	intruder := domain.Identity{SubjectID: "someone-else", Role: domain.RoleDealer}

	_, err := svc.Create(context.Background(), intruder, validListingInput())
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(listings.created) != 0 {
		t.Fatalf("listing persisted despite ownership failure")
	}
}

func TestCreateListingAdminBypassesOwnership(t *testing.T) {
	listings := newStubListingRepo()
	dealers := newStubDealerRepo()
	svc := newListingFixture(listings, dealers)

	if _, err := svc.Create(context.Background(), adminActor(), validListingInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateListingValidation(t *testing.T) {
	listings := newStubListingRepo()
	dealers := newStubDealerRepo()
	svc := newListingFixture(listings, dealers)

	dealer := domain.Identity{SubjectID: "owner-1", Role: domain.RoleDealer}

	cases := []struct {
		name   string
		mutate func(*CreateListingInput)
	}{
		{"missing title", func(in *CreateListingInput) { in.Title = "  " }},
		{"missing make", func(in *CreateListingInput) { in.Make = "" }},
		{"year too old", func(in *CreateListingInput) { in.Year = 1850 }},
		{"non-positive price", func(in *CreateListingInput) { in.PriceMinor = 0 }},
		{"bad currency", func(in *CreateListingInput) { in.Currency = "RUPIAH" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validListingInput()
			tc.mutate(&input)
			if _, err := svc.Create(context.Background(), dealer, input); !errors.Is(err, ErrInvalidListing) {
				t.Fatalf("expected ErrInvalidListing, got %v", err)
			}
		})
	}
}

func TestModerateChecksRoleBeforeLookup(t *testing.T) {
	listings := newStubListingRepo()
	dealers := newStubDealerRepo()
	svc := newListingFixture(listings, dealers)

	dealer := domain.Identity{SubjectID: "owner-1", Role: domain.RoleDealer}

	_, err := svc.Moderate(context.Background(), dealer, "listing-1", domain.ListingStatusApproved)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if listings.getByIDCalls != 0 {
		t.Fatalf("listing was read before authorization")
	}
}

func TestModerateApprovesAndInvalidatesCache(t *testing.T) {
	listings := newStubListingRepo()
	dealers := newStubDealerRepo()
	cache := newStubListingCache()
	publisher := &capturingPublisher{}

	dealers.dealers["dealer-1"] = &domain.Dealer{ID: "dealer-1", OwnerUserID: "owner-1"}
	listings.add(domain.Listing{ID: "listing-1", DealerID: "dealer-1", Slug: "avanza", Status: domain.ListingStatusPending})

	svc := NewListingService(listings, dealers, publisher, nil).WithCache(cache, time.Minute)

	listing, err := svc.Moderate(context.Background(), adminActor(), "listing-1", domain.ListingStatusApproved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if listing.Status != domain.ListingStatusApproved {
		t.Fatalf("expected approved, got %s", listing.Status)
	}
	if cache.invalidated != 1 {
		t.Fatalf("expected cache invalidation, got %d", cache.invalidated)
	}
	if len(publisher.moderated) != 1 {
		t.Fatalf("expected moderation event, got %d", len(publisher.moderated))
	}
}

func TestModerateRejectsUnknownDecision(t *testing.T) {
	listings := newStubListingRepo()
	dealers := newStubDealerRepo()
	svc := newListingFixture(listings, dealers)

	_, err := svc.Moderate(context.Background(), adminActor(), "listing-1", domain.ListingStatus("escalated"))
	if !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
}

func TestGetBySlugHidesUnpublishedListings(t *testing.T) {
	listings := newStubListingRepo()
	dealers := newStubDealerRepo()
	svc := newListingFixture(listings, dealers)

	listings.add(domain.Listing{ID: "l1", Slug: "draft", Status: domain.ListingStatusApproved, Published: false})
	listings.add(domain.Listing{ID: "l2", Slug: "pending", Status: domain.ListingStatusPending, Published: true})
	listings.add(domain.Listing{ID: "l3", Slug: "live", Status: domain.ListingStatusApproved, Published: true})

	if _, err := svc.GetBySlug(context.Background(), "draft"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unpublished, got %v", err)
	}
	if _, err := svc.GetBySlug(context.Background(), "pending"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unapproved, got %v", err)
	}
	if _, err := svc.GetBySlug(context.Background(), "live"); err != nil {
		t.Fatalf("expected live listing, got %v", err)
	}
}

func TestListPublishedUsesCacheAndDegradesOnError(t *testing.T) {
	listings := newStubListingRepo()
	dealers := newStubDealerRepo()
	cache := newStubListingCache()
	svc := newListingFixture(listings, dealers).WithCache(cache, time.Minute)

	listings.add(domain.Listing{ID: "l1", Slug: "live", Status: domain.ListingStatusApproved, Published: true})

	if _, err := svc.ListPublished(context.Background(), 1, 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listings.listCalls != 1 {
		t.Fatalf("expected one repository read, got %d", listings.listCalls)
	}

	// Second read should come from the cache.
	if _, err := svc.ListPublished(context.Background(), 1, 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listings.listCalls != 1 {
		t.Fatalf("expected cache hit, repository reads=%d", listings.listCalls)
	}

	// A failing cache must not fail the read.
	cache.getErr = errors.New("redis down")
	if _, err := svc.ListPublished(context.Background(), 1, 20); err != nil {
		t.Fatalf("expected degraded read to succeed, got %v", err)
	}
	if listings.listCalls != 2 {
		t.Fatalf("expected direct repository read on cache failure, got %d", listings.listCalls)
	}
}

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, pageSize   int
		wantOff, wantLim int
	}{
		{1, 20, 0, 20},
		{0, 0, 0, defaultPageSize},
		{3, 10, 20, 10},
		{1, 1000, 0, maxPageSize},
		{-5, -5, 0, defaultPageSize},
	}

	for _, tc := range cases {
		off, lim := normalizePage(tc.page, tc.pageSize)
		if off != tc.wantOff || lim != tc.wantLim {
			t.Fatalf("normalizePage(%d,%d)=(%d,%d), want (%d,%d)", tc.page, tc.pageSize, off, lim, tc.wantOff, tc.wantLim)
		}
	}
}
