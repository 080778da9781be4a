package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
	"github.com/firuln/cepet-deal-sub004/internal/repository"
)

type stubToggleStore struct {
	values map[string]map[string]bool

	reads      int
	writes     int
	failWrites int
	readErr    error
	writeErr   error

	// interleave, when set, runs after each failed CAS to simulate a
	// concurrent writer changing the stored value.
	interleave func()
}

func newStubToggleStore() *stubToggleStore {
	return &stubToggleStore{values: make(map[string]map[string]bool)}
}

func (s *stubToggleStore) set(id, field string, value bool) {
	if s.values[id] == nil {
		s.values[id] = make(map[string]bool)
	}
	s.values[id][field] = value
}

func (s *stubToggleStore) GetBoolField(_ context.Context, id, field string) (bool, error) {
	s.reads++
	if s.readErr != nil {
		return false, s.readErr
	}
	fields, ok := s.values[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	value, ok := fields[field]
	if !ok {
		return false, repository.ErrUnknownField
	}
	return value, nil
}

func (s *stubToggleStore) CompareAndSetBoolField(_ context.Context, id, field string, expected, next bool) (bool, error) {
	s.writes++
	if s.writeErr != nil {
		return false, s.writeErr
	}
	if s.failWrites > 0 {
		s.failWrites--
		if s.interleave != nil {
			s.interleave()
		}
		return false, nil
	}
	fields, ok := s.values[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if fields[field] != expected {
		return false, nil
	}
	fields[field] = next
	return true, nil
}

type capturingPublisher struct {
	toggled   []domain.FeatureToggledEvent
	moderated []domain.ListingModeratedEvent
	articles  []domain.ArticleCreatedEvent
	err       error
}

func (p *capturingPublisher) PublishFeatureToggled(_ context.Context, event domain.FeatureToggledEvent) error {
	if p.err != nil {
		return p.err
	}
	p.toggled = append(p.toggled, event)
	return nil
}

func (p *capturingPublisher) PublishListingModerated(_ context.Context, event domain.ListingModeratedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.moderated = append(p.moderated, event)
	return nil
}

func (p *capturingPublisher) PublishArticleCreated(_ context.Context, event domain.ArticleCreatedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.articles = append(p.articles, event)
	return nil
}

func newFinanceToggleService(store *stubToggleStore, publisher *capturingPublisher) *ToggleService {
	return NewToggleService(publisher, nil).
		WithClock(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }).
		RegisterStore(domain.EntityKindUser, store).
		Register(ToggleDefinition{Kind: domain.EntityKindUser, Field: "financeEnabled"})
}

func adminActor() domain.Identity {
	return domain.Identity{SubjectID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin}
}

func TestToggleFlipsValueAndPublishesEvent(t *testing.T) {
	store := newStubToggleStore()
	store.set("user-1", "financeEnabled", false)
	publisher := &capturingPublisher{}
	svc := newFinanceToggleService(store, publisher)

	result, err := svc.Toggle(context.Background(), adminActor(), domain.EntityKindUser, "user-1", "financeEnabled")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.NewValue {
		t.Fatalf("expected new value true, got false")
	}
	if got := store.values["user-1"]["financeEnabled"]; !got {
		t.Fatalf("expected stored value true, got false")
	}
	if len(publisher.toggled) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(publisher.toggled))
	}
	if publisher.toggled[0].ActorID != "admin-1" {
		t.Fatalf("expected actor admin-1, got %s", publisher.toggled[0].ActorID)
	}
}

func TestToggleTwiceRestoresOriginalValue(t *testing.T) {
	store := newStubToggleStore()
	store.set("user-1", "financeEnabled", true)
	svc := newFinanceToggleService(store, &capturingPublisher{})

	for i := 0; i < 2; i++ {
		if _, err := svc.Toggle(context.Background(), adminActor(), domain.EntityKindUser, "user-1", "financeEnabled"); err != nil {
			t.Fatalf("toggle %d failed: %v", i+1, err)
		}
	}

	if got := store.values["user-1"]["financeEnabled"]; !got {
		t.Fatalf("expected value restored to true after double toggle")
	}
}

func TestToggleRequiresAuthentication(t *testing.T) {
	store := newStubToggleStore()
	store.set("user-1", "financeEnabled", false)
	svc := newFinanceToggleService(store, &capturingPublisher{})

	_, err := svc.Toggle(context.Background(), domain.Identity{}, domain.EntityKindUser, "user-1", "financeEnabled")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if store.reads != 0 || store.writes != 0 {
		t.Fatalf("store touched before authentication: reads=%d writes=%d", store.reads, store.writes)
	}
}

func TestToggleRejectsInsufficientRoleBeforeEntityLookup(t *testing.T) {
	store := newStubToggleStore()
	store.set("user-1", "financeEnabled", false)
	svc := newFinanceToggleService(store, &capturingPublisher{})

	dealer := domain.Identity{SubjectID: "dealer-1", Role: domain.RoleDealer}

	_, err := svc.Toggle(context.Background(), dealer, domain.EntityKindUser, "user-1", "financeEnabled")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if store.reads != 0 {
		t.Fatalf("existence was checked before authorization: reads=%d", store.reads)
	}
	if got := store.values["user-1"]["financeEnabled"]; got {
		t.Fatalf("value changed on forbidden request")
	}
}

func TestToggleUnknownEntityReturnsNotFoundWithoutWrite(t *testing.T) {
	store := newStubToggleStore()
	svc := newFinanceToggleService(store, &capturingPublisher{})

	_, err := svc.Toggle(context.Background(), adminActor(), domain.EntityKindUser, "missing", "financeEnabled")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if store.writes != 0 {
		t.Fatalf("expected no writes for missing entity, got %d", store.writes)
	}
}

func TestToggleEmptyEntityID(t *testing.T) {
	svc := newFinanceToggleService(newStubToggleStore(), &capturingPublisher{})

	_, err := svc.Toggle(context.Background(), adminActor(), domain.EntityKindUser, "   ", "financeEnabled")
	if !errors.Is(err, ErrEntityIDRequired) {
		t.Fatalf("expected ErrEntityIDRequired, got %v", err)
	}
}

func TestToggleUnknownFieldForNonAdminIsForbidden(t *testing.T) {
	store := newStubToggleStore()
	store.set("user-1", "financeEnabled", false)
	svc := newFinanceToggleService(store, &capturingPublisher{})

	dealer := domain.Identity{SubjectID: "dealer-1", Role: domain.RoleDealer}

	_, err := svc.Toggle(context.Background(), dealer, domain.EntityKindUser, "user-1", "nosuchfield")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin unknown field, got %v", err)
	}
}

func TestToggleUnknownFieldForAdmin(t *testing.T) {
	store := newStubToggleStore()
	store.set("user-1", "financeEnabled", false)
	svc := newFinanceToggleService(store, &capturingPublisher{})

	_, err := svc.Toggle(context.Background(), adminActor(), domain.EntityKindUser, "user-1", "nosuchfield")
	if !errors.Is(err, ErrUnknownToggle) {
		t.Fatalf("expected ErrUnknownToggle for admin, got %v", err)
	}
}

func TestToggleRetriesAfterLostRace(t *testing.T) {
	store := newStubToggleStore()
	store.set("user-1", "financeEnabled", false)
	store.failWrites = 1
	store.interleave = func() {
		// A concurrent admin flipped the flag between our read and write.
		store.values["user-1"]["financeEnabled"] = true
	}
	svc := newFinanceToggleService(store, &capturingPublisher{})

	result, err := svc.Toggle(context.Background(), adminActor(), domain.EntityKindUser, "user-1", "financeEnabled")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}

	// Second attempt observed true and flipped it back to false.
	if result.NewValue {
		t.Fatalf("expected new value false after retry, got true")
	}
	if store.writes != 2 {
		t.Fatalf("expected 2 write attempts, got %d", store.writes)
	}
}

func TestToggleContentionExhaustsRetries(t *testing.T) {
	store := newStubToggleStore()
	store.set("user-1", "financeEnabled", false)
	store.failWrites = 10
	svc := newFinanceToggleService(store, &capturingPublisher{}).WithAttempts(3)

	_, err := svc.Toggle(context.Background(), adminActor(), domain.EntityKindUser, "user-1", "financeEnabled")
	if !errors.Is(err, ErrToggleContention) {
		t.Fatalf("expected ErrToggleContention, got %v", err)
	}
	if store.writes != 3 {
		t.Fatalf("expected 3 write attempts, got %d", store.writes)
	}
}

func TestTogglePublishFailureDoesNotFailOperation(t *testing.T) {
	store := newStubToggleStore()
	store.set("user-1", "financeEnabled", false)
	publisher := &capturingPublisher{err: errors.New("broker down")}
	svc := newFinanceToggleService(store, publisher)

	result, err := svc.Toggle(context.Background(), adminActor(), domain.EntityKindUser, "user-1", "financeEnabled")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NewValue {
		t.Fatalf("expected toggle to apply despite publish failure")
	}
}

func TestToggleDealerRoleAllowedWhenPermitted(t *testing.T) {
	store := newStubToggleStore()
	store.set("dealer-1", "financeEnabled", false)
	publisher := &capturingPublisher{}

	svc := NewToggleService(publisher, nil).
		RegisterStore(domain.EntityKindDealer, store).
		Register(ToggleDefinition{
			Kind:      domain.EntityKindDealer,
			Field:     "financeEnabled",
			Permitted: []domain.Role{domain.RoleAdmin, domain.RoleDealer},
		})

	dealer := domain.Identity{SubjectID: "dealer-owner", Role: domain.RoleDealer}

	result, err := svc.Toggle(context.Background(), dealer, domain.EntityKindDealer, "dealer-1", "financeEnabled")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NewValue {
		t.Fatalf("expected new value true")
	}
}
