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
)

var (
	// ErrUnauthenticated indicates no valid caller identity was resolved.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden indicates the caller's role is outside the permitted set.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrUnknownToggle indicates the (kind, field) pair is not registered.
	ErrUnknownToggle = errors.New("unknown toggle")
	// ErrToggleContention indicates the conditional write lost the race on
	// every permitted attempt.
	ErrToggleContention = errors.New("toggle contention: retries exhausted")
	// ErrEntityIDRequired indicates the target entity id was empty.
	ErrEntityIDRequired = errors.New("entity id is required")
)

const defaultToggleAttempts = 3

type toggleKey struct {
	kind  domain.EntityKind
	field string
}

// ToggleDefinition registers one boolean field as toggleable and names the
// roles allowed to flip it.
type ToggleDefinition struct {
	Kind      domain.EntityKind
	Field     string
	Permitted []domain.Role
}

// ToggleService flips registered boolean fields on behalf of authorized
// callers. Precondition order is fixed: authentication, then authorization,
// then registration, then existence. The persistence layer is never touched
// before the role check passes.
type ToggleService struct {
	stores   map[domain.EntityKind]port.ToggleStore
	registry map[toggleKey]ToggleDefinition
	events   port.EventPublisher
	logger   *zap.Logger
	attempts int
	now      func() time.Time
}

// NewToggleService constructs a ToggleService with an empty registry.
func NewToggleService(events port.EventPublisher, logger *zap.Logger) *ToggleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ToggleService{
		stores:   make(map[domain.EntityKind]port.ToggleStore),
		registry: make(map[toggleKey]ToggleDefinition),
		events:   events,
		logger:   logger,
		attempts: defaultToggleAttempts,
		now:      time.Now,
	}
}

// WithAttempts overrides the bounded retry budget for conditional writes.
func (s *ToggleService) WithAttempts(attempts int) *ToggleService {
	if attempts > 0 {
		s.attempts = attempts
	}
	return s
}

// WithClock allows injection of a custom clock (primarily for testing).
func (s *ToggleService) WithClock(now func() time.Time) *ToggleService {
	if now != nil {
		s.now = now
	}
	return s
}

// RegisterStore binds an entity kind to its persistence-layer toggle store.
func (s *ToggleService) RegisterStore(kind domain.EntityKind, store port.ToggleStore) *ToggleService {
	if store != nil {
		s.stores[kind] = store
	}
	return s
}

// Register adds a toggleable field to the registry.
func (s *ToggleService) Register(def ToggleDefinition) *ToggleService {
	def.Field = strings.TrimSpace(def.Field)
	if def.Kind == "" || def.Field == "" {
		return s
	}
	if len(def.Permitted) == 0 {
		def.Permitted = []domain.Role{domain.RoleAdmin}
	}
	s.registry[toggleKey{kind: def.Kind, field: def.Field}] = def
	return s
}

// Toggle flips one registered boolean field of the target entity.
//
// Exactly one persisted mutation occurs on success; none on any failure path.
// The write is conditional on the observed value and retried a bounded number
// of times, so two concurrent toggles cannot both apply against the same
// pre-state.
func (s *ToggleService) Toggle(ctx context.Context, actor domain.Identity, kind domain.EntityKind, entityID, field string) (domain.ToggleResult, error) {
	var result domain.ToggleResult

	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return result, ErrEntityIDRequired
	}

	if !actor.Present() {
		return result, ErrUnauthenticated
	}

	def, ok := s.registry[toggleKey{kind: kind, field: strings.TrimSpace(field)}]
	if !ok {
		// Role check still runs first for registered toggles; for unknown
		// ones there is nothing to authorize against, so reject the operation
		// itself. No entity lookup has happened either way.
		if !actor.HasAnyRole(domain.RoleAdmin) {
			return result, ErrForbidden
		}
		return result, fmt.Errorf("%w: %s.%s", ErrUnknownToggle, kind, field)
	}

	if !actor.HasAnyRole(def.Permitted...) {
		return result, ErrForbidden
	}

	store, ok := s.stores[kind]
	if !ok {
		return result, fmt.Errorf("%w: no store for %s", ErrUnknownToggle, kind)
	}

	value, err := store.GetBoolField(ctx, entityID, def.Field)
	if err != nil {
		return result, err
	}

	for attempt := 0; attempt < s.attempts; attempt++ {
		applied, err := store.CompareAndSetBoolField(ctx, entityID, def.Field, value, !value)
		if err != nil {
			return result, err
		}

		if applied {
			result = domain.ToggleResult{
				Kind:      kind,
				EntityID:  entityID,
				Field:     def.Field,
				NewValue:  !value,
				ToggledAt: s.now().UTC(),
			}
			s.publishToggled(ctx, actor, result)
			return result, nil
		}

		// Lost the race: another toggle landed between read and write.
		// Re-observe and try again within the attempt budget.
		value, err = store.GetBoolField(ctx, entityID, def.Field)
		if err != nil {
			return result, err
		}
	}

	return result, ErrToggleContention
}

func (s *ToggleService) publishToggled(ctx context.Context, actor domain.Identity, result domain.ToggleResult) {
	if s.events == nil {
		return
	}

	event := domain.FeatureToggledEvent{
		EventID:    uuid.NewString(),
		EntityKind: result.Kind,
		EntityID:   result.EntityID,
		Field:      result.Field,
		NewValue:   result.NewValue,
		ActorID:    actor.SubjectID,
		ToggledAt:  result.ToggledAt,
	}

	if err := s.events.PublishFeatureToggled(ctx, event); err != nil {
		s.logger.Warn("failed to publish feature toggled event",
			zap.String("entity_kind", string(result.Kind)),
			zap.String("entity_id", result.EntityID),
			zap.Error(err),
		)
	}
}
