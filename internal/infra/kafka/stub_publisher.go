package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
	"github.com/firuln/cepet-deal-sub004/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, actorID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("actor_id", actorID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishFeatureToggled logs market.moderation.feature_toggled events.
func (p *StubPublisher) PublishFeatureToggled(_ context.Context, event domain.FeatureToggledEvent) error {
	payload := map[string]any{
		"entity_kind": event.EntityKind,
		"entity_id":   event.EntityID,
		"field":       event.Field,
		"new_value":   event.NewValue,
		"toggled_at":  event.ToggledAt,
		"metadata":    event.Metadata,
	}
	p.logEvent("market.moderation.feature_toggled", event.ActorID, event.ToggledAt, payload)
	return nil
}

// PublishListingModerated logs market.moderation.listing_moderated events.
func (p *StubPublisher) PublishListingModerated(_ context.Context, event domain.ListingModeratedEvent) error {
	payload := map[string]any{
		"listing_id":   event.ListingID,
		"dealer_id":    event.DealerID,
		"decision":     event.Decision,
		"moderated_at": event.ModeratedAt,
		"metadata":     event.Metadata,
	}
	p.logEvent("market.moderation.listing_moderated", event.ActorID, event.ModeratedAt, payload)
	return nil
}

// PublishArticleCreated logs market.content.article_created events.
func (p *StubPublisher) PublishArticleCreated(_ context.Context, event domain.ArticleCreatedEvent) error {
	payload := map[string]any{
		"article_id": event.ArticleID,
		"author_id":  event.AuthorID,
		"title":      event.Title,
		"created_at": event.CreatedAt,
	}
	p.logEvent("market.content.article_created", event.AuthorID, event.CreatedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
