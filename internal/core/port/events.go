package port

import (
	"context"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
)

// EventPublisher emits moderation audit events to the message bus.
type EventPublisher interface {
	PublishFeatureToggled(ctx context.Context, event domain.FeatureToggledEvent) error
	PublishListingModerated(ctx context.Context, event domain.ListingModeratedEvent) error
	PublishArticleCreated(ctx context.Context, event domain.ArticleCreatedEvent) error
}
