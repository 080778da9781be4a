package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
	"github.com/firuln/cepet-deal-sub004/internal/core/port"
	"github.com/firuln/cepet-deal-sub004/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	ActorID   string           `json:"actor_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, actorID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		ActorID:   actorID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishFeatureToggled publishes market.moderation.feature_toggled events.
func (p *EventPublisher) PublishFeatureToggled(ctx context.Context, event domain.FeatureToggledEvent) error {
	payload := struct {
		EntityKind string         `json:"entity_kind"`
		EntityID   string         `json:"entity_id"`
		Field      string         `json:"field"`
		NewValue   bool           `json:"new_value"`
		ActorID    string         `json:"actor_id"`
		ToggledAt  time.Time      `json:"toggled_at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		EntityKind: string(event.EntityKind),
		EntityID:   event.EntityID,
		Field:      event.Field,
		NewValue:   event.NewValue,
		ActorID:    event.ActorID,
		ToggledAt:  event.ToggledAt.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "market.moderation.feature_toggled", event.ActorID, event.ToggledAt, payload)
}

// PublishListingModerated publishes market.moderation.listing_moderated events.
func (p *EventPublisher) PublishListingModerated(ctx context.Context, event domain.ListingModeratedEvent) error {
	payload := struct {
		ListingID   string         `json:"listing_id"`
		DealerID    string         `json:"dealer_id"`
		Decision    string         `json:"decision"`
		ActorID     string         `json:"actor_id"`
		ModeratedAt time.Time      `json:"moderated_at"`
		Metadata    map[string]any `json:"metadata,omitempty"`
	}{
		ListingID:   event.ListingID,
		DealerID:    event.DealerID,
		Decision:    string(event.Decision),
		ActorID:     event.ActorID,
		ModeratedAt: event.ModeratedAt.UTC(),
		Metadata:    event.Metadata,
	}

	return p.publish(ctx, event.EventID, "market.moderation.listing_moderated", event.ActorID, event.ModeratedAt, payload)
}

// PublishArticleCreated publishes market.content.article_created events.
func (p *EventPublisher) PublishArticleCreated(ctx context.Context, event domain.ArticleCreatedEvent) error {
	payload := struct {
		ArticleID string    `json:"article_id"`
		AuthorID  string    `json:"author_id"`
		Title     string    `json:"title"`
		CreatedAt time.Time `json:"created_at"`
	}{
		ArticleID: event.ArticleID,
		AuthorID:  event.AuthorID,
		Title:     event.Title,
		CreatedAt: event.CreatedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "market.content.article_created", event.AuthorID, event.CreatedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
