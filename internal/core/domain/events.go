package domain

import "time"

// FeatureToggledEvent records a boolean field flip applied by a moderator.
type FeatureToggledEvent struct {
	EventID    string
	EntityKind EntityKind
	EntityID   string
	Field      string
	NewValue   bool
	ActorID    string
	ToggledAt  time.Time
	Metadata   map[string]any
}

// ListingModeratedEvent records an approve/reject decision on a listing.
type ListingModeratedEvent struct {
	EventID     string
	ListingID   string
	DealerID    string
	Decision    ListingStatus
	ActorID     string
	ModeratedAt time.Time
	Metadata    map[string]any
}

// ArticleCreatedEvent records a new editorial draft.
type ArticleCreatedEvent struct {
	EventID   string
	ArticleID string
	AuthorID  string
	Title     string
	CreatedAt time.Time
}
