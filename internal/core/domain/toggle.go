package domain

import "time"

// EntityKind names an aggregate that owns toggleable boolean fields.
type EntityKind string

const (
	EntityKindUser    EntityKind = "user"
	EntityKindDealer  EntityKind = "dealer"
	EntityKindListing EntityKind = "listing"
	EntityKindArticle EntityKind = "article"
)

// Label returns the human-facing name used in API error messages.
func (k EntityKind) Label() string {
	switch k {
	case EntityKindUser:
		return "User"
	case EntityKindDealer:
		return "Dealer"
	case EntityKindListing:
		return "Listing"
	case EntityKindArticle:
		return "Article"
	}
	return "Entity"
}

// ToggleResult reports the outcome of a successful field toggle. It is
// constructed fresh per request and never persisted.
type ToggleResult struct {
	Kind      EntityKind
	EntityID  string
	Field     string
	NewValue  bool
	ToggledAt time.Time
}
