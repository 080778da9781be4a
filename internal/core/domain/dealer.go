package domain

import "time"

// Dealer is a trade seller account that owns listings.
type Dealer struct {
	ID             string
	OwnerUserID    string
	Name           string
	Slug           string
	City           *string
	Phone          *string
	FinanceEnabled bool
	Verified       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
