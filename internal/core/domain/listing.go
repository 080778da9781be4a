package domain

import "time"

// ListingStatus enumerates moderation states for a listing.
type ListingStatus string

const (
	ListingStatusPending  ListingStatus = "pending"
	ListingStatusApproved ListingStatus = "approved"
	ListingStatusRejected ListingStatus = "rejected"
)

// Listing is a single vehicle advert owned by a dealer.
type Listing struct {
	ID         string
	DealerID   string
	Title      string
	Slug       string
	Make       string
	Model      string
	Year       int
	PriceMinor int64
	Currency   string
	MileageKm  *int
	Status     ListingStatus
	Published  bool
	Featured   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
