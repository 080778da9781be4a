package domain

import "time"

// Article is an editorial piece shown on the marketplace.
type Article struct {
	ID          string
	AuthorID    string
	Title       string
	Slug        string
	Body        string
	Published   bool
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
