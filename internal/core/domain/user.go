package domain

import "time"

// User mirrors the persisted representation in the users table.
type User struct {
	ID             string
	Email          string
	Name           string
	Role           Role
	FinanceEnabled bool
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
