package domain

// Role is a coarse-grained permission tier gating access to operations.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleDealer Role = "DEALER"
	RoleUser   Role = "USER"
)

// Valid reports whether the role is one of the known tiers.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDealer, RoleUser:
		return true
	}
	return false
}

// Identity is the authenticated subject of a single request. It is resolved
// once at request entry from the session token and never persisted.
type Identity struct {
	SubjectID string
	Email     string
	Role      Role
	SessionID string
}

// Present reports whether an identity was resolved for the request.
func (i Identity) Present() bool {
	return i.SubjectID != ""
}

// HasAnyRole reports whether the identity's role is within the permitted set.
func (i Identity) HasAnyRole(roles ...Role) bool {
	for _, role := range roles {
		if i.Role == role {
			return true
		}
	}
	return false
}
