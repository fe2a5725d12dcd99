package domain

import "time"

// Membership maps a user to a project with a role. The engine only consults
// memberships for access checks; authentication lives outside the system.
type Membership struct {
	ProjectID string
	UserID    string
	Role      Role
	CreatedAt time.Time
}

// IsManager reports whether the membership grants manager rights.
func (m *Membership) IsManager() bool {
	return m.Role == RoleManager
}
