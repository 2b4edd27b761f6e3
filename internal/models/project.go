package models

import "time"

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

// DefaultColumns is the four-stage workflow assigned to projects
// created without an explicit column list.
func DefaultColumns() []string {
	return []string{"Todo", "In Progress", "Review", "Done"}
}

// Member pairs a user with their role inside a single project.
// It has no identity of its own outside the project's member list.
type Member struct {
	UserID string
	Role   string
}

type Project struct {
	ID          string
	Name        string
	Key         string
	Description string
	Columns     []string
	Members     []Member
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RoleOf returns the user's role in the project, or "" for non-members.
func (p *Project) RoleOf(userID string) string {
	for _, m := range p.Members {
		if m.UserID == userID {
			return m.Role
		}
	}
	return ""
}

func (p *Project) IsMember(userID string) bool {
	return p.RoleOf(userID) != ""
}

// CanAdmin reports whether the user may administer the project,
// which requires the owner or admin role.
func (p *Project) CanAdmin(userID string) bool {
	role := p.RoleOf(userID)
	return role == RoleOwner || role == RoleAdmin
}
