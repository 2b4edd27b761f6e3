package models

import "time"

const (
	GlobalRoleAdmin = "admin"
	GlobalRoleUser  = "user"
)

type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserSummary is the compact projection attached to resolved
// assignee/reporter/author references.
type UserSummary struct {
	ID    string
	Name  string
	Email string
}
