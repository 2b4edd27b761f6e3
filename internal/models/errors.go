// Package models contains core domain entities and errors.
package models

import "errors"

var (
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidCredentials is returned on any login mismatch; it never
	// distinguishes an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken signals a duplicate registration email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrProjectNotFound covers both a missing project and a project the
	// caller is not a member of, so existence is never leaked.
	ErrProjectNotFound = errors.New("project not found")
	// ErrProjectKeyTaken signals a duplicate project key.
	ErrProjectKeyTaken = errors.New("project key already exists")
	// ErrTaskNotFound signals a missing task.
	ErrTaskNotFound = errors.New("task not found")
	// ErrForbidden signals a caller lacking the owner/admin role.
	ErrForbidden = errors.New("forbidden")
	// ErrNoProjectAccess signals a caller who is not a project member.
	ErrNoProjectAccess = errors.New("no access to project")
	// ErrOwnerRemoval signals an attempt to remove the owner member.
	ErrOwnerRemoval = errors.New("cannot remove owner")
	// ErrAssigneeNotMember signals assignment to a non-member.
	ErrAssigneeNotMember = errors.New("assignee not in project")
)
