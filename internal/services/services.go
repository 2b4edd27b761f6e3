// Package services contains the business logic behind the HTTP API:
// validation, membership-scoped visibility, role-gated mutation and
// report aggregation.
package services

import (
	"context"
	"time"

	"taskhub/internal/models"
)

type AuthService interface {
	// Register creates a user with an argon2id password hash and returns
	// a freshly issued token.
	//
	// It returns models.ErrEmailTaken if the email is already registered.
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)

	// Login authenticates the user by email and password.
	//
	// It returns models.ErrInvalidCredentials on any mismatch, without
	// distinguishing an unknown email from a wrong password.
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)

	// ParseToken verifies a bearer token and returns the user id it
	// encodes.
	ParseToken(token string) (string, error)
}

type UserService interface {
	// ListUsers filters by case-insensitive substring over name or email.
	ListUsers(ctx context.Context, query string) ([]models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type ProjectService interface {
	// CreateProject upper-cases the key and inserts the creator as the
	// sole member with the owner role.
	CreateProject(ctx context.Context, userID string, params CreateProjectParams) (*models.Project, error)

	// ListMyProjects returns only projects the user is a member of, most
	// recently updated first.
	ListMyProjects(ctx context.Context, userID, query string) ([]models.Project, error)

	// GetProject returns models.ErrProjectNotFound both when the project
	// is absent and when the user is not a member.
	GetProject(ctx context.Context, id, userID string) (*models.Project, error)

	// UpdateProject requires the owner or admin role and mutates only
	// name, description and columns.
	UpdateProject(ctx context.Context, id, userID string, patch ProjectPatch) (*models.Project, error)

	// AddOrUpdateMember upserts a member: an existing member keeps their
	// current role when none is given, a new one defaults to "member".
	AddOrUpdateMember(ctx context.Context, id, userID, targetUserID, role string) ([]models.Member, error)

	// RemoveMember never removes a member whose role is owner.
	RemoveMember(ctx context.Context, id, userID, targetUserID string) ([]models.Member, error)
}

type TaskService interface {
	// ListTasks scopes to the caller's project memberships unless the
	// "all" scope or an explicit project filter is given.
	ListTasks(ctx context.Context, userID string, params ListTasksParams) (*TaskPage, error)

	// CreateTask requires membership in the target project, defaults the
	// reporter to the caller and seeds the activity log with a "created"
	// entry.
	CreateTask(ctx context.Context, userID string, params CreateTaskParams) (*models.Task, error)

	// UpdateTask applies the patch and, when any of status, progress,
	// assignee or title changed, appends one "updated" activity entry
	// covering all changed fields in a second write.
	UpdateTask(ctx context.Context, id, userID string, patch TaskPatch) (*models.Task, error)

	DeleteTask(ctx context.Context, id, userID string) error

	AddComment(ctx context.Context, id, userID, content string, mentions []string) (*models.Task, error)

	// AssignTask requires the owner or admin role and a target assignee
	// who is a project member.
	AssignTask(ctx context.Context, id, userID, assigneeID string) (*models.Task, error)
}

type ReportService interface {
	Overview(ctx context.Context, userID string, params OverviewParams) (*models.Metrics, error)
	Burndown(ctx context.Context, projectID string, start, end time.Time) (*models.Burndown, error)
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	Token string
	User  *models.User
}

type CreateProjectParams struct {
	Name        string
	Key         string
	Description string
	Columns     []string
}

// ProjectPatch carries the three fields mutable through project update.
// A nil field is left untouched.
type ProjectPatch struct {
	Name        *string
	Description *string
	Columns     *[]string
}

type ListTasksParams struct {
	Scope      string
	ProjectID  string
	Status     string
	AssigneeID string
	Tag        string
	Query      string
	Overdue    bool
	DueFrom    *time.Time
	DueTo      *time.Time
	Page       int
	Limit      int
	Sort       string
}

type TaskPage struct {
	Items    []models.Task
	Total    int
	Page     int
	PageSize int
	Pages    int
}

type CreateTaskParams struct {
	ProjectID   string
	Title       string
	Description string
	Status      string
	Priority    string
	Progress    int
	StartDate   *time.Time
	DueDate     *time.Time
	AssigneeID  *string
	ReporterID  *string
	Tags        []string
	Checklist   []models.ChecklistItem
	Subtasks    []models.Subtask
	Watchers    []string
}

// TaskPatch is the explicit optional-field update for tasks: each field
// is applied only when non-nil.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	Progress    *int
	StartDate   *time.Time
	DueDate     *time.Time
	AssigneeID  *string
	Tags        *[]string
	Checklist   *[]models.ChecklistItem
	Subtasks    *[]models.Subtask
	Watchers    *[]string
}

type OverviewParams struct {
	Scope     string
	ProjectID string
	Days      int
}
