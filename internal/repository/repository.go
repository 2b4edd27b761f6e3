// Package repository contains persistence interfaces for storage backends.
package repository

import (
	"context"
	"time"

	"taskhub/internal/models"
)

// Repository aggregates all persistence interfaces.
type Repository interface {
	UserRepository
	ProjectRepository
	TaskRepository
	ReportRepository
}

// UserRepository exposes user document operations.
type UserRepository interface {
	// CreateUser inserts a user. It returns models.ErrEmailTaken when the
	// email unique constraint is violated.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// ListUsers filters by case-insensitive substring match over name or
	// email when query is non-empty.
	ListUsers(ctx context.Context, query string) ([]models.User, error)
}

// ProjectRepository exposes project and membership operations.
type ProjectRepository interface {
	// CreateProject inserts the project together with its member list. It
	// returns models.ErrProjectKeyTaken on a duplicate key.
	CreateProject(ctx context.Context, project *models.Project) error
	// GetProject loads the project with its full member list.
	GetProject(ctx context.Context, id string) (*models.Project, error)
	// ListProjectsByMember returns projects where the user is a member,
	// most recently updated first.
	ListProjectsByMember(ctx context.Context, userID, query string) ([]models.Project, error)
	UpdateProject(ctx context.Context, project *models.Project) error
	UpsertMember(ctx context.Context, projectID string, member models.Member) error
	DeleteMember(ctx context.Context, projectID, userID string) error
	ListProjectIDsByMember(ctx context.Context, userID string) ([]string, error)
	ListAllProjectIDs(ctx context.Context) ([]string, error)
}

// TaskFilter narrows task listings. A nil ProjectIDs slice means no
// membership scoping; an empty one matches nothing.
type TaskFilter struct {
	ProjectIDs []string
	ProjectID  string
	Status     string
	AssigneeID string
	Tag        string
	Query      string
	Overdue    bool
	DueFrom    *time.Time
	DueTo      *time.Time
	Sort       string
	Offset     int
	Limit      int
}

// TaskRepository exposes task document operations.
type TaskRepository interface {
	// CreateTask inserts the task and seeds its activity log in one
	// transaction.
	CreateTask(ctx context.Context, task *models.Task) error
	// GetTask loads the full task document: comments, activity log and
	// resolved assignee/reporter/author summaries.
	GetTask(ctx context.Context, id string) (*models.Task, error)
	// ListTasks returns a page of tasks with resolved assignee/reporter
	// summaries (comments and activity are not loaded) plus the total count.
	ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, int, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id string) error
	AddComment(ctx context.Context, comment *models.Comment) error
	// AppendActivity writes one audit entry. It is issued separately from
	// UpdateTask on purpose: the audit trail is best-effort, not atomic
	// with the field update.
	AppendActivity(ctx context.Context, taskID string, entry models.ActivityEntry) error
}

// ReportRepository exposes the aggregation queries behind reporting.
type ReportRepository interface {
	CountTasks(ctx context.Context, projectIDs []string) (int, error)
	CountTasksByStatus(ctx context.Context, projectIDs []string) (map[string]int, error)
	CountTasksByPriority(ctx context.Context, projectIDs []string) (map[string]int, error)
	CountOverdueTasks(ctx context.Context, projectIDs []string, now time.Time) (int, error)
	CountTasksDueBetween(ctx context.Context, projectIDs []string, from, to time.Time) (int, error)
	AverageTaskProgress(ctx context.Context, projectIDs []string) (float64, error)
	TasksByAssignee(ctx context.Context, projectIDs []string) ([]models.AssigneeBreakdown, error)
	CompletionTrend(ctx context.Context, projectIDs []string, since time.Time) ([]models.TrendPoint, error)
	// CountRemainingTasks counts the project's tasks whose current status
	// is not done.
	CountRemainingTasks(ctx context.Context, projectID string) (int, error)
}
