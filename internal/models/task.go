package models

import "time"

const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusDone       = "done"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ChecklistItem and Subtask are stored as jsonb documents on the task row,
// so their json tags double as the storage format.
type ChecklistItem struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type Subtask struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Comment is immutable once created; there is no edit or delete path.
type Comment struct {
	ID        string
	TaskID    string
	AuthorID  string
	Author    *UserSummary
	Content   string
	Mentions  []string
	CreatedAt time.Time
}

const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionCommented = "commented"
	ActionAssigned  = "assigned"
)

// ActivityEntry is one record of the task's append-only audit trail.
type ActivityEntry struct {
	ActorID string
	Action  string
	Meta    map[string]any
	At      time.Time
}

type Task struct {
	ID          string
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
	// Assignee and Reporter carry the resolved user summaries when the
	// repository loads them; the IDs above stay authoritative.
	Assignee    *UserSummary
	Reporter    *UserSummary
	Tags        []string
	Checklist   []ChecklistItem
	Subtasks    []Subtask
	Watchers    []string
	Comments    []Comment
	ActivityLog []ActivityEntry
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
