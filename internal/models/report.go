package models

// Metrics is the overview aggregation over tasks in a project scope.
type Metrics struct {
	Total           int
	ByStatus        map[string]int
	ByPriority      map[string]int
	Overdue         int
	DueSoon         int
	ProgressAvg     float64
	ByAssignee      []AssigneeBreakdown
	CompletionTrend []TrendPoint
}

// AssigneeBreakdown counts a single assignee's tasks across the four
// workflow statuses. UserID is nil for unassigned tasks.
type AssigneeBreakdown struct {
	UserID     *string
	Todo       int
	InProgress int
	Review     int
	Done       int
}

// TrendPoint is one day of the completion trend, keyed by a UTC
// "YYYY-MM-DD" calendar date.
type TrendPoint struct {
	Date string
	Done int
}

type BurndownPoint struct {
	Date      string
	Remaining int
}

// Burndown approximates remaining work per day over a date range.
// Remaining is computed against present-day task status for every day,
// not reconstructed from history.
type Burndown struct {
	Project string
	Start   string
	End     string
	Series  []BurndownPoint
}
