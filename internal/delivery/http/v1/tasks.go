package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskhub/internal/models"
	"taskhub/internal/services"
)

type userSummaryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newUserSummaryResponse(summary *models.UserSummary) *userSummaryResponse {
	if summary == nil {
		return nil
	}
	return &userSummaryResponse{
		ID:    summary.ID,
		Name:  summary.Name,
		Email: summary.Email,
	}
}

type commentResponse struct {
	ID        string               `json:"id"`
	Author    *userSummaryResponse `json:"author"`
	Content   string               `json:"content"`
	Mentions  []string             `json:"mentions"`
	CreatedAt time.Time            `json:"createdAt"`
}

type activityResponse struct {
	User   string         `json:"user"`
	Action string         `json:"action"`
	Meta   map[string]any `json:"meta"`
	At     time.Time      `json:"at"`
}

// taskListItem is the list projection: comments and the activity log are
// only loaded on the single-document paths.
type taskListItem struct {
	ID          string                 `json:"id"`
	Project     string                 `json:"project"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Status      string                 `json:"status"`
	Priority    string                 `json:"priority"`
	Progress    int                    `json:"progress"`
	StartDate   *time.Time             `json:"startDate"`
	DueDate     *time.Time             `json:"dueDate"`
	Assignee    *userSummaryResponse   `json:"assignee"`
	Reporter    *userSummaryResponse   `json:"reporter"`
	Tags        []string               `json:"tags"`
	Checklist   []models.ChecklistItem `json:"checklist"`
	Subtasks    []models.Subtask       `json:"subtasks"`
	Watchers    []string               `json:"watchers"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

type taskResponse struct {
	taskListItem
	Comments    []commentResponse  `json:"comments"`
	ActivityLog []activityResponse `json:"activityLog"`
}

func newTaskListItem(task *models.Task) taskListItem {
	return taskListItem{
		ID:          task.ID,
		Project:     task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		Progress:    task.Progress,
		StartDate:   task.StartDate,
		DueDate:     task.DueDate,
		Assignee:    newUserSummaryResponse(task.Assignee),
		Reporter:    newUserSummaryResponse(task.Reporter),
		Tags:        task.Tags,
		Checklist:   task.Checklist,
		Subtasks:    task.Subtasks,
		Watchers:    task.Watchers,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func newTaskResponse(task *models.Task) taskResponse {
	comments := make([]commentResponse, len(task.Comments))
	for i, comment := range task.Comments {
		comments[i] = commentResponse{
			ID:        comment.ID,
			Author:    newUserSummaryResponse(comment.Author),
			Content:   comment.Content,
			Mentions:  comment.Mentions,
			CreatedAt: comment.CreatedAt,
		}
	}

	activity := make([]activityResponse, len(task.ActivityLog))
	for i, entry := range task.ActivityLog {
		activity[i] = activityResponse{
			User:   entry.ActorID,
			Action: entry.Action,
			Meta:   entry.Meta,
			At:     entry.At,
		}
	}

	return taskResponse{
		taskListItem: newTaskListItem(task),
		Comments:     comments,
		ActivityLog:  activity,
	}
}

type taskPageResponse struct {
	Items    []taskListItem `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
	Pages    int            `json:"pages"`
}

// parseDateQuery accepts both calendar dates and full RFC 3339 stamps.
func parseDateQuery(value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		t, err := time.Parse(layout, value)
		if err == nil {
			return &t, true
		}
	}
	return nil, false
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	dueFrom, ok := parseDateQuery(c.Query("dueFrom"))
	if !ok {
		abort(c, newBadRequestError("Invalid dueFrom"))
		return
	}
	dueTo, ok := parseDateQuery(c.Query("dueTo"))
	if !ok {
		abort(c, newBadRequestError("Invalid dueTo"))
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	overdue := c.Query("overdue")

	// Malformed id filters are ignored rather than rejected. Without a
	// usable project filter the listing falls back to membership scoping.
	projectID := c.Query("project")
	if uuid.Validate(projectID) != nil {
		projectID = ""
	}
	assigneeID := c.Query("assignee")
	if uuid.Validate(assigneeID) != nil {
		assigneeID = ""
	}

	params := services.ListTasksParams{
		Scope:      c.Query("scope"),
		ProjectID:  projectID,
		Status:     c.Query("status"),
		AssigneeID: assigneeID,
		Tag:        c.Query("tag"),
		Query:      c.Query("q"),
		Overdue:    overdue == "1" || overdue == "true",
		DueFrom:    dueFrom,
		DueTo:      dueTo,
		Page:       page,
		Limit:      limit,
		Sort:       c.Query("sort"),
	}

	result, err := h.tasks.ListTasks(c, userID, params)
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := make([]taskListItem, len(result.Items))
	for i := range result.Items {
		items[i] = newTaskListItem(&result.Items[i])
	}

	c.JSON(http.StatusOK, taskPageResponse{
		Items:    items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
		Pages:    result.Pages,
	})
}

type createTaskRequest struct {
	Project     string                 `json:"project"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Status      string                 `json:"status"`
	Priority    string                 `json:"priority"`
	Progress    int                    `json:"progress"`
	StartDate   *time.Time             `json:"startDate"`
	DueDate     *time.Time             `json:"dueDate"`
	Assignee    *string                `json:"assignee"`
	Reporter    *string                `json:"reporter"`
	Tags        []string               `json:"tags"`
	Checklist   []models.ChecklistItem `json:"checklist"`
	Subtasks    []models.Subtask       `json:"subtasks"`
	Watchers    []string               `json:"watchers"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError("Invalid request body"))
		return
	}

	if uuid.Validate(req.Project) != nil {
		h.logger.Warn().
			Str("project", req.Project).
			Msg("malformed project id")
		abort(c, newBadRequestError("Invalid project"))
		return
	}
	if req.Title == "" {
		abort(c, newBadRequestError("Title is required"))
		return
	}

	task, err := h.tasks.CreateTask(c, userID, services.CreateTaskParams{
		ProjectID:   req.Project,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Progress:    req.Progress,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		AssigneeID:  req.Assignee,
		ReporterID:  req.Reporter,
		Tags:        req.Tags,
		Checklist:   req.Checklist,
		Subtasks:    req.Subtasks,
		Watchers:    req.Watchers,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info().
		Str("task_id", task.ID).
		Msg("created task")
	c.JSON(http.StatusCreated, newTaskResponse(task))
}

// taskIDParam extracts and validates the :id path segment.
func (h *handlerImpl) taskIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if uuid.Validate(id) != nil {
		h.logger.Warn().
			Str("id", id).
			Msg("malformed task id")
		abort(c, newBadRequestError("Invalid id"))
		return "", false
	}
	return id, true
}

type updateTaskRequest struct {
	Title       *string                 `json:"title"`
	Description *string                 `json:"description"`
	Status      *string                 `json:"status"`
	Priority    *string                 `json:"priority"`
	Progress    *int                    `json:"progress"`
	StartDate   *time.Time              `json:"startDate"`
	DueDate     *time.Time              `json:"dueDate"`
	Assignee    *string                 `json:"assignee"`
	Tags        *[]string               `json:"tags"`
	Checklist   *[]models.ChecklistItem `json:"checklist"`
	Subtasks    *[]models.Subtask       `json:"subtasks"`
	Watchers    *[]string               `json:"watchers"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	id, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError("Invalid request body"))
		return
	}

	task, err := h.tasks.UpdateTask(c, id, userID, services.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Progress:    req.Progress,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		AssigneeID:  req.Assignee,
		Tags:        req.Tags,
		Checklist:   req.Checklist,
		Subtasks:    req.Subtasks,
		Watchers:    req.Watchers,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info().
		Str("task_id", task.ID).
		Msg("updated task")
	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	id, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, id, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info().
		Str("task_id", id).
		Msg("deleted task")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type addCommentRequest struct {
	Content  string   `json:"content"`
	Mentions []string `json:"mentions"`
}

func (h *handlerImpl) HandleAddComment(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	id, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	var req addCommentRequest
	err := c.ShouldBindJSON(&req)
	if err != nil || req.Content == "" {
		h.logger.Warn().Msg("missing comment content")
		abort(c, newBadRequestError("Content is required"))
		return
	}

	task, err := h.tasks.AddComment(c, id, userID, req.Content, req.Mentions)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info().
		Str("task_id", id).
		Msg("added comment")
	c.JSON(http.StatusOK, newTaskResponse(task))
}

type assignTaskRequest struct {
	Assignee string `json:"assignee"`
}

func (h *handlerImpl) HandleAssignTask(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	id, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	var req assignTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil || uuid.Validate(req.Assignee) != nil {
		h.logger.Warn().Msg("missing or malformed assignee")
		abort(c, newBadRequestError("Invalid id"))
		return
	}

	task, err := h.tasks.AssignTask(c, id, userID, req.Assignee)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info().
		Str("task_id", id).
		Str("assignee", req.Assignee).
		Msg("assigned task")
	c.JSON(http.StatusOK, newTaskResponse(task))
}
