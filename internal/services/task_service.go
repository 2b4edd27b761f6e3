package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskhub/internal/models"
	"taskhub/internal/repository"
)

const (
	defaultPageSize = 20
	defaultSort     = "-updatedAt"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	repo   repository.Repository
}

func NewTaskService(logger zerolog.Logger, repo repository.Repository) TaskService {
	return &taskServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID string, params ListTasksParams) (*TaskPage, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	sort := params.Sort
	if sort == "" {
		sort = defaultSort
	}

	filter := repository.TaskFilter{
		Status:     params.Status,
		AssigneeID: params.AssigneeID,
		Tag:        params.Tag,
		Query:      params.Query,
		Overdue:    params.Overdue,
		DueFrom:    params.DueFrom,
		DueTo:      params.DueTo,
		Sort:       sort,
		Offset:     (page - 1) * limit,
		Limit:      limit,
	}

	// An explicit project filter narrows to that project alone; otherwise
	// the "mine" scope restricts to the caller's memberships. The "all"
	// scope deliberately applies no membership check.
	switch {
	case params.ProjectID != "":
		filter.ProjectID = params.ProjectID
	case params.Scope != "all":
		ids, err := s.repo.ListProjectIDsByMember(ctx, userID)
		if err != nil {
			return nil, err
		}
		filter.ProjectIDs = ids
	}

	items, total, err := s.repo.ListTasks(ctx, filter)
	if err != nil {
		return nil, err
	}

	pages := (total + limit - 1) / limit
	s.logger.Debug().
		Int("count", len(items)).
		Int("total", total).
		Msg("selected tasks")
	return &TaskPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: limit,
		Pages:    pages,
	}, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, userID string, params CreateTaskParams) (*models.Task, error) {
	if params.Title == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrInvalidArgument)
	}

	project, err := s.repo.GetProject(ctx, params.ProjectID)
	if err != nil {
		// A missing project and a project the caller cannot see are
		// indistinguishable to the caller.
		if errors.Is(err, models.ErrProjectNotFound) {
			return nil, models.ErrNoProjectAccess
		}
		return nil, err
	}
	if !project.IsMember(userID) {
		return nil, models.ErrNoProjectAccess
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}

	status := params.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: invalid status", models.ErrInvalidArgument)
	}
	priority := params.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, fmt.Errorf("%w: invalid priority", models.ErrInvalidArgument)
	}
	if params.Progress < 0 || params.Progress > 100 {
		return nil, fmt.Errorf("%w: progress out of range", models.ErrInvalidArgument)
	}

	reporter := params.ReporterID
	if reporter == nil {
		reporter = &userID
	}

	now := time.Now()
	task := &models.Task{
		ID:          taskUUID.String(),
		ProjectID:   params.ProjectID,
		Title:       params.Title,
		Description: params.Description,
		Status:      status,
		Priority:    priority,
		Progress:    params.Progress,
		StartDate:   params.StartDate,
		DueDate:     params.DueDate,
		AssigneeID:  params.AssigneeID,
		ReporterID:  reporter,
		Tags:        emptyIfNil(params.Tags),
		Checklist:   emptyIfNil(params.Checklist),
		Subtasks:    emptyIfNil(params.Subtasks),
		Watchers:    emptyIfNil(params.Watchers),
		ActivityLog: []models.ActivityEntry{{
			ActorID: userID,
			Action:  models.ActionCreated,
			Meta:    map[string]any{"title": params.Title},
			At:      now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repo.CreateTask(ctx, task)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("project_id", task.ProjectID).
		Msg("created task")
	return s.repo.GetTask(ctx, task.ID)
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, id, userID string, patch TaskPatch) (*models.Task, error) {
	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	project, err := s.repo.GetProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if !project.IsMember(userID) {
		return nil, models.ErrNoProjectAccess
	}

	before := trackedFields(task)

	if err = applyTaskPatch(task, patch); err != nil {
		return nil, err
	}
	task.UpdatedAt = time.Now()

	err = s.repo.UpdateTask(ctx, task)
	if err != nil {
		return nil, err
	}

	// The audit entry is a separate, best-effort second write: a crash
	// in between leaves the update persisted without its entry.
	changes := diffTrackedFields(before, trackedFields(task))
	if len(changes) > 0 {
		entry := models.ActivityEntry{
			ActorID: userID,
			Action:  models.ActionUpdated,
			Meta:    changes,
			At:      time.Now(),
		}
		if err = s.repo.AppendActivity(ctx, id, entry); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Str("task_id", id).
		Int("changes", len(changes)).
		Msg("updated task")
	return s.repo.GetTask(ctx, id)
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, id, userID string) error {
	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return err
	}

	project, err := s.repo.GetProject(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	if !project.IsMember(userID) {
		return models.ErrNoProjectAccess
	}

	err = s.repo.DeleteTask(ctx, id)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) AddComment(ctx context.Context, id, userID, content string, mentions []string) (*models.Task, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", models.ErrInvalidArgument)
	}

	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	project, err := s.repo.GetProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if !project.IsMember(userID) {
		return nil, models.ErrNoProjectAccess
	}

	commentUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate comment uuid")
		return nil, err
	}

	now := time.Now()
	comment := &models.Comment{
		ID:        commentUUID.String(),
		TaskID:    id,
		AuthorID:  userID,
		Content:   content,
		Mentions:  emptyIfNil(mentions),
		CreatedAt: now,
	}

	err = s.repo.AddComment(ctx, comment)
	if err != nil {
		return nil, err
	}

	entry := models.ActivityEntry{
		ActorID: userID,
		Action:  models.ActionCommented,
		Meta:    map[string]any{},
		At:      now,
	}
	if err = s.repo.AppendActivity(ctx, id, entry); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", id).
		Msg("added comment")
	return s.repo.GetTask(ctx, id)
}

func (s *taskServiceImpl) AssignTask(ctx context.Context, id, userID, assigneeID string) (*models.Task, error) {
	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	project, err := s.repo.GetProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if !project.CanAdmin(userID) {
		return nil, models.ErrForbidden
	}
	if !project.IsMember(assigneeID) {
		return nil, models.ErrAssigneeNotMember
	}

	var before any
	if task.AssigneeID != nil {
		before = *task.AssigneeID
	}

	task.AssigneeID = &assigneeID
	task.UpdatedAt = time.Now()

	err = s.repo.UpdateTask(ctx, task)
	if err != nil {
		return nil, err
	}

	entry := models.ActivityEntry{
		ActorID: userID,
		Action:  models.ActionAssigned,
		Meta:    map[string]any{"from": before, "to": assigneeID},
		At:      time.Now(),
	}
	if err = s.repo.AppendActivity(ctx, id, entry); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", id).
		Str("assignee_id", assigneeID).
		Msg("assigned task")
	return s.repo.GetTask(ctx, id)
}

func applyTaskPatch(task *models.Task, patch TaskPatch) error {
	if patch.Status != nil && !models.ValidStatus(*patch.Status) {
		return fmt.Errorf("%w: invalid status", models.ErrInvalidArgument)
	}
	if patch.Priority != nil && !models.ValidPriority(*patch.Priority) {
		return fmt.Errorf("%w: invalid priority", models.ErrInvalidArgument)
	}
	if patch.Progress != nil && (*patch.Progress < 0 || *patch.Progress > 100) {
		return fmt.Errorf("%w: progress out of range", models.ErrInvalidArgument)
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Progress != nil {
		task.Progress = *patch.Progress
	}
	if patch.StartDate != nil {
		task.StartDate = patch.StartDate
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.AssigneeID != nil {
		task.AssigneeID = patch.AssigneeID
	}
	if patch.Tags != nil {
		task.Tags = *patch.Tags
	}
	if patch.Checklist != nil {
		task.Checklist = *patch.Checklist
	}
	if patch.Subtasks != nil {
		task.Subtasks = *patch.Subtasks
	}
	if patch.Watchers != nil {
		task.Watchers = *patch.Watchers
	}
	return nil
}

// trackedFields snapshots the fields whose changes are audited.
func trackedFields(task *models.Task) map[string]string {
	assignee := ""
	if task.AssigneeID != nil {
		assignee = *task.AssigneeID
	}
	return map[string]string{
		"status":   task.Status,
		"progress": fmt.Sprint(task.Progress),
		"assignee": assignee,
		"title":    task.Title,
	}
}

// diffTrackedFields compares snapshots by string value and collects one
// {from, to} pair per changed field.
func diffTrackedFields(before, after map[string]string) map[string]any {
	changes := make(map[string]any)
	for field, prev := range before {
		if next := after[field]; next != prev {
			changes[field] = map[string]any{"from": prev, "to": next}
		}
	}
	return changes
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
