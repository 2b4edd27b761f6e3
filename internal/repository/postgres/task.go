package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"taskhub/internal/models"
	"taskhub/internal/repository"
)

func (p *Postgres) CreateTask(ctx context.Context, task *models.Task) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   project_id,
                   title,
                   description,
                   status,
                   priority,
                   progress,
                   start_date,
                   due_date,
                   assignee_id,
                   reporter_id,
                   tags,
                   checklist,
                   subtasks,
                   watchers,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
`
	_, err = tx.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.ProjectID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Progress,
		task.StartDate,
		task.DueDate,
		task.AssigneeID,
		task.ReporterID,
		task.Tags,
		task.Checklist,
		task.Subtasks,
		task.Watchers,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return err
	}

	const insertActivityQuery = `
INSERT INTO task_activity (task_id, actor_id, action, meta, at)
VALUES ($1, $2, $3, $4, $5)
`
	for _, entry := range task.ActivityLog {
		_, err = tx.Exec(ctx, insertActivityQuery, task.ID, entry.ActorID, entry.Action, entry.Meta, entry.At)
		if err != nil {
			p.logger.Error().
				Err(err).
				Msg("failed to insert task activity")
			return err
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}

	p.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")
	return nil
}

const selectTaskColumns = `
SELECT t.id,
       t.project_id,
       t.title,
       t.description,
       t.status,
       t.priority,
       t.progress,
       t.start_date,
       t.due_date,
       t.assignee_id,
       t.reporter_id,
       t.tags,
       t.checklist,
       t.subtasks,
       t.watchers,
       t.created_at,
       t.updated_at,
       au.name,
       au.email,
       ru.name,
       ru.email
FROM tasks t
LEFT JOIN users au ON au.id = t.assignee_id
LEFT JOIN users ru ON ru.id = t.reporter_id
`

func scanTask(row pgx.Row) (*models.Task, error) {
	var (
		task                        models.Task
		assigneeName, assigneeEmail *string
		reporterName, reporterEmail *string
	)
	err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.Progress,
		&task.StartDate,
		&task.DueDate,
		&task.AssigneeID,
		&task.ReporterID,
		&task.Tags,
		&task.Checklist,
		&task.Subtasks,
		&task.Watchers,
		&task.CreatedAt,
		&task.UpdatedAt,
		&assigneeName,
		&assigneeEmail,
		&reporterName,
		&reporterEmail,
	)
	if err != nil {
		return nil, err
	}

	if task.AssigneeID != nil && assigneeName != nil {
		task.Assignee = &models.UserSummary{ID: *task.AssigneeID, Name: *assigneeName, Email: *assigneeEmail}
	}
	if task.ReporterID != nil && reporterName != nil {
		task.Reporter = &models.UserSummary{ID: *task.ReporterID, Name: *reporterName, Email: *reporterEmail}
	}
	return &task, nil
}

func (p *Postgres) GetTask(ctx context.Context, id string) (*models.Task, error) {
	const selectTaskQuery = selectTaskColumns + `WHERE t.id = $1`

	task, err := scanTask(p.pool.QueryRow(ctx, selectTaskQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTaskNotFound
		}

		p.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to select task")
		return nil, err
	}

	task.Comments, err = p.selectComments(ctx, id)
	if err != nil {
		return nil, err
	}
	task.ActivityLog, err = p.selectActivity(ctx, id)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (p *Postgres) selectComments(ctx context.Context, taskID string) ([]models.Comment, error) {
	const selectCommentsQuery = `
SELECT c.id,
       c.author_id,
       u.name,
       u.email,
       c.content,
       c.mentions,
       c.created_at
FROM task_comments c
JOIN users u ON u.id = c.author_id
WHERE c.task_id = $1
ORDER BY c.created_at
`
	rows, err := p.pool.Query(ctx, selectCommentsQuery, taskID)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task comments")
		return nil, err
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		comment := models.Comment{TaskID: taskID, Author: &models.UserSummary{}}
		err = rows.Scan(
			&comment.ID,
			&comment.AuthorID,
			&comment.Author.Name,
			&comment.Author.Email,
			&comment.Content,
			&comment.Mentions,
			&comment.CreatedAt,
		)
		if err != nil {
			p.logger.Error().
				Err(err).
				Msg("failed to scan task comment")
			return nil, err
		}
		comment.Author.ID = comment.AuthorID
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (p *Postgres) selectActivity(ctx context.Context, taskID string) ([]models.ActivityEntry, error) {
	const selectActivityQuery = `
SELECT actor_id, action, meta, at
FROM task_activity
WHERE task_id = $1
ORDER BY id
`
	rows, err := p.pool.Query(ctx, selectActivityQuery, taskID)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task activity")
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.ActivityEntry, 0)
	for rows.Next() {
		var entry models.ActivityEntry
		if err = rows.Scan(&entry.ActorID, &entry.Action, &entry.Meta, &entry.At); err != nil {
			p.logger.Error().
				Err(err).
				Msg("failed to scan task activity")
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// sortColumns whitelists the caller-supplied sort keys. A leading "-"
// flips to descending order.
var sortColumns = map[string]string{
	"updatedAt": "t.updated_at",
	"createdAt": "t.created_at",
	"dueDate":   "t.due_date",
	"priority":  "t.priority",
	"progress":  "t.progress",
	"status":    "t.status",
	"title":     "t.title",
}

func sortExpr(sort string) string {
	dir := "ASC"
	if strings.HasPrefix(sort, "-") {
		dir = "DESC"
		sort = sort[1:]
	}
	column, ok := sortColumns[sort]
	if !ok {
		return "t.updated_at DESC"
	}
	return column + " " + dir
}

func buildTaskFilter(filter repository.TaskFilter) (string, []any) {
	conds := make([]string, 0, 8)
	args := make([]any, 0, 8)

	next := func(arg any) string {
		args = append(args, arg)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ProjectID != "" {
		conds = append(conds, "t.project_id = "+next(filter.ProjectID))
	} else if filter.ProjectIDs != nil {
		conds = append(conds, "t.project_id = ANY("+next(filter.ProjectIDs)+")")
	}
	if filter.Status != "" {
		conds = append(conds, "t.status = "+next(filter.Status))
	}
	if filter.AssigneeID != "" {
		conds = append(conds, "t.assignee_id = "+next(filter.AssigneeID))
	}
	if filter.Tag != "" {
		conds = append(conds, next(filter.Tag)+" = ANY(t.tags)")
	}
	if filter.Query != "" {
		q := next(filter.Query)
		conds = append(conds, "(t.title ILIKE '%' || "+q+" || '%' OR t.description ILIKE '%' || "+q+" || '%')")
	}
	if filter.Overdue {
		conds = append(conds, "t.due_date IS NOT NULL AND t.due_date < now() AND t.status <> 'done'")
	}
	if filter.DueFrom != nil {
		conds = append(conds, "t.due_date >= "+next(*filter.DueFrom))
	}
	if filter.DueTo != nil {
		conds = append(conds, "t.due_date <= "+next(*filter.DueTo))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func (p *Postgres) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]models.Task, int, error) {
	where, args := buildTaskFilter(filter)

	countQuery := "SELECT COUNT(*) FROM tasks t " + where
	var total int
	if err := p.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to count tasks")
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(
		"%s %s ORDER BY %s LIMIT $%d OFFSET $%d",
		selectTaskColumns, where, sortExpr(filter.Sort), len(args)+1, len(args)+2,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := p.pool.Query(ctx, listQuery, args...)
	if err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, 0, err
	}
	defer rows.Close()

	tasks := make([]models.Task, 0, filter.Limit)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			p.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, 0, err
		}
		tasks = append(tasks, *task)
	}
	if err = rows.Err(); err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, 0, err
	}
	return tasks, total, nil
}

func (p *Postgres) UpdateTask(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    status = $3,
    priority = $4,
    progress = $5,
    start_date = $6,
    due_date = $7,
    assignee_id = $8,
    tags = $9,
    checklist = $10,
    subtasks = $11,
    watchers = $12,
    updated_at = $13
WHERE id = $14
`
	tag, err := p.pool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Progress,
		task.StartDate,
		task.DueDate,
		task.AssigneeID,
		task.Tags,
		task.Checklist,
		task.Subtasks,
		task.Watchers,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrTaskNotFound
	}

	p.logger.Debug().
		Str("task_id", task.ID).
		Msg("updated task")
	return nil
}

func (p *Postgres) DeleteTask(ctx context.Context, id string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := p.pool.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrTaskNotFound
	}

	p.logger.Debug().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}

func (p *Postgres) AddComment(ctx context.Context, comment *models.Comment) error {
	const insertCommentQuery = `
INSERT INTO task_comments (id, task_id, author_id, content, mentions, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err := p.pool.Exec(
		ctx,
		insertCommentQuery,
		comment.ID,
		comment.TaskID,
		comment.AuthorID,
		comment.Content,
		comment.Mentions,
		comment.CreatedAt,
	)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("task_id", comment.TaskID).
			Msg("failed to insert task comment")
		return err
	}
	return nil
}

func (p *Postgres) AppendActivity(ctx context.Context, taskID string, entry models.ActivityEntry) error {
	const insertActivityQuery = `
INSERT INTO task_activity (task_id, actor_id, action, meta, at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err := p.pool.Exec(ctx, insertActivityQuery, taskID, entry.ActorID, entry.Action, entry.Meta, entry.At)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to insert task activity")
		return err
	}
	return nil
}
