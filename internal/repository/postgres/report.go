package postgres

import (
	"context"
	"time"

	"taskhub/internal/models"
)

func (p *Postgres) countTasks(ctx context.Context, query string, args ...any) (int, error) {
	var count int
	err := p.pool.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to count tasks")
		return 0, err
	}
	return count, nil
}

func (p *Postgres) CountTasks(ctx context.Context, projectIDs []string) (int, error) {
	const countTasksQuery = `
SELECT COUNT(*)
FROM tasks
WHERE project_id = ANY($1)
`
	return p.countTasks(ctx, countTasksQuery, projectIDs)
}

func (p *Postgres) CountOverdueTasks(ctx context.Context, projectIDs []string, now time.Time) (int, error) {
	const countOverdueQuery = `
SELECT COUNT(*)
FROM tasks
WHERE project_id = ANY($1) AND
      due_date IS NOT NULL AND
      due_date < $2 AND
      status <> 'done'
`
	return p.countTasks(ctx, countOverdueQuery, projectIDs, now)
}

func (p *Postgres) CountTasksDueBetween(ctx context.Context, projectIDs []string, from, to time.Time) (int, error) {
	const countDueBetweenQuery = `
SELECT COUNT(*)
FROM tasks
WHERE project_id = ANY($1) AND
      due_date >= $2 AND
      due_date <= $3
`
	return p.countTasks(ctx, countDueBetweenQuery, projectIDs, from, to)
}

func (p *Postgres) CountRemainingTasks(ctx context.Context, projectID string) (int, error) {
	const countRemainingQuery = `
SELECT COUNT(*)
FROM tasks
WHERE project_id = $1 AND
      status <> 'done'
`
	return p.countTasks(ctx, countRemainingQuery, projectID)
}

func (p *Postgres) groupCount(ctx context.Context, query string, projectIDs []string) (map[string]int, error) {
	rows, err := p.pool.Query(ctx, query, projectIDs)
	if err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to group tasks")
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			key   string
			count int
		)
		if err = rows.Scan(&key, &count); err != nil {
			p.logger.Error().
				Err(err).
				Msg("failed to scan group count")
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}

func (p *Postgres) CountTasksByStatus(ctx context.Context, projectIDs []string) (map[string]int, error) {
	const countByStatusQuery = `
SELECT status, COUNT(*)
FROM tasks
WHERE project_id = ANY($1)
GROUP BY status
`
	return p.groupCount(ctx, countByStatusQuery, projectIDs)
}

func (p *Postgres) CountTasksByPriority(ctx context.Context, projectIDs []string) (map[string]int, error) {
	const countByPriorityQuery = `
SELECT priority, COUNT(*)
FROM tasks
WHERE project_id = ANY($1)
GROUP BY priority
`
	return p.groupCount(ctx, countByPriorityQuery, projectIDs)
}

func (p *Postgres) AverageTaskProgress(ctx context.Context, projectIDs []string) (float64, error) {
	const averageProgressQuery = `
SELECT COALESCE(AVG(progress), 0)
FROM tasks
WHERE project_id = ANY($1)
`
	var avg float64
	err := p.pool.QueryRow(ctx, averageProgressQuery, projectIDs).Scan(&avg)
	if err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to average task progress")
		return 0, err
	}
	return avg, nil
}

func (p *Postgres) TasksByAssignee(ctx context.Context, projectIDs []string) ([]models.AssigneeBreakdown, error) {
	const tasksByAssigneeQuery = `
SELECT assignee_id,
       COUNT(*) FILTER (WHERE status = 'todo'),
       COUNT(*) FILTER (WHERE status = 'in_progress'),
       COUNT(*) FILTER (WHERE status = 'review'),
       COUNT(*) FILTER (WHERE status = 'done')
FROM tasks
WHERE project_id = ANY($1)
GROUP BY assignee_id
`
	rows, err := p.pool.Query(ctx, tasksByAssigneeQuery, projectIDs)
	if err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to group tasks by assignee")
		return nil, err
	}
	defer rows.Close()

	breakdowns := make([]models.AssigneeBreakdown, 0)
	for rows.Next() {
		var b models.AssigneeBreakdown
		if err = rows.Scan(&b.UserID, &b.Todo, &b.InProgress, &b.Review, &b.Done); err != nil {
			p.logger.Error().
				Err(err).
				Msg("failed to scan assignee breakdown")
			return nil, err
		}
		breakdowns = append(breakdowns, b)
	}
	return breakdowns, rows.Err()
}

func (p *Postgres) CompletionTrend(ctx context.Context, projectIDs []string, since time.Time) ([]models.TrendPoint, error) {
	const completionTrendQuery = `
SELECT to_char(updated_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
FROM tasks
WHERE project_id = ANY($1) AND
      status = 'done' AND
      updated_at >= $2
GROUP BY day
ORDER BY day
`
	rows, err := p.pool.Query(ctx, completionTrendQuery, projectIDs, since)
	if err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to select completion trend")
		return nil, err
	}
	defer rows.Close()

	points := make([]models.TrendPoint, 0)
	for rows.Next() {
		var point models.TrendPoint
		if err = rows.Scan(&point.Date, &point.Done); err != nil {
			p.logger.Error().
				Err(err).
				Msg("failed to scan trend point")
			return nil, err
		}
		points = append(points, point)
	}
	return points, rows.Err()
}
