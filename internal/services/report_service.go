package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"taskhub/internal/models"
	"taskhub/internal/repository"
)

const (
	defaultTrendDays = 30
	dueSoonWindow    = 7 * 24 * time.Hour
	dateLayout       = "2006-01-02"
)

type reportServiceImpl struct {
	logger zerolog.Logger
	repo   repository.Repository
}

func NewReportService(logger zerolog.Logger, repo repository.Repository) ReportService {
	return &reportServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// projectScope resolves the set of project ids a report runs over. An
// explicit project wins; the "all" scope covers every project without a
// further role check; the default is the caller's memberships.
func (s *reportServiceImpl) projectScope(ctx context.Context, userID, scope, projectID string) ([]string, error) {
	if projectID != "" {
		return []string{projectID}, nil
	}
	if scope == "all" {
		return s.repo.ListAllProjectIDs(ctx)
	}
	return s.repo.ListProjectIDsByMember(ctx, userID)
}

func (s *reportServiceImpl) Overview(ctx context.Context, userID string, params OverviewParams) (*models.Metrics, error) {
	days := params.Days
	if days <= 0 {
		days = defaultTrendDays
	}

	ids, err := s.projectScope(ctx, userID, params.Scope, params.ProjectID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	since := now.Add(-time.Duration(days) * 24 * time.Hour)

	metrics := &models.Metrics{
		ByStatus:        map[string]int{},
		ByPriority:      map[string]int{},
		ByAssignee:      []models.AssigneeBreakdown{},
		CompletionTrend: []models.TrendPoint{},
	}

	// The aggregations are independent, so they run concurrently and are
	// awaited together.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		metrics.Total, err = s.repo.CountTasks(gctx, ids)
		return err
	})
	g.Go(func() (err error) {
		metrics.ByStatus, err = s.repo.CountTasksByStatus(gctx, ids)
		return err
	})
	g.Go(func() (err error) {
		metrics.ByPriority, err = s.repo.CountTasksByPriority(gctx, ids)
		return err
	})
	g.Go(func() (err error) {
		metrics.Overdue, err = s.repo.CountOverdueTasks(gctx, ids, now)
		return err
	})
	g.Go(func() (err error) {
		metrics.DueSoon, err = s.repo.CountTasksDueBetween(gctx, ids, now, now.Add(dueSoonWindow))
		return err
	})
	g.Go(func() (err error) {
		metrics.ProgressAvg, err = s.repo.AverageTaskProgress(gctx, ids)
		return err
	})
	g.Go(func() (err error) {
		metrics.ByAssignee, err = s.repo.TasksByAssignee(gctx, ids)
		return err
	})
	g.Go(func() (err error) {
		metrics.CompletionTrend, err = s.repo.CompletionTrend(gctx, ids, since)
		return err
	})
	if err = g.Wait(); err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to aggregate overview")
		return nil, err
	}

	s.logger.Debug().
		Int("projects", len(ids)).
		Int("total", metrics.Total).
		Msg("computed overview")
	return metrics, nil
}

// Burndown reports, for every calendar day in [start, end], the count of
// the project's tasks whose current status is not done. The same
// present-day count stands in for every day: without historical
// snapshots this is an intentional approximation.
func (s *reportServiceImpl) Burndown(ctx context.Context, projectID string, start, end time.Time) (*models.Burndown, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end before start", models.ErrInvalidArgument)
	}

	remaining, err := s.repo.CountRemainingTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}

	startDay := start.UTC().Truncate(24 * time.Hour)
	endDay := end.UTC().Truncate(24 * time.Hour)

	series := make([]models.BurndownPoint, 0)
	for day := startDay; !day.After(endDay); day = day.Add(24 * time.Hour) {
		series = append(series, models.BurndownPoint{
			Date:      day.Format(dateLayout),
			Remaining: remaining,
		})
	}

	return &models.Burndown{
		Project: projectID,
		Start:   startDay.Format(dateLayout),
		End:     endDay.Format(dateLayout),
		Series:  series,
	}, nil
}
