package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"taskhub/internal/models"
	"taskhub/internal/repository"
)

type repoMock struct{ mock.Mock }

var _ repository.Repository = (*repoMock)(nil)

func (m *repoMock) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *repoMock) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *repoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *repoMock) ListUsers(ctx context.Context, query string) ([]models.User, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *repoMock) CreateProject(ctx context.Context, project *models.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *repoMock) GetProject(ctx context.Context, id string) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *repoMock) ListProjectsByMember(ctx context.Context, userID, query string) ([]models.Project, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Project), args.Error(1)
}

func (m *repoMock) UpdateProject(ctx context.Context, project *models.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *repoMock) UpsertMember(ctx context.Context, projectID string, member models.Member) error {
	args := m.Called(ctx, projectID, member)
	return args.Error(0)
}

func (m *repoMock) DeleteMember(ctx context.Context, projectID, userID string) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *repoMock) ListProjectIDsByMember(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *repoMock) ListAllProjectIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *repoMock) CreateTask(ctx context.Context, task *models.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *repoMock) GetTask(ctx context.Context, id string) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *repoMock) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]models.Task, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Task), args.Int(1), args.Error(2)
}

func (m *repoMock) UpdateTask(ctx context.Context, task *models.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *repoMock) DeleteTask(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *repoMock) AddComment(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *repoMock) AppendActivity(ctx context.Context, taskID string, entry models.ActivityEntry) error {
	args := m.Called(ctx, taskID, entry)
	return args.Error(0)
}

func (m *repoMock) CountTasks(ctx context.Context, projectIDs []string) (int, error) {
	args := m.Called(ctx, projectIDs)
	return args.Int(0), args.Error(1)
}

func (m *repoMock) CountTasksByStatus(ctx context.Context, projectIDs []string) (map[string]int, error) {
	args := m.Called(ctx, projectIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *repoMock) CountTasksByPriority(ctx context.Context, projectIDs []string) (map[string]int, error) {
	args := m.Called(ctx, projectIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *repoMock) CountOverdueTasks(ctx context.Context, projectIDs []string, now time.Time) (int, error) {
	args := m.Called(ctx, projectIDs, now)
	return args.Int(0), args.Error(1)
}

func (m *repoMock) CountTasksDueBetween(ctx context.Context, projectIDs []string, from, to time.Time) (int, error) {
	args := m.Called(ctx, projectIDs, from, to)
	return args.Int(0), args.Error(1)
}

func (m *repoMock) AverageTaskProgress(ctx context.Context, projectIDs []string) (float64, error) {
	args := m.Called(ctx, projectIDs)
	return args.Get(0).(float64), args.Error(1)
}

func (m *repoMock) TasksByAssignee(ctx context.Context, projectIDs []string) ([]models.AssigneeBreakdown, error) {
	args := m.Called(ctx, projectIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AssigneeBreakdown), args.Error(1)
}

func (m *repoMock) CompletionTrend(ctx context.Context, projectIDs []string, since time.Time) ([]models.TrendPoint, error) {
	args := m.Called(ctx, projectIDs, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TrendPoint), args.Error(1)
}

func (m *repoMock) CountRemainingTasks(ctx context.Context, projectID string) (int, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Error(1)
}
