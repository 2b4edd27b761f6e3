package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskhub/internal/models"
	"taskhub/internal/services"
)

type taskServiceMock struct {
	mock.Mock
}

var _ services.TaskService = (*taskServiceMock)(nil)

func (m *taskServiceMock) ListTasks(ctx context.Context, userID string, params services.ListTasksParams) (*services.TaskPage, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TaskPage), args.Error(1)
}

func (m *taskServiceMock) CreateTask(ctx context.Context, userID string, params services.CreateTaskParams) (*models.Task, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, id, userID string, patch services.TaskPatch) (*models.Task, error) {
	args := m.Called(ctx, id, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *taskServiceMock) DeleteTask(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *taskServiceMock) AddComment(ctx context.Context, id, userID, content string, mentions []string) (*models.Task, error) {
	args := m.Called(ctx, id, userID, content, mentions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *taskServiceMock) AssignTask(ctx context.Context, id, userID, assigneeID string) (*models.Task, error) {
	args := m.Called(ctx, id, userID, assigneeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func TestListTasksDropsMalformedIDFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tasks := &taskServiceMock{}
	h := &handlerImpl{logger: zerolog.Nop(), tasks: tasks}

	tasks.On("ListTasks", mock.Anything, "u1", mock.MatchedBy(func(params services.ListTasksParams) bool {
		return params.ProjectID == "" && params.AssigneeID == ""
	})).Return(&services.TaskPage{Items: []models.Task{}, Page: 1, PageSize: 20}, nil)

	router := gin.New()
	router.GET("/api/tasks", func(c *gin.Context) {
		c.Set(userIDCtxKey, "u1")
	}, h.HandleListTasks)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/tasks?project=abc&assignee=not-a-uuid", nil)
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	tasks.AssertExpectations(t)
}
