package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskhub/internal/models"
	"taskhub/internal/repository"
)

func newTestTaskService(repo *repoMock) TaskService {
	return NewTaskService(zerolog.Nop(), repo)
}

func storedTask() *models.Task {
	return &models.Task{
		ID:        "t1",
		ProjectID: "p1",
		Title:     "Ship it",
		Status:    models.StatusTodo,
		Priority:  models.PriorityMedium,
	}
}

func TestTaskService_ListScopesToMemberships(t *testing.T) {
	repo := &repoMock{}
	svc := newTestTaskService(repo)

	repo.On("ListProjectIDsByMember", mock.Anything, "u1").Return([]string{"p1", "p2"}, nil)
	repo.On("ListTasks", mock.Anything, mock.MatchedBy(func(f repository.TaskFilter) bool {
		return len(f.ProjectIDs) == 2 &&
			f.Sort == "-updatedAt" &&
			f.Limit == 20 &&
			f.Offset == 0
	})).Return([]models.Task{}, 0, nil)

	page, err := svc.ListTasks(context.Background(), "u1", ListTasksParams{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 20, page.PageSize)
	require.Equal(t, 0, page.Pages)
	repo.AssertExpectations(t)
}

func TestTaskService_ListAllScopeSkipsMembershipLookup(t *testing.T) {
	repo := &repoMock{}
	svc := newTestTaskService(repo)

	repo.On("ListTasks", mock.Anything, mock.MatchedBy(func(f repository.TaskFilter) bool {
		return f.ProjectIDs == nil && f.ProjectID == ""
	})).Return([]models.Task{}, 0, nil)

	_, err := svc.ListTasks(context.Background(), "u1", ListTasksParams{Scope: "all"})
	require.NoError(t, err)
	repo.AssertNotCalled(t, "ListProjectIDsByMember", mock.Anything, mock.Anything)
}

func TestTaskService_ListExplicitProjectOverridesScope(t *testing.T) {
	repo := &repoMock{}
	svc := newTestTaskService(repo)

	repo.On("ListTasks", mock.Anything, mock.MatchedBy(func(f repository.TaskFilter) bool {
		return f.ProjectID == "p9" && f.ProjectIDs == nil
	})).Return([]models.Task{}, 0, nil)

	_, err := svc.ListTasks(context.Background(), "u1", ListTasksParams{ProjectID: "p9"})
	require.NoError(t, err)
	repo.AssertNotCalled(t, "ListProjectIDsByMember", mock.Anything, mock.Anything)
}

func TestTaskService_ListComputesPages(t *testing.T) {
	repo := &repoMock{}
	svc := newTestTaskService(repo)

	repo.On("ListProjectIDsByMember", mock.Anything, "u1").Return([]string{"p1"}, nil)
	repo.On("ListTasks", mock.Anything, mock.MatchedBy(func(f repository.TaskFilter) bool {
		return f.Limit == 10 && f.Offset == 20
	})).Return([]models.Task{}, 41, nil)

	page, err := svc.ListTasks(context.Background(), "u1", ListTasksParams{Page: 3, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 41, page.Total)
	require.Equal(t, 5, page.Pages)
}

func TestTaskService_CreateRequiresMembership(t *testing.T) {
	repo := &repoMock{}
	svc := newTestTaskService(repo)

	repo.On("GetProject", mock.Anything, "p1").
		Return(memberProject(models.Member{UserID: "owner", Role: models.RoleOwner}), nil)

	_, err := svc.CreateTask(context.Background(), "stranger", CreateTaskParams{
		ProjectID: "p1",
		Title:     "Ship it",
	})
	require.ErrorIs(t, err, models.ErrNoProjectAccess)
	repo.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
}

func TestTaskService_CreateHidesMissingProject(t *testing.T) {
	repo := &repoMock{}
	svc := newTestTaskService(repo)

	repo.On("GetProject", mock.Anything, "p-gone").
		Return(nil, models.ErrProjectNotFound)

	_, err := svc.CreateTask(context.Background(), "u1", CreateTaskParams{
		ProjectID: "p-gone",
		Title:     "Ship it",
	})
	require.ErrorIs(t, err, models.ErrNoProjectAccess)
	repo.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
}

func TestTaskService_CreateSeedsActivityAndDefaults(t *testing.T) {
	repo := &repoMock{}
	svc := newTestTaskService(repo)

	repo.On("GetProject", mock.Anything, "p1").
		Return(memberProject(models.Member{UserID: "u1", Role: models.RoleMember}), nil)
	repo.On("CreateTask", mock.Anything, mock.MatchedBy(func(task *models.Task) bool {
		return task.Status == models.StatusTodo &&
			task.Priority == models.PriorityMedium &&
			task.ReporterID != nil && *task.ReporterID == "u1" &&
			len(task.ActivityLog) == 1 &&
			task.ActivityLog[0].Action == models.ActionCreated &&
			task.ActivityLog[0].Meta["title"] == "Ship it"
	})).Return(nil)
	repo.On("GetTask", mock.Anything, mock.Anything).Return(storedTask(), nil)

	task, err := svc.CreateTask(context.Background(), "u1", CreateTaskParams{
		ProjectID: "p1",
		Title:     "Ship it",
	})
	require.NoError(t, err)
	require.Equal(t, "t1", task.ID)
	repo.AssertExpectations(t)
}

func TestTaskService_UpdateAppendsOneCombinedAuditEntry(t *testing.T) {
	repo := &repoMock{}
	svc := newTestTaskService(repo)

	repo.On("GetTask", mock.Anything, "t1").Return(storedTask(), nil)
	repo.On("GetProject", mock.Anything, "p1").
		Return(memberProject(models.Member{UserID: "u1", Role: models.RoleMember}), nil)
	repo.On("UpdateTask", mock.Anything, mock.Anything).Return(nil)
	repo.On("AppendActivity", mock.Anything, "t1", mock.MatchedBy(func(entry models.ActivityEntry) bool {
		status, ok := entry.Meta["status"].(map[string]any)
		if !ok {
			return false
		}
		progress, ok := entry.Meta["progress"].(map[string]any)
		if !ok {
			return false
		}
		return entry.Action == models.ActionUpdated &&
			len(entry.Meta) == 2 &&
			status["from"] == "todo" && status["to"] == "done" &&
			progress["from"] == "0" && progress["to"] == "100"
	})).Return(nil)

	status := models.StatusDone
	progress := 100
	_, err := svc.UpdateTask(context.Background(), "t1", "u1", TaskPatch{
		Status:   &status,
		Progress: &progress,
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestTaskService_UpdateWithoutTrackedChangesAppendsNothing(t *testing.T) {
	repo := &repoMock{}
	svc := newTestTaskService(repo)

	repo.On("GetTask", mock.Anything, "t1").Return(storedTask(), nil)
	repo.On("GetProject", mock.Anything, "p1").
		Return(memberProject(models.Member{UserID: "u1", Role: models.RoleMember}), nil)
	repo.On("UpdateTask", mock.Anything, mock.Anything).Return(nil)

	description := "details only"
	_, err := svc.UpdateTask(context.Background(), "t1", "u1", TaskPatch{Description: &description})
	require.NoError(t, err)
	repo.AssertNotCalled(t, "AppendActivity", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskService_UpdateRejectsInvalidStatus(t *testing.T) {
	repo := &repoMock{}
	svc := newTestTaskService(repo)

	repo.On("GetTask", mock.Anything, "t1").Return(storedTask(), nil)
	repo.On("GetProject", mock.Anything, "p1").
		Return(memberProject(models.Member{UserID: "u1", Role: models.RoleMember}), nil)

	status := "blocked"
	_, err := svc.UpdateTask(context.Background(), "t1", "u1", TaskPatch{Status: &status})
	require.ErrorIs(t, err, models.ErrInvalidArgument)
	repo.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything)
}

func TestTaskService_DeleteRequiresMembership(t *testing.T) {
	repo := &repoMock{}
	svc := newTestTaskService(repo)

	repo.On("GetTask", mock.Anything, "t1").Return(storedTask(), nil)
	repo.On("GetProject", mock.Anything, "p1").
		Return(memberProject(models.Member{UserID: "owner", Role: models.RoleOwner}), nil)

	err := svc.DeleteTask(context.Background(), "t1", "stranger")
	require.ErrorIs(t, err, models.ErrNoProjectAccess)
	repo.AssertNotCalled(t, "DeleteTask", mock.Anything, mock.Anything)
}

func TestTaskService_AddCommentRequiresContent(t *testing.T) {
	repo := &repoMock{}
	svc := newTestTaskService(repo)

	_, err := svc.AddComment(context.Background(), "t1", "u1", "", nil)
	require.ErrorIs(t, err, models.ErrInvalidArgument)
	repo.AssertNotCalled(t, "AddComment", mock.Anything, mock.Anything)
}

func TestTaskService_AddCommentAppendsActivity(t *testing.T) {
	repo := &repoMock{}
	svc := newTestTaskService(repo)

	repo.On("GetTask", mock.Anything, "t1").Return(storedTask(), nil)
	repo.On("GetProject", mock.Anything, "p1").
		Return(memberProject(models.Member{UserID: "u1", Role: models.RoleMember}), nil)
	repo.On("AddComment", mock.Anything, mock.MatchedBy(func(comment *models.Comment) bool {
		return comment.TaskID == "t1" &&
			comment.AuthorID == "u1" &&
			comment.Content == "looks good" &&
			comment.ID != ""
	})).Return(nil)
	repo.On("AppendActivity", mock.Anything, "t1", mock.MatchedBy(func(entry models.ActivityEntry) bool {
		return entry.Action == models.ActionCommented && entry.ActorID == "u1"
	})).Return(nil)

	_, err := svc.AddComment(context.Background(), "t1", "u1", "looks good", nil)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestTaskService_AssignRequiresAdminRole(t *testing.T) {
	repo := &repoMock{}
	svc := newTestTaskService(repo)

	repo.On("GetTask", mock.Anything, "t1").Return(storedTask(), nil)
	repo.On("GetProject", mock.Anything, "p1").
		Return(memberProject(
			models.Member{UserID: "owner", Role: models.RoleOwner},
			models.Member{UserID: "u1", Role: models.RoleMember},
		), nil)

	_, err := svc.AssignTask(context.Background(), "t1", "u1", "u1")
	require.ErrorIs(t, err, models.ErrForbidden)
	repo.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything)
}

func TestTaskService_AssignRejectsOutsiders(t *testing.T) {
	repo := &repoMock{}
	svc := newTestTaskService(repo)

	repo.On("GetTask", mock.Anything, "t1").Return(storedTask(), nil)
	repo.On("GetProject", mock.Anything, "p1").
		Return(memberProject(models.Member{UserID: "owner", Role: models.RoleOwner}), nil)

	_, err := svc.AssignTask(context.Background(), "t1", "owner", "stranger")
	require.ErrorIs(t, err, models.ErrAssigneeNotMember)
	repo.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything)
}

func TestTaskService_AssignRecordsNilPreviousAssignee(t *testing.T) {
	repo := &repoMock{}
	svc := newTestTaskService(repo)

	repo.On("GetTask", mock.Anything, "t1").Return(storedTask(), nil)
	repo.On("GetProject", mock.Anything, "p1").
		Return(memberProject(
			models.Member{UserID: "owner", Role: models.RoleOwner},
			models.Member{UserID: "u2", Role: models.RoleMember},
		), nil)
	repo.On("UpdateTask", mock.Anything, mock.MatchedBy(func(task *models.Task) bool {
		return task.AssigneeID != nil && *task.AssigneeID == "u2"
	})).Return(nil)
	repo.On("AppendActivity", mock.Anything, "t1", mock.MatchedBy(func(entry models.ActivityEntry) bool {
		return entry.Action == models.ActionAssigned &&
			entry.Meta["from"] == nil &&
			entry.Meta["to"] == "u2"
	})).Return(nil)

	_, err := svc.AssignTask(context.Background(), "t1", "owner", "u2")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
