// Package v1 is the gin HTTP surface of the API: request binding,
// bearer auth, error-to-status mapping and JSON shaping.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"taskhub/internal/services"
)

type Handler interface {
	HandleRegister(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleListUsers(c *gin.Context)
	HandleGetUser(c *gin.Context)

	HandleCreateProject(c *gin.Context)
	HandleListProjects(c *gin.Context)
	HandleGetProject(c *gin.Context)
	HandleUpdateProject(c *gin.Context)
	HandleAddMember(c *gin.Context)
	HandleRemoveMember(c *gin.Context)

	HandleListTasks(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleAddComment(c *gin.Context)
	HandleAssignTask(c *gin.Context)

	HandleOverviewReport(c *gin.Context)
	HandleBurndownReport(c *gin.Context)
}

type handlerImpl struct {
	logger   zerolog.Logger
	auth     services.AuthService
	users    services.UserService
	projects services.ProjectService
	tasks    services.TaskService
	reports  services.ReportService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	userService services.UserService,
	projectService services.ProjectService,
	taskService services.TaskService,
	reportService services.ReportService,
) Handler {
	return &handlerImpl{
		logger:   logger,
		auth:     authService,
		users:    userService,
		projects: projectService,
		tasks:    taskService,
		reports:  reportService,
	}
}
