package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskhub/internal/models"
	"taskhub/internal/services"
)

type memberResponse struct {
	User string `json:"user"`
	Role string `json:"role"`
}

type projectResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Key         string           `json:"key"`
	Description string           `json:"description"`
	Columns     []string         `json:"columns"`
	Members     []memberResponse `json:"members"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func newMemberResponses(members []models.Member) []memberResponse {
	response := make([]memberResponse, len(members))
	for i, m := range members {
		response[i] = memberResponse{
			User: m.UserID,
			Role: m.Role,
		}
	}
	return response
}

func newProjectResponse(project *models.Project) projectResponse {
	return projectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Key:         project.Key,
		Description: project.Description,
		Columns:     project.Columns,
		Members:     newMemberResponses(project.Members),
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

type createProjectRequest struct {
	Name        string   `json:"name"`
	Key         string   `json:"key"`
	Description string   `json:"description"`
	Columns     []string `json:"columns"`
}

func (h *handlerImpl) HandleCreateProject(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	var req createProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError("Missing name/key"))
		return
	}

	if req.Name == "" || req.Key == "" {
		h.logger.Warn().Msg("missing project name or key")
		abort(c, newBadRequestError("Missing name/key"))
		return
	}

	project, err := h.projects.CreateProject(c, userID, services.CreateProjectParams{
		Name:        req.Name,
		Key:         req.Key,
		Description: req.Description,
		Columns:     req.Columns,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info().
		Str("project_id", project.ID).
		Msg("created project")
	c.JSON(http.StatusCreated, newProjectResponse(project))
}

func (h *handlerImpl) HandleListProjects(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	projects, err := h.projects.ListMyProjects(c, userID, c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]projectResponse, len(projects))
	for i := range projects {
		response[i] = newProjectResponse(&projects[i])
	}

	c.JSON(http.StatusOK, response)
}

// projectIDParam extracts and validates the :id path segment.
func (h *handlerImpl) projectIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if uuid.Validate(id) != nil {
		h.logger.Warn().
			Str("id", id).
			Msg("malformed project id")
		abort(c, newBadRequestError("Invalid id"))
		return "", false
	}
	return id, true
}

func (h *handlerImpl) HandleGetProject(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	id, ok := h.projectIDParam(c)
	if !ok {
		return
	}

	project, err := h.projects.GetProject(c, id, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProjectResponse(project))
}

type updateProjectRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Columns     *[]string `json:"columns"`
}

func (h *handlerImpl) HandleUpdateProject(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	id, ok := h.projectIDParam(c)
	if !ok {
		return
	}

	var req updateProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError("Invalid request body"))
		return
	}

	project, err := h.projects.UpdateProject(c, id, userID, services.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		Columns:     req.Columns,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info().
		Str("project_id", project.ID).
		Msg("updated project")
	c.JSON(http.StatusOK, newProjectResponse(project))
}

type addMemberRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func (h *handlerImpl) HandleAddMember(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	id, ok := h.projectIDParam(c)
	if !ok {
		return
	}

	var req addMemberRequest
	err := c.ShouldBindJSON(&req)
	if err != nil || uuid.Validate(req.UserID) != nil {
		h.logger.Error().
			Err(err).
			Msg("missing or malformed member user id")
		abort(c, newBadRequestError("Invalid id"))
		return
	}

	members, err := h.projects.AddOrUpdateMember(c, id, userID, req.UserID, req.Role)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info().
		Str("project_id", id).
		Str("member_id", req.UserID).
		Msg("upserted project member")
	c.JSON(http.StatusOK, newMemberResponses(members))
}

func (h *handlerImpl) HandleRemoveMember(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}

	id, ok := h.projectIDParam(c)
	if !ok {
		return
	}

	members, err := h.projects.RemoveMember(c, id, userID, c.Param("userId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info().
		Str("project_id", id).
		Msg("removed project member")
	c.JSON(http.StatusOK, newMemberResponses(members))
}
