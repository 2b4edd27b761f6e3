package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskhub/internal/models"
	"taskhub/internal/repository"
)

type projectServiceImpl struct {
	logger zerolog.Logger
	repo   repository.Repository
}

func NewProjectService(logger zerolog.Logger, repo repository.Repository) ProjectService {
	return &projectServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *projectServiceImpl) CreateProject(ctx context.Context, userID string, params CreateProjectParams) (*models.Project, error) {
	if params.Name == "" || params.Key == "" {
		return nil, fmt.Errorf("%w: missing name/key", models.ErrInvalidArgument)
	}

	projectUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate project uuid")
		return nil, err
	}

	columns := params.Columns
	if len(columns) == 0 {
		columns = models.DefaultColumns()
	}

	now := time.Now()
	project := &models.Project{
		ID:          projectUUID.String(),
		Name:        params.Name,
		Key:         strings.ToUpper(strings.TrimSpace(params.Key)),
		Description: params.Description,
		Columns:     columns,
		Members:     []models.Member{{UserID: userID, Role: models.RoleOwner}},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.repo.CreateProject(ctx, project)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("key", project.Key).
		Msg("created project")
	return project, nil
}

func (s *projectServiceImpl) ListMyProjects(ctx context.Context, userID, query string) ([]models.Project, error) {
	return s.repo.ListProjectsByMember(ctx, userID, query)
}

// GetProject hides whether the project is missing or merely inaccessible:
// both come back as models.ErrProjectNotFound.
func (s *projectServiceImpl) GetProject(ctx context.Context, id, userID string) (*models.Project, error) {
	project, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.IsMember(userID) {
		s.logger.Warn().
			Str("project_id", id).
			Str("user_id", userID).
			Msg("project fetched by non-member")
		return nil, models.ErrProjectNotFound
	}
	return project, nil
}

func (s *projectServiceImpl) UpdateProject(ctx context.Context, id, userID string, patch ProjectPatch) (*models.Project, error) {
	project, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.CanAdmin(userID) {
		return nil, models.ErrForbidden
	}

	if patch.Name != nil {
		project.Name = *patch.Name
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.Columns != nil {
		project.Columns = *patch.Columns
	}
	project.UpdatedAt = time.Now()

	err = s.repo.UpdateProject(ctx, project)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("project_id", id).
		Msg("updated project")
	return project, nil
}

func (s *projectServiceImpl) AddOrUpdateMember(ctx context.Context, id, userID, targetUserID, role string) ([]models.Member, error) {
	if role != "" && !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: invalid role", models.ErrInvalidArgument)
	}

	project, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.CanAdmin(userID) {
		return nil, models.ErrForbidden
	}

	member := models.Member{UserID: targetUserID, Role: role}
	updated := false
	for i := range project.Members {
		if project.Members[i].UserID != targetUserID {
			continue
		}
		// Existing members keep their role when none is supplied.
		if member.Role == "" {
			member.Role = project.Members[i].Role
		}
		project.Members[i].Role = member.Role
		updated = true
		break
	}
	if !updated {
		if member.Role == "" {
			member.Role = models.RoleMember
		}
		project.Members = append(project.Members, member)
	}

	err = s.repo.UpsertMember(ctx, id, member)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("project_id", id).
		Str("user_id", targetUserID).
		Str("role", member.Role).
		Msg("upserted project member")
	return project.Members, nil
}

func (s *projectServiceImpl) RemoveMember(ctx context.Context, id, userID, targetUserID string) ([]models.Member, error) {
	project, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.CanAdmin(userID) {
		return nil, models.ErrForbidden
	}
	if project.RoleOf(targetUserID) == models.RoleOwner {
		return nil, models.ErrOwnerRemoval
	}

	err = s.repo.DeleteMember(ctx, id, targetUserID)
	if err != nil {
		return nil, err
	}

	members := make([]models.Member, 0, len(project.Members))
	for _, m := range project.Members {
		if m.UserID != targetUserID {
			members = append(members, m)
		}
	}

	s.logger.Info().
		Str("project_id", id).
		Str("user_id", targetUserID).
		Msg("removed project member")
	return members, nil
}
