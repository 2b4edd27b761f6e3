package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"taskhub/internal/models"
)

func (p *Postgres) CreateProject(ctx context.Context, project *models.Project) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertProjectQuery = `
INSERT INTO projects (id,
                      name,
                      key,
                      description,
                      columns,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err = tx.Exec(
		ctx,
		insertProjectQuery,
		project.ID,
		project.Name,
		project.Key,
		project.Description,
		project.Columns,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			p.logger.Error().
				Str("key", project.Key).
				Msg("project with this key already exists")
			return models.ErrProjectKeyTaken
		}

		p.logger.Error().
			Err(err).
			Msg("failed to insert project")
		return err
	}

	const insertMemberQuery = `
INSERT INTO project_members (project_id, user_id, role)
VALUES ($1, $2, $3)
`
	for _, member := range project.Members {
		_, err = tx.Exec(ctx, insertMemberQuery, project.ID, member.UserID, member.Role)
		if err != nil {
			p.logger.Error().
				Err(err).
				Msg("failed to insert project member")
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
		Str("project_id", project.ID).
		Msg("inserted project")
	return nil
}

func (p *Postgres) GetProject(ctx context.Context, id string) (*models.Project, error) {
	const selectProjectQuery = `
SELECT id,
       name,
       key,
       description,
       columns,
       created_at,
       updated_at
FROM projects
WHERE id = $1
`
	var project models.Project
	err := p.pool.QueryRow(
		ctx,
		selectProjectQuery,
		id,
	).Scan(
		&project.ID,
		&project.Name,
		&project.Key,
		&project.Description,
		&project.Columns,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrProjectNotFound
		}

		p.logger.Error().
			Err(err).
			Str("project_id", id).
			Msg("failed to select project")
		return nil, err
	}

	project.Members, err = p.selectMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (p *Postgres) selectMembers(ctx context.Context, projectID string) ([]models.Member, error) {
	const selectMembersQuery = `
SELECT user_id, role
FROM project_members
WHERE project_id = $1
ORDER BY joined_at
`
	rows, err := p.pool.Query(ctx, selectMembersQuery, projectID)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to select project members")
		return nil, err
	}
	defer rows.Close()

	members := make([]models.Member, 0)
	for rows.Next() {
		var member models.Member
		if err = rows.Scan(&member.UserID, &member.Role); err != nil {
			p.logger.Error().
				Err(err).
				Msg("failed to scan project member")
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (p *Postgres) ListProjectsByMember(ctx context.Context, userID, query string) ([]models.Project, error) {
	const selectProjectsQuery = `
SELECT p.id,
       p.name,
       p.key,
       p.description,
       p.columns,
       p.created_at,
       p.updated_at
FROM projects p
JOIN project_members pm ON pm.project_id = p.id
WHERE pm.user_id = $1 AND
      ($2 = '' OR p.name ILIKE '%' || $2 || '%' OR p.key ILIKE '%' || $2 || '%')
ORDER BY p.updated_at DESC
`
	rows, err := p.pool.Query(ctx, selectProjectsQuery, userID, query)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select projects by member")
		return nil, err
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		var project models.Project
		err = rows.Scan(
			&project.ID,
			&project.Name,
			&project.Key,
			&project.Description,
			&project.Columns,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			p.logger.Error().
				Err(err).
				Msg("failed to scan project")
			return nil, err
		}
		projects = append(projects, project)
	}
	if err = rows.Err(); err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	for i := range projects {
		projects[i].Members, err = p.selectMembers(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (p *Postgres) UpdateProject(ctx context.Context, project *models.Project) error {
	const updateProjectQuery = `
UPDATE projects
SET name = $1,
    description = $2,
    columns = $3,
    updated_at = $4
WHERE id = $5
`
	tag, err := p.pool.Exec(
		ctx,
		updateProjectQuery,
		project.Name,
		project.Description,
		project.Columns,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("project_id", project.ID).
			Msg("failed to update project")
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrProjectNotFound
	}

	p.logger.Debug().
		Str("project_id", project.ID).
		Msg("updated project")
	return nil
}

func (p *Postgres) UpsertMember(ctx context.Context, projectID string, member models.Member) error {
	const upsertMemberQuery = `
INSERT INTO project_members (project_id, user_id, role)
VALUES ($1, $2, $3)
ON CONFLICT (project_id, user_id) DO UPDATE SET role = EXCLUDED.role
`
	_, err := p.pool.Exec(ctx, upsertMemberQuery, projectID, member.UserID, member.Role)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Str("user_id", member.UserID).
			Msg("failed to upsert project member")
		return err
	}
	return nil
}

func (p *Postgres) DeleteMember(ctx context.Context, projectID, userID string) error {
	const deleteMemberQuery = `
DELETE FROM project_members
WHERE project_id = $1 AND user_id = $2
`
	_, err := p.pool.Exec(ctx, deleteMemberQuery, projectID, userID)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Str("user_id", userID).
			Msg("failed to delete project member")
		return err
	}
	return nil
}

func (p *Postgres) ListProjectIDsByMember(ctx context.Context, userID string) ([]string, error) {
	const selectProjectIDsQuery = `
SELECT project_id
FROM project_members
WHERE user_id = $1
`
	return p.selectIDs(ctx, selectProjectIDsQuery, userID)
}

func (p *Postgres) ListAllProjectIDs(ctx context.Context) ([]string, error) {
	const selectAllProjectIDsQuery = `
SELECT id
FROM projects
`
	return p.selectIDs(ctx, selectAllProjectIDsQuery)
}

func (p *Postgres) selectIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to select ids")
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			p.logger.Error().
				Err(err).
				Msg("failed to scan id")
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
