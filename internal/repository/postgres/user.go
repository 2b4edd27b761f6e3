package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"taskhub/internal/models"
)

func (p *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	const insertUserQuery = `
INSERT INTO users (id,
                   name,
                   email,
                   password,
                   role,
                   active,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err := p.pool.Exec(
		ctx,
		insertUserQuery,
		user.ID,
		user.Name,
		user.Email,
		user.Password,
		user.Role,
		user.Active,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			p.logger.Error().
				Str("email", user.Email).
				Msg("user with this email already exists")
			return models.ErrEmailTaken
		}

		p.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return err
	}
	p.logger.Debug().
		Str("user_id", user.ID).
		Msg("inserted user")
	return nil
}

const selectUserColumns = `
SELECT id,
       name,
       email,
       password,
       role,
       active,
       created_at,
       updated_at
FROM users
`

func (p *Postgres) scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Role,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		p.logger.Error().
			Err(err).
			Msg("failed to scan user")
		return nil, err
	}
	return &user, nil
}

func (p *Postgres) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const selectUserByIDQuery = selectUserColumns + `WHERE id = $1`
	return p.scanUser(p.pool.QueryRow(ctx, selectUserByIDQuery, id))
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const selectUserByEmailQuery = selectUserColumns + `WHERE email = $1`
	return p.scanUser(p.pool.QueryRow(ctx, selectUserByEmailQuery, email))
}

func (p *Postgres) ListUsers(ctx context.Context, query string) ([]models.User, error) {
	const selectUsersQuery = selectUserColumns + `
WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
ORDER BY name
`
	rows, err := p.pool.Query(ctx, selectUsersQuery, query)
	if err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to select users")
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		err = rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.Password,
			&user.Role,
			&user.Active,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			p.logger.Error().
				Err(err).
				Msg("failed to scan user")
			return nil, err
		}
		users = append(users, user)
	}

	err = rows.Err()
	if err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return users, nil
}
