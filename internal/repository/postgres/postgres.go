// Package postgres implements the repository against PostgreSQL.
package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"taskhub/internal/repository"
)

type Postgres struct {
	logger zerolog.Logger
	pool   *pgxpool.Pool
}

var _ repository.Repository = (*Postgres)(nil)

func New(logger zerolog.Logger, pool *pgxpool.Pool) *Postgres {
	return &Postgres{
		logger: logger,
		pool:   pool,
	}
}
