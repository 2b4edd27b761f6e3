package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"taskhub/internal/config"
)

func postgresConnURL(cfg *config.PostgresConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host,
		cfg.Port, cfg.Database, cfg.SSLMode)
}

func MustConnectPostgres(logger zerolog.Logger, cfg *config.PostgresConfig) *pgxpool.Pool {
	poolCfg, err := pgxpool.ParseConfig(postgresConnURL(cfg))
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		panic(err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = pool.Ping(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to ping postgres")
		panic(err)
	}
	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")

	return pool
}

// MustMigrate applies pending goose migrations. It opens a short-lived
// database/sql connection because goose does not speak the pgx pool API.
func MustMigrate(logger zerolog.Logger, cfg *config.PostgresConfig) {
	sqlDB, err := sql.Open("postgres", postgresConnURL(cfg))
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to open migration connection")
		panic(err)
	}
	defer func() { _ = sqlDB.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MigrateTimeout)
	defer cancel()

	err = goose.UpContext(ctx, sqlDB, cfg.MigrationsDir)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to apply migrations")
		panic(err)
	}
	logger.Info().
		Str("dir", cfg.MigrationsDir).
		Msg("applied migrations")
}

func DisconnectPostgres(logger zerolog.Logger, pool *pgxpool.Pool) {
	pool.Close()
	logger.Info().Msg("disconnected from postgres")
}
