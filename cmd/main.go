package main

import "taskhub/internal/app"

func main() {
	logger := app.NewDefaultLogger()
	cfg := app.MustReadEnv(logger)
	logger = app.MustNewApplicationLogger(logger, cfg.Env)

	app.MustMigrate(logger, &cfg.Postgres)

	pool := app.MustConnectPostgres(logger, &cfg.Postgres)
	defer app.DisconnectPostgres(logger, pool)

	app.MustListenAndServeHTTP(logger, cfg, pool)
}
