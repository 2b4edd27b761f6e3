package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"taskhub/internal/config"
	v1 "taskhub/internal/delivery/http/v1"
	"taskhub/internal/repository/postgres"
	"taskhub/internal/services"
)

const (
	authRequestsPerMinute = 30
	authRequestBurst      = 15
)

func MustListenAndServeHTTP(logger zerolog.Logger, cfg *config.Config, pool *pgxpool.Pool) {
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(v1.CORSMiddleware("*"))
	registerRoutes(router, logger, cfg, pool)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	logger.Info().Msg("shut down http server")
}

func registerRoutes(router *gin.Engine, logger zerolog.Logger, cfg *config.Config, pool *pgxpool.Pool) {
	repo := postgres.New(logger, pool)

	authService := services.NewAuthService(
		logger,
		repo,
		cfg.JWT.Issuer,
		[]byte(cfg.JWT.SigningKey),
		cfg.JWT.TokenTTL,
	)
	userService := services.NewUserService(logger, repo)
	projectService := services.NewProjectService(logger, repo)
	taskService := services.NewTaskService(logger, repo)
	reportService := services.NewReportService(logger, repo)

	handler := v1.New(
		logger,
		authService,
		userService,
		projectService,
		taskService,
		reportService,
	)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "name": "Task Manager API"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	})

	api := router.Group("/api")

	authRouter := api.Group("/auth")
	authRouter.Use(v1.RateLimitMiddleware(authRequestsPerMinute, authRequestBurst))
	authRouter.POST("/register", handler.HandleRegister)
	authRouter.POST("/login", handler.HandleLogin)

	usersRouter := api.Group("/users", handler.HandleAuthMiddleware)
	usersRouter.GET("", handler.HandleListUsers)
	usersRouter.GET("/:id", handler.HandleGetUser)

	projectsRouter := api.Group("/projects", handler.HandleAuthMiddleware)
	projectsRouter.POST("", handler.HandleCreateProject)
	projectsRouter.GET("", handler.HandleListProjects)
	projectsRouter.GET("/:id", handler.HandleGetProject)
	projectsRouter.PUT("/:id", handler.HandleUpdateProject)
	projectsRouter.POST("/:id/members", handler.HandleAddMember)
	projectsRouter.DELETE("/:id/members/:userId", handler.HandleRemoveMember)

	tasksRouter := api.Group("/tasks", handler.HandleAuthMiddleware)
	tasksRouter.GET("", handler.HandleListTasks)
	tasksRouter.POST("", handler.HandleCreateTask)
	tasksRouter.PUT("/:id", handler.HandleUpdateTask)
	tasksRouter.DELETE("/:id", handler.HandleDeleteTask)
	tasksRouter.POST("/:id/comments", handler.HandleAddComment)
	tasksRouter.POST("/:id/assign", handler.HandleAssignTask)

	reportsRouter := api.Group("/reports", handler.HandleAuthMiddleware)
	reportsRouter.GET("/overview", handler.HandleOverviewReport)
	reportsRouter.GET("/burndown", handler.HandleBurndownReport)
}
