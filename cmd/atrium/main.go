package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/atrium-suite/atrium/internal/app"
	"github.com/atrium-suite/atrium/internal/crm"
	"github.com/atrium-suite/atrium/internal/directory"
	"github.com/atrium-suite/atrium/internal/observability"
	"github.com/atrium-suite/atrium/internal/platform/cache"
	"github.com/atrium-suite/atrium/internal/platform/db"
	"github.com/atrium-suite/atrium/internal/rbac"
	"github.com/atrium-suite/atrium/internal/scheduling"
	"github.com/atrium-suite/atrium/internal/shared"
	"github.com/atrium-suite/atrium/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	sessions := shared.NewSessionStore(redisClient, cfg.SessionTTL)
	auditLogger := shared.NewAuditLogger(pool)

	directoryRepo := directory.NewRepository(pool)
	directoryService := directory.NewService(directoryRepo)
	directoryHandler := directory.NewHandler(logger, directoryService)

	assignmentStore := rbac.NewPGStore(pool)
	permCache := rbac.NewPermissionCache(redisClient, cfg.PermCacheTTL)
	resolver := rbac.NewResolver(assignmentStore, rbac.DefaultCatalog(), logger,
		rbac.WithPermissionCache(permCache),
		rbac.WithExtraPermissions(directory.NewExtraPermissionsProvider(directoryRepo)),
	)
	engine := rbac.NewEngine(resolver, metrics, logger)
	granter := rbac.NewGranter(engine, assignmentStore, directory.NewContextValidator(directoryRepo), permCache, auditLogger, logger)
	rbacHandler := rbac.NewHandler(logger, granter, engine, assignmentStore)
	rbacMiddleware := rbac.Middleware{Engine: engine, Logger: logger}

	schedulingRepo := scheduling.NewRepository(pool)
	schedulingService := scheduling.NewService(logger, schedulingRepo, engine, auditLogger)
	schedulingHandler := scheduling.NewHandler(logger, schedulingService)

	crmRepo := crm.NewRepository(pool)
	crmService := crm.NewService(logger, crmRepo, engine, auditLogger)
	crmHandler := crm.NewHandler(logger, crmService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, rbacMiddleware, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Sessions:          sessions,
		RBACMiddleware:    rbacMiddleware,
		RBACHandler:       rbacHandler,
		DirectoryHandler:  directoryHandler,
		SchedulingHandler: schedulingHandler,
		CRMHandler:        crmHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
