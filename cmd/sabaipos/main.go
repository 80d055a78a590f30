package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/sabai-pos/sabai-pos/internal/app"
	"github.com/sabai-pos/sabai-pos/internal/auth"
	"github.com/sabai-pos/sabai-pos/internal/masterdata/branches"
	"github.com/sabai-pos/sabai-pos/internal/masterdata/categories"
	"github.com/sabai-pos/sabai-pos/internal/masterdata/groups"
	"github.com/sabai-pos/sabai-pos/internal/masterdata/products"
	"github.com/sabai-pos/sabai-pos/internal/observability"
	"github.com/sabai-pos/sabai-pos/internal/platform/cache"
	"github.com/sabai-pos/sabai-pos/internal/platform/db"
	"github.com/sabai-pos/sabai-pos/internal/reports"
	"github.com/sabai-pos/sabai-pos/internal/sales"
	"github.com/sabai-pos/sabai-pos/internal/shared"
	"github.com/sabai-pos/sabai-pos/internal/users"
	"github.com/sabai-pos/sabai-pos/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", "error", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", "error", err)
		}
	}()

	tokens := shared.NewTokenManager(redisClient, cfg.TokenTTL)
	metrics := observability.NewMetrics()

	authService := auth.NewService(auth.NewRepository(pool))
	authHandler := auth.NewHandler(authService, tokens, logger)
	admin := authHandler.RequireAdmin

	branchService := branches.NewService(branches.NewRepository(pool))
	branchHandler := branches.NewHandler(logger, branchService, admin)

	groupService := groups.NewService(groups.NewRepository(pool))
	groupHandler := groups.NewHandler(logger, groupService, admin)

	categoryService := categories.NewService(categories.NewRepository(pool))
	categoryHandler := categories.NewHandler(logger, categoryService, admin)

	productRepo := products.NewRepository(pool)
	productService := products.NewService(productRepo, groupService, categoryService)
	productHandler := products.NewHandler(logger, productService, admin)

	userService := users.NewService(users.NewRepository(pool))
	userHandler := users.NewHandler(logger, userService)

	salesService := sales.NewService(sales.NewRepository(pool), productRepo, metrics)
	salesHandler := sales.NewHandler(logger, salesService)

	summaryCache := reports.NewSummaryCache(redisClient, cfg.SummaryCacheTTL)
	reportService := reports.NewService(reports.NewRepository(pool), summaryCache, cfg.ReportLocation(), logger)
	reportHandler := reports.NewHandler(logger, reportService, salesHandler)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", "error", err)
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		AuthHandler:       authHandler,
		BranchesHandler:   branchHandler,
		GroupsHandler:     groupHandler,
		CategoriesHandler: categoryHandler,
		ProductsHandler:   productHandler,
		UsersHandler:      userHandler,
		SalesHandler:      salesHandler,
		ReportsHandler:    reportHandler,
		JobsHandler:       jobsHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", "addr", cfg.AppAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", "error", err)
	}
}
