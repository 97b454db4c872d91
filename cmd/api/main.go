package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fastcommand/finance-backend/api/routes"
	"github.com/fastcommand/finance-backend/internal/audit"
	"github.com/fastcommand/finance-backend/internal/auth"
	"github.com/fastcommand/finance-backend/internal/distribution"
	"github.com/fastcommand/finance-backend/internal/expenses"
	"github.com/fastcommand/finance-backend/internal/export"
	"github.com/fastcommand/finance-backend/internal/insights"
	"github.com/fastcommand/finance-backend/internal/investors"
	"github.com/fastcommand/finance-backend/internal/projectwithdrawals"
	"github.com/fastcommand/finance-backend/internal/revenues"
	"github.com/fastcommand/finance-backend/internal/settings"
	"github.com/fastcommand/finance-backend/internal/users"
	"github.com/fastcommand/finance-backend/internal/withdrawals"
	"github.com/fastcommand/finance-backend/pkg/auth/session"
	"github.com/fastcommand/finance-backend/pkg/config"
	"github.com/fastcommand/finance-backend/pkg/db"
	"github.com/fastcommand/finance-backend/pkg/logger"
	"github.com/fastcommand/finance-backend/pkg/metrics"
	"github.com/fastcommand/finance-backend/pkg/migrate"
	"github.com/fastcommand/finance-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	auditRecorder, err := audit.NewRecorder(audit.NewRepository(gormDB), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit recorder", err)
		os.Exit(1)
	}

	investorRepo := investors.NewRepository(gormDB)
	revenueRepo := revenues.NewRepository(gormDB)
	expenseRepo := expenses.NewRepository(gormDB)
	withdrawalRepo := withdrawals.NewRepository(gormDB)
	projectWithdrawalRepo := projectwithdrawals.NewRepository(gormDB)
	settingsRepo := settings.NewRepository(gormDB)
	userRepo := users.NewRepository(gormDB)

	settingsService, err := settings.NewService(settingsRepo, dbClient, auditRecorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}
	investorService, err := investors.NewService(investorRepo, dbClient, auditRecorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create investor service", err)
		os.Exit(1)
	}
	revenueService, err := revenues.NewService(revenueRepo, auditRecorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create revenue service", err)
		os.Exit(1)
	}
	expenseService, err := expenses.NewService(expenseRepo, auditRecorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create expense service", err)
		os.Exit(1)
	}
	withdrawalCoordinator, err := withdrawals.NewCoordinator(withdrawalRepo, investorRepo, dbClient, auditRecorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create withdrawal coordinator", err)
		os.Exit(1)
	}
	projectWithdrawalService, err := projectwithdrawals.NewService(projectWithdrawalRepo, auditRecorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create project withdrawal service", err)
		os.Exit(1)
	}
	distributionService, err := distribution.NewService(
		investorRepo, revenueRepo, expenseRepo, withdrawalRepo, projectWithdrawalRepo, settingsService)
	if err != nil {
		logg.Error(context.Background(), "failed to create distribution service", err)
		os.Exit(1)
	}
	insightService, err := insights.NewService(distributionService, auditRecorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create insight service", err)
		os.Exit(1)
	}
	exportService, err := export.NewService(
		revenueRepo, expenseRepo, withdrawalRepo, projectWithdrawalRepo, distributionService, auditRecorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create export service", err)
		os.Exit(1)
	}
	userService, err := users.NewService(userRepo, auditRecorder, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}
	authService, err := auth.NewService(userRepo, sessionManager, redisClient, cfg.JWT, cfg.AuthRateLimit, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, httpMetrics, metricsHandler, routes.Services{
			Auth:               authService,
			Investors:          investorService,
			Revenues:           revenueService,
			Expenses:           expenseService,
			Withdrawals:        withdrawalCoordinator,
			ProjectWithdrawals: projectWithdrawalService,
			Settings:           settingsService,
			Users:              userService,
			Distribution:       distributionService,
			Insights:           insightService,
			Export:             exportService,
			Audit:              auditRecorder,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
