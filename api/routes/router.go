package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fastcommand/finance-backend/api/controllers"
	"github.com/fastcommand/finance-backend/api/middleware"
	"github.com/fastcommand/finance-backend/internal/access"
	"github.com/fastcommand/finance-backend/internal/audit"
	authsvc "github.com/fastcommand/finance-backend/internal/auth"
	"github.com/fastcommand/finance-backend/internal/distribution"
	"github.com/fastcommand/finance-backend/internal/expenses"
	"github.com/fastcommand/finance-backend/internal/export"
	"github.com/fastcommand/finance-backend/internal/insights"
	"github.com/fastcommand/finance-backend/internal/investors"
	"github.com/fastcommand/finance-backend/internal/projectwithdrawals"
	"github.com/fastcommand/finance-backend/internal/revenues"
	settingssvc "github.com/fastcommand/finance-backend/internal/settings"
	"github.com/fastcommand/finance-backend/internal/users"
	"github.com/fastcommand/finance-backend/internal/withdrawals"
	"github.com/fastcommand/finance-backend/pkg/auth/session"
	"github.com/fastcommand/finance-backend/pkg/config"
	"github.com/fastcommand/finance-backend/pkg/db"
	"github.com/fastcommand/finance-backend/pkg/logger"
	"github.com/fastcommand/finance-backend/pkg/metrics"
	"github.com/fastcommand/finance-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers. Keeping it a
// struct stops the constructor signature from growing a positional argument
// per feature.
type Services struct {
	Auth               authsvc.Service
	Investors          investors.Service
	Revenues           revenues.Service
	Expenses           expenses.Service
	Withdrawals        *withdrawals.Coordinator
	ProjectWithdrawals projectwithdrawals.Service
	Settings           settingssvc.Service
	Users              users.Service
	Distribution       *distribution.Service
	Insights           *insights.Service
	Export             *export.Service
	Audit              *audit.Recorder
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbClient, redisClient, logg))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(svcs.Auth, logg))
		r.Post("/refresh", controllers.Refresh(svcs.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).Post("/logout", controllers.Logout(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Get("/dashboard", controllers.Dashboard(svcs.Distribution, logg))
		r.Get("/investor-profits", controllers.InvestorProfits(svcs.Distribution, logg))

		r.Route("/investors", func(r chi.Router) {
			r.Get("/", controllers.ListInvestors(svcs.Investors, logg))
			r.Get("/{id}", controllers.GetInvestor(svcs.Investors, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(access.EditInvestors, logg))
				r.Post("/", controllers.CreateInvestor(svcs.Investors, logg))
				r.Put("/{id}", controllers.UpdateInvestor(svcs.Investors, logg))
				r.Delete("/{id}", controllers.DeleteInvestor(svcs.Investors, logg))
			})
		})

		r.Route("/revenues", func(r chi.Router) {
			r.Get("/", controllers.ListRevenues(svcs.Revenues, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(access.EditRevenues, logg))
				r.Post("/", controllers.CreateRevenue(svcs.Revenues, cfg.Attachments, logg))
				r.Put("/{id}", controllers.UpdateRevenue(svcs.Revenues, cfg.Attachments, logg))
				r.Delete("/{id}", controllers.DeleteRevenue(svcs.Revenues, logg))
			})
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", controllers.ListExpenses(svcs.Expenses, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(access.EditExpenses, logg))
				r.Post("/", controllers.CreateExpense(svcs.Expenses, cfg.Attachments, logg))
				r.Put("/{id}", controllers.UpdateExpense(svcs.Expenses, cfg.Attachments, logg))
				r.Delete("/{id}", controllers.DeleteExpense(svcs.Expenses, logg))
			})
		})

		r.Route("/withdrawals", func(r chi.Router) {
			r.Get("/", controllers.ListWithdrawals(svcs.Withdrawals, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(access.ApproveWithdrawals, logg))
				r.Post("/", controllers.CreateWithdrawal(svcs.Withdrawals, cfg.Attachments, logg))
				r.Put("/{id}", controllers.UpdateWithdrawal(svcs.Withdrawals, cfg.Attachments, logg))
				r.Delete("/{id}", controllers.DeleteWithdrawal(svcs.Withdrawals, logg))
			})
		})

		r.Route("/project-withdrawals", func(r chi.Router) {
			r.Get("/", controllers.ListProjectWithdrawals(svcs.ProjectWithdrawals, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(access.ApproveWithdrawals, logg))
				r.Post("/", controllers.CreateProjectWithdrawal(svcs.ProjectWithdrawals, logg))
				r.Put("/{id}", controllers.UpdateProjectWithdrawal(svcs.ProjectWithdrawals, logg))
				r.Delete("/{id}", controllers.DeleteProjectWithdrawal(svcs.ProjectWithdrawals, logg))
			})
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.GetSettings(svcs.Settings, logg))
			r.With(middleware.RequirePermission(access.EditSettings, logg)).Put("/", controllers.SaveSettings(svcs.Settings, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequirePermission(access.EditSettings, logg))
			r.Get("/", controllers.ListUsers(svcs.Users, logg))
			r.Post("/", controllers.CreateUser(svcs.Users, logg))
			r.Put("/{id}", controllers.UpdateUser(svcs.Users, logg))
			r.Delete("/{id}", controllers.DeleteUser(svcs.Users, logg))
		})

		r.With(middleware.RequirePermission(access.ViewAllData, logg)).
			Get("/operations", controllers.ListOperations(svcs.Audit, logg))
		r.With(middleware.RequirePermission(access.ViewInsights, logg)).
			Get("/insights", controllers.GenerateInsights(svcs.Insights, logg))
		r.With(middleware.RequirePermission(access.ExportData, logg)).
			Get("/export", controllers.ExportWorkbook(svcs.Export, logg))
	})

	return r
}
