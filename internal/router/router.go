package router

import (
	"net/http"

	"citycut/internal/apierror"
	"citycut/internal/cache"
	"citycut/internal/config"
	"citycut/internal/handler"
	"citycut/internal/metrics"
	"citycut/internal/middleware"
	"citycut/internal/repository"
	"citycut/internal/service"
	"citycut/internal/session"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the process-wide resources the engine is built from.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client // nil disables the view cache
	Sessions *session.Manager
	Notifier service.Notifier
	Clock    service.Clock
}

// Services bundles what the handlers need. Build wires it from Deps; tests
// pass stubs straight to Engine.
type Services struct {
	Auth      service.AuthService
	Records   service.RecordService
	Expenses  service.ExpenseService
	Customers service.CustomerService
	Dashboard service.DashboardService
	Reports   service.ReportService
}

// NewServices wires repositories into services.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func NewServices(d Deps) Services {
	var views cache.Views = cache.Nop{}
	if d.Redis != nil {
		views = cache.NewRedisViews(d.Redis, d.Config.ViewCacheTTL)
	}

	userRepo := repository.NewUserRepository(d.DB)
	customerRepo := repository.NewCustomerRepository(d.DB)
	recordRepo := repository.NewServiceRecordRepository(d.DB)
	expenseRepo := repository.NewExpenseRepository(d.DB)
	reportRepo := repository.NewReportRepository(d.DB)

	return Services{
		Auth:      service.NewAuthService(userRepo, d.Sessions),
		Records:   service.NewRecordService(customerRepo, recordRepo, views, d.Notifier, d.Clock),
		Expenses:  service.NewExpenseService(expenseRepo, views, d.Clock),
		Customers: service.NewCustomerService(customerRepo, views),
		Dashboard: service.NewDashboardService(recordRepo, expenseRepo, customerRepo, reportRepo, views, d.Clock),
		Reports:   service.NewReportService(recordRepo, expenseRepo, reportRepo, views, d.Clock),
	}
}

// New wires all dependencies and returns a configured Gin engine.
func New(d Deps) *gin.Engine {
	r := Engine(d.Config, session.NewTokenOracle(d.Sessions), NewServices(d))
	r.GET("/health", handler.Health(d.DB, d.Redis))
	return r
}

// Engine mounts middleware and routes. Infrastructure routes sit outside the
// access gate; everything else, unmatched paths included, goes through it.
func Engine(cfg *config.Config, oracle session.Oracle, svc Services) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.APIRatePerMinute))

	// ── Infrastructure (ungated) ─────────────────────────────────────────────
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svc.Auth, cfg.CookieSecure)
	recordsH := handler.NewRecordsHandler(svc.Records)
	expensesH := handler.NewExpensesHandler(svc.Expenses)
	customersH := handler.NewCustomersHandler(svc.Customers)
	dashH := handler.NewDashboardHandler(svc.Dashboard)
	reportsH := handler.NewReportsHandler(svc.Reports)

	// ── Routes ───────────────────────────────────────────────────────────────
	gate := middleware.AccessGate(oracle)
	app := r.Group("/", gate)
	{
		app.GET("/", authH.Landing)
		app.GET("/login", authH.LoginPage)
		app.POST("/login", middleware.LoginRateLimiter(cfg.LoginRatePerMinute), authH.Login)
		app.POST("/logout", authH.Logout)
		app.GET("/unauthorized", authH.Unauthorized)

		sales := app.Group("/sales")
		{
			sales.GET("", dashH.SalesDashboard)
			sales.POST("/services", recordsH.CreateRecord)
			sales.POST("/expenses", expensesH.CreateExpense)
		}

		admin := app.Group("/admin")
		{
			admin.GET("", dashH.AdminHome)
			admin.GET("/dashboard", dashH.AdminDashboard)

			admin.GET("/sales", recordsH.ListRecords)
			admin.PUT("/sales/:id", recordsH.UpdateRecord)
			admin.DELETE("/sales/:id", recordsH.DeleteRecord)

			admin.GET("/expenses", expensesH.ListExpenses)
			admin.PUT("/expenses/:id", expensesH.UpdateExpense)
			admin.DELETE("/expenses/:id", expensesH.DeleteExpense)

			admin.GET("/customers", customersH.ListCustomers)
			admin.PUT("/customers/:id", customersH.UpdateCustomer)
			admin.DELETE("/customers/:id", customersH.DeleteCustomer)

			admin.GET("/reports", reportsH.Report)
			admin.GET("/reports/pdf", reportsH.ReportPDF)
		}
	}

	r.NoRoute(gate, func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apierror.New("Not found"))
	})

	return r
}
