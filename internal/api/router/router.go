package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/brandon3sican/to-system/config"
	"github.com/brandon3sican/to-system/internal/api/handler"
	"github.com/brandon3sican/to-system/internal/api/middleware"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/web"
	"github.com/brandon3sican/to-system/pkg/redis"
	"github.com/brandon3sican/to-system/pkg/response"
)

// public form posts allowed per client IP per minute
const publicPostLimit = 20

// Setup builds the gin engine. Wrap the result in middleware.MethodOverride
// before serving so HTML forms reach PUT and DELETE routes.
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	auth middleware.Authenticator,
	rdb *redis.Client,
	db *gorm.DB,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitMB << 20))

	r.SetHTMLTemplate(web.MustTemplates())
	r.StaticFS("/static", web.StaticFS())

	// ── health ──
	r.GET("/health", health(db, rdb))

	// ── public ──
	publicLimit := middleware.RateLimit(rdb, publicPostLimit, time.Minute)
	r.GET("/login", h.Auth.LoginForm)
	r.POST("/login", publicLimit, h.Auth.Login)
	r.GET("/register", h.Auth.RegisterForm)
	r.POST("/register", publicLimit, h.Auth.Register)

	// ── signed in ──
	authorized := r.Group("")
	authorized.Use(middleware.SessionAuth(auth, cfg.Auth.Cookie))
	{
		authorized.POST("/logout", h.Auth.Logout)
		authorized.GET("/", h.Dashboard.Dashboard)

		// every account files and follows its own travel orders; the service scopes visibility
		orders := authorized.Group("/travel-orders")
		{
			orders.GET("", h.TravelOrder.ListTravelOrders)
			orders.GET("/create", h.TravelOrder.CreateForm)
			orders.POST("", h.TravelOrder.CreateTravelOrder)
			orders.GET("/:id", h.TravelOrder.ShowTravelOrder)
			orders.GET("/:id/print", h.TravelOrder.PrintTravelOrder)
			orders.GET("/:id/ics", h.TravelOrder.ExportICS)
			orders.POST("/:id/recommend", h.TravelOrder.Recommend)
			orders.POST("/:id/approve", h.TravelOrder.Approve)
			orders.POST("/:id/reject", h.TravelOrder.Reject)
			orders.POST("/:id/cancel", h.TravelOrder.Cancel)
		}

		reviewers := middleware.RoleAuth(model.RoleRecommender, model.RoleApprover)
		admin := middleware.RoleAuth()

		employees := authorized.Group("/employees")
		{
			employees.GET("", reviewers, h.Employee.ListEmployees)
			employees.GET("/export", reviewers, h.Employee.ExportEmployees)
			employees.POST("/import", admin, h.Employee.ImportEmployees)
			employees.POST("", admin, h.Employee.CreateEmployee)
			employees.GET("/:id", admin, h.Employee.ShowEmployee)
			employees.PUT("/:id", admin, h.Employee.UpdateEmployee)
			employees.DELETE("/:id", admin, h.Employee.DeleteEmployee)
		}

		users := authorized.Group("/users", admin)
		{
			users.GET("", h.User.ListUsers)
			users.GET("/create", h.User.CreateFormData)
			users.POST("", h.User.CreateUser)
			users.GET("/:id", h.User.ShowUser)
			users.GET("/:id/edit", h.User.EditFormData)
			users.PUT("/:id", h.User.UpdateUser)
			users.DELETE("/:id", h.User.DeleteUser)
		}

		catalog(authorized.Group("/roles", admin), h.Role.ListRoles, h.Role.ShowRole,
			h.Role.CreateRole, h.Role.UpdateRole, h.Role.DeleteRole)
		catalog(authorized.Group("/divsecunits", admin), h.DivSecUnit.ListDivSecUnits, h.DivSecUnit.ShowDivSecUnit,
			h.DivSecUnit.CreateDivSecUnit, h.DivSecUnit.UpdateDivSecUnit, h.DivSecUnit.DeleteDivSecUnit)
		catalog(authorized.Group("/positions", admin), h.Position.ListPositions, h.Position.ShowPosition,
			h.Position.CreatePosition, h.Position.UpdatePosition, h.Position.DeletePosition)
		catalog(authorized.Group("/employment-statuses", admin), h.EmploymentStatus.ListEmploymentStatuses, h.EmploymentStatus.ShowEmploymentStatus,
			h.EmploymentStatus.CreateEmploymentStatus, h.EmploymentStatus.UpdateEmploymentStatus, h.EmploymentStatus.DeleteEmploymentStatus)
		catalog(authorized.Group("/official-stations", admin), h.OfficialStation.ListOfficialStations, h.OfficialStation.ShowOfficialStation,
			h.OfficialStation.CreateOfficialStation, h.OfficialStation.UpdateOfficialStation, h.OfficialStation.DeleteOfficialStation)
	}

	return r
}

// catalog the five routes of a reference catalog
func catalog(g *gin.RouterGroup, list, show, create, update, del gin.HandlerFunc) {
	g.GET("", list)
	g.GET("/:id", show)
	g.POST("", create)
	g.PUT("/:id", update)
	g.DELETE("/:id", del)
}

// health database and Redis reachability. Redis is optional, so its
// absence degrades rather than fails the check.
func health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"database": "ok", "redis": "ok"}
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			status["database"] = "down"
			response.ErrorWithDetails(c, http.StatusServiceUnavailable, 50300, "database unavailable", status)
			return
		}
		switch {
		case rdb == nil:
			status["redis"] = "disabled"
		case rdb.Ping(ctx) != nil:
			status["redis"] = "down"
		}
		response.OK(c, status)
	}
}
