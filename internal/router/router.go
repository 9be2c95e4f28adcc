package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lelani/transport-backend/internal/config"
	"github.com/lelani/transport-backend/internal/handler"
	"github.com/lelani/transport-backend/internal/middleware"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/response"
	"github.com/lelani/transport-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Learner   *handler.LearnerHandler
	Route     *handler.RouteHandler
	Driver    *handler.DriverHandler
	Fleet     *handler.FleetHandler
	Setting   *handler.SettingHandler
	Media     *handler.MediaHandler
	Dashboard *handler.DashboardHandler
	Audit     *handler.AuditHandler
	Import    *handler.ImportHandler
	Rollover  *handler.RolloverHandler
	Report    *handler.ReportHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background housekeeping such as the rate limiter sweep.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())

	// Report downloads are already compressed formats.
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Skipper: middleware.SkipPathSuffix("/reports/generate"),
	}))

	// Uploaded logos and photos have random names, so they can be cached for a year.
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1/public")
	{
		publicAPI.GET("/settings", handlers.Setting.GetPublicSettings)
	}

	// Rate limiter for auth routes (20 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(ctx, 20, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/register", authLimiter.Middleware(), handlers.Auth.Register)

		auth.GET("/me", middleware.RequireJWT(authService), middleware.CheckSession(authService), handlers.Auth.Me)
		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
	}

	// ─── 2. Staff Group (JWT + Session, drivers and admins) ────────────
	api := router.Group("/api/v1")
	api.Use(
		middleware.RequireJWT(authService),
		middleware.CheckSession(authService),
		middleware.NoStore(),
	)
	{
		api.GET("/dashboard", handlers.Dashboard.GetDashboardData)
		api.GET("/settings", handlers.Setting.GetSettings)
		api.GET("/grades", handlers.Setting.ListGrades)

		// Learners
		api.GET("/learners",
			middleware.RequirePermission(model.PermissionLearnersRead),
			handlers.Learner.ListLearners,
		)
		api.GET("/learners/:id",
			middleware.RequirePermission(model.PermissionLearnersRead),
			handlers.Learner.GetLearner,
		)
		api.GET("/learners/:id/history",
			middleware.RequirePermission(model.PermissionLearnersRead),
			handlers.Learner.GetLearnerHistory,
		)
		api.POST("/learners",
			middleware.RequirePermission(model.PermissionLearnersWrite),
			handlers.Learner.CreateLearner,
		)
		api.PUT("/learners/:id",
			middleware.RequirePermission(model.PermissionLearnersWrite),
			handlers.Learner.UpdateLearner,
		)
		api.PATCH("/learners/:id/status",
			middleware.RequirePermission(model.PermissionLearnersWrite),
			handlers.Learner.SetLearnerActive,
		)

		// Routes and pickup areas
		api.GET("/routes",
			middleware.RequirePermission(model.PermissionRoutesRead),
			handlers.Route.ListRoutes,
		)
		api.GET("/routes/:id",
			middleware.RequirePermission(model.PermissionRoutesRead),
			handlers.Route.GetRoute,
		)
		api.GET("/areas",
			middleware.RequirePermission(model.PermissionRoutesRead),
			handlers.Fleet.ListAreas,
		)

		// Reports
		reports := api.Group("/reports", middleware.RequirePermission(model.PermissionReportsGenerate))
		{
			reports.GET("/options", handlers.Report.GetOptions)
			reports.POST("/preview", handlers.Report.PreviewReport)
			reports.POST("/generate", handlers.Report.GenerateReport)
		}
	}

	// ─── 3. Admin Group (JWT + Session + RBAC) ─────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(
		middleware.RequireJWT(authService),
		middleware.CheckSession(authService),
		middleware.RequireAdmin(),
		middleware.NoStore(),
	)
	{
		// Media upload
		adminAPI.POST("/media/upload",
			middleware.RequirePermission(model.PermissionMediaUpload),
			handlers.Media.UploadMedia,
		)

		// School settings and class structure
		settings := adminAPI.Group("", middleware.RequirePermission(model.PermissionSettingsWrite))
		{
			settings.PUT("/settings", handlers.Setting.UpdateSettings)
			settings.POST("/settings/logo", handlers.Media.UploadLogo)
			settings.POST("/grades", handlers.Setting.CreateGrade)
			settings.PUT("/grades/:id", handlers.Setting.UpdateGrade)
			settings.DELETE("/grades/:id", handlers.Setting.DeleteGrade)
		}

		// Routes, vehicles and areas
		routes := adminAPI.Group("", middleware.RequirePermission(model.PermissionRoutesWrite))
		{
			routes.POST("/routes", handlers.Route.CreateRoute)
			routes.PUT("/routes/:id", handlers.Route.UpdateRoute)
			routes.DELETE("/routes/:id", handlers.Route.DeleteRoute)

			routes.GET("/vehicles", handlers.Fleet.ListVehicles)
			routes.POST("/vehicles", handlers.Fleet.CreateVehicle)
			routes.PUT("/vehicles/:id", handlers.Fleet.UpdateVehicle)
			routes.DELETE("/vehicles/:id", handlers.Fleet.DeleteVehicle)

			routes.POST("/areas", handlers.Fleet.CreateArea)
			routes.PUT("/areas/:id", handlers.Fleet.UpdateArea)
			routes.DELETE("/areas/:id", handlers.Fleet.DeleteArea)
		}

		// Drivers, administrators and minders
		staff := adminAPI.Group("", middleware.RequirePermission(model.PermissionStaffWrite))
		{
			staff.GET("/drivers", handlers.Driver.ListDrivers)
			staff.GET("/drivers/:id", handlers.Driver.GetDriver)
			staff.POST("/drivers", handlers.Driver.CreateDriver)
			staff.PUT("/drivers/:id", handlers.Driver.UpdateDriver)
			staff.DELETE("/drivers/:id", handlers.Driver.DeleteDriver)

			staff.GET("/minders", handlers.Fleet.ListMinders)
			staff.POST("/minders", handlers.Fleet.CreateMinder)
			staff.PUT("/minders/:id", handlers.Fleet.UpdateMinder)
			staff.DELETE("/minders/:id", handlers.Fleet.DeleteMinder)
		}

		adminAPI.GET("/audit-logs",
			middleware.RequirePermission(model.PermissionAuditRead),
			handlers.Audit.ListAuditLogs,
		)

		// Bulk data management
		adminAPI.POST("/import/learners",
			middleware.RequirePermission(model.PermissionDataImport),
			handlers.Import.ImportLearners,
		)
		adminAPI.POST("/import/areas",
			middleware.RequirePermission(model.PermissionDataImport),
			handlers.Import.ImportAreas,
		)
		adminAPI.POST("/rollover",
			middleware.RequirePermission(model.PermissionRollover),
			handlers.Rollover.Rollover,
		)
		adminAPI.POST("/rollover/graduates",
			middleware.RequirePermission(model.PermissionRollover),
			handlers.Rollover.DeactivateGraduates,
		)
	}

	return router
}
