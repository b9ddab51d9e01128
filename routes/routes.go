package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/stadtportal/city-portal-backend/config"
	"github.com/stadtportal/city-portal-backend/database"
	"github.com/stadtportal/city-portal-backend/internal/auditlog"
	"github.com/stadtportal/city-portal-backend/internal/auth"
	"github.com/stadtportal/city-portal-backend/internal/event"
	"github.com/stadtportal/city-portal-backend/internal/imprint"
	"github.com/stadtportal/city-portal-backend/internal/language"
	"github.com/stadtportal/city-portal-backend/internal/page"
	"github.com/stadtportal/city-portal-backend/internal/poi"
	"github.com/stadtportal/city-portal-backend/internal/pushnotification"
	"github.com/stadtportal/city-portal-backend/internal/region"
	"github.com/stadtportal/city-portal-backend/internal/reports"
	"github.com/stadtportal/city-portal-backend/middleware"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Setup wires every module and mounts the public and editorial APIs.
// The push notification service is returned so main can start the kafka
// consumer and the send scheduler after the router is up.
func Setup(r *gin.Engine, cfg *config.Config) *pushnotification.Service {
	db := database.DB

	// ===========================
	// 🧱 Repositories
	regionRepo := region.NewRepository(db)
	langRepo := language.NewRepository(db)
	eventRepo := event.NewRepository(db)
	poiRepo := poi.NewRepository(db)
	pageRepo := page.NewRepository(db)
	imprintRepo := imprint.NewRepository(db)
	pushRepo := pushnotification.NewRepository(db)
	auditRepo := auditlog.NewRepository(db)
	authRepo := auth.NewRepository(db)

	// ===========================
	// ⚙️ Services
	auditSvc := auditlog.NewService(auditRepo)
	authSvc := auth.NewService(authRepo, cfg)
	eventSvc := event.NewService(eventRepo, regionRepo, langRepo, poiRepo, auditSvc, cfg)
	poiSvc := poi.NewService(poiRepo, regionRepo, langRepo, auditSvc, cfg)
	pageSvc := page.NewService(pageRepo, regionRepo, langRepo, auditSvc, cfg)
	imprintSvc := imprint.NewService(imprintRepo, regionRepo, langRepo, auditSvc, cfg)
	pushSvc := pushnotification.NewService(pushRepo, regionRepo, langRepo, pushnotification.NewFCMChannel(), auditSvc, cfg)
	reportsSvc := reports.NewService(eventSvc, pageSvc, poiSvc, regionRepo, langRepo)

	// ===========================
	// 🎮 Handlers
	regionHandler := region.NewHandler(regionRepo, langRepo)
	langHandler := language.NewHandler(langRepo)
	eventHandler := event.NewHandler(eventSvc)
	poiHandler := poi.NewHandler(poiSvc)
	pageHandler := page.NewHandler(pageSvc)
	imprintHandler := imprint.NewHandler(imprintSvc)
	pushHandler := pushnotification.NewHandler(pushSvc)
	auditHandler := auditlog.NewHandler(auditSvc)
	authHandler := auth.NewHandler(authSvc, auditSvc)
	reportsHandler := reports.NewHandler(reportsSvc)

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ===========================
	// 🌍 Public content API consumed by the apps and the webapp
	r.GET("/api/v3/regions", regionHandler.PublicRegions)
	r.GET("/api/v3/:region_slug/languages", regionHandler.PublicLanguages)

	v3 := r.Group("/api/v3/:region_slug/:language_slug")
	{
		v3.GET("/events", eventHandler.PublicEvents)
		v3.GET("/locations", poiHandler.PublicLocations)
		v3.GET("/pages", pageHandler.PublicPages)
		v3.GET("/page", pageHandler.PublicPage)
		v3.GET("/pdf", pageHandler.ExportPDF)
		v3.GET("/imprint", imprintHandler.PublicImprint)
		v3.GET("/push-notifications", pushHandler.PublicSent)
		v3.POST("/fcm-token", pushHandler.RegisterToken)
	}

	api := r.Group("/api/v1")

	// ===========================
	// 🔐 Auth
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)

		authGroup.POST("/register",
			middleware.AuthMiddleware(cfg, authSvc),
			middleware.RBACMiddleware(auth.RoleAdmin),
			authHandler.Register,
		)
		authGroup.POST("/logout", middleware.AuthMiddleware(cfg, authSvc), authHandler.Logout)
		authGroup.GET("/me", middleware.AuthMiddleware(cfg, authSvc), authHandler.Me)
	}

	// ===========================
	// 🛡️ Editorial API
	protected := api.Group("")
	protected.Use(
		middleware.RateLimiter(),
		middleware.AuthMiddleware(cfg, authSvc),
		middleware.AuditMiddleware(),
	)

	staff := middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleManager, auth.RoleEditor)
	managers := middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleManager)
	admins := middleware.RBACMiddleware(auth.RoleAdmin)

	// Regions and languages are instance-wide management
	protected.GET("/regions", staff, regionHandler.ListRegions)
	protected.POST("/regions", admins, regionHandler.CreateRegion)
	protected.PUT("/regions/:region_id", admins, regionHandler.UpdateRegion)

	protected.GET("/languages", staff, langHandler.ListLanguages)
	protected.POST("/languages", admins, langHandler.CreateLanguage)

	// Region-scoped editorial routes
	rg := protected.Group("/regions/:region_id", staff, middleware.RequireRegionAccess())
	{
		rg.GET("/language-tree", langHandler.ListTree)
		rg.POST("/language-tree", middleware.RBACMiddleware(auth.RoleAdmin), langHandler.CreateTreeNode)

		rg.POST("/events", eventHandler.CreateEvent)
		rg.GET("/events", eventHandler.ListEvents)

		rg.POST("/pois", poiHandler.CreatePOI)
		rg.GET("/pois", poiHandler.ListPOIs)

		rg.POST("/pages", pageHandler.CreatePage)
		rg.GET("/pages", pageHandler.ListPages)

		rg.POST("/imprint/:language_id", imprintHandler.SaveTranslation)
		rg.GET("/imprint/:language_id", imprintHandler.GetTranslation)

		rg.POST("/push-notifications", pushHandler.Create)
		rg.GET("/push-notifications", pushHandler.List)

		rg.GET("/reports/translation-coverage", reportsHandler.TranslationCoverage)
		rg.GET("/reports/translation-coverage/export", reportsHandler.ExportCoverage)
	}

	// Item routes; the service layer resolves the owning region
	protected.GET("/events/:id", staff, eventHandler.GetEvent)
	protected.PUT("/events/:id", staff, eventHandler.UpdateEvent)
	protected.DELETE("/events/:id", managers, eventHandler.DeleteEvent)
	protected.POST("/events/:id/duplicate", staff, eventHandler.DuplicateEvent)
	protected.POST("/events/:id/translations/:language_id", staff, eventHandler.SaveTranslation)
	protected.GET("/events/:id/translations/:language_id", staff, eventHandler.GetTranslation)
	protected.GET("/events/:id/translations/:language_id/revisions", staff, eventHandler.ListRevisions)
	protected.GET("/events/:id/occurrences", staff, eventHandler.GetOccurrences)

	protected.GET("/pois/:id", staff, poiHandler.GetPOI)
	protected.PUT("/pois/:id", staff, poiHandler.UpdatePOI)
	protected.DELETE("/pois/:id", managers, poiHandler.DeletePOI)
	protected.POST("/pois/:id/translations/:language_id", staff, poiHandler.SaveTranslation)

	protected.PUT("/pages/:id", staff, pageHandler.UpdatePage)
	protected.DELETE("/pages/:id", managers, pageHandler.DeletePage)
	protected.POST("/pages/:id/translations/:language_id", staff, pageHandler.SaveTranslation)
	protected.GET("/pages/:id/translations/:language_id", staff, pageHandler.GetTranslation)

	protected.POST("/push-notifications/:id/send", managers, pushHandler.Send)
	protected.DELETE("/push-notifications/:id", managers, pushHandler.Delete)

	// ===========================
	// 📊 Audit logs (admin only)
	protected.GET("/auditlogs", admins, auditHandler.GetAuditLogs)
	protected.GET("/auditlogs/stats", admins, auditHandler.GetAuditLogStats)
	protected.GET("/auditlogs/:id", admins, auditHandler.GetAuditLogByID)

	return pushSvc
}
