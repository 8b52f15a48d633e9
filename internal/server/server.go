// Package server assembles the HTTP router from services.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"dealscout/internal/cache"
	"dealscout/internal/handlers"
	"dealscout/internal/logger"
	"dealscout/internal/middleware"
	"dealscout/internal/models"
	"dealscout/internal/services"
)

// Options configures router assembly.
type Options struct {
	// PipelineAPIKey guards listing ingestion. When empty the route
	// answers 503.
	PipelineAPIKey string
	// RequestLogging turns on the per-request log line.
	RequestLogging bool
}

// Services groups the business services the router serves.
type Services struct {
	Users         services.UserServicer
	Audit         services.AuditServicer
	Properties    services.PropertyServicer
	Settings      services.SettingsServicer
	Deals         services.DealServicer
	SavedProperty services.SavedPropertyServicer
	SavedSearches services.SavedSearchServicer
}

// NewServices builds the service graph on db. A nil listingCache reads the
// published listings from the database on every search.
func NewServices(db *gorm.DB, listingCache cache.ListingCache) *Services {
	if listingCache == nil {
		listingCache = cache.Noop{}
	}
	properties := services.NewPropertyService(db, listingCache)
	settings := services.NewSettingsService(db)
	saved := services.NewSavedPropertyService(db, properties, settings)
	return &Services{
		Users:         services.NewUserService(db),
		Audit:         services.NewAuditService(db),
		Properties:    properties,
		Settings:      settings,
		Deals:         services.NewDealService(properties, settings, saved),
		SavedProperty: saved,
		SavedSearches: services.NewSavedSearchService(db),
	}
}

// SeedAdmin makes sure the bootstrap administrator exists. Staff roles
// cannot be self-registered, so this account is the root of every other
// admin and va. Nothing happens unless both email and password are set.
func (svc *Services) SeedAdmin(email, password string) error {
	log := logger.Named("server")
	if email == "" || password == "" {
		log.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set; no administrator seeded")
		return nil
	}
	user, created, err := svc.Users.EnsureAdmin(email, password)
	if err != nil {
		return err
	}
	if created {
		log.Infow("seeded administrator", "email", user.Email, "user_id", user.ID)
	} else if user.Role != models.RoleAdmin {
		log.Warnw("bootstrap email belongs to a non-admin account", "email", user.Email, "role", user.Role)
	}
	return nil
}

// NewRouter wires handlers, middleware and routes.
func NewRouter(svc *Services, opts Options) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users, svc.Audit)
	propertyHandler := handlers.NewPropertyHandler(svc.Properties, svc.Audit)
	settingsHandler := handlers.NewSettingsHandler(svc.Settings, svc.Audit)
	dealHandler := handlers.NewDealHandler(svc.Deals)
	savedPropertyHandler := handlers.NewSavedPropertyHandler(svc.SavedProperty, svc.Audit)
	savedSearchHandler := handlers.NewSavedSearchHandler(svc.SavedSearches, svc.Deals, svc.Audit)

	router := gin.New()
	router.Use(gin.Recovery())
	if opts.RequestLogging {
		router.Use(middleware.RequestLogging())
	}
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(opts.PipelineAPIKey))
	pipeline.POST("/properties", propertyHandler.IngestProperties)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	admin.POST("/users", authHandler.CreateUser)

	properties := protected.Group("/properties")
	properties.Use(middleware.RequireRoles(models.RoleWholesaler, models.RoleAdmin))
	properties.POST("", propertyHandler.SubmitProperty)
	properties.GET("/mine", propertyHandler.GetMySubmissions)

	review := protected.Group("/review")
	review.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleVA))
	review.GET("/properties", propertyHandler.GetReviewQueue)
	review.POST("/properties/:id", propertyHandler.ReviewProperty)

	settings := protected.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.PATCH("/factors", settingsHandler.UpdateFactors)
	settings.PUT("/strategy", settingsHandler.SetStrategy)
	settings.PUT("/purchase-model", settingsHandler.SetPurchaseModel)
	settings.PUT("/use-defaults", settingsHandler.SetUseDefaults)
	settings.PUT("/presets/:strategy/:model", settingsHandler.EditPreset)
	settings.POST("/presets/reset", settingsHandler.ResetPresets)
	settings.PUT("/current-costs", settingsHandler.EditCurrentCost)
	settings.PUT("/misc-breakdown", settingsHandler.UpdateMiscBreakdown)

	deals := protected.Group("/deals")
	deals.GET("", dealHandler.SearchDeals)
	deals.GET("/:id", dealHandler.GetDeal)
	deals.POST("/:id/analyze", dealHandler.AnalyzeDeal)

	savedProperties := protected.Group("/saved-properties")
	savedProperties.POST("", savedPropertyHandler.SaveProperty)
	savedProperties.GET("", savedPropertyHandler.GetSavedProperties)
	savedProperties.DELETE("/:id", savedPropertyHandler.UnsaveProperty)

	savedSearches := protected.Group("/saved-searches")
	savedSearches.POST("", savedSearchHandler.CreateSavedSearch)
	savedSearches.GET("", savedSearchHandler.GetSavedSearches)
	savedSearches.GET("/:id", savedSearchHandler.GetSavedSearch)
	savedSearches.GET("/:id/results", savedSearchHandler.RunSavedSearch)
	savedSearches.DELETE("/:id", savedSearchHandler.DeleteSavedSearch)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
