package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
	"github.com/firuln/cepet-deal-sub004/internal/infra/config"
	"github.com/firuln/cepet-deal-sub004/internal/transport/http/handlers"
	"github.com/firuln/cepet-deal-sub004/internal/transport/http/middleware"
	"github.com/firuln/cepet-deal-sub004/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Identity *usecase.IdentityService
	Toggles  *usecase.ToggleService
	Users    *usecase.UserService
	Dealers  *usecase.DealerService
	Listings *usecase.ListingService
	Articles *usecase.ArticleService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Metrics     *middleware.HTTPMetrics
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if len(deps.Config.CORS.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	}
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	authMiddleware := middleware.RequireAuth(deps.Services.Identity)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	healthOptions := make([]handlers.HealthOption, 0, 2)

	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}

	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pageHandler := handlers.NewPageHandler()
	r.GET("/login", pageHandler.Login)
	r.GET("/dashboard", middleware.PageGuard(deps.Services.Identity), pageHandler.Dashboard)

	adminPages := r.Group("/admin")
	adminPages.Use(middleware.PageGuard(deps.Services.Identity, domain.RoleAdmin))
	adminPages.GET("", pageHandler.AdminHome)
	adminPages.GET("/articles/new", pageHandler.AdminArticleNew)

	api := r.Group("/api/v1")
	{
		listingHandler := handlers.NewListingHandler(deps.Services.Listings)
		articleHandler := handlers.NewArticleHandler(deps.Services.Articles)
		dealerHandler := handlers.NewDealerHandler(deps.Services.Dealers)

		api.GET("/listings", listingHandler.List)
		api.GET("/listings/:slug", listingHandler.GetBySlug)
		api.POST("/listings", authMiddleware, listingHandler.Create)

		api.GET("/articles", articleHandler.List)
		api.GET("/articles/:slug", articleHandler.GetBySlug)

		api.GET("/dealers/:slug", dealerHandler.GetBySlug)

		api.GET("/me", authMiddleware, handlers.NewIdentityHandler().Me)

		admin := api.Group("/admin")
		admin.Use(authMiddleware, adminOnly)

		toggleHandler := handlers.NewToggleHandler(deps.Services.Toggles)
		toggleMiddlewares := buildToggleMiddlewares(deps)
		moderationMiddlewares := buildModerationMiddlewares(deps)

		financeToggle := append([]gin.HandlerFunc{}, toggleMiddlewares...)
		financeToggle = append(financeToggle, toggleHandler.ToggleFinance)
		admin.POST("/users/:userId/toggle-finance", financeToggle...)

		registerToggleRoute(admin, toggleMiddlewares, "/dealers/:id/toggle-finance", toggleHandler.Toggle(domain.EntityKindDealer, "financeEnabled"))
		registerToggleRoute(admin, toggleMiddlewares, "/dealers/:id/toggle-verified", toggleHandler.Toggle(domain.EntityKindDealer, "verified"))
		registerToggleRoute(admin, toggleMiddlewares, "/listings/:id/toggle-featured", toggleHandler.Toggle(domain.EntityKindListing, "featured"))
		registerToggleRoute(admin, toggleMiddlewares, "/listings/:id/toggle-published", toggleHandler.Toggle(domain.EntityKindListing, "published"))
		registerToggleRoute(admin, toggleMiddlewares, "/articles/:id/toggle-published", toggleHandler.Toggle(domain.EntityKindArticle, "published"))

		userHandler := handlers.NewUserHandler(deps.Services.Users)
		admin.GET("/users", userHandler.ListUsers)

		moderationHandler := handlers.NewModerationHandler(deps.Services.Listings)
		moderate := append([]gin.HandlerFunc{}, moderationMiddlewares...)
		moderate = append(moderate, moderationHandler.Moderate)
		admin.POST("/listings/:id/moderate", moderate...)

		admin.POST("/articles", articleHandler.Create)
	}

	return r
}

func registerToggleRoute(group *gin.RouterGroup, middlewares []gin.HandlerFunc, path string, handler gin.HandlerFunc) {
	chain := append([]gin.HandlerFunc{}, middlewares...)
	chain = append(chain, handler)
	group.POST(path, chain...)
}

func buildToggleMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.ToggleMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       "admin_toggle_subject",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.AuthenticatedSubjectIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}

func buildModerationMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.ModerationMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       "admin_moderation_subject",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.AuthenticatedSubjectIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
