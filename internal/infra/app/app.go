package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/firuln/cepet-deal-sub004/internal/core/domain"
	"github.com/firuln/cepet-deal-sub004/internal/core/port"
	"github.com/firuln/cepet-deal-sub004/internal/infra/config"
	"github.com/firuln/cepet-deal-sub004/internal/infra/database"
	kafkainfra "github.com/firuln/cepet-deal-sub004/internal/infra/kafka"
	"github.com/firuln/cepet-deal-sub004/internal/infra/logger"
	redisinfra "github.com/firuln/cepet-deal-sub004/internal/infra/redis"
	"github.com/firuln/cepet-deal-sub004/internal/infra/security"
	"github.com/firuln/cepet-deal-sub004/internal/infra/telemetry"
	postgresrepo "github.com/firuln/cepet-deal-sub004/internal/repository/postgres"
	redisrepo "github.com/firuln/cepet-deal-sub004/internal/repository/redis"
	"github.com/firuln/cepet-deal-sub004/internal/transport/http/middleware"
	"github.com/firuln/cepet-deal-sub004/internal/transport/http/routes"
	"github.com/firuln/cepet-deal-sub004/internal/usecase"
)

type Application struct {
	cfg       *config.AppConfig
	engine    *gin.Engine
	logger    *zap.Logger
	pool      *pgxpool.Pool
	redis     *redisinfra.Client
	producer  *kafkainfra.Producer
	telemetry *telemetry.TracerProvider
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	tokenManager, err := security.NewTokenManager(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.TTL)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init token manager: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	var eventPublisher port.EventPublisher
	var producer *kafkainfra.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: "market:rate-limit",
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	listingCache := redisrepo.NewListingCacheRepository(redisClient.Client(), cfg.Redis.ListingCachePrefix)
	listingCacheTTL := cfg.Redis.ListingCacheTTL
	if listingCacheTTL <= 0 {
		listingCacheTTL = time.Minute
	}

	identityService := usecase.NewIdentityService(tokenManager)

	toggleService := usecase.NewToggleService(eventPublisher, log).
		WithAttempts(cfg.Toggle.MaxAttempts).
		RegisterStore(domain.EntityKindUser, repos.Users).
		RegisterStore(domain.EntityKindDealer, repos.Dealers).
		RegisterStore(domain.EntityKindListing, repos.Listings).
		RegisterStore(domain.EntityKindArticle, repos.Articles).
		Register(usecase.ToggleDefinition{Kind: domain.EntityKindUser, Field: "financeEnabled"}).
		Register(usecase.ToggleDefinition{Kind: domain.EntityKindDealer, Field: "financeEnabled"}).
		Register(usecase.ToggleDefinition{Kind: domain.EntityKindDealer, Field: "verified"}).
		Register(usecase.ToggleDefinition{Kind: domain.EntityKindListing, Field: "featured"}).
		Register(usecase.ToggleDefinition{Kind: domain.EntityKindListing, Field: "published"}).
		Register(usecase.ToggleDefinition{Kind: domain.EntityKindArticle, Field: "published"})

	listingService := usecase.NewListingService(repos.Listings, repos.Dealers, eventPublisher, log).
		WithCache(listingCache, listingCacheTTL)
	articleService := usecase.NewArticleService(repos.Articles, eventPublisher, log)
	userService := usecase.NewUserService(repos.Users)
	dealerService := usecase.NewDealerService(repos.Dealers)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Identity: identityService,
			Toggles:  toggleService,
			Users:    userService,
			Dealers:  dealerService,
			Listings: listingService,
			Articles: articleService,
		},
	})

	return &Application{
		cfg:       cfg,
		engine:    engine,
		logger:    log,
		pool:      pool,
		redis:     redisClient,
		producer:  producer,
		telemetry: tracerProvider,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()
	defer func() {
		if a.telemetry != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = a.telemetry.Shutdown(shutdownCtx)
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting marketplace API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
