package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mlisovenko/vitrina/backend/internal/config"
	s3infra "github.com/mlisovenko/vitrina/backend/internal/infra/s3"
	pgrepo "github.com/mlisovenko/vitrina/backend/internal/repo/postgres"
	redrepo "github.com/mlisovenko/vitrina/backend/internal/repo/redis"
	analyticssvc "github.com/mlisovenko/vitrina/backend/internal/services/analytics"
	authsvc "github.com/mlisovenko/vitrina/backend/internal/services/auth"
	citiessvc "github.com/mlisovenko/vitrina/backend/internal/services/cities"
	listingsvc "github.com/mlisovenko/vitrina/backend/internal/services/listing"
	mediasvc "github.com/mlisovenko/vitrina/backend/internal/services/media"
	presencesvc "github.com/mlisovenko/vitrina/backend/internal/services/presence"
	profilesvc "github.com/mlisovenko/vitrina/backend/internal/services/profiles"
	ratesvc "github.com/mlisovenko/vitrina/backend/internal/services/rate"
	reportsvc "github.com/mlisovenko/vitrina/backend/internal/services/reports"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	profileRepo := pgrepo.NewProfileRepo(pool)
	eventRepo := pgrepo.NewEventRepo(pool)
	reportRepo := pgrepo.NewReportRepo(pool)
	userRepo := pgrepo.NewUserRepo(pool)
	mediaRepo := pgrepo.NewMediaRepo(pool, cfg.Limits.MaxPhotosPerProfile)
	dailyMetricsRepo := pgrepo.NewDailyMetricsRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, sessionRepo, userRepo, cfg.Auth.RefreshTTL)
	citiesService := citiessvc.NewService(cfg.Cities)
	listingService := listingsvc.NewService(
		profileRepo,
		citiesService,
		cfg.Listing.DefaultPageSize,
		cfg.Listing.MaxPageSize,
	)
	profileService := profilesvc.NewService(profileRepo, eventRepo, citiesService)
	presenceService := presencesvc.NewService(profileRepo)
	analyticsService, err := analyticssvc.NewService(
		eventRepo,
		profileRepo,
		cfg.Analytics.Timezone,
		cfg.Analytics.TopN,
	)
	if err != nil {
		return nil, fmt.Errorf("init analytics service: %w", err)
	}
	reportService := reportsvc.NewService(reportRepo)
	rateLimiter := ratesvc.NewLimiter(
		rateRepo,
		cfg.Limits.ReportsPerHour,
		cfg.Limits.InteractionsPerMinute,
	)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	mediaService := mediasvc.NewService(mediaRepo, profileRepo, mediaStorage)

	RegisterRoutes(r, Dependencies{
		AuthService:      authService,
		CitiesService:    citiesService,
		ListingService:   listingService,
		ProfileService:   profileService,
		PresenceService:  presenceService,
		AnalyticsService: analyticsService,
		ReportService:    reportService,
		MediaService:     mediaService,
		EventRepo:        eventRepo,
		DailyMetricsRepo: dailyMetricsRepo,
		RateLimiter:      rateLimiter,
		Postgres:         pool,
		Redis:            redisClient,
		Logger:           log,
		Config:           cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
