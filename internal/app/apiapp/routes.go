package apiapp

import (
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mlisovenko/vitrina/backend/internal/config"
	"github.com/mlisovenko/vitrina/backend/internal/domain/enums"
	pgrepo "github.com/mlisovenko/vitrina/backend/internal/repo/postgres"
	analyticssvc "github.com/mlisovenko/vitrina/backend/internal/services/analytics"
	authsvc "github.com/mlisovenko/vitrina/backend/internal/services/auth"
	citiessvc "github.com/mlisovenko/vitrina/backend/internal/services/cities"
	listingsvc "github.com/mlisovenko/vitrina/backend/internal/services/listing"
	mediasvc "github.com/mlisovenko/vitrina/backend/internal/services/media"
	presencesvc "github.com/mlisovenko/vitrina/backend/internal/services/presence"
	profilesvc "github.com/mlisovenko/vitrina/backend/internal/services/profiles"
	ratesvc "github.com/mlisovenko/vitrina/backend/internal/services/rate"
	reportsvc "github.com/mlisovenko/vitrina/backend/internal/services/reports"
	"github.com/mlisovenko/vitrina/backend/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService      *authsvc.Service
	CitiesService    *citiessvc.Service
	ListingService   *listingsvc.Service
	ProfileService   *profilesvc.Service
	PresenceService  *presencesvc.Service
	AnalyticsService *analyticssvc.Service
	ReportService    *reportsvc.Service
	MediaService     *mediasvc.Service
	EventRepo        *pgrepo.EventRepo
	DailyMetricsRepo *pgrepo.DailyMetricsRepo
	RateLimiter      *ratesvc.Limiter
	Postgres         *pgxpool.Pool
	Redis            *goredis.Client
	Logger           *zap.Logger
	Config           config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler(deps.Postgres, deps.Redis)
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	citiesHandler := handlers.NewCitiesHandler(deps.CitiesService)
	listingHandler := handlers.NewListingHandler(deps.ListingService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	adminProfileHandler := handlers.NewAdminProfileHandler(deps.ProfileService)
	presenceHandler := handlers.NewPresenceHandler(deps.PresenceService, deps.ProfileService)
	interactionHandler := handlers.NewInteractionHandler(deps.EventRepo, deps.RateLimiter)
	reportHandler := handlers.NewReportHandler(deps.ReportService, deps.RateLimiter)
	analyticsHandler := handlers.NewAnalyticsHandler(deps.AnalyticsService)
	mediaHandler := handlers.NewMediaHandler(deps.MediaService, deps.ProfileService)
	metricsHandler := handlers.NewMetricsHandler(deps.DailyMetricsRepo)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	optionalAuthMW := OptionalAuthMiddleware(deps.AuthService)
	escortMW := RequireRole(enums.RoleEscort, enums.RoleAdmin)
	adminMW := RequireRole(enums.RoleAdmin)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.With(authMW).Post("/logout", authHandler.Logout)
			r.With(authMW).Post("/logout_all", authHandler.LogoutAll)
		})

		r.Get("/cities", citiesHandler.Handle)
		r.Get("/profiles", listingHandler.Handle)
		r.With(optionalAuthMW).Get("/profiles/{profileID}", profileHandler.Get)
		r.Get("/profiles/{profileID}/photos", mediaHandler.List)
		r.Post("/profiles/{profileID}/interactions", interactionHandler.Handle)

		r.Post("/presence/lookup", presenceHandler.Lookup)
		r.With(authMW, escortMW).Post("/presence/heartbeat", presenceHandler.Heartbeat)

		r.Post("/reports", reportHandler.Create)

		r.Route("/me", func(r chi.Router) {
			r.Use(authMW, escortMW)
			r.Get("/profile", profileHandler.GetOwn)
			r.Put("/profile", profileHandler.Upsert)
			r.Post("/photos", mediaHandler.Upload)
			r.Delete("/photos/{photoID}", mediaHandler.Delete)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMW, adminMW)
			r.Get("/profiles/{profileID}", adminProfileHandler.Get)
			r.Put("/profiles/{profileID}/tiers", adminProfileHandler.SetTiers)
			r.Delete("/profiles/{profileID}", adminProfileHandler.Delete)
			r.Get("/analytics/dashboard", analyticsHandler.Dashboard)
			r.Get("/analytics/profiles/{profileID}", analyticsHandler.Drilldown)
			r.Get("/analytics/roster", analyticsHandler.SearchRoster)
			r.Get("/metrics/daily", metricsHandler.Daily)
			r.Get("/reports", reportHandler.List)
			r.Get("/reports/{reportID}", reportHandler.Get)
			r.Put("/reports/{reportID}/status", reportHandler.UpdateStatus)
		})
	})
}
