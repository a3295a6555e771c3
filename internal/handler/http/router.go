package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/service"
	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/token"
	"github.com/MxSGameJPS/minhaloja-valorfinal/pkg/health"
	"github.com/MxSGameJPS/minhaloja-valorfinal/pkg/middleware"
)

// NewRouter creates a chi router with all listing service routes registered.
func NewRouter(
	listingService *service.ListingService,
	calculatorService *service.CalculatorService,
	tokenStore *token.Store,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("listing"))

	// Health check and metrics endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	listingHandler := NewListingHandler(listingService, logger)
	calculationHandler := NewCalculationHandler(calculatorService, logger)
	authHandler := NewAuthHandler(tokenStore, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/listings", func(r chi.Router) {
			r.Post("/", listingHandler.PublishListings)
			r.Get("/lookup", listingHandler.Lookup)
			r.Put("/{id}/price", listingHandler.UpdatePrice)
		})

		r.Get("/catalog/search", listingHandler.SearchCatalog)

		r.Route("/calculations", func(r chi.Router) {
			r.Post("/", calculationHandler.Calculate)
			r.Get("/", calculationHandler.List)
		})

		r.Get("/fees/quote", calculationHandler.QuoteFee)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/exchange", authHandler.Exchange)
			r.Get("/status", authHandler.Status)
		})
	})

	return r
}
