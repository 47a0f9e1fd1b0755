package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Cheertaboi/promo-pricing-service/internal/api/handlers"
	"github.com/Cheertaboi/promo-pricing-service/internal/api/middleware"
	"github.com/Cheertaboi/promo-pricing-service/internal/service"
)

type Dependencies struct {
	Offers         *service.OfferService
	Pricing        *service.PricingService
	Logger         *slog.Logger
	Gatherer       prometheus.Gatherer
	RequestTimeout time.Duration
}

// NewRouter builds the HTTP router for the pricing service
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)
	if deps.RequestTimeout > 0 {
		r.Use(chimw.Timeout(deps.RequestTimeout))
	}

	offerHandler := handlers.NewOfferHandler(deps.Offers, logger)
	pricingHandler := handlers.NewPricingHandler(deps.Pricing, logger)

	// Shopper-facing endpoints
	r.Get("/offers/active", offerHandler.ActiveOffers)
	r.Get("/products/{id}/price", pricingHandler.ProductPrice)
	r.Get("/categories/{category}/prices", pricingHandler.CategoryPrices)
	r.Post("/prices/quote", pricingHandler.Quote)

	// Admin endpoints
	r.Route("/admin/offers", func(r chi.Router) {
		r.Post("/", offerHandler.CreateOffer)
		r.Get("/", offerHandler.ListOffers)
		r.Get("/{id}", offerHandler.GetOffer)
		r.Put("/{id}", offerHandler.UpdateOffer)
		r.Delete("/{id}", offerHandler.DeleteOffer)
		r.Patch("/{id}/active", offerHandler.SetOfferActive)
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
