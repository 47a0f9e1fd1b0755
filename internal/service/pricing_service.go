package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Cheertaboi/promo-pricing-service/internal/metrics"
	"github.com/Cheertaboi/promo-pricing-service/internal/models"
	"github.com/Cheertaboi/promo-pricing-service/internal/pricing"
)

type CatalogRepository interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error)
}

type OfferSnapshotter interface {
	ListActive(ctx context.Context) ([]models.Offer, error)
}

// PricingService prices products against one offer snapshot per request.
type PricingService struct {
	catalog   CatalogRepository
	offers    OfferSnapshotter
	projector *pricing.Projector
	metrics   *metrics.PricingMetrics
	logger    *slog.Logger
}

func NewPricingService(
	catalog CatalogRepository,
	offers OfferSnapshotter,
	projector *pricing.Projector,
	m *metrics.PricingMetrics,
	logger *slog.Logger,
) *PricingService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PricingService{
		catalog:   catalog,
		offers:    offers,
		projector: projector,
		metrics:   m,
		logger:    logger.With("component", "pricing-service"),
	}
}

func (s *PricingService) PriceProduct(ctx context.Context, productID string) (models.PricingResult, error) {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return models.PricingResult{}, fmt.Errorf("load product %s: %w", productID, err)
	}
	results, err := s.price(ctx, []models.Product{*p})
	if err != nil {
		return models.PricingResult{}, err
	}
	return results[0], nil
}

// PriceCategory prices every product in category. An unknown category is an
// empty list, not an error.
func (s *PricingService) PriceCategory(ctx context.Context, category string) ([]models.PricingResult, error) {
	products, err := s.catalog.GetProductsByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("load category %q: %w", category, err)
	}
	return s.price(ctx, products)
}

// Quote prices caller-supplied product records, for listings the catalog
// does not hold yet.
func (s *PricingService) Quote(ctx context.Context, products []models.Product) ([]models.PricingResult, error) {
	return s.price(ctx, products)
}

func (s *PricingService) price(ctx context.Context, products []models.Product) ([]models.PricingResult, error) {
	if len(products) == 0 {
		return []models.PricingResult{}, nil
	}
	offers, err := s.offers.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load offer snapshot: %w", err)
	}
	s.metrics.ObserveBatch(len(products))
	s.logger.Debug("pricing batch", "products", len(products), "offers", len(offers))
	return s.projector.Project(products, offers), nil
}
