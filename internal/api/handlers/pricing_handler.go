package handlers

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/Cheertaboi/promo-pricing-service/internal/models"
	"github.com/Cheertaboi/promo-pricing-service/internal/service"
)

const maxQuoteProducts = 1000

type QuoteProduct struct {
	ID       string   `json:"id"`
	Price    *float64 `json:"price"`
	Vendor   string   `json:"vendor"`
	Category string   `json:"category"`
}

type QuoteRequest struct {
	Products []QuoteProduct `json:"products"`
}

type PricesResponse struct {
	Prices []models.PricingResult `json:"prices"`
}

type PricingHandler struct {
	pricing *service.PricingService
	logger  *slog.Logger
}

func NewPricingHandler(pricing *service.PricingService, logger *slog.Logger) *PricingHandler {
	return &PricingHandler{pricing: pricing, logger: logger}
}

// ProductPrice handles GET /products/{id}/price
func (h *PricingHandler) ProductPrice(w http.ResponseWriter, r *http.Request) {
	result, err := h.pricing.PriceProduct(r.Context(), pathParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CategoryPrices handles GET /categories/{category}/prices
func (h *PricingHandler) CategoryPrices(w http.ResponseWriter, r *http.Request) {
	results, err := h.pricing.PriceCategory(r.Context(), pathParam(r, "category"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, PricesResponse{Prices: results})
}

// Quote handles POST /prices/quote. A product without a price is priced as
// malformed rather than rejected, so one bad record does not fail the batch.
func (h *PricingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDecodeError(w, r, h.logger, err)
		return
	}
	if len(req.Products) > maxQuoteProducts {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("at most %d products per quote", maxQuoteProducts),
		})
		return
	}

	products := make([]models.Product, len(req.Products))
	for i, qp := range req.Products {
		price := math.NaN()
		if qp.Price != nil {
			price = *qp.Price
		}
		products[i] = models.Product{ID: qp.ID, Price: price, Vendor: qp.Vendor, Category: qp.Category}
	}

	results, err := h.pricing.Quote(r.Context(), products)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, PricesResponse{Prices: results})
}
