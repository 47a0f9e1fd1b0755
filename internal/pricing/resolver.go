package pricing

import (
	"errors"
	"io"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/promo-pricing-service/internal/models"
)

// Observer receives reports about skipped offers and malformed products.
// Implementations must be safe for concurrent use.
type Observer interface {
	OfferSkipped(offerID, reason string)
	ProductMalformed(productID string)
	Resolved(discounted bool)
}

type nopObserver struct{}

func (nopObserver) OfferSkipped(string, string) {}
func (nopObserver) ProductMalformed(string)     {}
func (nopObserver) Resolved(bool)               {}

// Resolver picks the best applicable offer for a product.
type Resolver struct {
	logger   *slog.Logger
	observer Observer
}

func NewResolver(logger *slog.Logger, observer Observer) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Resolver{logger: logger, observer: observer}
}

// Resolve prices p against offers. The result depends only on its inputs.
//
// All matching offers compete regardless of scope. The strictly largest raw
// amount wins and ties go to the earliest offer in the slice. Invalid or
// inactive offers are skipped; a product with a negative or non-numeric price
// comes back undiscounted with a warning.
func (r *Resolver) Resolve(p models.Product, offers []models.Offer) models.PricingResult {
	if !finite(p.Price) || p.Price < 0 {
		r.logger.Warn("malformed product price, discounts skipped",
			"product_id", p.ID, "price", strconv.FormatFloat(p.Price, 'f', -1, 64))
		r.observer.ProductMalformed(p.ID)
		return models.PricingResult{ProductID: p.ID, Warning: models.WarningMalformedPrice}
	}

	var (
		best       *models.Offer
		bestAmount decimal.Decimal
	)
	for i := range offers {
		o := &offers[i]
		if reason := integrityProblem(*o); reason != "" {
			r.logger.Warn("skipping invalid offer", "offer_id", o.ID, "reason", reason)
			r.observer.OfferSkipped(o.ID, reason)
			continue
		}
		if !o.Active || !Matches(*o, p) {
			continue
		}
		amt, ok := amount(*o, p.Price)
		if !ok {
			continue
		}
		if best == nil || amt.GreaterThan(bestAmount) {
			best, bestAmount = o, amt
		}
	}

	result := models.PricingResult{
		ProductID:       p.ID,
		OriginalPrice:   p.Price,
		DiscountedPrice: p.Price,
	}
	if best == nil || !bestAmount.IsPositive() {
		r.observer.Resolved(false)
		return result
	}

	price := decimal.NewFromFloat(p.Price)
	discounted := price.Sub(bestAmount)
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}
	offerID := best.ID
	result.DiscountedPrice = toFloat(discounted)
	result.DiscountAmount = toFloat(bestAmount)
	result.DiscountPercentage = percentageEquivalent(*best, bestAmount, price)
	result.AppliedOfferID = &offerID

	r.observer.Resolved(true)
	return result
}

func percentageEquivalent(o models.Offer, amount, price decimal.Decimal) float64 {
	if o.DiscountKind == models.DiscountPercentage {
		return o.DiscountValue
	}
	if !price.IsPositive() {
		return 0
	}
	return toFloat(amount.Div(price).Mul(hundred).Round(0))
}

// integrityProblem names the invariant o breaks, or returns "".
func integrityProblem(o models.Offer) string {
	err := o.Validate()
	if err == nil {
		return ""
	}
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return "invalid_" + ve.Field
	}
	return "invalid_offer"
}
