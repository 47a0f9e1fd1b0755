package models

// WarningMalformedPrice marks a product whose price was negative or not a number.
const WarningMalformedPrice = "malformed_price"

// PricingResult is the outcome of applying the best matching offer to one product.
type PricingResult struct {
	ProductID          string  `json:"productId"`
	OriginalPrice      float64 `json:"originalPrice"`
	DiscountedPrice    float64 `json:"discountedPrice"`
	DiscountAmount     float64 `json:"discountAmount"`
	DiscountPercentage float64 `json:"discountPercentage"`
	AppliedOfferID     *string `json:"appliedOfferId"`
	Warning            string  `json:"warning,omitempty"`
}

// Discounted reports whether an offer was applied.
func (r PricingResult) Discounted() bool {
	return r.AppliedOfferID != nil
}
