package pricing

import "github.com/Cheertaboi/promo-pricing-service/internal/models"

type scopeMatcher func(targetID string, p models.Product) bool

var scopeMatchers = map[models.Scope]scopeMatcher{
	models.ScopeGlobal: func(string, models.Product) bool {
		return true
	},
	models.ScopeSeller: func(targetID string, p models.Product) bool {
		return targetID == p.Vendor
	},
	models.ScopeCategory: func(targetID string, p models.Product) bool {
		return targetID == p.Category
	},
	models.ScopeProduct: func(targetID string, p models.Product) bool {
		return targetID == p.ID
	},
}

// Matches reports whether the scope of o covers p. Comparison is exact and
// case-sensitive; an unknown scope never matches.
func Matches(o models.Offer, p models.Product) bool {
	match, ok := scopeMatchers[o.Scope]
	if !ok {
		return false
	}
	return match(o.TargetID, p)
}
