package pricing

import (
	"context"

	"github.com/Cheertaboi/promo-pricing-service/internal/concurrency"
	"github.com/Cheertaboi/promo-pricing-service/internal/models"
)

const (
	defaultWorkers           = 4
	defaultParallelThreshold = 64
)

// Projector prices a list of products against one offer snapshot.
type Projector struct {
	resolver          *Resolver
	workers           int
	parallelThreshold int
}

type ProjectorOption func(*Projector)

// WithWorkers sets how many goroutines price a large batch.
func WithWorkers(n int) ProjectorOption {
	return func(p *Projector) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithParallelThreshold sets the batch size from which the worker pool is used.
func WithParallelThreshold(n int) ProjectorOption {
	return func(p *Projector) {
		if n > 0 {
			p.parallelThreshold = n
		}
	}
}

func NewProjector(resolver *Resolver, opts ...ProjectorOption) *Projector {
	p := &Projector{
		resolver:          resolver,
		workers:           defaultWorkers,
		parallelThreshold: defaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Project returns one result per product, in input order. Every product is
// priced against the same offers slice, which callers must not mutate while
// Project runs.
func (p *Projector) Project(products []models.Product, offers []models.Offer) []models.PricingResult {
	results := make([]models.PricingResult, len(products))
	if p.workers <= 1 || len(products) < p.parallelThreshold {
		for i, product := range products {
			results[i] = p.resolver.Resolve(product, offers)
		}
		return results
	}

	// each task writes only its own index
	concurrency.SimpleWorkerPool(context.Background(), p.workers, len(products), func(_ context.Context, i int) {
		results[i] = p.resolver.Resolve(products[i], offers)
	})
	return results
}
