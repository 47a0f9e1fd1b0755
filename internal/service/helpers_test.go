package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Cheertaboi/promo-pricing-service/internal/cache"
	"github.com/Cheertaboi/promo-pricing-service/internal/events"
	"github.com/Cheertaboi/promo-pricing-service/internal/metrics"
	"github.com/Cheertaboi/promo-pricing-service/internal/models"
	"github.com/Cheertaboi/promo-pricing-service/internal/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OfferEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.OfferEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) actions() []events.Action {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Action, len(p.events))
	for i, e := range p.events {
		out[i] = e.Action
	}
	return out
}

// failingCache fails every call, like a Redis outage.
type failingCache struct{}

var errCacheDown = errors.New("cache unavailable")

func (failingCache) Get(context.Context) ([]models.Offer, error) { return nil, errCacheDown }
func (failingCache) Set(context.Context, []models.Offer) error   { return errCacheDown }
func (failingCache) Invalidate(context.Context) error            { return errCacheDown }

// countingRepo wraps the memory repo and counts snapshot reads.
type countingRepo struct {
	*repository.MemoryOfferRepo
	mu          sync.Mutex
	activeReads int
	listErr     error
}

func (r *countingRepo) ListActive(ctx context.Context) ([]models.Offer, error) {
	r.mu.Lock()
	r.activeReads++
	err := r.listErr
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.MemoryOfferRepo.ListActive(ctx)
}

func (r *countingRepo) reads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeReads
}

type offerFixture struct {
	svc       *OfferService
	repo      *countingRepo
	publisher *recordingPublisher
	metrics   *metrics.PricingMetrics
}

func newOfferFixture(t *testing.T, snapshots cache.SnapshotCache) *offerFixture {
	t.Helper()
	repo := &countingRepo{MemoryOfferRepo: repository.NewMemoryOfferRepo()}
	pub := &recordingPublisher{}
	m := metrics.NewPricingMetrics(prometheus.NewRegistry())

	svc := NewOfferService(repo, snapshots, pub, m, nil)
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("offer-%03d", seq)
	}
	return &offerFixture{svc: svc, repo: repo, publisher: pub, metrics: m}
}

func percentOff(scope models.Scope, target string, value float64) models.Offer {
	return models.Offer{
		Scope:         scope,
		TargetID:      target,
		DiscountKind:  models.DiscountPercentage,
		DiscountValue: value,
		Active:        true,
	}
}
