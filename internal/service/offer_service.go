package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Cheertaboi/promo-pricing-service/internal/cache"
	"github.com/Cheertaboi/promo-pricing-service/internal/events"
	"github.com/Cheertaboi/promo-pricing-service/internal/metrics"
	"github.com/Cheertaboi/promo-pricing-service/internal/models"
)

// Repos required by service (use interfaces to allow mocking)
type OfferRepository interface {
	Create(ctx context.Context, o *models.Offer) error
	Update(ctx context.Context, o *models.Offer) error
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) (*models.Offer, error)
	Get(ctx context.Context, id string) (*models.Offer, error)
	List(ctx context.Context) ([]models.Offer, error)
	ListActive(ctx context.Context) ([]models.Offer, error)
}

// OfferService is the offer store: it validates writes and hands out
// snapshots of the active offers.
type OfferService struct {
	repo      OfferRepository
	snapshots cache.SnapshotCache
	publisher events.Publisher
	metrics   *metrics.PricingMetrics
	logger    *slog.Logger
	newID     func() string

	// bumped before every post-write invalidation; ListActive compares it
	// before and after filling the cache
	generation atomic.Uint64
}

func NewOfferService(
	repo OfferRepository,
	snapshots cache.SnapshotCache,
	publisher events.Publisher,
	m *metrics.PricingMetrics,
	logger *slog.Logger,
) *OfferService {
	if snapshots == nil {
		snapshots = cache.Nop{}
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &OfferService{
		repo:      repo,
		snapshots: snapshots,
		publisher: publisher,
		metrics:   m,
		logger:    logger.With("component", "offer-service"),
		newID:     uuid.NewString,
	}
}

func (s *OfferService) Create(ctx context.Context, in models.Offer) (*models.Offer, error) {
	o := in
	o.Normalize()
	if err := o.Validate(); err != nil {
		return nil, err
	}
	o.ID = s.newID()

	if err := s.repo.Create(ctx, &o); err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}
	s.afterWrite(ctx, o.ID, events.ActionCreated)
	return &o, nil
}

func (s *OfferService) Update(ctx context.Context, id string, in models.Offer) (*models.Offer, error) {
	o := in
	o.ID = id
	o.Normalize()
	if err := o.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &o); err != nil {
		return nil, fmt.Errorf("update offer %s: %w", id, err)
	}
	s.afterWrite(ctx, o.ID, events.ActionUpdated)
	return &o, nil
}

func (s *OfferService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete offer %s: %w", id, err)
	}
	s.afterWrite(ctx, id, events.ActionDeleted)
	return nil
}

// SetActive toggles an offer without deleting it.
func (s *OfferService) SetActive(ctx context.Context, id string, active bool) (*models.Offer, error) {
	o, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, fmt.Errorf("set offer %s active=%t: %w", id, active, err)
	}
	action := events.ActionDeactivated
	if active {
		action = events.ActionActivated
	}
	s.afterWrite(ctx, id, action)
	return o, nil
}

func (s *OfferService) Get(ctx context.Context, id string) (*models.Offer, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get offer %s: %w", id, err)
	}
	return o, nil
}

func (s *OfferService) List(ctx context.Context) ([]models.Offer, error) {
	offers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return offers, nil
}

// ListActive returns the active offers ordered by creation time. The slice is
// the caller's own; later writes never show through it.
func (s *OfferService) ListActive(ctx context.Context) ([]models.Offer, error) {
	offers, err := s.snapshots.Get(ctx)
	if err == nil {
		s.metrics.SnapshotRead(metrics.SourceCache)
		return offers, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("offer snapshot cache read failed, using store", "error", err)
	}

	gen := s.generation.Load()
	offers, err = s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active offers: %w", err)
	}
	s.metrics.SnapshotRead(metrics.SourceStore)

	if s.generation.Load() != gen {
		return offers, nil
	}
	if err := s.snapshots.Set(ctx, offers); err != nil {
		s.logger.Warn("offer snapshot cache write failed", "error", err)
		return offers, nil
	}
	// A write that bumped the generation after the check above may have
	// invalidated before our Set landed. Drop what we just stored.
	if s.generation.Load() != gen {
		if err := s.snapshots.Invalidate(ctx); err != nil {
			s.logger.Error("offer snapshot invalidation failed", "error", err)
		}
	}
	return offers, nil
}

// afterWrite runs once the store has accepted a write. Failures here leave the
// write in place and are only logged.
func (s *OfferService) afterWrite(ctx context.Context, offerID string, action events.Action) {
	s.generation.Add(1)
	s.metrics.OfferWritten(string(action))

	if err := s.snapshots.Invalidate(ctx); err != nil {
		s.logger.Error("offer snapshot invalidation failed", "offer_id", offerID, "error", err)
	}

	event := events.OfferEvent{OfferID: offerID, Action: action, OccurredAt: time.Now().UTC()}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("publish offer event failed", "offer_id", offerID, "action", action, "error", err)
	}
	s.logger.Info("offer written", "offer_id", offerID, "action", action)
}
