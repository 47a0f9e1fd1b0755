package cache

import (
	"context"
	"errors"

	"github.com/Cheertaboi/promo-pricing-service/internal/models"
)

var ErrCacheMiss = errors.New("cache miss")

// SnapshotCache holds the most recent active-offer snapshot.
type SnapshotCache interface {
	Get(ctx context.Context) ([]models.Offer, error)
	Set(ctx context.Context, offers []models.Offer) error
	Invalidate(ctx context.Context) error
}

// Nop never stores anything; every Get is a miss.
type Nop struct{}

func (Nop) Get(context.Context) ([]models.Offer, error) { return nil, ErrCacheMiss }
func (Nop) Set(context.Context, []models.Offer) error   { return nil }
func (Nop) Invalidate(context.Context) error            { return nil }
