package events

import (
	"context"
	"time"
)

type Action string

const (
	ActionCreated     Action = "offer.created"
	ActionUpdated     Action = "offer.updated"
	ActionDeleted     Action = "offer.deleted"
	ActionActivated   Action = "offer.activated"
	ActionDeactivated Action = "offer.deactivated"
)

// OfferEvent announces a change to the offer set. Consumers only need to know
// that their snapshot is stale, so the offer body is not carried.
type OfferEvent struct {
	OfferID    string    `json:"offer_id"`
	Action     Action    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event OfferEvent) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OfferEvent) error { return nil }
func (NopPublisher) Close() error                              { return nil }
