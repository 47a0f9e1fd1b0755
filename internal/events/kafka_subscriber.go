package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Invalidator drops a cached offer snapshot.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Subscriber invalidates the local snapshot cache whenever any instance
// changes an offer.
type Subscriber struct {
	reader      messageReader
	invalidator Invalidator
	logger      *slog.Logger
	backoff     time.Duration
}

// NewSubscriber joins a consumer group unique to this process, so every
// instance receives every event.
func NewSubscriber(brokers []string, topic string, inv Invalidator, logger *slog.Logger) *Subscriber {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     "pricing-service-" + uuid.NewString(),
		StartOffset: kafka.LastOffset,
		MaxBytes:    1e6,
	})
	return newSubscriber(reader, inv, logger)
}

func newSubscriber(reader messageReader, inv Invalidator, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Subscriber{
		reader:      reader,
		invalidator: inv,
		logger:      logger.With("component", "offer-subscriber"),
		backoff:     time.Second,
	}
}

// Run consumes until ctx is cancelled.
func (s *Subscriber) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		m, err := s.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error("read offer event", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.backoff):
			}
			continue
		}
		if err := s.handleMessage(ctx, m); err != nil {
			s.logger.Warn("handle offer event", "error", err, "offset", m.Offset)
		}
	}
}

func (s *Subscriber) handleMessage(ctx context.Context, m kafka.Message) error {
	var event OfferEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		// A payload we cannot read still means something changed.
		if invErr := s.invalidator.Invalidate(ctx); invErr != nil {
			return fmt.Errorf("invalidate after bad payload: %w", invErr)
		}
		return fmt.Errorf("decode offer event: %w", err)
	}

	if err := s.invalidator.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate snapshot: %w", err)
	}
	s.logger.Debug("offer snapshot invalidated", "offer_id", event.OfferID, "action", event.Action)
	return nil
}

func (s *Subscriber) Close() error {
	return s.reader.Close()
}
