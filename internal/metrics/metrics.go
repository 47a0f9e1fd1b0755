package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeDiscounted   = "discounted"
	OutcomeUndiscounted = "undiscounted"
	OutcomeMalformed    = "malformed"

	SourceCache = "cache"
	SourceStore = "store"
)

// PricingMetrics holds the collectors of the pricing service.
type PricingMetrics struct {
	// Resolver outcomes
	ResolutionsTotal   *prometheus.CounterVec
	OffersSkippedTotal *prometheus.CounterVec

	// Batches and snapshots
	BatchSize          prometheus.Histogram
	SnapshotReadsTotal *prometheus.CounterVec

	// Admin writes
	OfferWritesTotal *prometheus.CounterVec
}

// NewPricingMetrics registers the collectors on reg.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	factory := promauto.With(reg)
	return &PricingMetrics{
		ResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricing_resolutions_total",
				Help: "Products priced, by outcome",
			},
			[]string{"outcome"},
		),
		OffersSkippedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricing_offers_skipped_total",
				Help: "Structurally invalid offers skipped during resolution",
			},
			[]string{"reason"},
		),
		BatchSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pricing_batch_size",
				Help:    "Products per projected batch",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
		),
		SnapshotReadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricing_offer_snapshot_reads_total",
				Help: "Active offer snapshot reads, by source",
			},
			[]string{"source"},
		),
		OfferWritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricing_offer_writes_total",
				Help: "Offer writes accepted, by action",
			},
			[]string{"action"},
		),
	}
}

// OfferSkipped and the other recording methods are no-ops on a nil
// *PricingMetrics.
func (m *PricingMetrics) OfferSkipped(_ string, reason string) {
	if m == nil {
		return
	}
	m.OffersSkippedTotal.WithLabelValues(reason).Inc()
}

func (m *PricingMetrics) ProductMalformed(string) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(OutcomeMalformed).Inc()
}

func (m *PricingMetrics) Resolved(discounted bool) {
	if m == nil {
		return
	}
	outcome := OutcomeUndiscounted
	if discounted {
		outcome = OutcomeDiscounted
	}
	m.ResolutionsTotal.WithLabelValues(outcome).Inc()
}

func (m *PricingMetrics) ObserveBatch(size int) {
	if m == nil {
		return
	}
	m.BatchSize.Observe(float64(size))
}

func (m *PricingMetrics) SnapshotRead(source string) {
	if m == nil {
		return
	}
	m.SnapshotReadsTotal.WithLabelValues(source).Inc()
}

func (m *PricingMetrics) OfferWritten(action string) {
	if m == nil {
		return
	}
	m.OfferWritesTotal.WithLabelValues(action).Inc()
}
