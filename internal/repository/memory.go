package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/Cheertaboi/promo-pricing-service/internal/models"
)

// MemoryOfferRepo keeps offers in process. It backs local runs and tests.
type MemoryOfferRepo struct {
	mu      sync.RWMutex
	offers  map[string]storedOffer
	nextSeq uint64
	now     func() time.Time
}

// storedOffer carries the insertion sequence that orders offers created
// within the same clock tick.
type storedOffer struct {
	offer models.Offer
	seq   uint64
}

func NewMemoryOfferRepo() *MemoryOfferRepo {
	return &MemoryOfferRepo{
		offers: make(map[string]storedOffer),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryOfferRepo) Create(_ context.Context, o *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.offers[o.ID]; exists {
		return fmt.Errorf("insert offer: duplicate id %q", o.ID)
	}
	now := r.now()
	o.CreatedAt, o.UpdatedAt = now, now
	r.nextSeq++
	r.offers[o.ID] = storedOffer{offer: *o, seq: r.nextSeq}
	return nil
}

func (r *MemoryOfferRepo) Update(_ context.Context, o *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.offers[o.ID]
	if !ok {
		return models.ErrOfferNotFound
	}
	o.CreatedAt = existing.offer.CreatedAt
	o.UpdatedAt = r.now()
	r.offers[o.ID] = storedOffer{offer: *o, seq: existing.seq}
	return nil
}

func (r *MemoryOfferRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[id]; !ok {
		return models.ErrOfferNotFound
	}
	delete(r.offers, id)
	return nil
}

func (r *MemoryOfferRepo) SetActive(_ context.Context, id string, active bool) (*models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.offers[id]
	if !ok {
		return nil, models.ErrOfferNotFound
	}
	s.offer.Active = active
	s.offer.UpdatedAt = r.now()
	r.offers[id] = s
	o := s.offer
	return &o, nil
}

func (r *MemoryOfferRepo) Get(_ context.Context, id string) (*models.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.offers[id]
	if !ok {
		return nil, models.ErrOfferNotFound
	}
	o := s.offer
	return &o, nil
}

func (r *MemoryOfferRepo) List(_ context.Context) ([]models.Offer, error) {
	return r.collect(func(models.Offer) bool { return true }), nil
}

func (r *MemoryOfferRepo) ListActive(_ context.Context) ([]models.Offer, error) {
	return r.collect(func(o models.Offer) bool { return o.Active }), nil
}

func (r *MemoryOfferRepo) collect(keep func(models.Offer) bool) []models.Offer {
	r.mu.RLock()
	kept := make([]storedOffer, 0, len(r.offers))
	for _, s := range r.offers {
		if keep(s.offer) {
			kept = append(kept, s)
		}
	}
	r.mu.RUnlock()

	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if !a.offer.CreatedAt.Equal(b.offer.CreatedAt) {
			return a.offer.CreatedAt.Before(b.offer.CreatedAt)
		}
		return a.seq < b.seq
	})
	out := make([]models.Offer, len(kept))
	for i, s := range kept {
		out[i] = s.offer
	}
	return out
}

// MemoryCatalog is a read-only product catalog held in memory.
type MemoryCatalog struct {
	products []models.Product
	byID     map[string]int
}

func NewMemoryCatalog(products []models.Product) *MemoryCatalog {
	c := &MemoryCatalog{
		products: make([]models.Product, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	copy(c.products, products)
	for i, p := range c.products {
		c.byID[p.ID] = i
	}
	return c
}

// seedID accepts both "sku-1" and 42.
type seedID string

func (id *seedID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = seedID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id must be a string or a number")
	}
	*id = seedID(n.String())
	return nil
}

type seedProduct struct {
	ID       seedID   `json:"id"`
	Price    *float64 `json:"price"`
	Vendor   *string  `json:"vendor"`
	Category *string  `json:"category"`
}

// LoadCatalogFile reads a JSON array of products. Numeric ids are accepted,
// and null fields are normalized the same way as catalog rows.
func LoadCatalogFile(path string) (*MemoryCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog seed: %w", err)
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) (*MemoryCatalog, error) {
	var seeds []seedProduct
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("decode catalog seed: %w", err)
	}

	products := make([]models.Product, 0, len(seeds))
	for i, s := range seeds {
		if s.ID == "" {
			return nil, fmt.Errorf("decode catalog seed: product %d has no id", i)
		}
		p := models.Product{ID: string(s.ID), Price: math.NaN()}
		if s.Price != nil {
			p.Price = *s.Price
		}
		if s.Vendor != nil {
			p.Vendor = *s.Vendor
		}
		if s.Category != nil {
			p.Category = *s.Category
		}
		products = append(products, p)
	}
	return NewMemoryCatalog(products), nil
}

func (c *MemoryCatalog) GetProduct(_ context.Context, id string) (*models.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	p := c.products[i]
	return &p, nil
}

func (c *MemoryCatalog) GetProductsByCategory(_ context.Context, category string) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}
