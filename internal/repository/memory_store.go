package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/fjod/xpawto-store/internal/domain"
)

// MemoryStore implements Store with process-local slices. Concurrent writers
// to the same record race with last-write-wins semantics; the mutex only
// keeps each single operation atomic.
type MemoryStore struct {
	mu           sync.RWMutex
	seed         Seed
	products     []domain.Product
	testimonials []domain.Testimonial
}

// NewMemoryStore creates a store holding a copy of seed. Pass Seed{} for an
// empty store.
func NewMemoryStore(seed Seed) *MemoryStore {
	s := &MemoryStore{seed: seed}
	s.Reset()
	return s
}

// Reset restores the store to the seed it was constructed with.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = slices.Clone(s.seed.Products)
	s.testimonials = slices.Clone(s.seed.Testimonials)
}

func (s *MemoryStore) ListProducts(context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]domain.Product, 0, len(s.products)), s.products...), nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.productIndex(id)
	if i < 0 {
		return domain.Product{}, ErrProductNotFound
	}
	return s.products[i], nil
}

func (s *MemoryStore) CreateProduct(_ context.Context, p domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var maxID int64
	for _, existing := range s.products {
		maxID = max(maxID, existing.ID)
	}
	p.ID = maxID + 1
	s.products = append(s.products, p)
	return p, nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.productIndex(p.ID)
	if i < 0 {
		return ErrProductNotFound
	}
	s.products[i] = p
	return nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.products)
	s.products = slices.DeleteFunc(s.products, func(p domain.Product) bool { return p.ID == id })
	if len(s.products) == before {
		return ErrProductNotFound
	}
	return nil
}

func (s *MemoryStore) ListTestimonials(_ context.Context, status *domain.TestimonialStatus) ([]domain.Testimonial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Testimonial, 0, len(s.testimonials))
	for _, t := range s.testimonials {
		if status == nil || t.Status == *status {
			result = append(result, t)
		}
	}
	return result, nil
}

func (s *MemoryStore) CreateTestimonial(_ context.Context, t domain.Testimonial) (domain.Testimonial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var maxID int64
	for _, existing := range s.testimonials {
		maxID = max(maxID, existing.ID)
	}
	t.ID = maxID + 1
	s.testimonials = append(s.testimonials, t)
	return t, nil
}

func (s *MemoryStore) SetTestimonialStatus(_ context.Context, id int64, status domain.TestimonialStatus) (domain.Testimonial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.testimonials {
		if s.testimonials[i].ID == id {
			s.testimonials[i].Status = status
			return s.testimonials[i], nil
		}
	}
	return domain.Testimonial{}, ErrTestimonialNotFound
}

func (s *MemoryStore) DeleteTestimonial(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.testimonials)
	s.testimonials = slices.DeleteFunc(s.testimonials, func(t domain.Testimonial) bool { return t.ID == id })
	if len(s.testimonials) == before {
		return ErrTestimonialNotFound
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) productIndex(id int64) int {
	return slices.IndexFunc(s.products, func(p domain.Product) bool { return p.ID == id })
}
