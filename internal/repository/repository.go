package repository

import (
	"context"
	"errors"

	"github.com/fjod/xpawto-store/internal/domain"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrTestimonialNotFound = errors.New("testimonial not found")
)

// ProductRepository persists catalog entries. Implementations assign ids as
// max(existing)+1 so id order is also insertion order.
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	// CreateProduct ignores p.ID and returns the stored record.
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	// UpdateProduct replaces the record with p.ID in full.
	UpdateProduct(ctx context.Context, p domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

// TestimonialRepository persists testimonials. A nil status lists everything.
type TestimonialRepository interface {
	ListTestimonials(ctx context.Context, status *domain.TestimonialStatus) ([]domain.Testimonial, error)
	CreateTestimonial(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error)
	SetTestimonialStatus(ctx context.Context, id int64, status domain.TestimonialStatus) (domain.Testimonial, error)
	DeleteTestimonial(ctx context.Context, id int64) error
}

// Store is the full persistence surface the service wires against.
type Store interface {
	ProductRepository
	TestimonialRepository
	Close() error
}
