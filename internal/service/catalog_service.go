package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fjod/xpawto-store/internal/cache"
	"github.com/fjod/xpawto-store/internal/domain"
	"github.com/fjod/xpawto-store/internal/repository"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
)

// Listing is a catalog read. Stale is set when the product store could not
// be reached and the last good snapshot was served instead.
type Listing struct {
	Products []domain.Product
	Stale    bool
}

// Partition groups a listing by category, keeping store order inside each group.
func (l Listing) Partition() map[domain.Category][]domain.Product {
	groups := make(map[domain.Category][]domain.Product, len(domain.Categories))
	for _, c := range domain.Categories {
		groups[c] = []domain.Product{}
	}
	for _, p := range l.Products {
		groups[p.Category] = append(groups[p.Category], p)
	}
	return groups
}

// readTimeout bounds a shared catalog read, which runs detached from any
// single caller.
const readTimeout = 5 * time.Second

type CatalogService struct {
	repo      repository.ProductRepository
	snapshots cache.CatalogCache
	breaker   *gobreaker.CircuitBreaker[[]domain.Product]
	sfg       singleflight.Group // collapses concurrent catalog reads
}

func NewCatalogService(repo repository.ProductRepository, snapshots cache.CatalogCache) *CatalogService {
	breaker := gobreaker.NewCircuitBreaker[[]domain.Product](gobreaker.Settings{
		Name:    "product-store",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		// a caller giving up says nothing about the store
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("circuit breaker %s: %s -> %s", name, from, to)
		},
	})
	return &CatalogService{
		repo:      repo,
		snapshots: snapshots,
		breaker:   breaker,
	}
}

// ListProducts reads the catalog from the product store. The store always
// wins when it answers; the cached snapshot is only used when it does not.
func (s *CatalogService) ListProducts(ctx context.Context) (Listing, error) {
	ch := s.sfg.DoChan("products", func() (interface{}, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), readTimeout)
		defer cancel()

		products, err := s.breaker.Execute(func() ([]domain.Product, error) {
			return s.repo.ListProducts(readCtx)
		})
		if err == nil {
			s.storeSnapshot(readCtx, products)
			return Listing{Products: products}, nil
		}

		log.Printf("product store read failed, trying snapshot: %v", err)
		snapshot, errSnap := s.loadSnapshot(readCtx)
		if errSnap != nil {
			return nil, fmt.Errorf("%w: list products: %w", ErrTransientIO, err)
		}
		return Listing{Products: snapshot, Stale: true}, nil
	})

	select {
	case <-ctx.Done():
		return Listing{}, fmt.Errorf("list products: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return Listing{}, res.Err
		}
		return res.Val.(Listing), nil
	}
}

func (s *CatalogService) ListByCategory(ctx context.Context, c domain.Category) (Listing, error) {
	if !c.Valid() {
		return Listing{}, fmt.Errorf("%w: unknown category %q", ErrValidation, c)
	}
	listing, err := s.ListProducts(ctx)
	if err != nil {
		return Listing{}, err
	}
	filtered := make([]domain.Product, 0, len(listing.Products))
	for _, p := range listing.Products {
		if p.Category == c {
			filtered = append(filtered, p)
		}
	}
	return Listing{Products: filtered, Stale: listing.Stale}, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, productError(id, err)
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, draft domain.ProductDraft) (domain.Product, error) {
	p := domain.Product{
		Name:        strings.TrimSpace(draft.Name),
		Price:       strings.TrimSpace(draft.Price),
		Description: draft.Description,
		Stock:       max(draft.Stock, 0),
		Status:      draft.Status,
		Category:    draft.Category,
	}
	if p.Name == "" || p.Price == "" || p.Category == "" {
		return domain.Product{}, fmt.Errorf("%w: missing required fields: name, price, category", ErrValidation)
	}
	if err := normalizeProduct(&p); err != nil {
		return domain.Product{}, err
	}

	created, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%w: create product: %w", ErrTransientIO, err)
	}
	log.Printf("product %d created: %s", created.ID, created.Name)
	return created, nil
}

// UpdateProduct replaces the stored product with p in full.
func (s *CatalogService) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.ID <= 0 {
		return domain.Product{}, fmt.Errorf("%w: product id is required", ErrValidation)
	}
	p.Stock = max(p.Stock, 0)
	if err := normalizeProduct(&p); err != nil {
		return domain.Product{}, err
	}

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return domain.Product{}, productError(p.ID, err)
	}
	log.Printf("product %d updated", p.ID)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: product id is required", ErrValidation)
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return productError(id, err)
	}
	log.Printf("product %d deleted", id)
	return nil
}

func (s *CatalogService) storeSnapshot(ctx context.Context, products []domain.Product) {
	if s.snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if err := s.snapshots.SetSnapshot(ctx, products); err != nil {
		log.Printf("snapshot set error: %v", err)
	}
}

func (s *CatalogService) loadSnapshot(ctx context.Context) ([]domain.Product, error) {
	if s.snapshots == nil {
		return nil, cache.ErrCacheMiss
	}
	products, err := s.snapshots.GetSnapshot(ctx)
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("snapshot get error: %v", err)
	}
	return products, err
}

// normalizeProduct applies defaults and rejects values outside the closed
// enums.
func normalizeProduct(p *domain.Product) error {
	if p.Status == "" {
		p.Status = domain.ProductStatusReady
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, p.Status)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, p.Category)
	}
	return nil
}

func productError(id int64, err error) error {
	if errors.Is(err, repository.ErrProductNotFound) {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return fmt.Errorf("%w: product %d: %w", ErrTransientIO, id, err)
}
