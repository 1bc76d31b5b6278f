package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/fjod/xpawto-store/internal/cache"
	"github.com/fjod/xpawto-store/internal/cart"
	"github.com/fjod/xpawto-store/internal/domain"
)

// ProductLister is the catalog read the cart needs to re-clamp lines.
type ProductLister interface {
	ListProducts(ctx context.Context) (Listing, error)
}

type CartService struct {
	store   cache.CartStore
	catalog ProductLister
}

func NewCartService(store cache.CartStore, catalog ProductLister) *CartService {
	return &CartService{
		store:   store,
		catalog: catalog,
	}
}

// GetCart rehydrates the session's cart. Missing, corrupt or unreadable
// state yields an empty cart.
func (s *CartService) GetCart(ctx context.Context, sessionID string) *cart.Cart {
	c, err := s.store.Load(ctx, sessionID)
	if err == nil {
		return c
	}
	// a bare miss is a new session; anything else (corrupt payload, redis down) is logged
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("cart load error for session %s, starting empty: %v", sessionID, err)
	}
	return cart.New()
}

// CurrentCart is GetCart re-clamped against a live catalog read. The stored
// cart is not rewritten; when only a stale listing is available the stored
// lines are returned unchanged.
func (s *CartService) CurrentCart(ctx context.Context, sessionID string) *cart.Cart {
	c := s.GetCart(ctx, sessionID)
	listing, err := s.catalog.ListProducts(ctx)
	if err != nil {
		log.Printf("cart reclamp skipped for session %s: %v", sessionID, err)
		return c
	}
	if !listing.Stale {
		c.Reclamp(listing.Products)
	}
	return c
}

// AddItem adds one unit of productID. The returned bool is false when the
// add was a no-op (sold out, not ready, or already at the stock cap).
func (s *CartService) AddItem(ctx context.Context, sessionID string, productID int64) (*cart.Cart, bool, error) {
	if productID <= 0 {
		return nil, false, fmt.Errorf("%w: product_id must be positive", ErrValidation)
	}
	var added bool
	c, err := s.mutate(ctx, sessionID, func(c *cart.Cart, products []domain.Product) error {
		p, ok := findProduct(products, productID)
		if !ok {
			return fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		added = c.Add(p)
		return nil
	})
	return c, added, err
}

// SetQuantity sets the quantity of a line, clamped to the product's current
// stock. Zero or less removes the line.
func (s *CartService) SetQuantity(ctx context.Context, sessionID string, productID int64, quantity int) (*cart.Cart, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: product_id must be positive", ErrValidation)
	}
	return s.mutate(ctx, sessionID, func(c *cart.Cart, products []domain.Product) error {
		if p, ok := findProduct(products, productID); ok {
			c.Refresh(p)
		}
		c.SetQuantity(productID, quantity)
		return nil
	})
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID int64) (*cart.Cart, error) {
	if productID <= 0 {
		return nil, fmt.Errorf("%w: product_id must be positive", ErrValidation)
	}
	return s.mutate(ctx, sessionID, func(c *cart.Cart, _ []domain.Product) error {
		c.Remove(productID)
		return nil
	})
}

func (s *CartService) ClearCart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		log.Printf("cart delete error for session %s: %v", sessionID, err)
		return nil, fmt.Errorf("%w: clear cart: %w", ErrTransientIO, err)
	}
	return cart.New(), nil
}

// mutate loads the cart, re-clamps it against the current catalog, applies
// op and saves the result.
func (s *CartService) mutate(ctx context.Context, sessionID string, op func(*cart.Cart, []domain.Product) error) (*cart.Cart, error) {
	listing, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	c := s.GetCart(ctx, sessionID)
	if !listing.Stale {
		c.Reclamp(listing.Products)
	}
	if err := op(c, listing.Products); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, sessionID, c); err != nil {
		log.Printf("cart save error for session %s: %v", sessionID, err)
		return nil, fmt.Errorf("%w: save cart: %w", ErrTransientIO, err)
	}
	return c, nil
}

func findProduct(products []domain.Product, id int64) (domain.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
