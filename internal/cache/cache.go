package cache

import (
	"context"
	"errors"

	"github.com/fjod/xpawto-store/internal/cart"
	"github.com/fjod/xpawto-store/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// CatalogCache keeps the last catalog read that succeeded against the
// product store.
type CatalogCache interface {
	GetSnapshot(ctx context.Context) ([]domain.Product, error)
	SetSnapshot(ctx context.Context, products []domain.Product) error
}

// CartStore persists one cart per browser session.
type CartStore interface {
	// Load returns ErrCacheMiss when the session has no cart yet.
	Load(ctx context.Context, sessionID string) (*cart.Cart, error)
	Save(ctx context.Context, sessionID string, c *cart.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
