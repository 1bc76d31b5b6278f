package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/fjod/xpawto-store/internal/cache"
	"github.com/fjod/xpawto-store/internal/cart"
	"github.com/fjod/xpawto-store/internal/domain"
	"github.com/fjod/xpawto-store/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCartStore struct {
	m       sync.RWMutex
	carts   map[string]*cart.Cart
	loadErr error
	saveErr error
}

func newMockCartStore() *mockCartStore {
	return &mockCartStore{carts: map[string]*cart.Cart{}}
}

func (m *mockCartStore) Load(_ context.Context, sessionID string) (*cart.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	c, ok := m.carts[sessionID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return cart.New(c.Lines()...), nil
}

func (m *mockCartStore) Save(_ context.Context, sessionID string, c *cart.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.carts[sessionID] = cart.New(c.Lines()...)
	return nil
}

func (m *mockCartStore) Delete(_ context.Context, sessionID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.carts, sessionID)
	return nil
}

type cartFixture struct {
	catalog *CatalogService
	store   *mockCartStore
	carts   *CartService
	fox     domain.Product
}

func newCartFixture(t *testing.T) cartFixture {
	t.Helper()
	catalog := NewCatalogService(repository.NewMemoryStore(repository.Seed{}), nil)
	fox, err := catalog.CreateProduct(context.Background(), domain.ProductDraft{
		Name:     "FOX",
		Price:    "Rp 8.000",
		Stock:    3,
		Category: domain.CategoryPet,
		Status:   domain.ProductStatusReady,
	})
	require.NoError(t, err)
	store := newMockCartStore()
	return cartFixture{
		catalog: catalog,
		store:   store,
		carts:   NewCartService(store, catalog),
		fox:     fox,
	}
}

func TestCartService_RoundTripScenario(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		c, added, err := f.carts.AddItem(ctx, "s1", f.fox.ID)
		require.NoError(t, err)
		assert.True(t, added)
		assert.Equal(t, i, c.TotalQuantity())
	}

	c, added, err := f.carts.AddItem(ctx, "s1", f.fox.ID)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 3, c.TotalQuantity())

	c, err = f.carts.SetQuantity(ctx, "s1", f.fox.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalQuantity())

	c, err = f.carts.RemoveItem(ctx, "s1", f.fox.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, f.carts.GetCart(ctx, "s1").TotalQuantity())
}

func TestCartService_PersistsAcrossLoads(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, _, err := f.carts.AddItem(ctx, "s1", f.fox.ID)
	require.NoError(t, err)
	_, _, err = f.carts.AddItem(ctx, "s1", f.fox.ID)
	require.NoError(t, err)

	reloaded := f.carts.GetCart(ctx, "s1")
	require.Equal(t, 1, reloaded.Len())
	assert.Equal(t, 2, reloaded.TotalQuantity())

	assert.Equal(t, 0, f.carts.GetCart(ctx, "other").TotalQuantity())
}

func TestCartService_ReclampsWhenStockDrops(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, _, err := f.carts.AddItem(ctx, "s1", f.fox.ID)
		require.NoError(t, err)
	}

	lowered := f.fox
	lowered.Stock = 1
	_, err := f.catalog.UpdateProduct(ctx, lowered)
	require.NoError(t, err)

	c, err := f.carts.SetQuantity(ctx, "s1", f.fox.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalQuantity())
}

func TestCartService_DropsDeletedProducts(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	_, _, err := f.carts.AddItem(ctx, "s1", f.fox.ID)
	require.NoError(t, err)

	require.NoError(t, f.catalog.DeleteProduct(ctx, f.fox.ID))

	_, _, err = f.carts.AddItem(ctx, "s1", f.fox.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	c, err := f.carts.SetQuantity(ctx, "s1", f.fox.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestCartService_ZeroOrNegativeQuantityRemoves(t *testing.T) {
	for _, qty := range []int{0, -5} {
		f := newCartFixture(t)
		ctx := context.Background()
		_, _, err := f.carts.AddItem(ctx, "s1", f.fox.ID)
		require.NoError(t, err)

		c, err := f.carts.SetQuantity(ctx, "s1", f.fox.ID, qty)
		require.NoError(t, err)
		_, ok := c.Line(f.fox.ID)
		assert.False(t, ok)
	}
}

func TestCartService_CorruptStateStartsEmpty(t *testing.T) {
	f := newCartFixture(t)
	f.store.loadErr = errors.New("unmarshal cart failed")

	c := f.carts.GetCart(context.Background(), "s1")
	require.NotNil(t, c)
	assert.Equal(t, 0, c.TotalQuantity())
}

func TestCartService_SaveErrorIsReported(t *testing.T) {
	f := newCartFixture(t)
	f.store.saveErr = errors.New("redis down")

	_, _, err := f.carts.AddItem(context.Background(), "s1", f.fox.ID)
	assert.ErrorIs(t, err, ErrTransientIO)
}

func TestCartService_InvalidProductID(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, _, err := f.carts.AddItem(ctx, "s1", 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.carts.SetQuantity(ctx, "s1", -1, 2)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.carts.RemoveItem(ctx, "s1", 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCartService_Clear(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	_, _, err := f.carts.AddItem(ctx, "s1", f.fox.ID)
	require.NoError(t, err)

	c, err := f.carts.ClearCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, f.carts.GetCart(ctx, "s1").Len())
}

func TestCartService_CurrentCartReclampsWithoutSaving(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, _, err := f.carts.AddItem(ctx, "s1", f.fox.ID)
		require.NoError(t, err)
	}

	lowered := f.fox
	lowered.Stock = 2
	_, err := f.catalog.UpdateProduct(ctx, lowered)
	require.NoError(t, err)

	current := f.carts.CurrentCart(ctx, "s1")
	assert.Equal(t, 2, current.TotalQuantity())
	line, ok := current.Line(f.fox.ID)
	require.True(t, ok)
	assert.Equal(t, domain.Stock(2), line.Product.Stock)

	assert.Equal(t, 3, f.carts.GetCart(ctx, "s1").TotalQuantity())
}

func TestCartService_WrappedMissStartsEmpty(t *testing.T) {
	f := newCartFixture(t)
	f.store.loadErr = fmt.Errorf("%w: unmarshal cart: bad payload", cache.ErrCacheMiss)

	c := f.carts.GetCart(context.Background(), "s1")
	require.NotNil(t, c)
	assert.Equal(t, 0, c.Len())
}
