package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fjod/xpawto-store/internal/publisher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRecorder struct {
	m      sync.Mutex
	events []publisher.HandoffEvent
}

func (r *mockRecorder) Publish(_ context.Context, e publisher.HandoffEvent) error {
	r.m.Lock()
	defer r.m.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *mockRecorder) count() int {
	r.m.Lock()
	defer r.m.Unlock()
	return len(r.events)
}

func TestCheckout_BuildsHandoff(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	recorder := &mockRecorder{}
	sut := NewCheckoutService(f.carts, "6285128048534", recorder)

	_, _, err := f.carts.AddItem(ctx, "s1", f.fox.ID)
	require.NoError(t, err)
	_, _, err = f.carts.AddItem(ctx, "s1", f.fox.ID)
	require.NoError(t, err)

	handoff, err := sut.Checkout(ctx, "s1", "dana")
	require.NoError(t, err)

	assert.Equal(t, 2, handoff.TotalItems)
	assert.Contains(t, handoff.Message, "• FOX - Rp 8.000 (Qty: 2)")
	assert.Contains(t, handoff.Message, "Metode Pembayaran: 💳 Dana")
	assert.Contains(t, handoff.URL, "https://wa.me/6285128048534?text=")

	assert.Eventually(t, func() bool { return recorder.count() == 1 }, time.Second, 10*time.Millisecond)
	recorder.m.Lock()
	event := recorder.events[0]
	recorder.m.Unlock()
	assert.Equal(t, "s1", event.SessionID)
	assert.Equal(t, "dana", event.PaymentMethod)
	require.Len(t, event.Items, 1)
	assert.Equal(t, 2, event.Items[0].Quantity)

	// the cart is left for the shopper to clear after the seller confirms
	assert.Equal(t, 2, f.carts.GetCart(ctx, "s1").TotalQuantity())
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newCartFixture(t)
	sut := NewCheckoutService(f.carts, "6285128048534", nil)

	_, err := sut.Checkout(context.Background(), "s1", "dana")
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_UnknownPaymentMethod(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	_, _, err := f.carts.AddItem(ctx, "s1", f.fox.ID)
	require.NoError(t, err)
	sut := NewCheckoutService(f.carts, "6285128048534", nil)

	_, err = sut.Checkout(ctx, "s1", "paypal")
	assert.ErrorIs(t, err, ErrValidation)

	handoff, err := sut.Checkout(ctx, "s1", "")
	require.NoError(t, err)
	assert.NotContains(t, handoff.Message, "Metode Pembayaran")
}

func TestCheckout_UsesCurrentStock(t *testing.T) {
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

	handoff, err := NewCheckoutService(f.carts, "6285128048534", nil).Checkout(ctx, "s1", "")
	require.NoError(t, err)
	assert.Equal(t, 1, handoff.TotalItems)
	assert.Contains(t, handoff.Message, "(Qty: 1)")
	assert.NotContains(t, handoff.Message, "(Qty: 3)")
}
