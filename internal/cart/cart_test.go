package cart

import (
	"encoding/json"
	"testing"

	"github.com/fjod/xpawto-store/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int64, stock int) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "FOX",
		Price:    "Rp 8.000",
		Stock:    domain.Stock(stock),
		Status:   domain.ProductStatusReady,
		Category: domain.CategoryPet,
	}
}

func TestAdd_NeverExceedsStock(t *testing.T) {
	for stock := 1; stock <= 5; stock++ {
		c := New()
		p := product(1, stock)
		for i := 0; i < stock; i++ {
			assert.True(t, c.Add(p))
		}
		assert.False(t, c.Add(p), "add past stock %d must be a no-op", stock)

		line, ok := c.Line(1)
		require.True(t, ok)
		assert.Equal(t, stock, line.Quantity)
		assert.False(t, line.CanIncrement())
	}
}

func TestAdd_MergesSameProduct(t *testing.T) {
	c := New()
	p := product(7, 10)

	c.Add(p)
	c.Add(p)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.Lines()[0].Quantity)
}

func TestAdd_RejectsUnavailableProduct(t *testing.T) {
	c := New()

	outOfStock := product(1, 0)
	assert.False(t, c.Add(outOfStock))

	sold := product(2, 4)
	sold.Status = domain.ProductStatusSold
	assert.False(t, c.Add(sold))

	assert.Equal(t, 0, c.Len())
}

func TestSetQuantity_ZeroOrNegativeRemoves(t *testing.T) {
	for _, qty := range []int{0, -5} {
		c := New()
		c.Add(product(1, 3))

		assert.True(t, c.SetQuantity(1, qty))
		_, ok := c.Line(1)
		assert.False(t, ok)
		assert.Equal(t, 0, c.TotalQuantity())
	}
}

func TestSetQuantity_ClampsToStock(t *testing.T) {
	c := New()
	c.Add(product(1, 3))

	c.SetQuantity(1, 10)

	line, _ := c.Line(1)
	assert.Equal(t, 3, line.Quantity)
}

func TestSetQuantity_UnknownIDIsNoop(t *testing.T) {
	c := New()
	c.Add(product(1, 3))

	assert.False(t, c.SetQuantity(99, 2))
	assert.Equal(t, 1, c.TotalQuantity())
}

func TestRefresh_ReclampsAfterStockDrop(t *testing.T) {
	c := New()
	p := product(1, 5)
	for i := 0; i < 4; i++ {
		c.Add(p)
	}

	c.Refresh(product(1, 2))
	line, _ := c.Line(1)
	assert.Equal(t, 2, line.Quantity)

	c.Refresh(product(1, 0))
	_, ok := c.Line(1)
	assert.False(t, ok)
}

func TestReclamp_DropsDelistedProducts(t *testing.T) {
	c := New()
	c.Add(product(1, 3))
	c.Add(product(2, 3))
	c.Add(product(2, 3))

	c.Reclamp([]domain.Product{product(2, 1)})

	require.Equal(t, 1, c.Len())
	line := c.Lines()[0]
	assert.Equal(t, int64(2), line.Product.ID)
	assert.Equal(t, 1, line.Quantity)
}

func TestRoundTripScenario(t *testing.T) {
	c := New()
	fox := product(1, 3)

	c.Add(fox)
	c.Add(fox)
	assert.True(t, c.Add(fox))
	assert.Equal(t, 3, c.TotalQuantity())

	assert.False(t, c.Add(fox))
	assert.Equal(t, 3, c.TotalQuantity())

	c.SetQuantity(1, 1)
	assert.Equal(t, 1, c.TotalQuantity())

	c.Remove(1)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.TotalQuantity())
}

func TestClear(t *testing.T) {
	c := New()
	c.Add(product(1, 3))
	c.Add(product(2, 3))

	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Lines())
}

func TestLines_PreserveInsertionOrder(t *testing.T) {
	c := New()
	c.Add(product(3, 1))
	c.Add(product(1, 1))
	c.Add(product(2, 1))

	var ids []int64
	for _, l := range c.Lines() {
		ids = append(ids, l.Product.ID)
	}
	assert.Equal(t, []int64{3, 1, 2}, ids)
}

func TestUnmarshal_NormalizesStoredLines(t *testing.T) {
	stored := `[
		{"product":{"id":1,"name":"A","price":"1","stock":2,"status":"ready","category":"pet"},"quantity":5},
		{"product":{"id":2,"name":"B","price":"1","stock":4,"status":"ready","category":"pet"},"quantity":1},
		{"product":{"id":2,"name":"B","price":"1","stock":4,"status":"ready","category":"pet"},"quantity":1},
		{"product":{"id":3,"name":"C","price":"1","stock":4,"status":"ready","category":"pet"},"quantity":0}
	]`

	var c Cart
	require.NoError(t, json.Unmarshal([]byte(stored), &c))

	require.Equal(t, 2, c.Len())
	first, _ := c.Line(1)
	assert.Equal(t, 2, first.Quantity)
	second, _ := c.Line(2)
	assert.Equal(t, 2, second.Quantity)
}

func TestMarshal_FlatArray(t *testing.T) {
	c := New()
	c.Add(product(1, 3))

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.EqualValues(t, 1, raw[0]["quantity"])
}
