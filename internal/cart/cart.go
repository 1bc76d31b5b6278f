// Package cart holds a shopper's cart: an ordered set of product lines, one
// per product id, whose quantities never exceed the product's stock.
package cart

import (
	"encoding/json"
	"slices"

	"github.com/fjod/xpawto-store/internal/domain"
)

type Line struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// CanIncrement reports whether one more unit fits under the stock cap.
func (l Line) CanIncrement() bool {
	return l.Quantity < int(l.Product.Stock)
}

// Cart is not safe for concurrent use; a cart belongs to one session.
type Cart struct {
	lines []Line
}

// New builds a cart from previously stored lines. Lines are normalized the
// same way mutations are: duplicates merge, quantities clamp to stock and
// empty lines are dropped.
func New(lines ...Line) *Cart {
	c := &Cart{}
	for _, l := range lines {
		if i := c.index(l.Product.ID); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			c.lines[i].Product = l.Product
			c.clampAt(i)
			continue
		}
		c.lines = append(c.lines, l)
		c.clampAt(len(c.lines) - 1)
	}
	return c
}

// Add puts one unit of p in the cart. A new line is only created for a
// purchasable product; an existing line grows until it reaches p.Stock.
// It reports whether the cart changed.
func (c *Cart) Add(p domain.Product) bool {
	i := c.index(p.ID)
	if i < 0 {
		if !p.Purchasable() {
			return false
		}
		c.lines = append(c.lines, Line{Product: p, Quantity: 1})
		return true
	}

	before := c.lines[i].Quantity
	c.lines[i].Product = p
	if before < int(p.Stock) {
		c.lines[i].Quantity++
	}
	c.clampAt(i)
	return c.quantityChanged(p.ID, before)
}

// SetQuantity sets the quantity of an existing line, clamped to the stock
// recorded on the line. Zero or less removes the line. Unknown ids are
// ignored.
func (c *Cart) SetQuantity(productID int64, quantity int) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		return c.Remove(productID)
	}
	before := c.lines[i].Quantity
	c.lines[i].Quantity = quantity
	c.clampAt(i)
	return c.quantityChanged(productID, before)
}

// Refresh replaces the product snapshot of an existing line with p and
// re-applies the stock cap.
func (c *Cart) Refresh(p domain.Product) {
	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Product = p
		c.clampAt(i)
	}
}

// Reclamp refreshes every line against a full catalog listing. Lines whose
// product is no longer listed are dropped.
func (c *Cart) Reclamp(products []domain.Product) {
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	c.lines = slices.DeleteFunc(c.lines, func(l Line) bool {
		_, ok := byID[l.Product.ID]
		return !ok
	})
	for _, l := range slices.Clone(c.lines) {
		c.Refresh(byID[l.Product.ID])
	}
}

func (c *Cart) Remove(productID int64) bool {
	before := len(c.lines)
	c.lines = slices.DeleteFunc(c.lines, func(l Line) bool { return l.Product.ID == productID })
	return len(c.lines) != before
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) TotalQuantity() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Line(productID int64) (Line, bool) {
	i := c.index(productID)
	if i < 0 {
		return Line{}, false
	}
	return c.lines[i], true
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	return append(make([]Line, 0, len(c.lines)), c.lines...)
}

// MarshalJSON stores the cart as a flat array of lines.
func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Lines())
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	*c = *New(lines...)
	return nil
}

func (c *Cart) index(productID int64) int {
	return slices.IndexFunc(c.lines, func(l Line) bool { return l.Product.ID == productID })
}

// clampAt enforces 0 < quantity <= stock for line i, removing it when the
// cap drops to zero.
func (c *Cart) clampAt(i int) {
	l := &c.lines[i]
	l.Quantity = min(l.Quantity, int(l.Product.Stock))
	if l.Quantity <= 0 {
		c.lines = slices.Delete(c.lines, i, i+1)
	}
}

func (c *Cart) quantityChanged(productID int64, before int) bool {
	l, ok := c.Line(productID)
	return !ok || l.Quantity != before
}
