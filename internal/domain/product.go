package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidEnum = errors.New("invalid enum value")

type Category string

const (
	CategoryPet       Category = "pet"
	CategoryPackage   Category = "package"
	CategoryEquipment Category = "equipment"
)

// Categories lists every category in catalog display order.
var Categories = []Category{CategoryPet, CategoryPackage, CategoryEquipment}

func (c Category) Valid() bool {
	switch c {
	case CategoryPet, CategoryPackage, CategoryEquipment:
		return true
	default:
		return false
	}
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("category %q: %w", s, ErrInvalidEnum)
	}
	return c, nil
}

// UnmarshalJSON accepts the empty string so that a missing category surfaces
// as a validation failure rather than a decode failure.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*c = ""
		return nil
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

type ProductStatus string

const (
	ProductStatusReady ProductStatus = "ready"
	ProductStatusSold  ProductStatus = "sold"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusReady, ProductStatusSold:
		return true
	default:
		return false
	}
}

func ParseProductStatus(s string) (ProductStatus, error) {
	st := ProductStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("product status %q: %w", s, ErrInvalidEnum)
	}
	return st, nil
}

func (s *ProductStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*s = ""
		return nil
	}
	parsed, err := ParseProductStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type Product struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Price       string        `json:"price"`
	Description string        `json:"description"`
	Stock       Stock         `json:"stock"`
	Status      ProductStatus `json:"status"`
	Category    Category      `json:"category"`
}

// Purchasable reports whether the product can be put in a cart at all.
func (p Product) Purchasable() bool {
	switch p.Status {
	case ProductStatusReady:
		return p.Stock > 0
	case ProductStatusSold:
		return false
	default:
		return false
	}
}

// ProductDraft is the create payload; the store assigns the id.
type ProductDraft struct {
	Name        string        `json:"name"`
	Price       string        `json:"price"`
	Description string        `json:"description"`
	Stock       Stock         `json:"stock"`
	Status      ProductStatus `json:"status"`
	Category    Category      `json:"category"`
}

// Stock is a non-negative item count. Decoding is lenient: numbers are
// truncated, numeric strings are parsed by their leading digits, anything
// else (including negatives) becomes zero.
type Stock int

func (s *Stock) UnmarshalJSON(data []byte) error {
	*s = 0
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case float64:
		*s = clampStock(t)
	case string:
		*s = ParseStock(t)
	}
	return nil
}

// ParseStock parses the leading integer of s, returning 0 when none exists.
func ParseStock(s string) Stock {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return clampStock(n)
}

func clampStock(f float64) Stock {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return Stock(math.Trunc(f))
}
