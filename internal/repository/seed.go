package repository

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/fjod/xpawto-store/internal/domain"
)

//go:embed seed/*.json
var seedFS embed.FS

// Seed is the initial content of a fresh store, laid out as the same flat
// JSON arrays the store persists.
type Seed struct {
	Products     []domain.Product
	Testimonials []domain.Testimonial
}

// DefaultSeed loads the bundled storefront catalog.
func DefaultSeed() (Seed, error) {
	var s Seed
	if err := readSeedFile("seed/products.json", &s.Products); err != nil {
		return Seed{}, err
	}
	if err := readSeedFile("seed/testimonials.json", &s.Testimonials); err != nil {
		return Seed{}, err
	}
	return s, nil
}

func readSeedFile(name string, target any) error {
	data, err := seedFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read seed %s: %w", name, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode seed %s: %w", name, err)
	}
	return nil
}
