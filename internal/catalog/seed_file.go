package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"ProductTable/internal/product"
)

// LoadSeedFile reads a JSON array of products, in the same shape the
// /products endpoint serves. Records are held to the rules clients apply.
func LoadSeedFile(path string) ([]product.Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var ps []product.Product
	if err := json.Unmarshal(raw, &ps); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	if err := product.ValidateList(ps); err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return ps, nil
}
