// Package product holds the product record shared by the catalog endpoint
// and the table that renders it.
package product

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ID identifies a product. Backends emit it either as a JSON string or as a
// JSON number; both decode into the same textual form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("product id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

type Product struct {
	ID    ID              `json:"id" validate:"required"`
	Title string          `json:"title" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
}

type wireProduct struct {
	ID    ID          `json:"id"`
	Title string      `json:"title"`
	Price json.Number `json:"price"`
}

// MarshalJSON writes the price as a JSON number rather than the quoted
// string decimal.Decimal produces by default.
func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireProduct{
		ID:    p.ID,
		Title: p.Title,
		Price: json.Number(p.Price.String()),
	})
}

func (p Product) DisplayPrice() string {
	return "$" + p.Price.String()
}

// MatchesTitle reports whether the lowercased title contains the lowercased
// query. An empty query matches everything.
func MatchesTitle(p Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Title), strings.ToLower(query))
}

// FilterByTitle returns a new slice holding the products whose title matches
// query, in their original order.
func FilterByTitle(ps []Product, query string) []Product {
	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		if MatchesTitle(p, query) {
			out = append(out, p)
		}
	}
	return out
}

// IDs returns the ids of ps in order.
func IDs(ps []Product) []ID {
	out := make([]ID, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}
