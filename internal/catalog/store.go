package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"ProductTable/internal/product"
)

type Store interface {
	ListSortedByID(ctx context.Context) ([]product.Product, error)
	Get(ctx context.Context, id product.ID) (product.Product, bool, error)
	Ping(ctx context.Context) error
}

var seedTitles = []string{
	"Classic White Shirt",
	"Slim Fit Jeans",
	"Leather Belt",
	"Wool Scarf",
	"Denim Jacket",
	"Running Shoes",
	"Linen Shirt",
	"Cotton Socks",
	"Baseball Cap",
	"Rain Coat",
	"Chino Shorts",
	"Hooded Sweatshirt",
	"Canvas Backpack",
	"Silk Tie",
	"Leather Gloves",
	"Ankle Boots",
	"Summer Dress",
	"Polo Tee",
	"Knit Beanie",
	"Cargo Pants",
	"Swim Trunks",
	"Flannel Pajamas",
	"Trench Coat",
	"Sports Bra",
	"Wrist Watch",
}

// SeedProducts is the fixed demo list served by the catalog: 25 products,
// three of which contain "shirt" in the title.
func SeedProducts() []product.Product {
	out := make([]product.Product, 0, len(seedTitles))
	for i, title := range seedTitles {
		out = append(out, product.Product{
			ID:    product.ID(fmt.Sprintf("p%02d", i+1)),
			Title: title,
			Price: decimal.NewFromInt(int64(499 + i*250)).Shift(-2),
		})
	}
	return out
}
