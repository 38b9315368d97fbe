package catalog

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/pkg/dummyjson"
	"github.com/angelmondragon/storefront/pkg/enums"
)

// AllCategories disables the category filter.
const AllCategories = "All"

// ShopCategories are the filters offered on the shop page.
var ShopCategories = []string{AllCategories, "smartphones", "laptops", "fragrances", "skincare", "groceries", "home-decoration"}

// ShopQuery drives the shop grid. A non-empty Search replaces paging with a
// free-text search.
type ShopQuery struct {
	Page     int
	Search   string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     enums.SortOption
}

type ShopResult struct {
	Products   []dummyjson.Product `json:"products"`
	Shown      int                 `json:"shown"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"totalPages"`
	Searching  bool                `json:"searching"`
	Categories []string            `json:"categories"`
}

// Filter keeps the products matching the category and price bounds. Bounds
// are inclusive.
func Filter(products []dummyjson.Product, q ShopQuery) []dummyjson.Product {
	category := strings.TrimSpace(q.Category)
	out := make([]dummyjson.Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort orders products in place. Ties keep their API order.
func Sort(products []dummyjson.Product, opt enums.SortOption) {
	switch opt {
	case enums.SortPriceAsc:
		slices.SortStableFunc(products, func(a, b dummyjson.Product) int { return a.Price.Cmp(b.Price) })
	case enums.SortPriceDesc:
		slices.SortStableFunc(products, func(a, b dummyjson.Product) int { return b.Price.Cmp(a.Price) })
	case enums.SortRatingDesc:
		slices.SortStableFunc(products, func(a, b dummyjson.Product) int {
			switch {
			case a.Rating > b.Rating:
				return -1
			case a.Rating < b.Rating:
				return 1
			}
			return 0
		})
	}
}
