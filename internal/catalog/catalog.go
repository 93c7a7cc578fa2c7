package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/safar/go-storefront-client/internal/models"
)

type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price-low-high"
	SortPriceDesc SortKey = "price-high-low"
)

// MaxPriceBound caps the price-range filter.
const MaxPriceBound = 5000

// Query is the ephemeral search/sort/price selection driving view
// computation. It has no server counterpart.
type Query struct {
	Search   string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	Sort     SortKey
}

// DefaultQuery matches everything, newest first.
func DefaultQuery() Query {
	return Query{
		MinPrice: decimal.Zero,
		MaxPrice: decimal.NewFromInt(MaxPriceBound),
		Sort:     SortNewest,
	}
}

// Normalize clamps the price range to [0, MaxPriceBound] with min <= max
// and falls back to the newest sort for unknown keys. A sort key is always
// applied; there is no "no-op" sort.
func (q Query) Normalize() Query {
	zero := decimal.Zero
	bound := decimal.NewFromInt(MaxPriceBound)

	if q.MinPrice.LessThan(zero) {
		q.MinPrice = zero
	}
	if q.MaxPrice.GreaterThan(bound) {
		q.MaxPrice = bound
	}
	if q.MaxPrice.LessThan(zero) {
		q.MaxPrice = zero
	}
	if q.MinPrice.GreaterThan(q.MaxPrice) {
		q.MinPrice = q.MaxPrice
	}

	switch q.Sort {
	case SortPriceAsc, SortPriceDesc, SortNewest:
	default:
		q.Sort = SortNewest
	}

	return q
}

// View filters and sorts products for rendering. Filtering keeps a product
// iff its name contains the search text case-insensitively and its price is
// within the range, both inclusive. Sorting is stable: products that
// compare equal keep their relative input order. Pure; the input slice is
// never modified.
func View(products []models.Product, q Query) []models.Product {
	q = q.Normalize()
	search := strings.ToLower(q.Search)

	view := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if p.Price.LessThan(q.MinPrice) || p.Price.GreaterThan(q.MaxPrice) {
			continue
		}
		view = append(view, p)
	}

	switch q.Sort {
	case SortPriceAsc:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].Price.LessThan(view[j].Price)
		})
	case SortPriceDesc:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].Price.GreaterThan(view[j].Price)
		})
	default:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].CreatedAt.After(view[j].CreatedAt)
		})
	}

	return view
}

// Discounted keeps only products with a non-zero discount. Applied before
// View for the discount page.
func Discounted(products []models.Product) []models.Product {
	discounted := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.HasDiscount() {
			discounted = append(discounted, p)
		}
	}
	return discounted
}

// CategoryGroup is one category and its member products in view order.
type CategoryGroup struct {
	Category string
	Products []models.Product
}

// GroupByCategory partitions an already filtered and sorted view into
// groups keyed by category label. Groups appear in first-seen order and
// each keeps the view's order within it.
func GroupByCategory(view []models.Product) []CategoryGroup {
	index := make(map[string]int, len(view))
	var groups []CategoryGroup

	for _, p := range view {
		i, ok := index[p.Category]
		if !ok {
			i = len(groups)
			index[p.Category] = i
			groups = append(groups, CategoryGroup{Category: p.Category})
		}
		groups[i].Products = append(groups[i].Products, p)
	}

	return groups
}
