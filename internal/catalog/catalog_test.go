package catalog

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/safar/go-storefront-client/internal/models"
)

func product(id, name, category string, price, discount int64, createdAt time.Time) models.Product {
	return models.Product{
		ID:        id,
		Name:      name,
		Category:  category,
		Price:     decimal.NewFromInt(price),
		Discount:  decimal.NewFromInt(discount),
		CreatedAt: createdAt,
	}
}

func ids(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

var (
	t1 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	t2 = t1.Add(time.Hour)
)

func TestViewNewestDefault(t *testing.T) {
	products := []models.Product{
		product("1", "Leather Bag", "Bags", 100, 20, t1),
		product("2", "Canvas Tote", "Bags", 50, 0, t2),
	}

	view := View(products, DefaultQuery())

	want := []string{"2", "1"}
	if got := ids(view); !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected order %v, got %v", want, got)
	}
}

func TestDiscountedView(t *testing.T) {
	products := []models.Product{
		product("1", "Leather Bag", "Bags", 100, 20, t1),
		product("2", "Canvas Tote", "Bags", 50, 0, t2),
	}

	view := View(Discounted(products), DefaultQuery())

	if len(view) != 1 || view[0].ID != "1" {
		t.Fatalf("Expected only product 1, got %v", ids(view))
	}
	if got := view[0].OriginalPrice(); !got.Equal(decimal.NewFromInt(120)) {
		t.Errorf("Expected original price 120, got %s", got)
	}
	if got := view[0].Price; !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected effective price 100, got %s", got)
	}
}

func TestViewIsPure(t *testing.T) {
	products := []models.Product{
		product("1", "Leather Bag", "Bags", 100, 0, t1),
		product("2", "Canvas Tote", "Bags", 50, 0, t2),
		product("3", "Wallet", "Accessories", 30, 5, t1),
	}
	input := append([]models.Product(nil), products...)

	query := Query{Search: "a", MinPrice: decimal.Zero, MaxPrice: decimal.NewFromInt(200), Sort: SortPriceAsc}

	first := View(products, query)
	second := View(products, query)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected equal output for equal input, got %v and %v", ids(first), ids(second))
	}
	if !reflect.DeepEqual(products, input) {
		t.Errorf("Expected input to be unmodified, got %v", ids(products))
	}
}

func TestPriceSortIsStable(t *testing.T) {
	products := []models.Product{
		product("a", "First", "X", 50, 0, t1),
		product("b", "Second", "X", 50, 0, t2),
		product("c", "Third", "X", 10, 0, t1),
	}

	asc := View(products, Query{MaxPrice: decimal.NewFromInt(100), Sort: SortPriceAsc})
	if got, want := ids(asc), []string{"c", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Ascending: expected %v, got %v", want, got)
	}

	desc := View(products, Query{MaxPrice: decimal.NewFromInt(100), Sort: SortPriceDesc})
	if got, want := ids(desc), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Descending: expected %v, got %v", want, got)
	}
}

func TestFilteringIsConjunctive(t *testing.T) {
	products := []models.Product{
		product("1", "Leather Bag", "Bags", 100, 0, t1),
		product("2", "Leather Belt", "Accessories", 900, 0, t1),
		product("3", "Canvas Tote", "Bags", 100, 0, t1),
	}

	query := Query{
		Search:   "leather",
		MinPrice: decimal.Zero,
		MaxPrice: decimal.NewFromInt(500),
		Sort:     SortNewest,
	}
	view := View(products, query)

	// 2 fails the price predicate, 3 fails the text predicate.
	if got, want := ids(view), []string{"1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	products := []models.Product{
		product("1", "Leather Bag", "Bags", 100, 0, t1),
	}

	view := View(products, Query{Search: "LEATHER", MaxPrice: decimal.NewFromInt(500), Sort: SortNewest})
	if len(view) != 1 {
		t.Fatalf("Expected a case-insensitive match, got %v", ids(view))
	}
}

func TestPriceRangeIsInclusive(t *testing.T) {
	products := []models.Product{
		product("1", "Low", "X", 10, 0, t1),
		product("2", "High", "X", 200, 0, t1),
		product("3", "Out", "X", 201, 0, t1),
	}

	query := Query{MinPrice: decimal.NewFromInt(10), MaxPrice: decimal.NewFromInt(200), Sort: SortPriceAsc}
	view := View(products, query)

	if got, want := ids(view), []string{"1", "2"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
}

func TestGroupByCategoryPreservesOrder(t *testing.T) {
	products := []models.Product{
		product("1", "Bag", "Bags", 40, 0, t2),
		product("2", "Wallet", "Accessories", 20, 0, t1),
		product("3", "Tote", "Bags", 10, 0, t1),
	}

	view := View(products, Query{MaxPrice: decimal.NewFromInt(100), Sort: SortPriceAsc})
	groups := GroupByCategory(view)

	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	// First-seen order of the sorted view: Bags appears first at price 10.
	if groups[0].Category != "Bags" || groups[1].Category != "Accessories" {
		t.Fatalf("Expected [Bags, Accessories], got [%s, %s]", groups[0].Category, groups[1].Category)
	}
	if got, want := ids(groups[0].Products), []string{"3", "1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Bags group: expected %v, got %v", want, got)
	}
}

func TestNormalizeClampsRange(t *testing.T) {
	q := Query{
		MinPrice: decimal.NewFromInt(-10),
		MaxPrice: decimal.NewFromInt(MaxPriceBound + 100),
		Sort:     SortKey("bogus"),
	}.Normalize()

	if !q.MinPrice.Equal(decimal.Zero) {
		t.Errorf("Expected min clamped to 0, got %s", q.MinPrice)
	}
	if !q.MaxPrice.Equal(decimal.NewFromInt(MaxPriceBound)) {
		t.Errorf("Expected max clamped to %d, got %s", MaxPriceBound, q.MaxPrice)
	}
	if q.Sort != SortNewest {
		t.Errorf("Expected fallback to newest, got %s", q.Sort)
	}

	q = Query{MinPrice: decimal.NewFromInt(300), MaxPrice: decimal.NewFromInt(100)}.Normalize()
	if !q.MinPrice.Equal(q.MaxPrice) {
		t.Errorf("Expected min <= max after clamping, got [%s, %s]", q.MinPrice, q.MaxPrice)
	}
}

func TestEmptySearchMatchesAll(t *testing.T) {
	products := []models.Product{
		product("1", "Bag", "Bags", 40, 0, t1),
		product("2", "Wallet", "Accessories", 20, 0, t1),
	}

	view := View(products, DefaultQuery())
	if len(view) != 2 {
		t.Fatalf("Expected all products, got %v", ids(view))
	}
}
