package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry as served by the backend. Products are never
// mutated locally; the whole set is replaced on refetch.
type Product struct {
	ID         string          `json:"_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Discount   decimal.Decimal `json:"discount"`
	Category   string          `json:"category"`
	CreatedAt  time.Time       `json:"createdAt"`
	Image      string          `json:"image,omitempty"`
	BgColor    string          `json:"bgcolor,omitempty"`
	PanelColor string          `json:"panelcolor,omitempty"`
	TextColor  string          `json:"textcolor,omitempty"`
}

// HasDiscount reports whether the product carries a non-zero discount.
func (p Product) HasDiscount() bool {
	return !p.Discount.IsZero()
}

// OriginalPrice is the pre-discount price, price + discount. Display-only;
// the price actually charged is always Price.
func (p Product) OriginalPrice() decimal.Decimal {
	return p.Price.Add(p.Discount)
}

// CartItem is one cart line with the backend's add-time snapshot of
// name/price/image. Quantity is always >= 1; the server removes items
// instead of persisting them at zero.
type CartItem struct {
	ProductID string          `json:"_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

// Subtotal is price times quantity for this line.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is a server-reported snapshot. Total comes from the backend's
// response, never recomputed locally.
type Cart struct {
	Items []CartItem      `json:"cart"`
	Total decimal.Decimal `json:"cartTotal"`
}

// Empty reports whether the cart has no items.
func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

// User is the profile held by the authentication collaborator. The client
// only reads it.
type User struct {
	ID       string `json:"_id"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Contact  string `json:"contact,omitempty"`
}

// Order is a submitted order as returned by the order-history endpoint.
type Order struct {
	ID        string          `json:"_id"`
	Status    string          `json:"order_status"`
	Total     decimal.Decimal `json:"totalPrice"`
	OrderDate time.Time       `json:"orderDate"`
	Items     []OrderItem     `json:"items"`
}

// OrderItem is one order line with the backend's nested product snapshot.
type OrderItem struct {
	Quantity int                  `json:"quantity"`
	Product  OrderProductSnapshot `json:"product"`
}

// OrderProductSnapshot is the product state captured at order time.
type OrderProductSnapshot struct {
	ID    string          `json:"_id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
}

const (
	OrderStatusPending   = "Pending"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)
