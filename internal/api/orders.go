package api

import (
	"context"
	"net/http"

	"github.com/safar/go-storefront-client/internal/models"
)

// PlaceOrderRequest carries customer and delivery metadata only. Line items
// are never re-sent; the backend uses its own stored cart as the source of
// truth for what is being ordered.
type PlaceOrderRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Location      string `json:"location"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"paymentMethod"`
}

// PlaceOrder submits the order. The idempotency key identifies one checkout
// attempt so that a manual retry after a timeout cannot create a duplicate
// order on a backend that deduplicates on the key.
func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest, idempotencyKey string) error {
	header := http.Header{}
	header.Set("Idempotency-Key", idempotencyKey)
	return c.do(ctx, http.MethodPost, "/order/placeorder", req, nil, header)
}

// Orders returns the signed-in user's order history with nested product
// snapshots, in the order the backend serves it.
func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.getWithRetry(ctx, "/user/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
