package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/safar/go-storefront-client/internal/models"
)

// Cart fetches the server's authoritative cart snapshot for the signed-in
// user. Quantity and total always come from this response.
func (c *Client) Cart(ctx context.Context) (models.Cart, error) {
	var cart models.Cart
	if err := c.getWithRetry(ctx, "/user/cart", &cart); err != nil {
		return models.Cart{}, err
	}

	if err := validateCart(cart); err != nil {
		return models.Cart{}, &RemoteError{Op: "GET /user/cart", Status: http.StatusOK, Err: err}
	}

	return cart, nil
}

func validateCart(cart models.Cart) error {
	if cart.Total.IsNegative() {
		return errors.New("negative cart total")
	}
	for _, item := range cart.Items {
		if item.ProductID == "" {
			return errors.New("cart item without product id")
		}
		if item.Quantity < 1 {
			return fmt.Errorf("cart item %s: quantity %d below 1", item.ProductID, item.Quantity)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("cart item %s: negative price", item.ProductID)
		}
	}
	return nil
}

// AddToCart adds one unit of the product to the signed-in user's cart.
// The server increments quantity; callers refetch the cart for the result.
func (c *Client) AddToCart(ctx context.Context, productID string) error {
	return c.post(ctx, "/user/addtocart/"+productID, struct{}{}, nil)
}

type removeFromCartRequest struct {
	RemoveCompletely bool `json:"removeCompletely,omitempty"`
}

// RemoveFromCart removes one unit of the product, or the whole line when
// removeCompletely is set. A decrement at quantity 1 is the server's to
// interpret as removal; the client does not special-case zero.
func (c *Client) RemoveFromCart(ctx context.Context, productID string, removeCompletely bool) error {
	return c.post(ctx, "/user/removefromcart/"+productID, removeFromCartRequest{RemoveCompletely: removeCompletely}, nil)
}
