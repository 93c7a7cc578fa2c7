package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/safar/go-storefront-client/internal/models"
)

// Products fetches the full catalog. The result replaces any previously
// held product set wholesale; there is no incremental diffing.
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.getWithRetry(ctx, "/products", &products); err != nil {
		return nil, err
	}

	for _, p := range products {
		if p.ID == "" {
			return nil, &RemoteError{Op: "GET /products", Status: http.StatusOK, Err: fmt.Errorf("product without id")}
		}
		if p.Price.IsNegative() {
			return nil, &RemoteError{Op: "GET /products", Status: http.StatusOK, Err: fmt.Errorf("product %s: negative price", p.ID)}
		}
	}

	return products, nil
}
