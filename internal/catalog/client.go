package catalog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nexusmart/storefront-gateway/pkg/upstream"
)

// Client talks to the inventory service.
type Client struct {
	base *upstream.Client
}

// NewClient wraps the shared upstream machinery for inventory calls.
func NewClient(base *upstream.Client) (*Client, error) {
	if base == nil {
		return nil, fmt.Errorf("inventory upstream client required")
	}
	return &Client{base: base}, nil
}

// FetchInventory returns the full listing set.
func (c *Client) FetchInventory(ctx context.Context, token string) ([]Product, error) {
	var out struct {
		Data []Product `json:"data"`
	}
	err := c.base.Do(ctx, upstream.Request{
		Operation: "fetch_inventory",
		Method:    http.MethodGet,
		Path:      "/api/inventory",
		Token:     token,
		Out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateProduct adds a listing. Callers refresh the catalog afterwards;
// the service's response body is not relied on.
func (c *Client) CreateProduct(ctx context.Context, token string, input ProductInput) error {
	return c.base.Do(ctx, upstream.Request{
		Operation: "create_product",
		Method:    http.MethodPost,
		Path:      "/api/inventory",
		Token:     token,
		Body:      input,
	})
}

// UpdateProduct rewrites the listing identified by inventoryID.
func (c *Client) UpdateProduct(ctx context.Context, token, inventoryID string, input ProductInput) error {
	return c.base.Do(ctx, upstream.Request{
		Operation: "update_product",
		Method:    http.MethodPut,
		Path:      "/api/inventory/" + inventoryID,
		Token:     token,
		Body:      input,
	})
}

// DeleteProduct removes the listing identified by inventoryID.
func (c *Client) DeleteProduct(ctx context.Context, token, inventoryID string) error {
	return c.base.Do(ctx, upstream.Request{
		Operation: "delete_product",
		Method:    http.MethodDelete,
		Path:      "/api/inventory/" + inventoryID,
		Token:     token,
	})
}

// Ping reports inventory service reachability for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	return c.base.Ping(ctx)
}
