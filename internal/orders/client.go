package orders

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nexusmart/storefront-gateway/pkg/upstream"
)

// Client talks to the order service.
type Client struct {
	base *upstream.Client
}

// NewClient wraps the shared upstream machinery for order calls.
func NewClient(base *upstream.Client) (*Client, error) {
	if base == nil {
		return nil, fmt.Errorf("order upstream client required")
	}
	return &Client{base: base}, nil
}

// Place submits a new order.
func (c *Client) Place(ctx context.Context, token string, req OrderRequest) (Order, error) {
	var out upstream.Envelope[Order]
	err := c.base.Do(ctx, upstream.Request{
		Operation: "create_order",
		Method:    http.MethodPost,
		Path:      "/api/orders/createOrder",
		Token:     token,
		Body:      req,
		Out:       &out,
	})
	if err != nil {
		return Order{}, err
	}
	return out.Data, nil
}

// ListByCustomer returns the customer's order history.
func (c *Client) ListByCustomer(ctx context.Context, token, customerRef string) ([]Order, error) {
	var out upstream.Envelope[[]Order]
	err := c.base.Do(ctx, upstream.Request{
		Operation: "list_customer_orders",
		Method:    http.MethodGet,
		Path:      "/api/orders/customer/" + customerRef,
		Token:     token,
		Out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Get returns one order by id.
func (c *Client) Get(ctx context.Context, token, orderID string) (Order, error) {
	var out upstream.Envelope[Order]
	err := c.base.Do(ctx, upstream.Request{
		Operation: "get_order",
		Method:    http.MethodGet,
		Path:      "/api/orders/" + orderID,
		Token:     token,
		Out:       &out,
	})
	if err != nil {
		return Order{}, err
	}
	return out.Data, nil
}

// Cancel cancels an order by id.
func (c *Client) Cancel(ctx context.Context, token, orderID string) error {
	return c.base.Do(ctx, upstream.Request{
		Operation: "cancel_order",
		Method:    http.MethodPut,
		Path:      "/api/orders/" + orderID + "/cancel",
		Token:     token,
	})
}

// ListAll returns every order; the admin surface only.
func (c *Client) ListAll(ctx context.Context, token string) ([]Order, error) {
	var out upstream.Envelope[[]Order]
	err := c.base.Do(ctx, upstream.Request{
		Operation: "list_all_orders",
		Method:    http.MethodGet,
		Path:      "/api/orders",
		Token:     token,
		Out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Ping reports order service reachability for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	return c.base.Ping(ctx)
}
