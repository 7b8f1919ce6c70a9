package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/nexusmart/storefront-gateway/pkg/upstream"
)

// AddItemInput is the cart service's add-item body. ProductID carries
// the catalog inventoryId; the cart service stores it verbatim. Price
// goes over the wire as a bare number, hence json.Number.
type AddItemInput struct {
	ProductID   string      `json:"productId"`
	ProductName string      `json:"productName"`
	Quantity    int         `json:"quantity"`
	Price       json.Number `json:"price"`
}

type cartPayload struct {
	Data struct {
		OrderItemList []Line `json:"orderItemList"`
	} `json:"data"`
}

// Client talks to the cart service.
type Client struct {
	base *upstream.Client
}

// NewClient wraps the shared upstream machinery for cart calls.
func NewClient(base *upstream.Client) (*Client, error) {
	if base == nil {
		return nil, fmt.Errorf("cart upstream client required")
	}
	return &Client{base: base}, nil
}

// GetCart returns the customer's raw cart lines.
func (c *Client) GetCart(ctx context.Context, token, customerRef string) ([]Line, error) {
	var out cartPayload
	err := c.base.Do(ctx, upstream.Request{
		Operation: "get_cart",
		Method:    http.MethodGet,
		Path:      "/cart/get-cart/" + customerRef,
		Token:     token,
		Out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return out.Data.OrderItemList, nil
}

// AddItem adds a line and returns the resulting cart in full.
func (c *Client) AddItem(ctx context.Context, token, customerRef string, input AddItemInput) ([]Line, error) {
	var out cartPayload
	err := c.base.Do(ctx, upstream.Request{
		Operation: "add_item",
		Method:    http.MethodPut,
		Path:      "/cart/add-item/" + customerRef,
		Token:     token,
		Body:      input,
		Out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return out.Data.OrderItemList, nil
}

// RemoveItem deletes a line by its cart line id and returns the
// resulting cart in full.
func (c *Client) RemoveItem(ctx context.Context, token, customerRef, cartItemID string) ([]Line, error) {
	var out cartPayload
	err := c.base.Do(ctx, upstream.Request{
		Operation: "remove_item",
		Method:    http.MethodPut,
		Path:      "/cart/remove-item/" + customerRef + "/" + cartItemID,
		Token:     token,
		Out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return out.Data.OrderItemList, nil
}

// UpdateItem changes a line's quantity. The service's response body is
// deliberately not consumed; callers keep their own view current.
func (c *Client) UpdateItem(ctx context.Context, token, customerRef, cartItemID string, quantity int) error {
	return c.base.Do(ctx, upstream.Request{
		Operation: "update_item",
		Method:    http.MethodPut,
		Path:      "/cart/update-item/" + customerRef + "/" + cartItemID + "/" + strconv.Itoa(quantity),
		Token:     token,
	})
}

// Ping reports cart service reachability for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	return c.base.Ping(ctx)
}
