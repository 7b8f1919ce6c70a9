package shipments

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nexusmart/storefront-gateway/pkg/enums"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/upstream"
)

// Shipment is the shipment service's record for one order.
type Shipment struct {
	ShipmentID       string `json:"shipmentId"`
	OrderID          string `json:"orderId"`
	ShipmentDate     string `json:"shipmentDate"`
	EstimatedArrival string `json:"estimatedArrival"`
	ShippedToAddress string `json:"shippedToAddress"`
	ShipmentStatus   string `json:"shipmentStatus"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

// CreateInput is the add-shipment payload.
type CreateInput struct {
	OrderID string `json:"orderId"`
	Address string `json:"address"`
}

// Client talks to the shipment service.
type Client struct {
	base *upstream.Client
}

// NewClient wraps the shared upstream machinery for shipment calls.
func NewClient(base *upstream.Client) (*Client, error) {
	if base == nil {
		return nil, fmt.Errorf("shipment upstream client required")
	}
	return &Client{base: base}, nil
}

// List returns every shipment; the admin surface only.
func (c *Client) List(ctx context.Context, token string) ([]Shipment, error) {
	var out upstream.Envelope[[]Shipment]
	err := c.base.Do(ctx, upstream.Request{
		Operation: "list_shipments",
		Method:    http.MethodGet,
		Path:      "/api/shipment/fetchAllShipment",
		Token:     token,
		Out:       &out,
	})
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Get returns one shipment by its id.
func (c *Client) Get(ctx context.Context, token, shipmentID string) (Shipment, error) {
	var out upstream.Envelope[Shipment]
	err := c.base.Do(ctx, upstream.Request{
		Operation: "get_shipment",
		Method:    http.MethodGet,
		Path:      "/api/shipment/fetchShipmentDetails/" + shipmentID,
		Token:     token,
		Out:       &out,
	})
	if err != nil {
		return Shipment{}, err
	}
	return out.Data, nil
}

// GetByOrder returns the shipment attached to an order.
func (c *Client) GetByOrder(ctx context.Context, token, orderID string) (Shipment, error) {
	var out upstream.Envelope[Shipment]
	err := c.base.Do(ctx, upstream.Request{
		Operation: "get_shipment_by_order",
		Method:    http.MethodGet,
		Path:      "/api/shipment/fetchShipmentDetails/order/" + orderID,
		Token:     token,
		Out:       &out,
	})
	if err != nil {
		return Shipment{}, err
	}
	return out.Data, nil
}

// Create registers a shipment for an order.
func (c *Client) Create(ctx context.Context, token string, input CreateInput) (Shipment, error) {
	var out upstream.Envelope[Shipment]
	err := c.base.Do(ctx, upstream.Request{
		Operation: "add_shipment",
		Method:    http.MethodPost,
		Path:      "/api/shipment/addShipmentDetails",
		Token:     token,
		Body:      input,
		Out:       &out,
	})
	if err != nil {
		return Shipment{}, err
	}
	return out.Data, nil
}

// UpdateStatus moves a shipment to the given status. The status is
// validated here; the service's query-parameter contract silently
// ignores unknown values otherwise.
func (c *Client) UpdateStatus(ctx context.Context, token, shipmentID string, status enums.ShipmentStatus) (Shipment, error) {
	if !status.IsValid() {
		return Shipment{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid shipment status %q", status))
	}
	var out upstream.Envelope[Shipment]
	err := c.base.Do(ctx, upstream.Request{
		Operation: "update_shipment_status",
		Method:    http.MethodPut,
		Path:      "/api/shipment/updateShippingStatus/" + shipmentID,
		Query:     url.Values{"shipmentStatus": []string{string(status)}},
		Token:     token,
		Out:       &out,
	})
	if err != nil {
		return Shipment{}, err
	}
	return out.Data, nil
}

// CancelByOrder cancels the shipment attached to an order.
func (c *Client) CancelByOrder(ctx context.Context, token, orderID string) error {
	return c.base.Do(ctx, upstream.Request{
		Operation: "cancel_shipment",
		Method:    http.MethodPut,
		Path:      "/api/shipment/cancelShipment/" + orderID,
		Token:     token,
	})
}

// Delete removes a shipment record entirely.
func (c *Client) Delete(ctx context.Context, token, shipmentID string) error {
	return c.base.Do(ctx, upstream.Request{
		Operation: "delete_shipment",
		Method:    http.MethodDelete,
		Path:      "/api/shipment/deleteShipping/" + shipmentID,
		Token:     token,
	})
}

// Ping reports shipment service reachability for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	return c.base.Ping(ctx)
}
