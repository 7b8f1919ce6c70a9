package shipments

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nexusmart/storefront-gateway/pkg/enums"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/logger"
	"github.com/nexusmart/storefront-gateway/pkg/upstream"
)

func newShipmentClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	base, err := upstream.New("shipment", baseURL, 2*time.Second, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}), nil)
	if err != nil {
		t.Fatalf("upstream.New: %v", err)
	}
	client, err := NewClient(base)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestShipmentEndpoints(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Method+" "+r.URL.RequestURI())
		switch {
		case r.URL.Path == "/api/shipment/fetchAllShipment":
			json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{{"shipmentId": "shp-1"}, {"shipmentId": "shp-2"}}})
		default:
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"shipmentId": "shp-1", "orderId": "ord-1", "shipmentStatus": "PENDING"}})
		}
	}))
	defer server.Close()

	client := newShipmentClient(t, server.URL)
	ctx := context.Background()

	all, err := client.List(ctx, "tok")
	if err != nil || len(all) != 2 {
		t.Fatalf("List = %v, %v", all, err)
	}
	if _, err := client.Get(ctx, "tok", "shp-1"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := client.GetByOrder(ctx, "tok", "ord-1"); err != nil {
		t.Fatalf("GetByOrder: %v", err)
	}
	if _, err := client.Create(ctx, "tok", CreateInput{OrderID: "ord-1", Address: "1 Main St"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := client.UpdateStatus(ctx, "tok", "shp-1", enums.ShipmentStatusShipped); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := client.CancelByOrder(ctx, "tok", "ord-1"); err != nil {
		t.Fatalf("CancelByOrder: %v", err)
	}
	if err := client.Delete(ctx, "tok", "shp-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	want := []string{
		"GET /api/shipment/fetchAllShipment",
		"GET /api/shipment/fetchShipmentDetails/shp-1",
		"GET /api/shipment/fetchShipmentDetails/order/ord-1",
		"POST /api/shipment/addShipmentDetails",
		"PUT /api/shipment/updateShippingStatus/shp-1?shipmentStatus=SHIPPED",
		"PUT /api/shipment/cancelShipment/ord-1",
		"DELETE /api/shipment/deleteShipping/shp-1",
	}
	if len(requests) != len(want) {
		t.Fatalf("saw %d requests, want %d", len(requests), len(want))
	}
	for i, w := range want {
		if requests[i] != w {
			t.Fatalf("request %d = %q, want %q", i, requests[i], w)
		}
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid status must not reach the service")
	}))
	defer server.Close()

	client := newShipmentClient(t, server.URL)
	_, err := client.UpdateStatus(context.Background(), "tok", "shp-1", enums.ShipmentStatus("LOST"))
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
