package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nexusmart/storefront-gateway/pkg/logger"
	"github.com/nexusmart/storefront-gateway/pkg/upstream"
)

func newInventoryClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	base, err := upstream.New("inventory", baseURL, 2*time.Second, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}), nil)
	if err != nil {
		t.Fatalf("upstream.New: %v", err)
	}
	client, err := NewClient(base)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestFetchInventoryDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/inventory" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
			{"inventoryId": "inv-1", "productId": "prod-1", "productName": "Keyboard", "quantityAvailable": 5, "price": 40.5},
		}})
	}))
	defer server.Close()

	client := newInventoryClient(t, server.URL)
	products, err := client.FetchInventory(context.Background(), "tok")
	if err != nil {
		t.Fatalf("FetchInventory: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	if products[0].InventoryID != "inv-1" {
		t.Fatalf("unexpected product %+v", products[0])
	}
	if products[0].Price.String() != "40.5" {
		t.Fatalf("price decoded as %s", products[0].Price)
	}
}

func TestAdminMutations(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newInventoryClient(t, server.URL)
	ctx := context.Background()
	input := ProductInput{ProductName: "Keyboard", QuantityAvailable: 3}

	if err := client.CreateProduct(ctx, "tok", input); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if err := client.UpdateProduct(ctx, "tok", "inv-1", input); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if err := client.DeleteProduct(ctx, "tok", "inv-1"); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}

	want := []string{
		"POST /api/inventory",
		"PUT /api/inventory/inv-1",
		"DELETE /api/inventory/inv-1",
	}
	for i, w := range want {
		if seen[i] != w {
			t.Fatalf("request %d = %q, want %q", i, seen[i], w)
		}
	}
}
