package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nexusmart/storefront-gateway/internal/cart"
	"github.com/nexusmart/storefront-gateway/internal/catalog"
	"github.com/nexusmart/storefront-gateway/internal/orders"
	"github.com/nexusmart/storefront-gateway/internal/session"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/upstream"
)

type stubPlacer struct {
	order   orders.Order
	err     error
	calls   int
	lastReq orders.OrderRequest
}

func (s *stubPlacer) Place(ctx context.Context, token string, req orders.OrderRequest) (orders.Order, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return orders.Order{}, s.err
	}
	return s.order, nil
}

func cartItems() []cart.Item {
	return []cart.Item{
		{
			Product:          catalog.Product{InventoryID: "inv-1", ProductName: "Keyboard", Price: decimal.RequireFromString("40.50")},
			CartItemID:       "line-1",
			SelectedQuantity: 2,
		},
		{
			Product:          catalog.Product{InventoryID: "inv-2", ProductName: "Mouse", Price: decimal.RequireFromString("15.10")},
			CartItemID:       "line-2",
			SelectedQuantity: 1,
		},
	}
}

func checkoutSession() session.Session {
	return session.Session{Token: "tok", CustomerRef: "cust-1"}
}

func newService(t *testing.T, placer *stubPlacer) *Service {
	t.Helper()
	svc, err := NewService(placer)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestSubmitTotalsWithDecimalArithmetic(t *testing.T) {
	placer := &stubPlacer{order: orders.Order{OrderID: "ord-1"}}
	svc := newService(t, placer)

	order, err := svc.Submit(context.Background(), checkoutSession(), cartItems(), "CARD", "1 Main St")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if order.OrderID != "ord-1" {
		t.Fatalf("unexpected order %+v", order)
	}
	// 2*40.50 + 1*15.10 computed exactly, no float drift.
	if placer.lastReq.TotalAmount.String() != "96.1" {
		t.Fatalf("total = %s, want 96.1", placer.lastReq.TotalAmount)
	}
	if placer.lastReq.CustomerID != "cust-1" || len(placer.lastReq.Items) != 2 {
		t.Fatalf("unexpected request %+v", placer.lastReq)
	}
}

func TestSubmitValidatesBeforeNetwork(t *testing.T) {
	cases := []struct {
		name    string
		sess    session.Session
		items   []cart.Item
		mode    string
		address string
	}{
		{"empty address", checkoutSession(), cartItems(), "CARD", "   "},
		{"no items", checkoutSession(), nil, "CARD", "1 Main St"},
		{"missing customer ref", session.Session{Token: "tok"}, cartItems(), "CARD", "1 Main St"},
		{"bad payment mode", checkoutSession(), cartItems(), "BARTER", "1 Main St"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			placer := &stubPlacer{}
			svc := newService(t, placer)
			if _, err := svc.Submit(context.Background(), tc.sess, tc.items, tc.mode, tc.address); err == nil {
				t.Fatal("expected validation error")
			}
			if placer.calls != 0 {
				t.Fatal("rejected submit must not reach the order service")
			}
		})
	}
}

func TestSubmitNormalizesLegacyPaymentModes(t *testing.T) {
	placer := &stubPlacer{}
	svc := newService(t, placer)

	if _, err := svc.Submit(context.Background(), checkoutSession(), cartItems(), "CREDIT_CARD", "1 Main St"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if placer.lastReq.PaymentMode != "CARD" {
		t.Fatalf("expected legacy mode normalized to CARD, got %s", placer.lastReq.PaymentMode)
	}
}

func TestSubmitSurfacesServiceMessage(t *testing.T) {
	statusErr := &upstream.StatusError{Service: "order", Operation: "create_order", StatusCode: 422, Message: "insufficient stock for Keyboard"}
	placer := &stubPlacer{err: pkgerrors.Wrap(pkgerrors.CodeFetchFailed, statusErr, "order create_order failed")}
	svc := newService(t, placer)

	_, err := svc.Submit(context.Background(), checkoutSession(), cartItems(), "UPI", "1 Main St")
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeOrderRejected {
		t.Fatalf("expected ORDER_REJECTED, got %v", err)
	}
	if domainErr.Message() != "insufficient stock for Keyboard" {
		t.Fatalf("expected the service's own message, got %q", domainErr.Message())
	}
}

func TestSubmitGenericFailureStaysFetchError(t *testing.T) {
	placer := &stubPlacer{err: pkgerrors.Wrap(pkgerrors.CodeFetchFailed, errors.New("connection refused"), "order create_order: request failed")}
	svc := newService(t, placer)

	_, err := svc.Submit(context.Background(), checkoutSession(), cartItems(), "COD", "1 Main St")
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeFetchFailed {
		t.Fatalf("expected FETCH_FAILED passthrough, got %v", err)
	}
}
