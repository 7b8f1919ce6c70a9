package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nexusmart/storefront-gateway/internal/catalog"
	"github.com/nexusmart/storefront-gateway/internal/session"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
)

type stubCartService struct {
	lines      []Line
	err        error
	updateErr  error
	addCalls   int
	getCalls   int
	lastAdd    AddItemInput
	lastUpdate int
}

func (s *stubCartService) GetCart(ctx context.Context, token, ref string) ([]Line, error) {
	s.getCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.lines, nil
}

func (s *stubCartService) AddItem(ctx context.Context, token, ref string, input AddItemInput) ([]Line, error) {
	s.addCalls++
	s.lastAdd = input
	if s.err != nil {
		return nil, s.err
	}
	return s.lines, nil
}

func (s *stubCartService) RemoveItem(ctx context.Context, token, ref, cartItemID string) ([]Line, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.lines, nil
}

func (s *stubCartService) UpdateItem(ctx context.Context, token, ref, cartItemID string, qty int) error {
	s.lastUpdate = qty
	return s.updateErr
}

type stubCatalog struct {
	products map[string]catalog.Product
}

func (s *stubCatalog) Lookup(id string) (catalog.Product, bool) {
	p, ok := s.products[id]
	return p, ok
}

func twoProductCatalog() *stubCatalog {
	return &stubCatalog{products: map[string]catalog.Product{
		"inv-1": {InventoryID: "inv-1", ProductID: "prod-1", ProductName: "Keyboard", QuantityAvailable: 5, Price: decimal.NewFromInt(40)},
		"inv-2": {InventoryID: "inv-2", ProductID: "prod-2", ProductName: "Mouse", QuantityAvailable: 2, Price: decimal.NewFromInt(15)},
	}}
}

func custSession() session.Session {
	return session.Session{Token: "tok", CustomerRef: "cust-1"}
}

func newTestReconciler(t *testing.T, svc *stubCartService, cat Lookuper) *Reconciler {
	t.Helper()
	r, err := NewReconciler(svc, cat)
	if err != nil {
		t.Fatalf("NewReconciler: %v", err)
	}
	return r
}

func TestLoadJoinsAgainstCatalog(t *testing.T) {
	svc := &stubCartService{lines: []Line{
		{ID: "line-1", ProductID: "inv-1", Quantity: 2},
		{ID: "line-2", ProductID: "inv-2", Quantity: 1},
	}}
	r := newTestReconciler(t, svc, twoProductCatalog())

	view, err := r.Load(context.Background(), custSession())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !view.Available {
		t.Fatal("successful load must set available")
	}
	if len(view.Items) != 2 {
		t.Fatalf("expected 2 joined items, got %d", len(view.Items))
	}
	if view.Items[0].CartItemID != "line-1" || view.Items[0].ProductName != "Keyboard" {
		t.Fatalf("unexpected first item %+v", view.Items[0])
	}
	if view.Items[0].SelectedQuantity != 2 {
		t.Fatalf("expected selected quantity 2, got %d", view.Items[0].SelectedQuantity)
	}
}

func TestLoadDropsOrphanLinesSilently(t *testing.T) {
	svc := &stubCartService{lines: []Line{
		{ID: "line-1", ProductID: "inv-1", Quantity: 1},
		{ID: "line-x", ProductID: "inv-gone", Quantity: 3},
	}}
	r := newTestReconciler(t, svc, twoProductCatalog())

	view, err := r.Load(context.Background(), custSession())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("orphan line must be dropped, got %d items", len(view.Items))
	}
	if view.Items[0].CartItemID != "line-1" {
		t.Fatalf("wrong surviving item %+v", view.Items[0])
	}
}

func TestJoinNeverMatchesProductID(t *testing.T) {
	// prod-1 is a real productId but not an inventoryId; the join key is
	// inventoryId equality only.
	svc := &stubCartService{lines: []Line{{ID: "line-1", ProductID: "prod-1", Quantity: 1}}}
	r := newTestReconciler(t, svc, twoProductCatalog())

	view, err := r.Load(context.Background(), custSession())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("productId must not join, got %d items", len(view.Items))
	}
	if !view.Available {
		t.Fatal("a successful fetch of only orphans is still available")
	}
}

func TestLoadEmptyCartIsAvailable(t *testing.T) {
	svc := &stubCartService{lines: []Line{}}
	r := newTestReconciler(t, svc, twoProductCatalog())

	view, err := r.Load(context.Background(), custSession())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !view.Available {
		t.Fatal("empty cart from a successful fetch must be available")
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(view.Items))
	}
}

func TestLoadFailureMarksUnavailable(t *testing.T) {
	svc := &stubCartService{lines: []Line{{ID: "line-1", ProductID: "inv-1", Quantity: 1}}}
	r := newTestReconciler(t, svc, twoProductCatalog())

	if _, err := r.Load(context.Background(), custSession()); err != nil {
		t.Fatalf("seed load: %v", err)
	}

	svc.err = errors.New("status 500")
	view, err := r.Load(context.Background(), custSession())
	if err == nil {
		t.Fatal("expected load error")
	}
	if view.Available {
		t.Fatal("failed fetch must clear the available flag")
	}
}

func TestAddItemRederivesFromResponse(t *testing.T) {
	svc := &stubCartService{lines: []Line{{ID: "line-9", ProductID: "inv-1", Quantity: 3}}}
	r := newTestReconciler(t, svc, twoProductCatalog())

	view, err := r.AddItem(context.Background(), custSession(), "inv-1", 3)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if svc.lastAdd.ProductID != "inv-1" || svc.lastAdd.Quantity != 3 {
		t.Fatalf("unexpected wire payload %+v", svc.lastAdd)
	}
	if svc.lastAdd.Price != "40" {
		t.Fatalf("price must come from the catalog listing, got %s", svc.lastAdd.Price)
	}
	if len(view.Items) != 1 || view.Items[0].SelectedQuantity != 3 {
		t.Fatalf("view not derived from response: %+v", view.Items)
	}
}

func TestAddItemBoundaryValidation(t *testing.T) {
	svc := &stubCartService{}
	r := newTestReconciler(t, svc, twoProductCatalog())
	sess := custSession()

	_, err := r.AddItem(context.Background(), sess, "inv-1", 0)
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("qty 0: expected VALIDATION_ERROR, got %v", err)
	}

	_, err = r.AddItem(context.Background(), sess, "inv-2", 3)
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("qty above stock: expected VALIDATION_ERROR, got %v", err)
	}

	_, err = r.AddItem(context.Background(), sess, "inv-gone", 1)
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unknown listing: expected NOT_FOUND, got %v", err)
	}

	if svc.addCalls != 0 {
		t.Fatal("rejected adds must not reach the cart service")
	}
}

func TestRemoveToEmptyStaysAvailable(t *testing.T) {
	svc := &stubCartService{lines: []Line{{ID: "line-1", ProductID: "inv-1", Quantity: 1}}}
	r := newTestReconciler(t, svc, twoProductCatalog())
	sess := custSession()

	if _, err := r.Load(context.Background(), sess); err != nil {
		t.Fatalf("seed load: %v", err)
	}

	svc.lines = []Line{}
	view, err := r.RemoveItem(context.Background(), sess, "line-1")
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(view.Items))
	}
	if !view.Available {
		t.Fatal("remove to empty is an empty cart, not an unavailable one")
	}
}

func TestUpdateQuantityOptimistic(t *testing.T) {
	svc := &stubCartService{lines: []Line{{ID: "line-1", ProductID: "inv-1", Quantity: 1}}}
	r := newTestReconciler(t, svc, twoProductCatalog())
	sess := custSession()

	if _, err := r.Load(context.Background(), sess); err != nil {
		t.Fatalf("seed load: %v", err)
	}

	view, err := r.UpdateQuantity(context.Background(), sess, "line-1", 4)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if view.Items[0].SelectedQuantity != 4 {
		t.Fatalf("expected quantity 4, got %d", view.Items[0].SelectedQuantity)
	}
	if svc.lastUpdate != 4 {
		t.Fatalf("service saw quantity %d", svc.lastUpdate)
	}
}

func TestUpdateQuantityOptimisticEvenOnRemoteFailure(t *testing.T) {
	svc := &stubCartService{lines: []Line{{ID: "line-1", ProductID: "inv-1", Quantity: 1}}}
	r := newTestReconciler(t, svc, twoProductCatalog())
	sess := custSession()

	if _, err := r.Load(context.Background(), sess); err != nil {
		t.Fatalf("seed load: %v", err)
	}

	svc.updateErr = errors.New("status 500")
	view, err := r.UpdateQuantity(context.Background(), sess, "line-1", 3)
	if err == nil {
		t.Fatal("expected remote error to be reported")
	}
	if view.Items[0].SelectedQuantity != 3 {
		t.Fatal("local quantity must update regardless of remote outcome")
	}

	after, loadErr := r.Load(context.Background(), sess)
	if loadErr != nil {
		t.Fatalf("reload: %v", loadErr)
	}
	// The next load re-derives from the service, which still holds 1.
	if after.Items[0].SelectedQuantity != 1 {
		t.Fatalf("reload must reconverge to the service, got %d", after.Items[0].SelectedQuantity)
	}
}

func TestUpdateQuantityBounds(t *testing.T) {
	svc := &stubCartService{lines: []Line{{ID: "line-2", ProductID: "inv-2", Quantity: 1}}}
	r := newTestReconciler(t, svc, twoProductCatalog())
	sess := custSession()

	if _, err := r.Load(context.Background(), sess); err != nil {
		t.Fatalf("seed load: %v", err)
	}

	_, err := r.UpdateQuantity(context.Background(), sess, "line-2", 0)
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("qty 0: expected VALIDATION_ERROR, got %v", err)
	}

	// inv-2 has 2 in stock.
	_, err = r.UpdateQuantity(context.Background(), sess, "line-2", 3)
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("qty above stock: expected VALIDATION_ERROR, got %v", err)
	}

	_, err = r.UpdateQuantity(context.Background(), sess, "line-gone", 1)
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unknown line: expected NOT_FOUND, got %v", err)
	}

	if svc.lastUpdate != 0 {
		t.Fatal("rejected updates must not reach the cart service")
	}
}

func TestSessionRequired(t *testing.T) {
	svc := &stubCartService{}
	r := newTestReconciler(t, svc, twoProductCatalog())

	_, err := r.Load(context.Background(), session.Session{Token: "tok"})
	if domainErr := pkgerrors.As(err); domainErr == nil || domainErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("missing customer ref: expected UNAUTHORIZED, got %v", err)
	}
	if svc.getCalls != 0 {
		t.Fatal("no network call may happen without a session")
	}
}

func TestDistinctCustomersKeepDistinctViews(t *testing.T) {
	svc := &stubCartService{lines: []Line{{ID: "line-1", ProductID: "inv-1", Quantity: 1}}}
	r := newTestReconciler(t, svc, twoProductCatalog())

	if _, err := r.Load(context.Background(), session.Session{Token: "t", CustomerRef: "cust-a"}); err != nil {
		t.Fatalf("load cust-a: %v", err)
	}

	svc.err = errors.New("down")
	view, err := r.Load(context.Background(), session.Session{Token: "t", CustomerRef: "cust-b"})
	if err == nil {
		t.Fatal("expected error for cust-b")
	}
	if view.Available {
		t.Fatal("cust-b must be unavailable")
	}

	svc.err = nil
	viewA, err := r.Load(context.Background(), session.Session{Token: "t", CustomerRef: "cust-a"})
	if err != nil {
		t.Fatalf("reload cust-a: %v", err)
	}
	if !viewA.Available {
		t.Fatal("cust-a availability must be independent of cust-b")
	}
}
