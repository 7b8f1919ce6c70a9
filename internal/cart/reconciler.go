package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nexusmart/storefront-gateway/internal/catalog"
	"github.com/nexusmart/storefront-gateway/internal/session"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
)

// Service is the cart service surface the reconciler consumes.
type Service interface {
	GetCart(ctx context.Context, token, customerRef string) ([]Line, error)
	AddItem(ctx context.Context, token, customerRef string, input AddItemInput) ([]Line, error)
	RemoveItem(ctx context.Context, token, customerRef, cartItemID string) ([]Line, error)
	UpdateItem(ctx context.Context, token, customerRef, cartItemID string, quantity int) error
}

// Lookuper resolves catalog listings by inventoryId.
type Lookuper interface {
	Lookup(inventoryID string) (catalog.Product, bool)
}

type customerState struct {
	mu        sync.Mutex
	items     []Item
	available bool
}

// Reconciler joins raw cart lines against the catalog snapshot and keeps
// one derived view per customer. Mutations against the same customer's
// cart are serialized by a per-customer mutex; calls for distinct
// customers never contend. Across sequential calls the cart service's
// last write wins.
type Reconciler struct {
	client  Service
	catalog Lookuper

	mu     sync.Mutex
	states map[string]*customerState
}

// NewReconciler builds a reconciler over the cart service and catalog.
func NewReconciler(client Service, catalog Lookuper) (*Reconciler, error) {
	if client == nil {
		return nil, fmt.Errorf("cart service client required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog lookuper required")
	}
	return &Reconciler{
		client:  client,
		catalog: catalog,
		states:  map[string]*customerState{},
	}, nil
}

func (r *Reconciler) state(customerRef string) *customerState {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.states[customerRef]
	if !ok {
		st = &customerState{}
		r.states[customerRef] = st
	}
	return st
}

// derive inner-joins cart lines against the catalog index. The join key
// is exact equality of the line's productId with the listing inventoryId;
// lines with no matching listing are dropped without comment, matching
// the contract that the catalog snapshot is the source of display truth.
func (r *Reconciler) derive(lines []Line) []Item {
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		product, ok := r.catalog.Lookup(line.ProductID)
		if !ok {
			continue
		}
		items = append(items, Item{
			Product:          product,
			CartItemID:       line.ID,
			SelectedQuantity: line.Quantity,
		})
	}
	return items
}

func (st *customerState) view() View {
	items := make([]Item, len(st.items))
	copy(items, st.items)
	return View{Items: items, Available: st.available}
}

func (st *customerState) applyLines(r *Reconciler, lines []Line) View {
	st.items = r.derive(lines)
	st.available = true
	return st.view()
}

func (st *customerState) markUnavailable() View {
	st.available = false
	return st.view()
}

// Load fetches the customer's cart and re-derives the view. A failed
// fetch flips the available flag off; a successful fetch of zero lines
// is an empty cart with the flag on. The two are never conflated.
func (r *Reconciler) Load(ctx context.Context, sess session.Session) (View, error) {
	if !sess.Valid() {
		return View{}, errSessionRequired()
	}
	st := r.state(sess.CustomerRef)
	st.mu.Lock()
	defer st.mu.Unlock()

	lines, err := r.client.GetCart(ctx, sess.Token, sess.CustomerRef)
	if err != nil {
		return st.markUnavailable(), err
	}
	return st.applyLines(r, lines), nil
}

// AddItem puts qty units of a listing into the cart and re-derives the
// view from the service's response. Quantity is checked here before any
// network call; the cart service's own checks are not relied on.
func (r *Reconciler) AddItem(ctx context.Context, sess session.Session, inventoryID string, qty int) (View, error) {
	if !sess.Valid() {
		return View{}, errSessionRequired()
	}
	if qty < 1 {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	product, ok := r.catalog.Lookup(inventoryID)
	if !ok {
		return View{}, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found in catalog")
	}
	if qty > product.QuantityAvailable {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds available stock")
	}

	st := r.state(sess.CustomerRef)
	st.mu.Lock()
	defer st.mu.Unlock()

	lines, err := r.client.AddItem(ctx, sess.Token, sess.CustomerRef, AddItemInput{
		ProductID:   product.InventoryID,
		ProductName: product.ProductName,
		Quantity:    qty,
		Price:       json.Number(product.Price.String()),
	})
	if err != nil {
		return st.markUnavailable(), err
	}
	return st.applyLines(r, lines), nil
}

// RemoveItem deletes a line by cartItemId and re-derives the view from
// the service's response.
func (r *Reconciler) RemoveItem(ctx context.Context, sess session.Session, cartItemID string) (View, error) {
	if !sess.Valid() {
		return View{}, errSessionRequired()
	}
	if cartItemID == "" {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "cart item id required")
	}

	st := r.state(sess.CustomerRef)
	st.mu.Lock()
	defer st.mu.Unlock()

	lines, err := r.client.RemoveItem(ctx, sess.Token, sess.CustomerRef, cartItemID)
	if err != nil {
		return st.markUnavailable(), err
	}
	return st.applyLines(r, lines), nil
}

// UpdateQuantity changes a line's quantity. The local view is updated
// optimistically and stays updated whatever the cart service answers;
// the next Load re-derives from the service and reconverges. Bounds are
// enforced here against the joined listing before the update is applied.
func (r *Reconciler) UpdateQuantity(ctx context.Context, sess session.Session, cartItemID string, newQty int) (View, error) {
	if !sess.Valid() {
		return View{}, errSessionRequired()
	}
	if newQty < 1 {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	st := r.state(sess.CustomerRef)
	st.mu.Lock()
	defer st.mu.Unlock()

	idx := -1
	for i, item := range st.items {
		if item.CartItemID == cartItemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return st.view(), pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if newQty > st.items[idx].QuantityAvailable {
		return st.view(), pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds available stock")
	}

	st.items[idx].SelectedQuantity = newQty

	if err := r.client.UpdateItem(ctx, sess.Token, sess.CustomerRef, cartItemID, newQty); err != nil {
		return st.view(), err
	}
	return st.view(), nil
}

func errSessionRequired() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session with customer reference required")
}
