package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nexusmart/storefront-gateway/api/middleware"
	"github.com/nexusmart/storefront-gateway/api/responses"
	"github.com/nexusmart/storefront-gateway/api/validators"
	"github.com/nexusmart/storefront-gateway/internal/cart"
	"github.com/nexusmart/storefront-gateway/internal/session"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/logger"
)

// CartService is the reconciled cart the storefront mutates.
type CartService interface {
	Load(ctx context.Context, sess session.Session) (cart.View, error)
	AddItem(ctx context.Context, sess session.Session, inventoryID string, qty int) (cart.View, error)
	RemoveItem(ctx context.Context, sess session.Session, cartItemID string) (cart.View, error)
	UpdateQuantity(ctx context.Context, sess session.Session, cartItemID string, newQty int) (cart.View, error)
}

type cartAddRequest struct {
	InventoryID string `json:"inventoryId" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// CartGet returns the reconciled cart for the session's customer.
func CartGet(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := cartSession(svc, logg, w, r)
		if !ok {
			return
		}
		view, err := svc.Load(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartAddItem adds one catalog listing to the cart. Quantity is checked
// against the cached listing before any network call.
func CartAddItem(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := cartSession(svc, logg, w, r)
		if !ok {
			return
		}
		var req cartAddRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.AddItem(r.Context(), sess, req.InventoryID, req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logg.Info(r.Context(), "cart item added")
		responses.WriteSuccess(w, view)
	}
}

// CartRemoveItem deletes a cart line by its cart item id.
func CartRemoveItem(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := cartSession(svc, logg, w, r)
		if !ok {
			return
		}
		cartItemID := chi.URLParam(r, "cartItemId")
		if cartItemID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required"))
			return
		}
		view, err := svc.RemoveItem(r.Context(), sess, cartItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logg.Info(r.Context(), "cart item removed")
		responses.WriteSuccess(w, view)
	}
}

// CartUpdateQuantity sets a line's quantity. The local view updates
// even when the cart service write fails; the next load reconverges.
func CartUpdateQuantity(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := cartSession(svc, logg, w, r)
		if !ok {
			return
		}
		cartItemID := chi.URLParam(r, "cartItemId")
		if cartItemID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required"))
			return
		}
		var req cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.UpdateQuantity(r.Context(), sess, cartItemID, req.Quantity)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeFetchFailed {
				// The optimistic local update already landed; report
				// the view with the sync failure noted in the log.
				logg.Error(r.Context(), "cart quantity sync failed", err)
				responses.WriteSuccess(w, view)
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func cartSession(svc CartService, logg *logger.Logger, w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
		return session.Session{}, false
	}
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session required"))
		return session.Session{}, false
	}
	return sess, true
}
