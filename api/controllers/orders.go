package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nexusmart/storefront-gateway/api/middleware"
	"github.com/nexusmart/storefront-gateway/api/responses"
	"github.com/nexusmart/storefront-gateway/internal/orders"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/logger"
)

// OrderReader serves a customer's own orders.
type OrderReader interface {
	ListByCustomer(ctx context.Context, token, customerRef string) ([]orders.Order, error)
	Get(ctx context.Context, token, orderID string) (orders.Order, error)
	Cancel(ctx context.Context, token, orderID string) error
}

type orderListResponse struct {
	Orders []orders.Order `json:"orders"`
}

// OrdersList returns the session customer's order history.
func OrdersList(svc OrderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session required"))
			return
		}
		list, err := svc.ListByCustomer(r.Context(), sess.Token, sess.CustomerRef)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderListResponse{Orders: list})
	}
}

// OrdersGet returns one order. Ownership is enforced here; an order
// belonging to another customer reads as not found.
func OrdersGet(svc OrderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session required"))
			return
		}
		orderID := chi.URLParam(r, "orderId")
		if orderID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
			return
		}
		order, err := svc.Get(r.Context(), sess.Token, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if order.CustomerID != "" && order.CustomerID != sess.CustomerRef {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrdersCancel cancels one of the session customer's orders. The order
// is fetched first so a cancel can never cross customer boundaries.
func OrdersCancel(svc OrderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session required"))
			return
		}
		orderID := chi.URLParam(r, "orderId")
		if orderID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
			return
		}
		order, err := svc.Get(r.Context(), sess.Token, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if order.CustomerID != "" && order.CustomerID != sess.CustomerRef {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		if err := svc.Cancel(r.Context(), sess.Token, orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithField(r.Context(), "order_id", orderID)
		logg.Info(ctx, "order cancelled")
		responses.WriteSuccess(w, map[string]string{"orderId": orderID, "status": "CANCELLED"})
	}
}
