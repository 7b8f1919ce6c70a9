package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nexusmart/storefront-gateway/api/middleware"
	"github.com/nexusmart/storefront-gateway/api/responses"
	"github.com/nexusmart/storefront-gateway/internal/orders"
	"github.com/nexusmart/storefront-gateway/internal/shipments"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/logger"
)

// ShipmentReader serves shipment tracking for a customer's orders.
type ShipmentReader interface {
	GetByOrder(ctx context.Context, token, orderID string) (shipments.Shipment, error)
}

// OrderOwnership verifies the order behind a shipment belongs to the
// session customer before any tracking data is shown.
type OrderOwnership interface {
	Get(ctx context.Context, token, orderID string) (orders.Order, error)
}

// ShipmentByOrder returns the shipment tracking an order.
func ShipmentByOrder(svc ShipmentReader, ownership OrderOwnership, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || ownership == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipment service unavailable"))
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

		order, err := ownership.Get(r.Context(), sess.Token, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if order.CustomerID != "" && order.CustomerID != sess.CustomerRef {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}

		shipment, err := svc.GetByOrder(r.Context(), sess.Token, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shipment)
	}
}
