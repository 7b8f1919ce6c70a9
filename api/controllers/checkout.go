package controllers

import (
	"context"
	"net/http"

	"github.com/nexusmart/storefront-gateway/api/middleware"
	"github.com/nexusmart/storefront-gateway/api/responses"
	"github.com/nexusmart/storefront-gateway/api/validators"
	"github.com/nexusmart/storefront-gateway/internal/cart"
	"github.com/nexusmart/storefront-gateway/internal/orders"
	"github.com/nexusmart/storefront-gateway/internal/session"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/logger"
)

// CheckoutService submits a reconciled cart to the order service.
type CheckoutService interface {
	Submit(ctx context.Context, sess session.Session, items []cart.Item, paymentMode, address string) (orders.Order, error)
}

// CartLoader provides the server-side reconciled cart; checkout never
// trusts a client-supplied item list.
type CartLoader interface {
	Load(ctx context.Context, sess session.Session) (cart.View, error)
}

type checkoutRequest struct {
	PaymentMode string `json:"paymentMode" validate:"required"`
	Address     string `json:"address" validate:"required,max=500"`
}

// Checkout loads the customer's reconciled cart and hands it off as an
// order. The cart itself is the source of truth for what is purchased.
func Checkout(svc CheckoutService, carts CartLoader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session required"))
			return
		}

		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := carts.Load(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !view.Available {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "cart is unavailable, retry shortly"))
			return
		}

		order, err := svc.Submit(r.Context(), sess, view.Items, req.PaymentMode, validators.SanitizeString(req.Address, 500))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithField(r.Context(), "order_id", order.OrderID)
		logg.Info(ctx, "order placed")
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
