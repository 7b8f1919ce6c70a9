package controllers

import (
	"context"
	"net/http"

	"github.com/nexusmart/storefront-gateway/api/middleware"
	"github.com/nexusmart/storefront-gateway/api/responses"
	"github.com/nexusmart/storefront-gateway/internal/orders"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/logger"
)

// OrderAdmin lists every order across customers.
type OrderAdmin interface {
	ListAll(ctx context.Context, token string) ([]orders.Order, error)
}

// AdminOrdersList returns all orders for the console.
func AdminOrdersList(svc OrderAdmin, logg *logger.Logger) http.HandlerFunc {
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
		list, err := svc.ListAll(r.Context(), sess.Token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderListResponse{Orders: list})
	}
}
