package controllers

import (
	"context"
	"net/http"

	"github.com/nexusmart/storefront-gateway/api/middleware"
	"github.com/nexusmart/storefront-gateway/api/responses"
	"github.com/nexusmart/storefront-gateway/api/validators"
	"github.com/nexusmart/storefront-gateway/internal/catalog"
	"github.com/nexusmart/storefront-gateway/internal/session"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/logger"
)

// CatalogCache is the reconciled product listing the storefront reads.
type CatalogCache interface {
	Refresh(ctx context.Context, sess session.Session) ([]catalog.Product, error)
	Snapshot() []catalog.Product
	Len() int
}

type catalogResponse struct {
	Products []catalog.Product `json:"products"`
}

// CatalogList serves the cached listing, fetching it on first touch. A
// warm cache is served as-is; POST /catalog/refresh forces a refetch.
func CatalogList(cache CatalogCache, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cache == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog cache unavailable"))
			return
		}

		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session required"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if cache.Len() > 0 {
			responses.WriteSuccess(w, catalogResponse{Products: capProducts(cache.Snapshot(), limit)})
			return
		}

		products, err := cache.Refresh(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalogResponse{Products: capProducts(products, limit)})
	}
}

// capProducts truncates the listing when a positive limit was asked for.
func capProducts(products []catalog.Product, limit int) []catalog.Product {
	if limit > 0 && len(products) > limit {
		return products[:limit]
	}
	return products
}

// CatalogRefresh forces a refetch from the inventory service.
func CatalogRefresh(cache CatalogCache, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cache == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog cache unavailable"))
			return
		}

		sess, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session required"))
			return
		}

		products, err := cache.Refresh(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logg.Info(r.Context(), "catalog refreshed")
		responses.WriteSuccess(w, catalogResponse{Products: products})
	}
}
