package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/nexusmart/storefront-gateway/api/middleware"
	"github.com/nexusmart/storefront-gateway/api/responses"
	"github.com/nexusmart/storefront-gateway/api/validators"
	"github.com/nexusmart/storefront-gateway/internal/catalog"
	"github.com/nexusmart/storefront-gateway/internal/session"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/logger"
)

// InventoryAdmin mutates listings on the inventory service.
type InventoryAdmin interface {
	CreateProduct(ctx context.Context, token string, input catalog.ProductInput) error
	UpdateProduct(ctx context.Context, token, inventoryID string, input catalog.ProductInput) error
	DeleteProduct(ctx context.Context, token, inventoryID string) error
}

type productRequest struct {
	ProductName       string          `json:"productName" validate:"required,max=200"`
	ProductDesc       string          `json:"productDesc" validate:"max=2000"`
	QuantityAvailable int             `json:"quantityAvailable" validate:"min=0"`
	Price             decimal.Decimal `json:"price" validate:"required"`
}

func (p productRequest) input() catalog.ProductInput {
	return catalog.ProductInput{
		ProductName:       validators.SanitizeString(p.ProductName, 200),
		ProductDesc:       validators.SanitizeString(p.ProductDesc, 2000),
		QuantityAvailable: p.QuantityAvailable,
		Price:             p.Price,
	}
}

// AdminInventoryCreate adds a listing and refreshes the catalog cache.
// The inventory service returns no body on mutations, so the refreshed
// snapshot is the response.
func AdminInventoryCreate(svc InventoryAdmin, cache CatalogCache, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := adminSession(svc, logg, w, r)
		if !ok {
			return
		}
		var req productRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.Price.IsNegative() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative"))
			return
		}
		if err := svc.CreateProduct(r.Context(), sess.Token, req.input()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logg.Info(r.Context(), "listing created")
		writeRefreshedCatalog(cache, sess, logg, w, r, http.StatusCreated)
	}
}

// AdminInventoryUpdate rewrites a listing by inventory id.
func AdminInventoryUpdate(svc InventoryAdmin, cache CatalogCache, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := adminSession(svc, logg, w, r)
		if !ok {
			return
		}
		inventoryID := chi.URLParam(r, "inventoryId")
		if inventoryID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "inventory id is required"))
			return
		}
		var req productRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.Price.IsNegative() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative"))
			return
		}
		if err := svc.UpdateProduct(r.Context(), sess.Token, inventoryID, req.input()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logg.Info(r.Context(), "listing updated")
		writeRefreshedCatalog(cache, sess, logg, w, r, http.StatusOK)
	}
}

// AdminInventoryDelete removes a listing by inventory id.
func AdminInventoryDelete(svc InventoryAdmin, cache CatalogCache, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := adminSession(svc, logg, w, r)
		if !ok {
			return
		}
		inventoryID := chi.URLParam(r, "inventoryId")
		if inventoryID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "inventory id is required"))
			return
		}
		if err := svc.DeleteProduct(r.Context(), sess.Token, inventoryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logg.Info(r.Context(), "listing deleted")
		writeRefreshedCatalog(cache, sess, logg, w, r, http.StatusOK)
	}
}

func adminSession(svc InventoryAdmin, logg *logger.Logger, w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
		return session.Session{}, false
	}
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session required"))
		return session.Session{}, false
	}
	return sess, true
}

// writeRefreshedCatalog refetches the catalog after a mutation. The
// mutation already landed, so a refresh failure degrades to the stale
// snapshot instead of failing the request.
func writeRefreshedCatalog(cache CatalogCache, sess session.Session, logg *logger.Logger, w http.ResponseWriter, r *http.Request, status int) {
	if cache == nil {
		responses.WriteSuccessStatus(w, status, catalogResponse{Products: nil})
		return
	}
	products, err := cache.Refresh(r.Context(), sess)
	if err != nil {
		logg.Error(r.Context(), "catalog refresh after mutation failed", err)
		products = cache.Snapshot()
	}
	responses.WriteSuccessStatus(w, status, catalogResponse{Products: products})
}
