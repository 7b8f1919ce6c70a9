package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nexusmart/storefront-gateway/api/middleware"
	"github.com/nexusmart/storefront-gateway/api/responses"
	"github.com/nexusmart/storefront-gateway/api/validators"
	"github.com/nexusmart/storefront-gateway/internal/session"
	"github.com/nexusmart/storefront-gateway/internal/shipments"
	"github.com/nexusmart/storefront-gateway/pkg/enums"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/logger"
)

// ShipmentAdmin manages shipments for the console.
type ShipmentAdmin interface {
	List(ctx context.Context, token string) ([]shipments.Shipment, error)
	Get(ctx context.Context, token, shipmentID string) (shipments.Shipment, error)
	Create(ctx context.Context, token string, input shipments.CreateInput) (shipments.Shipment, error)
	UpdateStatus(ctx context.Context, token, shipmentID string, status enums.ShipmentStatus) (shipments.Shipment, error)
	CancelByOrder(ctx context.Context, token, orderID string) error
	Delete(ctx context.Context, token, shipmentID string) error
}

type shipmentCreateRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	Address string `json:"address" validate:"required,max=500"`
}

type shipmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type shipmentListResponse struct {
	Shipments []shipments.Shipment `json:"shipments"`
}

// AdminShipmentsList returns every shipment.
func AdminShipmentsList(svc ShipmentAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := shipmentAdminSession(svc, logg, w, r)
		if !ok {
			return
		}
		list, err := svc.List(r.Context(), sess.Token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shipmentListResponse{Shipments: list})
	}
}

// AdminShipmentsGet returns one shipment by id.
func AdminShipmentsGet(svc ShipmentAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := shipmentAdminSession(svc, logg, w, r)
		if !ok {
			return
		}
		shipmentID := chi.URLParam(r, "shipmentId")
		if shipmentID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "shipment id is required"))
			return
		}
		shipment, err := svc.Get(r.Context(), sess.Token, shipmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shipment)
	}
}

// AdminShipmentsCreate registers a shipment for an order.
func AdminShipmentsCreate(svc ShipmentAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := shipmentAdminSession(svc, logg, w, r)
		if !ok {
			return
		}
		var req shipmentCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shipment, err := svc.Create(r.Context(), sess.Token, shipments.CreateInput{
			OrderID: req.OrderID,
			Address: validators.SanitizeString(req.Address, 500),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logg.Info(r.Context(), "shipment created")
		responses.WriteSuccessStatus(w, http.StatusCreated, shipment)
	}
}

// AdminShipmentsUpdateStatus moves a shipment through its lifecycle.
func AdminShipmentsUpdateStatus(svc ShipmentAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := shipmentAdminSession(svc, logg, w, r)
		if !ok {
			return
		}
		shipmentID := chi.URLParam(r, "shipmentId")
		if shipmentID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "shipment id is required"))
			return
		}
		var req shipmentStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseShipmentStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown shipment status"))
			return
		}
		shipment, err := svc.UpdateStatus(r.Context(), sess.Token, shipmentID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithField(r.Context(), "shipment_status", status.String())
		logg.Info(ctx, "shipment status updated")
		responses.WriteSuccess(w, shipment)
	}
}

// AdminShipmentsCancelByOrder cancels the shipment backing an order.
func AdminShipmentsCancelByOrder(svc ShipmentAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := shipmentAdminSession(svc, logg, w, r)
		if !ok {
			return
		}
		orderID := chi.URLParam(r, "orderId")
		if orderID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
			return
		}
		if err := svc.CancelByOrder(r.Context(), sess.Token, orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logg.Info(r.Context(), "shipment cancelled")
		responses.WriteSuccess(w, map[string]string{"orderId": orderID, "status": "CANCELLED"})
	}
}

// AdminShipmentsDelete removes a shipment record.
func AdminShipmentsDelete(svc ShipmentAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := shipmentAdminSession(svc, logg, w, r)
		if !ok {
			return
		}
		shipmentID := chi.URLParam(r, "shipmentId")
		if shipmentID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "shipment id is required"))
			return
		}
		if err := svc.Delete(r.Context(), sess.Token, shipmentID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logg.Info(r.Context(), "shipment deleted")
		responses.WriteSuccess(w, map[string]string{"shipmentId": shipmentID, "status": "DELETED"})
	}
}

func shipmentAdminSession(svc ShipmentAdmin, logg *logger.Logger, w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipment service unavailable"))
		return session.Session{}, false
	}
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session required"))
		return session.Session{}, false
	}
	return sess, true
}
