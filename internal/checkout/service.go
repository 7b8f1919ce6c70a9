package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nexusmart/storefront-gateway/internal/cart"
	"github.com/nexusmart/storefront-gateway/internal/orders"
	"github.com/nexusmart/storefront-gateway/internal/session"
	"github.com/nexusmart/storefront-gateway/pkg/enums"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/upstream"
)

// OrderPlacer submits an order to the order service.
type OrderPlacer interface {
	Place(ctx context.Context, token string, req orders.OrderRequest) (orders.Order, error)
}

// Service hands a reconciled cart off to the order service. Validation
// happens entirely before the network call; a rejected submit never
// reaches the wire. The cart is not cleared on success, the cart
// service owns that lifecycle.
type Service struct {
	placer OrderPlacer
}

// NewService builds the handoff over the order placer.
func NewService(placer OrderPlacer) (*Service, error) {
	if placer == nil {
		return nil, fmt.Errorf("order placer required")
	}
	return &Service{placer: placer}, nil
}

// Submit validates the checkout locally, totals it with decimal
// arithmetic, and posts it. On rejection the order service's own message
// is surfaced when it sent one.
func (s *Service) Submit(ctx context.Context, sess session.Session, items []cart.Item, paymentMode, address string) (orders.Order, error) {
	if !sess.Valid() {
		return orders.Order{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session with customer reference required")
	}
	if strings.TrimSpace(address) == "" {
		return orders.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	if len(items) == 0 {
		return orders.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "cart has no items to order")
	}
	mode, err := enums.ParsePaymentMode(paymentMode)
	if err != nil {
		return orders.Order{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment mode")
	}

	total := decimal.Zero
	lines := make([]orders.OrderItem, 0, len(items))
	for _, item := range items {
		if item.SelectedQuantity < 1 {
			return orders.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "cart line has a non-positive quantity")
		}
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.SelectedQuantity)))
		total = total.Add(lineTotal)
		lines = append(lines, orders.OrderItem{
			InventoryID: item.InventoryID,
			ProductName: item.ProductName,
			Quantity:    item.SelectedQuantity,
			Price:       json.Number(item.Price.String()),
		})
	}

	order, err := s.placer.Place(ctx, sess.Token, orders.OrderRequest{
		CustomerID:  sess.CustomerRef,
		PaymentMode: string(mode),
		TotalAmount: json.Number(total.String()),
		Address:     strings.TrimSpace(address),
		Items:       lines,
	})
	if err != nil {
		if statusErr, ok := upstream.StatusErrorFrom(err); ok && statusErr.Message != "" {
			return orders.Order{}, pkgerrors.Wrap(pkgerrors.CodeOrderRejected, err, statusErr.Message)
		}
		return orders.Order{}, err
	}
	return order, nil
}
