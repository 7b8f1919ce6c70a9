package cart

import "github.com/nexusmart/storefront-gateway/internal/catalog"

// Line is one raw cart entry as the cart service stores it. ID is the
// cart line's own id (a different id space from ProductID, which holds
// the catalog's inventoryId).
type Line struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Item is a cart line joined with its catalog listing. It is derived in
// full on every reconciliation and never patched field by field.
type Item struct {
	catalog.Product
	CartItemID       string `json:"cartItemId"`
	SelectedQuantity int    `json:"selectedQuantity"`
}

// View is the reconciled cart presented to callers. Available reports
// whether the last cart fetch for this customer succeeded; an empty
// Items with Available true is a real empty cart, not a failure.
type View struct {
	Items     []Item `json:"items"`
	Available bool   `json:"available"`
}
