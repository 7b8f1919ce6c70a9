package orders

import "encoding/json"

// OrderItem is one order line as the order service exchanges it.
// InventoryID references the catalog listing the line was priced from.
type OrderItem struct {
	InventoryID string      `json:"inventoryId"`
	ProductName string      `json:"productName"`
	Quantity    int         `json:"quantity"`
	Price       json.Number `json:"price"`
}

// OrderRequest is the create-order payload. TotalAmount is advisory;
// the order service recomputes and enforces its own pricing.
type OrderRequest struct {
	CustomerID  string      `json:"customerId"`
	PaymentMode string      `json:"paymentMode"`
	TotalAmount json.Number `json:"totalAmount"`
	Address     string      `json:"address"`
	Items       []OrderItem `json:"items"`
}

// Order is the order service's view of a placed order.
type Order struct {
	OrderID     string      `json:"orderId"`
	CustomerID  string      `json:"customerId"`
	OrderStatus string      `json:"orderStatus"`
	PaymentMode string      `json:"paymentMode"`
	TotalAmount json.Number `json:"totalAmount"`
	Address     string      `json:"address"`
	Items       []OrderItem `json:"items"`
}
