package catalog

import "github.com/shopspring/decimal"

// Product is one inventory listing as the inventory service publishes it.
// InventoryID is the opaque unique key; ProductID is a separate id space
// and never substitutes for it.
type Product struct {
	InventoryID       string          `json:"inventoryId"`
	ProductID         string          `json:"productId"`
	ProductName       string          `json:"productName"`
	ProductDesc       string          `json:"productDesc"`
	QuantityAvailable int             `json:"quantityAvailable"`
	Price             decimal.Decimal `json:"price"`
	LastUpdated       string          `json:"lastUpdated"`
}

// ProductInput is the admin create/update payload for a listing.
type ProductInput struct {
	ProductName       string          `json:"productName"`
	ProductDesc       string          `json:"productDesc"`
	QuantityAvailable int             `json:"quantityAvailable"`
	Price             decimal.Decimal `json:"price"`
}
