package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart holds one customer's pending line items. There is exactly one
// cart per customer; it is created lazily on first access. Version is
// bumped on every mutation and backs optimistic concurrency checks.
type Cart struct {
	ID         string     `json:"id"`
	CustomerID string     `json:"customerId"`
	Version    int        `json:"version"`
	Items      []LineItem `json:"items"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// LineItem references a product by id only. PricePerKg and VendorID
// are snapshots captured when the item was first added; later catalog
// changes, including deletion of the product, do not touch them.
type LineItem struct {
	ID         string          `json:"id"`
	CartID     string          `json:"cartId"`
	ProductID  string          `json:"productId"`
	VendorID   string          `json:"vendorId"`
	Quantity   int             `json:"quantity"`
	PricePerKg decimal.Decimal `json:"pricePerKg"`
	CreatedAt  time.Time       `json:"createdAt"`
}
