package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a vendor-owned catalog entry sold by weight. VendorID is
// fixed at creation; updates never move a product between vendors.
type Product struct {
	ID         string                 `json:"id"`
	VendorID   string                 `json:"vendorId"`
	Name       string                 `json:"name"`
	Category   string                 `json:"category,omitempty"`
	PricePerKg decimal.Decimal        `json:"pricePerKg"`
	QuantityKg decimal.Decimal        `json:"totalQuantityWeight"`
	Nutrition  map[string]interface{} `json:"nutrition,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}
