package product

import (
	"context"

	"github.com/shopspring/decimal"

	"freshfleet/internal/domain"
)

// UpdateInput carries the mutable product fields. Nil pointers leave
// the stored value untouched; vendor_id is not updatable at all.
type UpdateInput struct {
	Name       *string
	Category   *string
	PricePerKg *decimal.Decimal
	QuantityKg *decimal.Decimal
	Nutrition  map[string]interface{}
}

type Repository interface {
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByVendor(ctx context.Context, vendorID string) ([]domain.Product, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
