package cart

import (
	"context"

	"freshfleet/internal/domain"
)

// Repository is the durable cart store. All operations are keyed by
// customer id: every customer owns exactly one cart, created lazily.
//
// Mutations take an expectedVersion for optimistic concurrency; zero
// skips the check, a non-zero mismatch yields domain.ErrConflict.
type Repository interface {
	GetByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	AddLineItem(ctx context.Context, customerID string, product domain.Product, quantity, expectedVersion int) (*domain.Cart, error)
	UpdateLineItemQuantity(ctx context.Context, customerID, productID string, quantity, expectedVersion int) (*domain.Cart, error)
	RemoveLineItem(ctx context.Context, customerID, productID string) (*domain.Cart, error)
	RepriceLineItem(ctx context.Context, customerID string, product domain.Product) (*domain.Cart, error)
}
