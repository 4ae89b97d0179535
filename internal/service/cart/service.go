package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"freshfleet/internal/domain"
	cartrepo "freshfleet/internal/repository/cart"
)

// Service enforces the cart reconciliation rules: at most one line per
// product, quantity merges on repeated adds, snapshots sticky until an
// explicit reprice.
type Service struct {
	repo     cartRepo
	products productRepo
}

type cartRepo interface {
	GetByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	AddLineItem(ctx context.Context, customerID string, product domain.Product, quantity, expectedVersion int) (*domain.Cart, error)
	UpdateLineItemQuantity(ctx context.Context, customerID, productID string, quantity, expectedVersion int) (*domain.Cart, error)
	RemoveLineItem(ctx context.Context, customerID, productID string) (*domain.Cart, error)
	RepriceLineItem(ctx context.Context, customerID string, product domain.Product) (*domain.Cart, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

func (s *Service) Get(ctx context.Context, customerID string) (*domain.Cart, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, fmt.Errorf("%w: customerId is required", domain.ErrValidation)
	}
	return s.repo.GetByCustomer(ctx, customerID)
}

// AddItem resolves the product at call time and snapshots its price
// and vendor into the cart. Adding a product already in the cart
// increments the existing line's quantity; the original snapshot wins.
func (s *Service) AddItem(ctx context.Context, customerID, productID string, quantity, expectedVersion int) (*domain.Cart, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, fmt.Errorf("%w: customerId is required", domain.ErrValidation)
	}
	if strings.TrimSpace(productID) == "" {
		return nil, fmt.Errorf("%w: productId is required", domain.ErrValidation)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
		}
		return nil, err
	}
	return s.repo.AddLineItem(ctx, customerID, *product, quantity, expectedVersion)
}

func (s *Service) UpdateQuantity(ctx context.Context, customerID, productID string, quantity, expectedVersion int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}
	return s.repo.UpdateLineItemQuantity(ctx, customerID, productID, quantity, expectedVersion)
}

func (s *Service) RemoveItem(ctx context.Context, customerID, productID string) (*domain.Cart, error) {
	return s.repo.RemoveLineItem(ctx, customerID, productID)
}

// RepriceItem is the explicit re-snapshot operation: it re-reads the
// live product and overwrites the line's price snapshot. Fails with
// not found when either the product or the line is gone.
func (s *Service) RepriceItem(ctx context.Context, customerID, productID string) (*domain.Cart, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
		}
		return nil, err
	}
	return s.repo.RepriceLineItem(ctx, customerID, *product)
}
