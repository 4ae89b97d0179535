package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"freshfleet/internal/domain"
	productrepo "freshfleet/internal/repository/product"
)

type Service struct {
	repo repo
}

type repo interface {
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByVendor(ctx context.Context, vendorID string) ([]domain.Product, error)
	Update(ctx context.Context, id string, in productrepo.UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name       string
	VendorID   string
	Category   string
	PricePerKg decimal.Decimal
	QuantityKg decimal.Decimal
	Nutrition  map[string]interface{}
}

type UpdateInput struct {
	Name       *string
	Category   *string
	PricePerKg *decimal.Decimal
	QuantityKg *decimal.Decimal
	Nutrition  map[string]interface{}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.VendorID) == "" {
		return nil, fmt.Errorf("%w: vendorId is required", domain.ErrValidation)
	}
	if in.PricePerKg.IsNegative() {
		return nil, fmt.Errorf("%w: pricePerKg must not be negative", domain.ErrValidation)
	}
	if in.QuantityKg.IsNegative() {
		return nil, fmt.Errorf("%w: totalQuantityWeight must not be negative", domain.ErrValidation)
	}
	return s.repo.Create(ctx, domain.Product{
		VendorID:   in.VendorID,
		Name:       name,
		Category:   in.Category,
		PricePerKg: in.PricePerKg,
		QuantityKg: in.QuantityKg,
		Nutrition:  in.Nutrition,
	})
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByVendor(ctx context.Context, vendorID string) ([]domain.Product, error) {
	return s.repo.ListByVendor(ctx, vendorID)
}

// Update applies the supplied fields only. The owning vendor cannot be
// changed through this path.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
	}
	if in.PricePerKg != nil && in.PricePerKg.IsNegative() {
		return nil, fmt.Errorf("%w: pricePerKg must not be negative", domain.ErrValidation)
	}
	if in.QuantityKg != nil && in.QuantityKg.IsNegative() {
		return nil, fmt.Errorf("%w: totalQuantityWeight must not be negative", domain.ErrValidation)
	}
	return s.repo.Update(ctx, id, productrepo.UpdateInput{
		Name:       in.Name,
		Category:   in.Category,
		PricePerKg: in.PricePerKg,
		QuantityKg: in.QuantityKg,
		Nutrition:  in.Nutrition,
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
