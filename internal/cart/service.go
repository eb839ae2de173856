package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/merchkit/storefront-backend/internal/products"
	pkgerrors "github.com/merchkit/storefront-backend/pkg/errors"
)

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo    *Repository
	ProductRepo *product.Repository
}

// Service exposes business rules for cart management.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (CartDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (CartDTO, error)
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	cartRepo    *Repository
	productRepo *product.Repository
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
	}, nil
}

// GetCart returns the user's cart with resolved products and totals.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	entries, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return NewCartDTO(entries), nil
}

// AddItem validates the product and adds the quantity to the cart. Adding a
// product already in the cart accumulates onto the existing row.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	row, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !row.IsActive {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if err := s.cartRepo.Upsert(ctx, userID, productID, quantity); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	return s.GetCart(ctx, userID)
}

// UpdateQuantity overwrites the quantity of a cart row.
func (s *service) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if err := s.cartRepo.SetQuantity(ctx, userID, productID, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart item not found")
		}
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	return s.GetCart(ctx, userID)
}

// RemoveItem drops the cart row regardless of prior state.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.cartRepo.Remove(ctx, userID, productID); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	return s.GetCart(ctx, userID)
}

// Clear empties the user's cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
