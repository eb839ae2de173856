package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/merchkit/storefront-backend/internal/products"
	pkgerrors "github.com/merchkit/storefront-backend/pkg/errors"
)

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo *Repository
	ProductRepo  *product.Repository
}

// Service exposes business rules for wishlist management.
type Service interface {
	GetWishlist(ctx context.Context, userID uuid.UUID, cursor string, limit int) (WishlistItemsPageDTO, error)
	GetWishlistIDs(ctx context.Context, userID uuid.UUID, cursor string, limit int) (WishlistIDsDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID) error
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
}

type service struct {
	wishlistRepo *Repository
	productRepo  *product.Repository
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{
		wishlistRepo: params.WishlistRepo,
		productRepo:  params.ProductRepo,
	}, nil
}

// GetWishlist returns the paginated wishlist for a user.
func (s *service) GetWishlist(ctx context.Context, userID uuid.UUID, cursor string, limit int) (WishlistItemsPageDTO, error) {
	if userID == uuid.Nil {
		return WishlistItemsPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.wishlistRepo.ListItems(ctx, userID, cursor, limit)
}

// GetWishlistIDs returns the liked product IDs for a user.
func (s *service) GetWishlistIDs(ctx context.Context, userID uuid.UUID, cursor string, limit int) (WishlistIDsDTO, error) {
	if userID == uuid.Nil {
		return WishlistIDsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.wishlistRepo.ListItemIDs(ctx, userID, cursor, limit)
}

// AddItem ensures the product exists and adds it to the wishlist. Adding a
// product already on the list is a silent no-op.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return s.wishlistRepo.AddItem(ctx, userID, productID)
}

// RemoveItem drops the wishlist entry regardless of prior state.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.wishlistRepo.RemoveItem(ctx, userID, productID)
}
