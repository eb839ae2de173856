package product

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/merchkit/storefront-backend/pkg/errors"

	"github.com/merchkit/storefront-backend/pkg/db/models"
)

// Service exposes catalog read and admin management operations.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	SetStock(ctx context.Context, productID uuid.UUID, inStock bool) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU          string
	Title        string
	Slug         string
	Description  *string
	PriceCents   int
	MainImageURL *string
	InStock      bool
	IsActive     bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Title        *string
	Slug         *string
	Description  *string
	PriceCents   *int
	MainImageURL *string
	InStock      *bool
	IsActive     *bool
}

type service struct {
	repo *Repository
}

// NewService constructs a product service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	if !row.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return NewProductDTO(row), nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}
	row, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, mapLookupError(err)
	}
	if !row.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return NewProductDTO(row), nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	result, err := s.repo.ListSummaries(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}
	row := &models.Product{
		SKU:          strings.TrimSpace(input.SKU),
		Title:        strings.TrimSpace(input.Title),
		Slug:         strings.TrimSpace(input.Slug),
		Description:  input.Description,
		PriceCents:   input.PriceCents,
		MainImageURL: input.MainImageURL,
		InStock:      input.InStock,
		IsActive:     input.IsActive,
	}
	created, err := s.repo.CreateProduct(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return NewProductDTO(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	row, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, mapLookupError(err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		row.Title = title
	}
	if input.Slug != nil {
		slug := strings.TrimSpace(*input.Slug)
		if slug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug cannot be empty")
		}
		row.Slug = slug
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		row.PriceCents = *input.PriceCents
	}
	if input.MainImageURL != nil {
		row.MainImageURL = input.MainImageURL
	}
	if input.InStock != nil {
		row.InStock = *input.InStock
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	updated, err := s.repo.UpdateProduct(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return NewProductDTO(updated), nil
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		return mapLookupError(err)
	}
	if err := s.repo.DeactivateProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate product")
	}
	return nil
}

func (s *service) SetStock(ctx context.Context, productID uuid.UUID, inStock bool) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		return mapLookupError(err)
	}
	if err := s.repo.SetStock(ctx, productID, inStock); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set product stock")
	}
	return nil
}

func validateCreateInput(input CreateProductInput) error {
	if strings.TrimSpace(input.SKU) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Slug) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	if input.PriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return nil
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
}
