package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/merchkit/storefront-backend/pkg/db/models"
)

// ProductSummary is the browse-grid projection of a catalog product.
type ProductSummary struct {
	ID           uuid.UUID `json:"id"`
	SKU          string    `json:"sku"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	PriceCents   int       `json:"price_cents"`
	MainImageURL *string   `json:"main_image_url,omitempty"`
	InStock      bool      `json:"in_stock"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductDTO is the full detail payload returned to clients.
type ProductDTO struct {
	ID           uuid.UUID `json:"id"`
	SKU          string    `json:"sku"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  *string   `json:"description,omitempty"`
	PriceCents   int       `json:"price_cents"`
	MainImageURL *string   `json:"main_image_url,omitempty"`
	InStock      bool      `json:"in_stock"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductPagination carries cursor metadata alongside list payloads. The
// cursor is forward-only, so there is no previous-page token.
type ProductPagination struct {
	Total   int    `json:"total"`
	Current string `json:"current,omitempty"`
	Next    string `json:"next,omitempty"`
}

// ProductListResult is the paginated browse response.
type ProductListResult struct {
	Products   []ProductSummary  `json:"products"`
	Pagination ProductPagination `json:"pagination"`
}

// NewProductDTO builds a detail DTO from the persisted model.
func NewProductDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:           p.ID,
		SKU:          p.SKU,
		Title:        p.Title,
		Slug:         p.Slug,
		Description:  p.Description,
		PriceCents:   p.PriceCents,
		MainImageURL: p.MainImageURL,
		InStock:      p.InStock,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// NewProductSummary projects the model into its browse-grid shape.
func NewProductSummary(p *models.Product) ProductSummary {
	return ProductSummary{
		ID:           p.ID,
		SKU:          p.SKU,
		Title:        p.Title,
		Slug:         p.Slug,
		PriceCents:   p.PriceCents,
		MainImageURL: p.MainImageURL,
		InStock:      p.InStock,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
