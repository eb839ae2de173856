package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog listing.
type Product struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU          string    `gorm:"column:sku;not null;uniqueIndex"`
	Title        string    `gorm:"column:title;not null"`
	Slug         string    `gorm:"column:slug;not null;uniqueIndex"`
	Description  *string   `gorm:"column:description"`
	PriceCents   int       `gorm:"column:price_cents;not null"`
	MainImageURL *string   `gorm:"column:main_image_url"`
	InStock      bool      `gorm:"column:in_stock;not null;default:true"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
