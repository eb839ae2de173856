package product

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/merchkit/storefront-backend/pkg/db/models"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	ddl := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  price_cents INTEGER NOT NULL,
  main_image_url TEXT,
  in_stock INTEGER NOT NULL DEFAULT 1,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	if err := conn.Exec(ddl).Error; err != nil {
		t.Fatalf("create products table: %v", err)
	}
	return conn
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, mutate func(*models.Product)) *models.Product {
	t.Helper()
	row := &models.Product{
		ID:         uuid.New(),
		SKU:        fmt.Sprintf("SKU-%s", uuid.NewString()),
		Title:      "Test Product",
		Slug:       fmt.Sprintf("test-product-%s", uuid.NewString()),
		PriceCents: 1000,
		InStock:    true,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if mutate != nil {
		mutate(row)
	}
	if err := tx.Create(row).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return row
}
