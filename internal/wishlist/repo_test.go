package wishlist

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/merchkit/storefront-backend/pkg/db/models"
)

func setupWishlistTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
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
);`, `
CREATE TABLE IF NOT EXISTS wishlist_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, product_id)
);`}
	for _, stmt := range ddl {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func seedProduct(t *testing.T, conn *gorm.DB, title string) *models.Product {
	t.Helper()
	row := &models.Product{
		ID:         uuid.New(),
		SKU:        fmt.Sprintf("SKU-%s", uuid.NewString()),
		Title:      title,
		Slug:       fmt.Sprintf("%s-%s", title, uuid.NewString()),
		PriceCents: 1000,
		InStock:    true,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	require.NoError(t, conn.Create(row).Error)
	return row
}

func TestAddItemIsIdempotent(t *testing.T) {
	conn := setupWishlistTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	userID := uuid.New()
	p := seedProduct(t, conn, "mug")

	require.NoError(t, repo.AddItem(ctx, userID, p.ID))
	require.NoError(t, repo.AddItem(ctx, userID, p.ID))

	var count int64
	require.NoError(t, conn.Model(&models.WishlistItem{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestListItemsSkipsRetiredProducts(t *testing.T) {
	conn := setupWishlistTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	userID := uuid.New()
	kept := seedProduct(t, conn, "mug")
	retired := seedProduct(t, conn, "poster")
	require.NoError(t, repo.AddItem(ctx, userID, kept.ID))
	require.NoError(t, repo.AddItem(ctx, userID, retired.ID))

	require.NoError(t, conn.Model(&models.Product{}).
		Where("id = ?", retired.ID).
		UpdateColumn("is_active", false).Error)

	page, err := repo.ListItems(ctx, userID, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, kept.ID, page.Items[0].Product.ID)
}

func TestAddItemRejectsNilIDs(t *testing.T) {
	conn := setupWishlistTestDB(t)
	repo := NewRepository(conn)

	require.Error(t, repo.AddItem(context.Background(), uuid.Nil, uuid.New()))
	require.Error(t, repo.AddItem(context.Background(), uuid.New(), uuid.Nil))
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	conn := setupWishlistTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	userID := uuid.New()
	p := seedProduct(t, conn, "mug")
	require.NoError(t, repo.AddItem(ctx, userID, p.ID))

	require.NoError(t, repo.RemoveItem(ctx, userID, p.ID))
	require.NoError(t, repo.RemoveItem(ctx, userID, p.ID))

	var count int64
	require.NoError(t, conn.Model(&models.WishlistItem{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestListItemsSkipsDeletedProducts(t *testing.T) {
	conn := setupWishlistTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	userID := uuid.New()
	kept := seedProduct(t, conn, "kept")
	removed := seedProduct(t, conn, "removed")
	require.NoError(t, repo.AddItem(ctx, userID, kept.ID))
	require.NoError(t, repo.AddItem(ctx, userID, removed.ID))

	require.NoError(t, conn.Delete(&models.Product{}, "id = ?", removed.ID).Error)

	page, err := repo.ListItems(ctx, userID, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, kept.ID, page.Items[0].Product.ID)
	assert.Equal(t, "kept", page.Items[0].Product.Title)
}

func TestListItemsPaginates(t *testing.T) {
	conn := setupWishlistTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		p := seedProduct(t, conn, fmt.Sprintf("p%d", i))
		item := &models.WishlistItem{
			ID:        uuid.New(),
			UserID:    userID,
			ProductID: p.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, conn.Create(item).Error)
	}

	first, err := repo.ListItems(ctx, userID, "", 2)
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.Pagination.Next)
	assert.Equal(t, 5, first.Pagination.Total)

	second, err := repo.ListItems(ctx, userID, first.Pagination.Next, 2)
	require.NoError(t, err)
	require.Len(t, second.Items, 2)

	seen := map[uuid.UUID]bool{}
	for _, item := range append(first.Items, second.Items...) {
		require.False(t, seen[item.Product.ID], "pages must not overlap")
		seen[item.Product.ID] = true
	}
}

func TestListItemIDs(t *testing.T) {
	conn := setupWishlistTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	userID := uuid.New()
	first := seedProduct(t, conn, "first")
	second := seedProduct(t, conn, "second")
	require.NoError(t, repo.AddItem(ctx, userID, first.ID))
	require.NoError(t, repo.AddItem(ctx, userID, second.ID))

	ids, err := repo.ListItemIDs(ctx, userID, "", 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, ids.ProductIDs)
	assert.Equal(t, 2, ids.Pagination.Total)
}
