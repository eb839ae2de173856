package wishlist

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/merchkit/storefront-backend/internal/products"
	"github.com/merchkit/storefront-backend/pkg/db/models"
	"github.com/merchkit/storefront-backend/pkg/pagination"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddItem inserts a wishlist entry and ignores duplicates.
func (r *Repository) AddItem(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Exec(`INSERT INTO wishlist_items (id, user_id, product_id, created_at) VALUES (?, ?, ?, ?) ON CONFLICT (user_id, product_id) DO NOTHING`,
			uuid.New(), userID, productID, time.Now().UTC()).
		Error
}

// RemoveItem deletes the user-product like if it exists.
func (r *Repository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{}).
		Error
}

// ListItems returns a paginated list of wishlist products for a user.
// Entries whose product has been removed from the catalog are skipped; the
// client treats the response as the authoritative full-replace snapshot.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID, cursor string, limit int) (WishlistItemsPageDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	cursorValue := strings.TrimSpace(cursor)
	decodedCursor, err := pagination.ParseCursor(cursorValue)
	if err != nil {
		return WishlistItemsPageDTO{}, err
	}

	dataQuery := r.db.WithContext(ctx).
		Table("wishlist_items wi").
		Select(strings.Join([]string{
			"wi.id AS wishlist_id",
			"wi.created_at AS wishlist_created_at",
			"p.id AS product_id",
			"p.sku",
			"p.title",
			"p.slug",
			"p.price_cents",
			"p.main_image_url",
			"p.in_stock",
			"p.created_at AS product_created_at",
			"p.updated_at AS product_updated_at",
		}, ", ")).
		Joins("JOIN products p ON p.id = wi.product_id AND p.is_active").
		Where("wi.user_id = ?", userID)

	if decodedCursor != nil {
		dataQuery = dataQuery.Where("(wi.created_at < ?) OR (wi.created_at = ? AND wi.id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	dataQuery = dataQuery.Order("wi.created_at DESC").Order("wi.id DESC").Limit(limitWithBuffer)

	var records []wishlistProductRecord
	if err := dataQuery.Scan(&records).Error; err != nil {
		return WishlistItemsPageDTO{}, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.WishlistCreatedAt,
			ID:        last.WishlistID,
		})
	}

	items := make([]WishlistItemDTO, 0, len(resultRows))
	for _, record := range resultRows {
		items = append(items, record.toDTO())
	}

	totalCount, err := r.countItems(ctx, userID)
	if err != nil {
		return WishlistItemsPageDTO{}, err
	}

	return WishlistItemsPageDTO{
		Items: items,
		Pagination: product.ProductPagination{
			Total:   int(totalCount),
			Current: cursorValue,
			Next:    nextCursor,
		},
	}, nil
}

// ListItemIDs returns only the product IDs a user has liked.
func (r *Repository) ListItemIDs(ctx context.Context, userID uuid.UUID, cursor string, limit int) (WishlistIDsDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	cursorValue := strings.TrimSpace(cursor)
	decodedCursor, err := pagination.ParseCursor(cursorValue)
	if err != nil {
		return WishlistIDsDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Select("id AS wishlist_id", "created_at AS wishlist_created_at", "product_id").
		Where("user_id = ?", userID)

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer)

	type idRecord struct {
		WishlistID        uuid.UUID
		WishlistCreatedAt time.Time
		ProductID         uuid.UUID
	}

	var records []idRecord
	if err := query.Scan(&records).Error; err != nil {
		return WishlistIDsDTO{}, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.WishlistCreatedAt,
			ID:        last.WishlistID,
		})
	}

	ids := make([]uuid.UUID, 0, len(resultRows))
	for _, record := range resultRows {
		ids = append(ids, record.ProductID)
	}

	totalCount, err := r.countItems(ctx, userID)
	if err != nil {
		return WishlistIDsDTO{}, err
	}

	return WishlistIDsDTO{
		ProductIDs: ids,
		Pagination: product.ProductPagination{
			Total:   int(totalCount),
			Current: cursorValue,
			Next:    nextCursor,
		},
	}, nil
}

func (r *Repository) countItems(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ?", userID).
		Count(&count).
		Error; err != nil {
		return 0, err
	}
	return count, nil
}

type wishlistProductRecord struct {
	WishlistID        uuid.UUID      `gorm:"column:wishlist_id"`
	WishlistCreatedAt time.Time      `gorm:"column:wishlist_created_at"`
	ID                uuid.UUID      `gorm:"column:product_id"`
	SKU               string         `gorm:"column:sku"`
	Title             string         `gorm:"column:title"`
	Slug              string         `gorm:"column:slug"`
	PriceCents        int            `gorm:"column:price_cents"`
	MainImageURL      sql.NullString `gorm:"column:main_image_url"`
	InStock           bool           `gorm:"column:in_stock"`
	ProductCreatedAt  time.Time      `gorm:"column:product_created_at"`
	ProductUpdatedAt  time.Time      `gorm:"column:product_updated_at"`
}

func (r wishlistProductRecord) toDTO() WishlistItemDTO {
	summary := product.ProductSummary{
		ID:         r.ID,
		SKU:        r.SKU,
		Title:      r.Title,
		Slug:       r.Slug,
		PriceCents: r.PriceCents,
		InStock:    r.InStock,
		CreatedAt:  r.ProductCreatedAt,
		UpdatedAt:  r.ProductUpdatedAt,
	}
	if r.MainImageURL.Valid {
		v := r.MainImageURL.String
		summary.MainImageURL = &v
	}
	return WishlistItemDTO{
		Product:   summary,
		CreatedAt: r.WishlistCreatedAt,
	}
}
