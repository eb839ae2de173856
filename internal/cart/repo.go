package cart

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/merchkit/storefront-backend/internal/products"
	"github.com/merchkit/storefront-backend/pkg/db/models"
)

// Repository encapsulates cart persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts the cart row or adds the quantity to the existing one.
// Repeated adds for the same product accumulate instead of duplicating rows.
func (r *Repository) Upsert(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, product_id)
DO UPDATE SET quantity = cart_items.quantity + excluded.quantity, updated_at = excluded.updated_at`,
			uuid.New(), userID, productID, quantity, now, now).
		Error
}

// SetQuantity overwrites the quantity of an existing cart row. Returns
// gorm.ErrRecordNotFound when the product is not in the cart.
func (r *Repository) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Updates(map[string]any{"quantity": quantity, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Remove deletes the user-product cart row if it exists.
func (r *Repository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{}).
		Error
}

// Clear drops every cart row for the user.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).
		Error
}

// ListByUser returns the user's cart rows with their products resolved.
// Catalog deletion is a deactivation, so the LEFT JOIN matches active
// products only and a retired product comes back as a nil product. Clients
// drop those records during reconciliation.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]CartEntryDTO, error) {
	var records []cartEntryRecord
	err := r.db.WithContext(ctx).
		Table("cart_items ci").
		Select(`ci.product_id, ci.quantity, ci.created_at AS cart_created_at,
p.id AS p_id, p.sku, p.title, p.slug, p.price_cents, p.main_image_url, p.in_stock,
p.created_at AS p_created_at, p.updated_at AS p_updated_at`).
		Joins("LEFT JOIN products p ON p.id = ci.product_id AND p.is_active").
		Where("ci.user_id = ?", userID).
		Order("ci.created_at ASC").Order("ci.id ASC").
		Scan(&records).
		Error
	if err != nil {
		return nil, err
	}

	entries := make([]CartEntryDTO, 0, len(records))
	for _, record := range records {
		entries = append(entries, record.toDTO())
	}
	return entries, nil
}

type cartEntryRecord struct {
	ProductID     uuid.UUID      `gorm:"column:product_id"`
	Quantity      int            `gorm:"column:quantity"`
	CartCreatedAt time.Time      `gorm:"column:cart_created_at"`
	PID           sql.NullString `gorm:"column:p_id"`
	SKU           sql.NullString `gorm:"column:sku"`
	Title         sql.NullString `gorm:"column:title"`
	Slug          sql.NullString `gorm:"column:slug"`
	PriceCents    sql.NullInt64  `gorm:"column:price_cents"`
	MainImageURL  sql.NullString `gorm:"column:main_image_url"`
	InStock       sql.NullBool   `gorm:"column:in_stock"`
	PCreatedAt    sql.NullTime   `gorm:"column:p_created_at"`
	PUpdatedAt    sql.NullTime   `gorm:"column:p_updated_at"`
}

func (r cartEntryRecord) toDTO() CartEntryDTO {
	dto := CartEntryDTO{
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		CreatedAt: r.CartCreatedAt,
	}
	if !r.PID.Valid {
		return dto
	}
	id, err := uuid.Parse(r.PID.String)
	if err != nil {
		return dto
	}
	summary := product.ProductSummary{
		ID:         id,
		SKU:        r.SKU.String,
		Title:      r.Title.String,
		Slug:       r.Slug.String,
		PriceCents: int(r.PriceCents.Int64),
		InStock:    r.InStock.Bool,
		CreatedAt:  r.PCreatedAt.Time,
		UpdatedAt:  r.PUpdatedAt.Time,
	}
	if r.MainImageURL.Valid {
		v := r.MainImageURL.String
		summary.MainImageURL = &v
	}
	dto.Product = &summary
	return dto
}
