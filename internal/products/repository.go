package product

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/merchkit/storefront-backend/pkg/db/models"
	"github.com/merchkit/storefront-backend/pkg/pagination"
)

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads the product behind a storefront URL.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeactivateProduct retires a product from the storefront. The row stays so
// cart and wishlist references keep resolving; read paths filter on
// is_active instead.
func (r *Repository) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{"is_active": false, "updated_at": time.Now().UTC()}).
		Error
}

// UpsertBySKU inserts the product or refreshes the existing row keyed on SKU.
// Used by the catalog importer.
func (r *Repository) UpsertBySKU(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sku"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "slug", "description", "price_cents", "main_image_url", "in_stock", "is_active", "updated_at",
			}),
		}).
		Create(product).Error
}

// ListSummaries returns a cursor-paginated, filtered slice of active products.
func (r *Repository) ListSummaries(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	pageSize := pagination.NormalizeLimit(input.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(input.Pagination.Limit)

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true)

	filter := input.Filters
	if filter.PriceMinCents != nil {
		qb = qb.Where("price_cents >= ?", *filter.PriceMinCents)
	}
	if filter.PriceMaxCents != nil {
		qb = qb.Where("price_cents <= ?", *filter.PriceMaxCents)
	}
	if filter.InStock != nil {
		qb = qb.Where("in_stock = ?", *filter.InStock)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(title) LIKE ? OR LOWER(sku) LIKE ?)", pattern, pattern)
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	resultRows := rows
	nextCursor := ""
	if len(rows) > pageSize {
		resultRows = rows[:pageSize]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	summaries := make([]ProductSummary, 0, len(resultRows))
	for i := range resultRows {
		summaries = append(summaries, NewProductSummary(&resultRows[i]))
	}

	total, err := r.countActive(ctx, input.Filters)
	if err != nil {
		return nil, err
	}

	return &ProductListResult{
		Products: summaries,
		Pagination: ProductPagination{
			Total:   int(total),
			Current: strings.TrimSpace(input.Pagination.Cursor),
			Next:    nextCursor,
		},
	}, nil
}

// SetStock flips the in_stock flag without touching the rest of the row.
func (r *Repository) SetStock(ctx context.Context, id uuid.UUID, inStock bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{"in_stock": inStock, "updated_at": time.Now().UTC()}).Error
}

func (r *Repository) countActive(ctx context.Context, filter ProductListFilters) (int64, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true)
	if filter.PriceMinCents != nil {
		qb = qb.Where("price_cents >= ?", *filter.PriceMinCents)
	}
	if filter.PriceMaxCents != nil {
		qb = qb.Where("price_cents <= ?", *filter.PriceMaxCents)
	}
	if filter.InStock != nil {
		qb = qb.Where("in_stock = ?", *filter.InStock)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(title) LIKE ? OR LOWER(sku) LIKE ?)", pattern, pattern)
	}

	var count int64
	if err := qb.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
