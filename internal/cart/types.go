package cart

import (
	"time"

	"github.com/google/uuid"

	product "github.com/merchkit/storefront-backend/internal/products"
)

// CartEntryDTO is one cart row with its resolved product. Product is nil
// when the catalog row has been removed since the item was added; clients
// drop such records on reconciliation.
type CartEntryDTO struct {
	ProductID uuid.UUID               `json:"product_id"`
	Quantity  int                     `json:"quantity"`
	Product   *product.ProductSummary `json:"product"`
	CreatedAt time.Time               `json:"created_at"`
}

// CartDTO is the full cart payload.
type CartDTO struct {
	Items         []CartEntryDTO `json:"items"`
	TotalQuantity int            `json:"total_quantity"`
	SubtotalCents int            `json:"subtotal_cents"`
}

// NewCartDTO derives the aggregate totals from the entries. Records without
// a product are excluded from the subtotal but still returned.
func NewCartDTO(entries []CartEntryDTO) CartDTO {
	dto := CartDTO{Items: entries}
	if dto.Items == nil {
		dto.Items = []CartEntryDTO{}
	}
	for _, entry := range entries {
		dto.TotalQuantity += entry.Quantity
		if entry.Product != nil {
			dto.SubtotalCents += entry.Product.PriceCents * entry.Quantity
		}
	}
	return dto
}
