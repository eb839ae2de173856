package cartstate

import "github.com/shopspring/decimal"

// RemoteProduct is the nested product shape returned by the backend for
// cart and wishlist entries.
type RemoteProduct struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	PriceCents int    `json:"price_cents"`
	MainImage  string `json:"main_image_url,omitempty"`
	InStock    bool   `json:"in_stock"`
}

// RemoteCartEntry is one row of the backend cart response.
type RemoteCartEntry struct {
	ProductID string         `json:"product_id"`
	Quantity  int            `json:"quantity"`
	Product   *RemoteProduct `json:"product"`
}

// RemoteWishlistEntry is one row of the backend wishlist response.
type RemoteWishlistEntry struct {
	Product *RemoteProduct `json:"product"`
}

// MapCartEntries flattens backend cart rows into canonical line items.
// Records without a resolvable nested product are dropped, never admitted
// partially. Rows sharing a product ID collapse into one entry with summed
// quantities so the uniqueness invariant holds on install.
func MapCartEntries(entries []RemoteCartEntry) []CartLineItem {
	items := make([]CartLineItem, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, entry := range entries {
		if entry.Product == nil || entry.Product.ID == "" || entry.Quantity < 1 {
			continue
		}
		if i, seen := index[entry.Product.ID]; seen {
			items[i].Amount += entry.Quantity
			continue
		}
		index[entry.Product.ID] = len(items)
		items = append(items, CartLineItem{
			ProductID: entry.Product.ID,
			Title:     entry.Product.Title,
			Slug:      entry.Product.Slug,
			Image:     entry.Product.MainImage,
			UnitPrice: priceFromCents(entry.Product.PriceCents),
			InStock:   entry.Product.InStock,
			Amount:    entry.Quantity,
		})
	}
	return items
}

// MapWishlistEntries flattens backend wishlist rows into canonical wishlist
// items, dropping records with a null or partial product and deduplicating
// by product ID (first occurrence wins, preserving order for UI stability).
func MapWishlistEntries(entries []RemoteWishlistEntry) []WishlistItem {
	items := make([]WishlistItem, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.Product == nil || entry.Product.ID == "" {
			continue
		}
		if _, dup := seen[entry.Product.ID]; dup {
			continue
		}
		seen[entry.Product.ID] = struct{}{}
		items = append(items, WishlistItem{
			ID:      entry.Product.ID,
			Title:   entry.Product.Title,
			Slug:    entry.Product.Slug,
			Image:   entry.Product.MainImage,
			Price:   priceFromCents(entry.Product.PriceCents),
			InStock: entry.Product.InStock,
		})
	}
	return items
}

func priceFromCents(cents int) decimal.Decimal {
	return decimal.New(int64(cents), -2)
}
