package product

import "github.com/merchkit/storefront-backend/pkg/pagination"

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	PriceMinCents *int   `json:"price_min_cents,omitempty"`
	PriceMaxCents *int   `json:"price_max_cents,omitempty"`
	InStock       *bool  `json:"in_stock,omitempty"`
	Query         string `json:"q,omitempty"`
}

// ListProductsInput captures the inputs needed to paginate and filter the catalog.
type ListProductsInput struct {
	Filters    ProductListFilters
	Pagination pagination.Params
}
