package controllers

import (
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/merchkit/storefront-backend/api/responses"
	"github.com/merchkit/storefront-backend/api/validators"
	productsvc "github.com/merchkit/storefront-backend/internal/products"
	pkgerrors "github.com/merchkit/storefront-backend/pkg/errors"
	"github.com/merchkit/storefront-backend/pkg/logger"
	"github.com/merchkit/storefront-backend/pkg/pagination"
)

// ProductList returns the filtered, cursor-paginated public catalog.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		priceMin, err := validators.ParseQueryIntPtr(r, "price_min_cents", 0, math.MaxInt32)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		priceMax, err := validators.ParseQueryIntPtr(r, "price_max_cents", 0, math.MaxInt32)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		inStock, err := validators.ParseQueryBool(r, "in_stock")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := productsvc.ListProductsInput{
			Filters: productsvc.ProductListFilters{
				PriceMinCents: priceMin,
				PriceMaxCents: priceMax,
				InStock:       inStock,
				Query:         strings.TrimSpace(r.URL.Query().Get("q")),
			},
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}

		result, err := svc.ListProducts(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductGet returns one product by its id.
func ProductGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.GetProduct(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductGetBySlug returns one product by its URL slug.
func ProductGetBySlug(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}

		result, err := svc.GetProductBySlug(ctx, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type createProductRequest struct {
	SKU          string  `json:"sku" validate:"required"`
	Title        string  `json:"title" validate:"required"`
	Slug         string  `json:"slug" validate:"required"`
	Description  *string `json:"description,omitempty"`
	PriceCents   int     `json:"price_cents" validate:"min=0"`
	MainImageURL *string `json:"main_image_url,omitempty"`
	InStock      *bool   `json:"in_stock,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (p createProductRequest) toInput() productsvc.CreateProductInput {
	input := productsvc.CreateProductInput{
		SKU:          strings.TrimSpace(p.SKU),
		Title:        strings.TrimSpace(p.Title),
		Slug:         strings.TrimSpace(p.Slug),
		Description:  p.Description,
		PriceCents:   p.PriceCents,
		MainImageURL: p.MainImageURL,
		InStock:      true,
		IsActive:     true,
	}
	if p.InStock != nil {
		input.InStock = *p.InStock
	}
	if p.IsActive != nil {
		input.IsActive = *p.IsActive
	}
	return input
}

// AdminCreateProduct handles catalog additions.
func AdminCreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.CreateProduct(ctx, payload.toInput())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type updateProductRequest struct {
	Title        *string `json:"title,omitempty"`
	Slug         *string `json:"slug,omitempty"`
	Description  *string `json:"description,omitempty"`
	PriceCents   *int    `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	MainImageURL *string `json:"main_image_url,omitempty"`
	InStock      *bool   `json:"in_stock,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// AdminUpdateProduct applies a partial product mutation.
func AdminUpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.UpdateProduct(ctx, id, productsvc.UpdateProductInput{
			Title:        payload.Title,
			Slug:         payload.Slug,
			Description:  payload.Description,
			PriceCents:   payload.PriceCents,
			MainImageURL: payload.MainImageURL,
			InStock:      payload.InStock,
			IsActive:     payload.IsActive,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminDeleteProduct retires a product from the storefront catalog.
func AdminDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeleteProduct(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

type setStockRequest struct {
	InStock *bool `json:"in_stock" validate:"required"`
}

// AdminSetProductStock flips the stock flag on a product.
func AdminSetProductStock(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := parseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload setStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if payload.InStock == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "in_stock is required"))
			return
		}

		if err := svc.SetStock(ctx, id, *payload.InStock); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"in_stock": *payload.InStock})
	}
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "id is required").WithDetails(map[string]any{"param": name})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id")
	}
	return id, nil
}
