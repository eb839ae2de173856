package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/merchkit/storefront-backend/internal/auth"
	"github.com/merchkit/storefront-backend/internal/cart"
	product "github.com/merchkit/storefront-backend/internal/products"
	"github.com/merchkit/storefront-backend/internal/users"
	"github.com/merchkit/storefront-backend/internal/wishlist"
	pkgauth "github.com/merchkit/storefront-backend/pkg/auth"
	"github.com/merchkit/storefront-backend/pkg/config"
	"github.com/merchkit/storefront-backend/pkg/enums"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{AccessToken: "a", RefreshToken: "r"}, nil
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return &auth.RefreshResponse{AccessToken: "a", RefreshToken: "r"}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{Email: req.Email}, nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubProductService struct{}

func (stubProductService) GetProduct(ctx context.Context, id uuid.UUID) (*product.ProductDTO, error) {
	return &product.ProductDTO{ID: id}, nil
}

func (stubProductService) GetProductBySlug(ctx context.Context, slug string) (*product.ProductDTO, error) {
	return &product.ProductDTO{Slug: slug}, nil
}

func (stubProductService) ListProducts(ctx context.Context, input product.ListProductsInput) (*product.ProductListResult, error) {
	return &product.ProductListResult{}, nil
}

func (stubProductService) CreateProduct(ctx context.Context, input product.CreateProductInput) (*product.ProductDTO, error) {
	return &product.ProductDTO{SKU: input.SKU}, nil
}

func (stubProductService) UpdateProduct(ctx context.Context, productID uuid.UUID, input product.UpdateProductInput) (*product.ProductDTO, error) {
	return &product.ProductDTO{ID: productID}, nil
}

func (stubProductService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return nil
}

func (stubProductService) SetStock(ctx context.Context, productID uuid.UUID, inStock bool) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (cart.CartDTO, error) {
	return cart.CartDTO{Items: []cart.CartEntryDTO{}}, nil
}

func (stubCartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (cart.CartDTO, error) {
	return cart.CartDTO{Items: []cart.CartEntryDTO{}}, nil
}

func (stubCartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (cart.CartDTO, error) {
	return cart.CartDTO{Items: []cart.CartEntryDTO{}}, nil
}

func (stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (cart.CartDTO, error) {
	return cart.CartDTO{Items: []cart.CartEntryDTO{}}, nil
}

func (stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return nil
}

type stubWishlistService struct{}

func (stubWishlistService) GetWishlist(ctx context.Context, userID uuid.UUID, cursor string, limit int) (wishlist.WishlistItemsPageDTO, error) {
	return wishlist.WishlistItemsPageDTO{Items: []wishlist.WishlistItemDTO{}}, nil
}

func (stubWishlistService) GetWishlistIDs(ctx context.Context, userID uuid.UUID, cursor string, limit int) (wishlist.WishlistIDsDTO, error) {
	return wishlist.WishlistIDsDTO{ProductIDs: []uuid.UUID{}}, nil
}

func (stubWishlistService) AddItem(ctx context.Context, userID, productID uuid.UUID) error {
	return nil
}

func (stubWishlistService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	return nil
}

func routerTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:  "dev",
			Port: "8080",
		},
		JWT: config.JWTConfig{
			Secret:            "router-secret",
			Issuer:            "storefront",
			ExpirationMinutes: 30,
		},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Config:          routerTestConfig(),
		DB:              stubPinger{},
		SessionChecker:  stubSessionChecker{},
		AuthService:     stubAuthService{},
		RegisterService: stubRegisterService{},
		ProductService:  stubProductService{},
		CartService:     stubCartService{},
		WishlistService: stubWishlistService{},
	})
}

func mintToken(t *testing.T, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(routerTestConfig().JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "router@example.com",
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestRouterPublicRoutes(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready", "/api/public/ping", "/api/v1/products/"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, resp.Code)
		}
	}
}

func TestRouterCartRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestRouterCartWithToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRouterAdminRejectsCustomer(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestRouterAdminAllowsAdmin(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}
