// Package storefrontclient consumes the storefront API from a client
// runtime, pairing the remote cart/wishlist endpoints with the local
// cartstate store.
package storefrontclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/merchkit/storefront-backend/pkg/cartstate"
	pkgerrors "github.com/merchkit/storefront-backend/pkg/errors"
	"github.com/merchkit/storefront-backend/pkg/pagination"
	"github.com/merchkit/storefront-backend/pkg/types"
)

const defaultTimeout = 15 * time.Second

// Options configures the API client.
type Options struct {
	BaseURL string
	// Token is the bearer access token identifying the session. The client
	// treats it as an opaque key.
	Token      string
	HTTPClient *http.Client
}

// Client is a thin typed wrapper over the storefront HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New validates the options and returns a ready client.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: base,
		token:   opts.Token,
		http:    httpClient,
	}, nil
}

// SetToken swaps the bearer token, e.g. after login or refresh.
func (c *Client) SetToken(token string) {
	c.token = token
}

// FetchCart returns the authoritative cart rows for the session identity.
func (c *Client) FetchCart(ctx context.Context) ([]cartstate.RemoteCartEntry, error) {
	var payload struct {
		Items []cartstate.RemoteCartEntry `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/cart", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// AddCartItem appends one cart row; the server increments the quantity when
// the product is already present.
func (c *Client) AddCartItem(ctx context.Context, productID string, quantity int) error {
	payload := map[string]any{"product_id": productID, "quantity": quantity}
	return c.do(ctx, http.MethodPost, "/api/v1/cart", payload, nil)
}

// UpdateCartItem sets the quantity for one cart row.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) error {
	payload := map[string]any{"quantity": quantity}
	return c.do(ctx, http.MethodPatch, "/api/v1/cart/"+url.PathEscape(productID), payload, nil)
}

// RemoveCartItem deletes one cart row.
func (c *Client) RemoveCartItem(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/cart/"+url.PathEscape(productID), nil, nil)
}

// ClearCart deletes every cart row for the session identity.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/cart", nil, nil)
}

// FetchWishlist returns the authoritative wishlist rows. The server
// paginates, so the largest allowed page is requested in one shot.
func (c *Client) FetchWishlist(ctx context.Context) ([]cartstate.RemoteWishlistEntry, error) {
	var payload struct {
		Items []cartstate.RemoteWishlistEntry `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/wishlist?limit="+strconv.Itoa(pagination.MaxLimit), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// AddWishlistItem likes a product; duplicate adds are idempotent server side.
func (c *Client) AddWishlistItem(ctx context.Context, productID string) error {
	payload := map[string]any{"product_id": productID}
	return c.do(ctx, http.MethodPost, "/api/v1/wishlist", payload, nil)
}

// RemoveWishlistItem removes one wishlist entry.
func (c *Client) RemoveWishlistItem(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/wishlist/"+url.PathEscape(productID), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storefront api unreachable")
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	envelope := types.SuccessEnvelope{Data: out}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response body")
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error.Code == "" {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("storefront api returned status %d", resp.StatusCode))
	}
	return pkgerrors.New(pkgerrors.Code(envelope.Error.Code), envelope.Error.Message)
}
