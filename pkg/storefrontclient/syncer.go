package storefrontclient

import (
	"context"
	"errors"

	"github.com/merchkit/storefront-backend/pkg/cartstate"
	"github.com/merchkit/storefront-backend/pkg/logger"
)

// ErrStaleSync reports that a fetch completed after a newer local mutation
// and its result was discarded. Callers may retry the sync.
var ErrStaleSync = errors.New("sync result discarded: local state changed during fetch")

// Syncer coordinates the local cartstate store with the remote item store.
// Local mutations apply optimistically before the server confirms; remote
// snapshots install via full replace. The store's version counter is the
// sync token: a fetch stamps the version when it starts, and its result is
// discarded if any mutation (through the Syncer or directly on the store)
// bumped the version while the fetch was in flight.
type Syncer struct {
	client *Client
	store  *cartstate.Store
	ctrl   *cartstate.QuantityController
	logg   *logger.Logger
}

// NewSyncer wires a client and a store together.
func NewSyncer(client *Client, store *cartstate.Store, logg *logger.Logger) *Syncer {
	return &Syncer{
		client: client,
		store:  store,
		ctrl:   cartstate.NewQuantityController(store),
		logg:   logg,
	}
}

// Store exposes the underlying local state store.
func (s *Syncer) Store() *cartstate.Store {
	return s.store
}

// SyncCart pulls the remote cart and installs it via full replace. The
// result is discarded when a local mutation landed while the fetch was in
// flight. On fetch failure local state is left unchanged.
func (s *Syncer) SyncCart(ctx context.Context) error {
	before := s.store.Version()
	entries, err := s.client.FetchCart(ctx)
	if err != nil {
		s.logFetchError(ctx, "cart.sync.failed", err)
		return err
	}
	if s.store.Version() != before {
		return ErrStaleSync
	}
	s.store.SetCart(cartstate.MapCartEntries(entries))
	return nil
}

// SyncWishlist pulls the remote wishlist and installs it via full replace,
// with the same staleness guard as SyncCart.
func (s *Syncer) SyncWishlist(ctx context.Context) error {
	before := s.store.Version()
	entries, err := s.client.FetchWishlist(ctx)
	if err != nil {
		s.logFetchError(ctx, "wishlist.sync.failed", err)
		return err
	}
	if s.store.Version() != before {
		return ErrStaleSync
	}
	s.store.SetWishlist(cartstate.MapWishlistEntries(entries))
	return nil
}

// AddToCart applies the line item locally, then posts it to the server.
// A server failure does not roll back the optimistic change; the next full
// sync is the recovery path.
func (s *Syncer) AddToCart(ctx context.Context, item cartstate.CartLineItem) error {
	s.store.AddToCart(item)
	if err := s.client.AddCartItem(ctx, item.ProductID, item.Amount); err != nil {
		s.logFetchError(ctx, "cart.add.unconfirmed", err)
		return err
	}
	return nil
}

// RemoveFromCart removes the line locally, then confirms with the server.
func (s *Syncer) RemoveFromCart(ctx context.Context, productID string) error {
	s.store.RemoveFromCart(productID)
	if err := s.client.RemoveCartItem(ctx, productID); err != nil {
		s.logFetchError(ctx, "cart.remove.unconfirmed", err)
		return err
	}
	return nil
}

// Increment raises the line quantity locally and patches the server.
func (s *Syncer) Increment(ctx context.Context, productID string) error {
	amount := s.ctrl.Increment(productID)
	if amount == 0 {
		return nil
	}
	if err := s.client.UpdateCartItem(ctx, productID, amount); err != nil {
		s.logFetchError(ctx, "cart.increment.unconfirmed", err)
		return err
	}
	return nil
}

// Decrement lowers the line quantity locally and patches the server. At the
// floor the local operation no-ops and no request is sent.
func (s *Syncer) Decrement(ctx context.Context, productID string) error {
	current, ok := s.store.CartItem(productID)
	if !ok || current.Amount <= 1 {
		return nil
	}
	amount := s.ctrl.Decrement(productID)
	if err := s.client.UpdateCartItem(ctx, productID, amount); err != nil {
		s.logFetchError(ctx, "cart.decrement.unconfirmed", err)
		return err
	}
	return nil
}

// ClearCart empties the cart locally and remotely.
func (s *Syncer) ClearCart(ctx context.Context) error {
	s.store.SetCart(nil)
	if err := s.client.ClearCart(ctx); err != nil {
		s.logFetchError(ctx, "cart.clear.unconfirmed", err)
		return err
	}
	return nil
}

// AddToWishlist likes the product locally, then confirms with the server.
func (s *Syncer) AddToWishlist(ctx context.Context, item cartstate.WishlistItem) error {
	s.store.AddToWishlist(item)
	if err := s.client.AddWishlistItem(ctx, item.ID); err != nil {
		s.logFetchError(ctx, "wishlist.add.unconfirmed", err)
		return err
	}
	return nil
}

// RemoveFromWishlist unlikes the product locally, then confirms with the server.
func (s *Syncer) RemoveFromWishlist(ctx context.Context, productID string) error {
	s.store.RemoveFromWishlist(productID)
	if err := s.client.RemoveWishlistItem(ctx, productID); err != nil {
		s.logFetchError(ctx, "wishlist.remove.unconfirmed", err)
		return err
	}
	return nil
}

func (s *Syncer) logFetchError(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Error(ctx, msg, err)
}
