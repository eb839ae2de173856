// Package cartstate holds the client-visible cart and wishlist state for a
// storefront session. The store is the local source of truth between syncs
// with the backend: mutations apply optimistically and observers are
// notified synchronously on every change.
package cartstate

import (
	"sync"

	"github.com/shopspring/decimal"
)

// CartLineItem is one product entry in the cart, carrying a quantity
// distinct from the product's own catalog data.
type CartLineItem struct {
	ProductID string
	Title     string
	Slug      string
	Image     string
	UnitPrice decimal.Decimal
	InStock   bool
	Amount    int
}

// LineTotal returns unit price times amount.
func (i CartLineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Amount)))
}

// WishlistItem is a liked product. Presence is set semantics: a product is
// either in the wishlist or not, never duplicated.
type WishlistItem struct {
	ID      string
	Title   string
	Slug    string
	Image   string
	Price   decimal.Decimal
	InStock bool
}

// Snapshot is an immutable copy of the store contents handed to observers.
type Snapshot struct {
	Items        []CartLineItem
	AllQuantity  int
	Wishlist     []WishlistItem
	WishQuantity int
	Version      uint64
}

// CartTotal sums the line totals of every cart entry.
func (s Snapshot) CartTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Observer receives a snapshot after every observable state change.
type Observer func(Snapshot)

// Store is the in-memory cart/wishlist state holder. It maintains the
// aggregate invariants on every mutation: AllQuantity always equals the sum
// of item amounts, WishQuantity always equals the wishlist length, and no
// two cart entries share a product ID.
type Store struct {
	mu           sync.Mutex
	items        []CartLineItem
	allQuantity  int
	wishlist     []WishlistItem
	wishQuantity int
	version      uint64
	observers    map[int]Observer
	nextObserver int
	closed       bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{observers: make(map[int]Observer)}
}

// Subscribe registers an observer and returns its detach function.
func (s *Store) Subscribe(fn Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || fn == nil {
		return func() {}
	}
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Close detaches every observer and drops all further mutations, so state
// changes after teardown are never observable.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.observers = make(map[int]Observer)
}

// Version returns the current mutation counter. It advances only on
// observable changes; no-op operations leave it untouched.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// AddToCart appends a new line item. Adding a product already in the cart
// is a no-op on the append path; amount changes go through UpdateCartAmount.
// Items with amount < 1 are invalid and ignored.
func (s *Store) AddToCart(item CartLineItem) {
	if item.ProductID == "" || item.Amount < 1 {
		return
	}
	s.mutate(func() bool {
		for _, existing := range s.items {
			if existing.ProductID == item.ProductID {
				return false
			}
		}
		s.items = append(s.items, item)
		return true
	})
}

// RemoveFromCart drops the matching line item. Absent products are a no-op,
// not an error.
func (s *Store) RemoveFromCart(productID string) {
	s.mutate(func() bool {
		for i, existing := range s.items {
			if existing.ProductID == productID {
				s.items = append(s.items[:i], s.items[i+1:]...)
				return true
			}
		}
		return false
	})
}

// UpdateCartAmount sets the amount for the matching line item. A newAmount
// below 1 is invalid by policy: the previous amount is retained.
func (s *Store) UpdateCartAmount(productID string, newAmount int) {
	if newAmount < 1 {
		return
	}
	s.mutate(func() bool {
		for i, existing := range s.items {
			if existing.ProductID == productID {
				if existing.Amount == newAmount {
					return false
				}
				s.items[i].Amount = newAmount
				return true
			}
		}
		return false
	})
}

// SetCart replaces the whole cart with the provided list. Used for
// full-replace sync from the remote store.
func (s *Store) SetCart(items []CartLineItem) {
	s.mutate(func() bool {
		s.items = append([]CartLineItem(nil), items...)
		return true
	})
}

// AddToWishlist appends the product unless it is already present. Duplicate
// adds have no additional effect.
func (s *Store) AddToWishlist(item WishlistItem) {
	if item.ID == "" {
		return
	}
	s.mutate(func() bool {
		for _, existing := range s.wishlist {
			if existing.ID == item.ID {
				return false
			}
		}
		s.wishlist = append(s.wishlist, item)
		return true
	})
}

// RemoveFromWishlist drops the matching entry; absent IDs are a no-op.
func (s *Store) RemoveFromWishlist(id string) {
	s.mutate(func() bool {
		for i, existing := range s.wishlist {
			if existing.ID == id {
				s.wishlist = append(s.wishlist[:i], s.wishlist[i+1:]...)
				return true
			}
		}
		return false
	})
}

// SetWishlist replaces the whole wishlist with the provided list.
func (s *Store) SetWishlist(items []WishlistItem) {
	s.mutate(func() bool {
		s.wishlist = append([]WishlistItem(nil), items...)
		return true
	})
}

// Reset empties both cart and wishlist. Called at logout.
func (s *Store) Reset() {
	s.mutate(func() bool {
		s.items = nil
		s.wishlist = nil
		return true
	})
}

// Cart returns a copy of the current line items.
func (s *Store) Cart() []CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CartLineItem(nil), s.items...)
}

// CartItem returns the line item for the product, if present.
func (s *Store) CartItem(productID string) (CartLineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return CartLineItem{}, false
}

// AllQuantity returns the derived sum of all cart amounts.
func (s *Store) AllQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allQuantity
}

// Wishlist returns a copy of the current wishlist.
func (s *Store) Wishlist() []WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]WishlistItem(nil), s.wishlist...)
}

// InWishlist reports whether the product is currently liked.
func (s *Store) InWishlist(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.wishlist {
		if item.ID == id {
			return true
		}
	}
	return false
}

// WishQuantity returns the derived wishlist count.
func (s *Store) WishQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishQuantity
}

// Snapshot returns a consistent copy of the full state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// mutate runs fn under the lock; when fn reports a change it recomputes the
// derived aggregates, bumps the version, and notifies observers after the
// lock is released. Notification is synchronous in the caller's goroutine.
func (s *Store) mutate(fn func() bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	changed := fn()
	if !changed {
		s.mu.Unlock()
		return
	}
	s.recomputeLocked()
	s.version++
	snapshot := s.snapshotLocked()
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

func (s *Store) recomputeLocked() {
	total := 0
	for _, item := range s.items {
		total += item.Amount
	}
	s.allQuantity = total
	s.wishQuantity = len(s.wishlist)
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Items:        append([]CartLineItem(nil), s.items...),
		AllQuantity:  s.allQuantity,
		Wishlist:     append([]WishlistItem(nil), s.wishlist...),
		WishQuantity: s.wishQuantity,
		Version:      s.version,
	}
}
