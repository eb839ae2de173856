package cartstate

// QuantityController drives the plus/minus quantity controls for cart line
// items. Amounts never leave the range [1, ∞): going below 1 is rejected at
// this boundary, and removal is a separate explicit action on the store.
type QuantityController struct {
	store *Store
}

// NewQuantityController binds the controller to a store.
func NewQuantityController(store *Store) *QuantityController {
	return &QuantityController{store: store}
}

// Increment raises the amount by one. No upper bound is enforced here;
// stock limits are applied server side. Returns the resulting amount, or 0
// when the product is not in the cart.
func (c *QuantityController) Increment(productID string) int {
	item, ok := c.store.CartItem(productID)
	if !ok {
		return 0
	}
	c.store.UpdateCartAmount(productID, item.Amount+1)
	return item.Amount + 1
}

// Decrement lowers the amount by one. At amount 1 the operation is a no-op
// rather than a removal or a clamp. Returns the resulting amount, or 0 when
// the product is not in the cart.
func (c *QuantityController) Decrement(productID string) int {
	item, ok := c.store.CartItem(productID)
	if !ok {
		return 0
	}
	if item.Amount <= 1 {
		return item.Amount
	}
	c.store.UpdateCartAmount(productID, item.Amount-1)
	return item.Amount - 1
}
