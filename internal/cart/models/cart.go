package models

import (
	"sync"

	id "brewleaf/pkg/domain"
	"brewleaf/pkg/money"
)

// Variant is the grind/preparation selector that distinguishes otherwise
// identical line items.
type Variant string

const (
	VariantWholeBean Variant = "whole-bean"
	VariantCoarse    Variant = "coarse"
	VariantMedium    Variant = "medium"
	VariantFine      Variant = "fine"
	VariantExtraFine Variant = "extra-fine"
)

// IsValid reports whether v is one of the offered grind options.
func (v Variant) IsValid() bool {
	switch v {
	case VariantWholeBean, VariantCoarse, VariantMedium, VariantFine, VariantExtraFine:
		return true
	}
	return false
}

// LineItem is one product+variant entry in a cart.
type LineItem struct {
	ProductID id.ProductID `json:"product_id"`
	Variant   Variant      `json:"variant"`
	Name      string       `json:"name"`
	UnitPrice money.Amount `json:"unit_price"`
	Quantity  int          `json:"quantity"`
}

// Subtotal is UnitPrice × Quantity.
func (li LineItem) Subtotal() money.Amount {
	return li.UnitPrice.Mul(li.Quantity)
}

func (li LineItem) matches(productID id.ProductID, variant Variant) bool {
	return li.ProductID == productID && li.Variant == variant
}

// Cart is a session's in-progress line items plus the drawer flag.
//
// Invariants:
//   - at most one LineItem per (ProductID, Variant)
//   - every LineItem has Quantity >= 1
//   - Items keeps insertion order, which is the display order
//   - totals are derived from Items on every call, never cached
//
// Every method holds the cart's lock for its whole read-modify-write, so a
// Cart may be shared between goroutines.
type Cart struct {
	mu         sync.Mutex
	items      []LineItem
	drawerOpen bool
}

// NewCart returns an empty cart with the drawer closed.
func NewCart() *Cart {
	return &Cart{}
}

// AddItem merges quantity into the line with the same product and variant, or
// appends a new line. It always opens the drawer. Callers must pass
// quantity >= 1; the cart does not validate it.
func (c *Cart) AddItem(productID id.ProductID, variant Variant, name string, unitPrice money.Amount, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.drawerOpen = true
	for i := range c.items {
		if c.items[i].matches(productID, variant) {
			c.items[i].Quantity += quantity
			return
		}
	}
	c.items = append(c.items, LineItem{
		ProductID: productID,
		Variant:   variant,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
	})
}

// RemoveItem deletes the matching line. Removing a missing line is a no-op.
func (c *Cart) RemoveItem(productID id.ProductID, variant Variant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID, variant)
}

func (c *Cart) removeLocked(productID id.ProductID, variant Variant) {
	kept := c.items[:0]
	for _, li := range c.items {
		if !li.matches(productID, variant) {
			kept = append(kept, li)
		}
	}
	clear(c.items[len(kept):])
	c.items = kept
}

// UpdateQuantity sets the line's quantity exactly. A quantity <= 0 removes the line.
// Updating a missing line is a no-op.
func (c *Cart) UpdateQuantity(productID id.ProductID, variant Variant, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.removeLocked(productID, variant)
		return
	}
	for i := range c.items {
		if c.items[i].matches(productID, variant) {
			c.items[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart. The drawer flag is left as is.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a copy of the line items in display order.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// TotalItems is the sum of all quantities.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, li := range c.items {
		n += li.Quantity
	}
	return n
}

// TotalPrice is the sum of UnitPrice × Quantity over all lines: the subtotal
// handed to pricing.
func (c *Cart) TotalPrice() money.Amount {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total money.Amount
	for _, li := range c.items {
		total = total.Add(li.Subtotal())
	}
	return total
}

func (c *Cart) OpenDrawer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drawerOpen = true
}

func (c *Cart) CloseDrawer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drawerOpen = false
}

func (c *Cart) ToggleDrawer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drawerOpen = !c.drawerOpen
}

func (c *Cart) DrawerOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drawerOpen
}

// Snapshot is the serializable state of a cart, used by session stores.
type Snapshot struct {
	Items      []LineItem `json:"items"`
	DrawerOpen bool       `json:"drawer_open"`
}

// Snapshot copies the cart state.
func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]LineItem, len(c.items))
	copy(items, c.items)
	return Snapshot{Items: items, DrawerOpen: c.drawerOpen}
}

// FromSnapshot rebuilds a cart, re-establishing the invariants: zero or
// negative quantities are dropped and duplicate keys are merged.
func FromSnapshot(s Snapshot) *Cart {
	c := &Cart{drawerOpen: s.DrawerOpen}
	for _, li := range s.Items {
		if li.Quantity <= 0 {
			continue
		}
		merged := false
		for i := range c.items {
			if c.items[i].matches(li.ProductID, li.Variant) {
				c.items[i].Quantity += li.Quantity
				merged = true
				break
			}
		}
		if !merged {
			c.items = append(c.items, li)
		}
	}
	return c
}

// UserSession is the cart key of a signed-in user.
func UserSession(userID id.UserID) string {
	return "user:" + userID.String()
}

// GuestSession is the cart key of an anonymous client-held session token.
func GuestSession(token string) string {
	return "guest:" + token
}
