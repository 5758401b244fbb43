package cart

import (
	"sync"

	"github.com/goliatone/go-storefront/api"
)

// LineItem is a product snapshot and the quantity requested, always >= 1.
type LineItem struct {
	Product  api.Product
	Quantity int
}

// UnitPrice is the price charged per unit, in cents.
func (li LineItem) UnitPrice() int64 {
	return li.Product.EffectivePrice()
}

// Subtotal is UnitPrice times Quantity, in cents.
func (li LineItem) Subtotal() int64 {
	return li.UnitPrice() * int64(li.Quantity)
}

// Cart holds line items keyed by product id, in the order they were first added.
// It is safe for concurrent use.
type Cart struct {
	mu    sync.RWMutex
	items map[string]*LineItem
	order []string
}

func New() *Cart {
	return &Cart{items: make(map[string]*LineItem)}
}

// Add puts one unit of product in the cart. Adding a product already in the
// cart increments its quantity and refreshes the snapshot.
func (c *Cart) Add(product api.Product) {
	if product.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, ok := c.items[product.ID]; ok {
		item.Product = product
		item.Quantity++
		return
	}
	c.items[product.ID] = &LineItem{Product: product, Quantity: 1}
	c.order = append(c.order, product.ID)
}

// SetQuantity sets the quantity of a product already in the cart. A quantity
// of zero or less removes the line item.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if item, ok := c.items[productID]; ok {
		item.Quantity = quantity
	}
}

func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[productID]; !ok {
		return
	}
	delete(c.items, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*LineItem)
	c.order = nil
}

// TotalItems is the sum of all quantities.
func (c *Cart) TotalItems() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the exact sum of every line subtotal, in cents.
func (c *Cart) TotalPrice() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var total int64
	for _, item := range c.items {
		total += item.Subtotal()
	}
	return total
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]LineItem, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.items[id])
	}
	return out
}

func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
