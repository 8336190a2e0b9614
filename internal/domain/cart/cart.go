package cart

import (
	"time"

	"conftix/internal/domain/product"

	"github.com/google/uuid"
)

// Item is one cart line. Amounts mirror the catalog at the time the item was
// added; checkout re-prices from the catalog regardless.
type Item struct {
	ProductID   uuid.UUID    `json:"product_id"`
	Name        string       `json:"name"`
	Kind        product.Kind `json:"kind"`
	EventYear   int          `json:"event_year"`
	AmountCents int64        `json:"amount_cents"`
	Currency    string       `json:"currency"`
}

// Cart is an ordered list of items with at most one entry per product.
// It lives for a browsing session only and is never the pricing authority.
type Cart struct {
	Token     string    `json:"token"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New(token string) *Cart {
	return &Cart{Token: token}
}

func ItemFromProduct(p *product.Product) Item {
	return Item{
		ProductID:   p.ID(),
		Name:        p.Name(),
		Kind:        p.Kind(),
		EventYear:   p.EventYear(),
		AmountCents: p.AmountCents(),
		Currency:    p.Currency(),
	}
}

// Add appends the item, replacing any existing line for the same product.
func (c *Cart) Add(item Item) {
	for i, existing := range c.Items {
		if existing.ProductID == item.ProductID {
			c.Items[i] = item
			return
		}
	}
	c.Items = append(c.Items, item)
}

// Remove drops the line for productID; no-op when absent.
func (c *Cart) Remove(productID uuid.UUID) {
	for i, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

// TotalCents is the sum of line amounts in minor units; 0 for an empty cart.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.AmountCents
	}
	return total
}

// ItemCount counts distinct product lines, not quantities.
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.ProductID
	}
	return ids
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
