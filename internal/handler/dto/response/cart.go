package response

import (
	"conftix/internal/domain/cart"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type CartItemResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"`
	EventYear   int       `json:"event_year"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
}

type CartResponse struct {
	Token      string             `json:"token"`
	Items      []CartItemResponse `json:"items"`
	ItemCount  int                `json:"item_count"`
	TotalCents int64              `json:"total_cents"`
}

func FromCart(c *cart.Cart) *CartResponse {
	items := make([]CartItemResponse, len(c.Items))
	_ = copier.Copy(&items, &c.Items)
	return &CartResponse{
		Token:      c.Token,
		Items:      items,
		ItemCount:  c.ItemCount(),
		TotalCents: c.TotalCents(),
	}
}
