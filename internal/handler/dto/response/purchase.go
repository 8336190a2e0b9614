package response

import (
	"time"

	"conftix/internal/usecase/commands"
	"conftix/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type PurchaseResponse struct {
	ID               uuid.UUID  `json:"id"`
	ProductID        *uuid.UUID `json:"product_id,omitempty"`
	ProductName      *string    `json:"product_name,omitempty"`
	ReplayID         *uuid.UUID `json:"replay_id,omitempty"`
	EventYear        int        `json:"event_year"`
	PaymentReference string     `json:"payment_reference"`
	OrderType        string     `json:"order_type"`
	CouponCode       *string    `json:"coupon_code,omitempty"`
	DiscountCents    *int64     `json:"discount_cents,omitempty"`
	PurchasedAt      time.Time  `json:"purchased_at"`
}

func FromPurchaseView(view *queries.PurchaseView) *PurchaseResponse {
	var resp PurchaseResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromPurchaseRecord(record *commands.PurchaseRecord) *PurchaseResponse {
	var resp PurchaseResponse
	_ = copier.Copy(&resp, record)
	return &resp
}

func FromPurchaseRecords(records []commands.PurchaseRecord) []*PurchaseResponse {
	out := make([]*PurchaseResponse, len(records))
	for i := range records {
		out[i] = FromPurchaseRecord(&records[i])
	}
	return out
}
