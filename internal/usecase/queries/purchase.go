package queries

import (
	"context"
	"time"

	"conftix/internal/pkg/errs"

	"github.com/google/uuid"
)

type PurchaseView struct {
	ID               uuid.UUID
	ProductID        *uuid.UUID
	ProductName      *string
	ReplayID         *uuid.UUID
	EventYear        int
	PaymentReference string
	OrderType        string
	CouponCode       *string
	DiscountCents    *int64
	PurchasedAt      time.Time
}

type PurchaseReadStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]PurchaseView, error)
}

type PurchaseQueries interface {
	GetUserPurchases(ctx context.Context, userID uuid.UUID) ([]PurchaseView, error)
}

type purchaseQueriesImpl struct {
	readStore PurchaseReadStore
}

func NewPurchaseQueries(readStore PurchaseReadStore) PurchaseQueries {
	return &purchaseQueriesImpl{readStore: readStore}
}

func (q *purchaseQueriesImpl) GetUserPurchases(ctx context.Context, userID uuid.UUID) ([]PurchaseView, error) {
	views, err := q.readStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return views, nil
}
