package purchase

import (
	"errors"
	"time"

	"conftix/internal/domain/product"

	"github.com/google/uuid"
)

var (
	ErrMissingPurchaser       = errors.New("purchase requires a user or a payer email")
	ErrMissingPaymentRef      = errors.New("paid purchase requires a payment reference")
	ErrBundleCarriesReplayID  = errors.New("year bundle purchase must not reference a replay")
	ErrReplayPurchaseNoReplay = errors.New("single replay purchase requires a replay id")
)

// Purchase is an entitlement record. A row with a nil replay ID grants access
// to every replay of its event year (bundle semantics); a row with a concrete
// replay ID grants that single replay only.
type Purchase struct {
	id            uuid.UUID
	userID        *uuid.UUID
	payerEmail    string
	productID     *uuid.UUID
	replayID      *uuid.UUID
	eventYear     int
	paymentRef    string
	orderType     OrderType
	couponCode    *string
	discountCents *int64
	purchasedAt   time.Time
}

// FromProduct builds the purchase a confirmed payment of p produces.
func FromProduct(
	p *product.Product,
	userID *uuid.UUID,
	payerEmail string,
	paymentRef string,
	couponCode *string,
	discountCents *int64,
	at time.Time,
) (*Purchase, error) {
	if userID == nil && payerEmail == "" {
		return nil, ErrMissingPurchaser
	}
	if paymentRef == "" {
		return nil, ErrMissingPaymentRef
	}

	var replayID *uuid.UUID
	switch p.Kind() {
	case product.KindSingleReplay:
		if p.ReplayID() == nil {
			return nil, ErrReplayPurchaseNoReplay
		}
		id := *p.ReplayID()
		replayID = &id
	case product.KindYearBundle:
		replayID = nil
	default:
		return nil, product.ErrInvalidKind
	}

	productID := p.ID()
	return &Purchase{
		id:            uuid.New(),
		userID:        userID,
		payerEmail:    payerEmail,
		productID:     &productID,
		replayID:      replayID,
		eventYear:     p.EventYear(),
		paymentRef:    paymentRef,
		orderType:     OrderTypePaid,
		couponCode:    couponCode,
		discountCents: discountCents,
		purchasedAt:   at,
	}, nil
}

// NewGrant builds an admin grant: a bundle-style entitlement for an event
// year, or a single replay when replayID is set. No payment is involved.
func NewGrant(userID uuid.UUID, eventYear int, replayID *uuid.UUID, reference string, at time.Time) (*Purchase, error) {
	if reference == "" {
		return nil, ErrMissingPaymentRef
	}
	uid := userID
	return &Purchase{
		id:          uuid.New(),
		userID:      &uid,
		replayID:    replayID,
		eventYear:   eventYear,
		paymentRef:  reference,
		orderType:   OrderTypeAdminGrant,
		purchasedAt: at,
	}, nil
}

// GrantsReplay reports whether this record entitles access to the given
// replay of the given event year.
func (p *Purchase) GrantsReplay(replayID uuid.UUID, eventYear int) bool {
	if p.replayID == nil {
		return p.eventYear == eventYear
	}
	return *p.replayID == replayID
}

func (p *Purchase) ID() uuid.UUID         { return p.id }
func (p *Purchase) UserID() *uuid.UUID    { return p.userID }
func (p *Purchase) PayerEmail() string    { return p.payerEmail }
func (p *Purchase) ProductID() *uuid.UUID { return p.productID }
func (p *Purchase) ReplayID() *uuid.UUID  { return p.replayID }
func (p *Purchase) EventYear() int        { return p.eventYear }
func (p *Purchase) PaymentRef() string    { return p.paymentRef }
func (p *Purchase) OrderType() OrderType  { return p.orderType }
func (p *Purchase) CouponCode() *string   { return p.couponCode }
func (p *Purchase) DiscountCents() *int64 { return p.discountCents }
func (p *Purchase) PurchasedAt() time.Time { return p.purchasedAt }
