package purchase

import "errors"

var ErrInvalidOrderType = errors.New("invalid order type")

type OrderType string

const (
	// OrderTypePaid comes out of a confirmed payment.
	OrderTypePaid OrderType = "paid"
	// OrderTypeManual is recorded by operators reconciling out-of-band payments.
	OrderTypeManual OrderType = "manual"
	// OrderTypeAdminGrant is access granted without payment.
	OrderTypeAdminGrant OrderType = "admin_grant"
)

func (t OrderType) String() string {
	return string(t)
}

func (t OrderType) IsValid() bool {
	switch t {
	case OrderTypePaid, OrderTypeManual, OrderTypeAdminGrant:
		return true
	default:
		return false
	}
}

func NewOrderType(s string) (OrderType, error) {
	t := OrderType(s)
	if !t.IsValid() {
		return "", ErrInvalidOrderType
	}
	return t, nil
}
