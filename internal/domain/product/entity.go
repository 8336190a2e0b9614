package product

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount      = errors.New("product amount must be positive")
	ErrInvalidEventYear   = errors.New("invalid event year")
	ErrMissingReplayID    = errors.New("single replay product requires a replay id")
	ErrUnexpectedReplayID = errors.New("year bundle product must not carry a replay id")
	ErrProductInactive    = errors.New("product is not active")
)

// Product is a catalog entry: either one replay video or a whole-year bundle.
// Amounts are minor currency units.
type Product struct {
	id          uuid.UUID
	slug        string
	name        string
	kind        Kind
	eventYear   int
	replayID    *uuid.UUID
	amountCents int64
	currency    string
	active      bool
}

func NewProduct(
	id uuid.UUID,
	slug, name string,
	kind Kind,
	eventYear int,
	replayID *uuid.UUID,
	amountCents int64,
	currency string,
	active bool,
) (*Product, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if eventYear < 2000 || eventYear > 2200 {
		return nil, ErrInvalidEventYear
	}

	switch kind {
	case KindSingleReplay:
		if replayID == nil {
			return nil, ErrMissingReplayID
		}
	case KindYearBundle:
		if replayID != nil {
			return nil, ErrUnexpectedReplayID
		}
	}

	return &Product{
		id:          id,
		slug:        slug,
		name:        name,
		kind:        kind,
		eventYear:   eventYear,
		replayID:    replayID,
		amountCents: amountCents,
		currency:    currency,
		active:      active,
	}, nil
}

// EnsurePurchasable rejects products that cannot be placed in a checkout.
func (p *Product) EnsurePurchasable() error {
	if !p.active {
		return ErrProductInactive
	}
	return nil
}

func (p *Product) ID() uuid.UUID        { return p.id }
func (p *Product) Slug() string         { return p.slug }
func (p *Product) Name() string         { return p.name }
func (p *Product) Kind() Kind           { return p.kind }
func (p *Product) EventYear() int       { return p.eventYear }
func (p *Product) ReplayID() *uuid.UUID { return p.replayID }
func (p *Product) AmountCents() int64   { return p.amountCents }
func (p *Product) Currency() string     { return p.currency }
func (p *Product) Active() bool         { return p.active }
