//go:build unit || e2e

package builder

import (
	domproduct "conftix/internal/domain/product"
	"conftix/internal/usecase/commands"

	"github.com/google/uuid"
)

type ProductBuilder struct {
	ID          uuid.UUID
	Slug        string
	Name        string
	Kind        string
	EventYear   int
	ReplayID    *uuid.UUID
	AmountCents int64
	Currency    string
	Active      bool
}

func NewProductBuilder() *ProductBuilder {
	replayID := uuid.New()
	return &ProductBuilder{
		ID:          uuid.New(),
		Slug:        "keynote-replay-2025",
		Name:        "Keynote Replay 2025",
		Kind:        string(domproduct.KindSingleReplay),
		EventYear:   2025,
		ReplayID:    &replayID,
		AmountCents: 9900,
		Currency:    "USD",
		Active:      true,
	}
}

func (b *ProductBuilder) With(mutate func(*ProductBuilder)) *ProductBuilder {
	mutate(b)
	return b
}

func (b *ProductBuilder) AsBundle() *ProductBuilder {
	b.Kind = string(domproduct.KindYearBundle)
	b.ReplayID = nil
	b.Slug = "all-access-2025"
	b.Name = "All Access 2025"
	b.AmountCents = 19700
	return b
}

func (b *ProductBuilder) BuildDomain() (*domproduct.Product, error) {
	kind, err := domproduct.NewKind(b.Kind)
	if err != nil {
		return nil, err
	}
	return domproduct.NewProduct(b.ID, b.Slug, b.Name, kind, b.EventYear, b.ReplayID, b.AmountCents, b.Currency, b.Active)
}

func (b *ProductBuilder) BuildSnapshot() *commands.ProductSnapshot {
	return &commands.ProductSnapshot{
		ID:          b.ID,
		Slug:        b.Slug,
		Name:        b.Name,
		Kind:        b.Kind,
		EventYear:   b.EventYear,
		ReplayID:    b.ReplayID,
		AmountCents: b.AmountCents,
		Currency:    b.Currency,
		Active:      b.Active,
	}
}
