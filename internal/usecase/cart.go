package usecase

import (
	"context"
	"strings"

	"conftix/internal/domain/cart"
	"conftix/internal/domain/product"
	"conftix/internal/infra"
	"conftix/internal/pkg/errs"
	"conftix/internal/usecase/commands"

	"github.com/google/uuid"
)

// CartStore keeps session carts. Load returns an empty cart for an unknown
// token; carts expire with their session and are never the pricing authority.
type CartStore interface {
	Load(ctx context.Context, token string) (*cart.Cart, error)
	Save(ctx context.Context, c *cart.Cart) error
	Delete(ctx context.Context, token string) error
}

type CartService interface {
	Get(ctx context.Context, token string) (*cart.Cart, error)
	AddItem(ctx context.Context, token string, productID uuid.UUID) (*cart.Cart, error)
	RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*cart.Cart, error)
	Clear(ctx context.Context, token string) error
	// NewToken mints an opaque cart token for a fresh browsing session.
	NewToken() string
}

type cartServiceImpl struct {
	store       CartStore
	productRepo commands.ProductRepository
}

func NewCartService(store CartStore, productRepo commands.ProductRepository) CartService {
	return &cartServiceImpl{
		store:       store,
		productRepo: productRepo,
	}
}

func (s *cartServiceImpl) Get(ctx context.Context, token string) (*cart.Cart, error) {
	c, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return c, nil
}

func (s *cartServiceImpl) AddItem(ctx context.Context, token string, productID uuid.UUID) (*cart.Cart, error) {
	snapshot, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrProductNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	entity, err := toCartProduct(snapshot)
	if err != nil {
		return nil, err
	}
	if err := entity.EnsurePurchasable(); err != nil {
		return nil, errs.Mark(err, errs.ErrProductUnavailable)
	}

	c, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.Add(cart.ItemFromProduct(entity))
	if err := s.store.Save(ctx, c); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return c, nil
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*cart.Cart, error) {
	c, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.Remove(productID)
	if err := s.store.Save(ctx, c); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return c, nil
}

func (s *cartServiceImpl) Clear(ctx context.Context, token string) error {
	if err := s.store.Delete(ctx, token); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (s *cartServiceImpl) NewToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

func toCartProduct(s *commands.ProductSnapshot) (*product.Product, error) {
	kind, err := product.NewKind(s.Kind)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	entity, err := product.NewProduct(s.ID, s.Slug, s.Name, kind, s.EventYear, s.ReplayID, s.AmountCents, s.Currency, s.Active)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	return entity, nil
}
