//go:build unit

package usecase_test

import (
	"context"
	"testing"

	"conftix/internal/domain/cart"
	"conftix/internal/infra"
	"conftix/internal/pkg/errs"
	"conftix/internal/usecase"
	"conftix/tests/common/builder"
	commandsmock "conftix/tests/mock/commands"
	usecasemock "conftix/tests/mock/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newCartService(t *testing.T) (usecase.CartService, *usecasemock.MockCartStore, *commandsmock.MockProductRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := usecasemock.NewMockCartStore(ctrl)
	productRepo := commandsmock.NewMockProductRepository(ctrl)
	return usecase.NewCartService(store, productRepo), store, productRepo
}

func TestCartServiceAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("success: active product is added and saved", func(t *testing.T) {
		svc, store, productRepo := newCartService(t)

		p := builder.NewProductBuilder()
		productRepo.EXPECT().FindByID(ctx, p.ID).Return(p.BuildSnapshot(), nil)
		store.EXPECT().Load(ctx, "tok").Return(cart.New("tok"), nil)
		store.EXPECT().Save(ctx, gomock.Any()).Return(nil)

		c, err := svc.AddItem(ctx, "tok", p.ID)
		require.NoError(t, err)

		require.Equal(t, 1, c.ItemCount())
		assert.Equal(t, p.ID, c.Items[0].ProductID)
		assert.Equal(t, int64(9900), c.TotalCents())
	})

	t.Run("error: unknown product", func(t *testing.T) {
		svc, _, productRepo := newCartService(t)

		id := uuid.New()
		productRepo.EXPECT().FindByID(ctx, id).
			Return(nil, infra.WrapRepoErr("product not found", nil, infra.KindNotFound))

		_, err := svc.AddItem(ctx, "tok", id)
		require.ErrorIs(t, err, errs.ErrProductNotFound)
	})

	t.Run("error: inactive product", func(t *testing.T) {
		svc, _, productRepo := newCartService(t)

		inactive := builder.NewProductBuilder().With(func(b *builder.ProductBuilder) { b.Active = false })
		productRepo.EXPECT().FindByID(ctx, inactive.ID).Return(inactive.BuildSnapshot(), nil)

		_, err := svc.AddItem(ctx, "tok", inactive.ID)
		require.ErrorIs(t, err, errs.ErrProductUnavailable)
	})

	t.Run("error: store failure on save", func(t *testing.T) {
		svc, store, productRepo := newCartService(t)

		p := builder.NewProductBuilder()
		productRepo.EXPECT().FindByID(ctx, p.ID).Return(p.BuildSnapshot(), nil)
		store.EXPECT().Load(ctx, "tok").Return(cart.New("tok"), nil)
		store.EXPECT().Save(ctx, gomock.Any()).
			Return(infra.WrapRepoErr("save cart", errs.New("connection refused"), infra.KindUnavailable))

		_, err := svc.AddItem(ctx, "tok", p.ID)
		require.ErrorIs(t, err, errs.ErrDatabaseOperationFailed)
	})
}

func TestCartServiceRemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the line and saves", func(t *testing.T) {
		svc, store, _ := newCartService(t)

		p, err := builder.NewProductBuilder().BuildDomain()
		require.NoError(t, err)

		loaded := cart.New("tok")
		loaded.Add(cart.ItemFromProduct(p))

		store.EXPECT().Load(ctx, "tok").Return(loaded, nil)
		store.EXPECT().Save(ctx, gomock.Any()).Return(nil)

		c, err := svc.RemoveItem(ctx, "tok", p.ID())
		require.NoError(t, err)
		assert.True(t, c.IsEmpty())
	})
}

func TestCartServiceClear(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the stored cart", func(t *testing.T) {
		svc, store, _ := newCartService(t)

		store.EXPECT().Delete(ctx, "tok").Return(nil)
		require.NoError(t, svc.Clear(ctx, "tok"))
	})
}

func TestCartServiceNewToken(t *testing.T) {
	svc, _, _ := newCartService(t)

	first := svc.NewToken()
	second := svc.NewToken()

	assert.Len(t, first, 32)
	assert.NotEqual(t, first, second)
}
