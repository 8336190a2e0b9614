//go:build unit

package cart_test

import (
	"testing"

	"conftix/internal/domain/cart"
	"conftix/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemFromBuilder(t *testing.T, b *builder.ProductBuilder) cart.Item {
	t.Helper()
	p, err := b.BuildDomain()
	require.NoError(t, err)
	return cart.ItemFromProduct(p)
}

func TestCartAdd(t *testing.T) {
	t.Run("appends distinct products in order", func(t *testing.T) {
		replay := itemFromBuilder(t, builder.NewProductBuilder())
		bundle := itemFromBuilder(t, builder.NewProductBuilder().AsBundle())

		c := cart.New("tok")
		c.Add(replay)
		c.Add(bundle)

		want := []cart.Item{replay, bundle}
		if diff := cmp.Diff(want, c.Items); diff != "" {
			t.Errorf("items mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, 2, c.ItemCount())
	})

	t.Run("re-adding a product replaces its line", func(t *testing.T) {
		item := itemFromBuilder(t, builder.NewProductBuilder())

		c := cart.New("tok")
		c.Add(item)

		updated := item
		updated.AmountCents = 12900
		c.Add(updated)

		require.Equal(t, 1, c.ItemCount())
		assert.Equal(t, int64(12900), c.Items[0].AmountCents)
	})
}

func TestCartRemove(t *testing.T) {
	replay := itemFromBuilder(t, builder.NewProductBuilder())
	bundle := itemFromBuilder(t, builder.NewProductBuilder().AsBundle())

	t.Run("removes only the matching line", func(t *testing.T) {
		c := cart.New("tok")
		c.Add(replay)
		c.Add(bundle)

		c.Remove(replay.ProductID)

		want := []cart.Item{bundle}
		if diff := cmp.Diff(want, c.Items); diff != "" {
			t.Errorf("items mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown product is a no-op", func(t *testing.T) {
		c := cart.New("tok")
		c.Add(replay)

		c.Remove(uuid.New())

		assert.Equal(t, 1, c.ItemCount())
	})
}

func TestCartTotals(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		c := cart.New("tok")

		assert.True(t, c.IsEmpty())
		assert.Equal(t, int64(0), c.TotalCents())
		assert.Empty(t, c.ProductIDs())
	})

	t.Run("sums line amounts", func(t *testing.T) {
		replay := itemFromBuilder(t, builder.NewProductBuilder())
		bundle := itemFromBuilder(t, builder.NewProductBuilder().AsBundle())

		c := cart.New("tok")
		c.Add(replay)
		c.Add(bundle)

		assert.Equal(t, int64(9900+19700), c.TotalCents())
		assert.Equal(t, []uuid.UUID{replay.ProductID, bundle.ProductID}, c.ProductIDs())
	})

	t.Run("clear empties the cart", func(t *testing.T) {
		c := cart.New("tok")
		c.Add(itemFromBuilder(t, builder.NewProductBuilder()))

		c.Clear()

		assert.True(t, c.IsEmpty())
		assert.Equal(t, int64(0), c.TotalCents())
	})
}
