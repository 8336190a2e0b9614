//go:build unit

package queries_test

import (
	"context"
	"testing"

	"conftix/internal/domain/user"
	"conftix/internal/infra"
	"conftix/internal/pkg/errs"
	"conftix/internal/usecase/queries"
	queriesmock "conftix/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHasAccess(t *testing.T) {
	ctx := context.Background()
	check := queries.AccessCheck{ReplayID: uuid.New(), EventYear: 2025}

	newQueries := func(t *testing.T) (queries.EntitlementQueries, *queriesmock.MockEntitlementReadStore) {
		t.Helper()
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockEntitlementReadStore(ctrl)
		return queries.NewEntitlementQueries(store), store
	}

	t.Run("admin bypasses purchase lookup", func(t *testing.T) {
		q, _ := newQueries(t)

		userID := uuid.New()
		ok, err := q.HasAccess(ctx, &userID, user.RoleAdmin, check)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("anonymous caller has no access", func(t *testing.T) {
		q, _ := newQueries(t)

		ok, err := q.HasAccess(ctx, nil, user.RoleMember, check)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("member access is delegated to the store", func(t *testing.T) {
		q, store := newQueries(t)

		userID := uuid.New()
		store.EXPECT().HasEntitlement(ctx, userID, check.ReplayID, check.EventYear).Return(true, nil)

		ok, err := q.HasAccess(ctx, &userID, user.RoleMember, check)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("member without entitlement", func(t *testing.T) {
		q, store := newQueries(t)

		userID := uuid.New()
		store.EXPECT().HasEntitlement(ctx, userID, check.ReplayID, check.EventYear).Return(false, nil)

		ok, err := q.HasAccess(ctx, &userID, user.RoleMember, check)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("store failure", func(t *testing.T) {
		q, store := newQueries(t)

		userID := uuid.New()
		store.EXPECT().HasEntitlement(ctx, userID, check.ReplayID, check.EventYear).
			Return(false, infra.WrapRepoErr("query failed", errs.New("connection reset")))

		ok, err := q.HasAccess(ctx, &userID, user.RoleMember, check)
		require.ErrorIs(t, err, errs.ErrDatabaseOperationFailed)
		assert.False(t, ok)
	})
}
