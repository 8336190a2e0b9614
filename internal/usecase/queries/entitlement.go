package queries

import (
	"context"

	"conftix/internal/domain/user"
	"conftix/internal/pkg/errs"

	"github.com/google/uuid"
)

type AccessCheck struct {
	ReplayID  uuid.UUID
	EventYear int
}

type EntitlementReadStore interface {
	// HasEntitlement reports whether a purchase row grants the replay: either
	// an exact replay match or a bundle row (NULL replay) for the event year.
	HasEntitlement(ctx context.Context, userID uuid.UUID, replayID uuid.UUID, eventYear int) (bool, error)
}

type EntitlementQueries interface {
	// HasAccess is a pure read, safe to call repeatedly and concurrently.
	// Admins bypass purchase lookup; anonymous callers always get false.
	HasAccess(ctx context.Context, userID *uuid.UUID, role user.Role, check AccessCheck) (bool, error)
}

type entitlementQueriesImpl struct {
	readStore EntitlementReadStore
}

func NewEntitlementQueries(readStore EntitlementReadStore) EntitlementQueries {
	return &entitlementQueriesImpl{readStore: readStore}
}

func (q *entitlementQueriesImpl) HasAccess(ctx context.Context, userID *uuid.UUID, role user.Role, check AccessCheck) (bool, error) {
	if role == user.RoleAdmin {
		return true, nil
	}
	if userID == nil {
		return false, nil
	}

	ok, err := q.readStore.HasEntitlement(ctx, *userID, check.ReplayID, check.EventYear)
	if err != nil {
		return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return ok, nil
}
