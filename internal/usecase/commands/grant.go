package commands

import (
	"context"
	"strings"

	"conftix/internal/domain/purchase"
	"conftix/internal/infra"
	"conftix/internal/pkg/clock"
	"conftix/internal/pkg/errs"

	"github.com/google/uuid"
)

type CreateGrantParams struct {
	UserID    uuid.UUID
	EventYear int
	// ReplayID nil grants the whole event year (bundle semantics).
	ReplayID *uuid.UUID
}

// GrantCommands covers the admin back-office path that touches entitlements:
// manual grants recorded without a payment.
type GrantCommands interface {
	CreateGrant(ctx context.Context, params CreateGrantParams) (*PurchaseRecord, error)
}

type grantCommandsImpl struct {
	purchaseRepo PurchaseRepository
	userRepo     UserRepository
	clock        clock.Clock
}

func NewGrantCommands(purchaseRepo PurchaseRepository, userRepo UserRepository, clock clock.Clock) GrantCommands {
	return &grantCommandsImpl{
		purchaseRepo: purchaseRepo,
		userRepo:     userRepo,
		clock:        clock,
	}
}

func (g *grantCommandsImpl) CreateGrant(ctx context.Context, params CreateGrantParams) (*PurchaseRecord, error) {
	if _, err := g.userRepo.FindEmailByID(ctx, params.UserID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	reference := "grant_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	grant, err := purchase.NewGrant(params.UserID, params.EventYear, params.ReplayID, reference, g.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	record, err := g.purchaseRepo.CreateGrant(ctx, grant)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return record, nil
}
