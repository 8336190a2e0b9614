package commands

import (
	"context"
	"time"

	"conftix/internal/domain/purchase"
	"conftix/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Write-side snapshots keep the command layer off the read-side query types.
type ProductSnapshot struct {
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

type CouponSnapshot = queries.CouponSnapshot

type PurchaseRecord struct {
	ID               uuid.UUID
	UserID           *uuid.UUID
	PayerEmail       string
	ProductID        *uuid.UUID
	ReplayID         *uuid.UUID
	EventYear        int
	PaymentReference string
	OrderType        string
	CouponCode       *string
	DiscountCents    *int64
	PurchasedAt      time.Time
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductSnapshot, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductSnapshot, error)
}

type CouponRepository interface {
	FindByCode(ctx context.Context, code string) (*CouponSnapshot, error)
}

type PurchaseRepository interface {
	FindByPaymentReference(ctx context.Context, reference string) ([]PurchaseRecord, error)
	// CreateAll inserts within tx; rows already present for
	// (payment_reference, product_id) are skipped.
	CreateAll(ctx context.Context, tx pgx.Tx, purchases []*purchase.Purchase) error
	CreateGrant(ctx context.Context, grant *purchase.Purchase) (*PurchaseRecord, error)
	// AttachUser assigns still-guest rows of a payment reference to a user.
	AttachUser(ctx context.Context, tx pgx.Tx, reference string, userID uuid.UUID) error
}

type UserRepository interface {
	FindIDByEmail(ctx context.Context, email string) (*uuid.UUID, error)
	FindEmailByID(ctx context.Context, id uuid.UUID) (string, error)
	// CreateAccount inserts a member account within tx; when the email is
	// already taken the existing id is returned.
	CreateAccount(ctx context.Context, tx pgx.Tx, email, passwordHash string) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// Payment gateway port. Implemented against the hosted processor API.

type SessionParams struct {
	Reference   string
	Email       string
	AmountCents int64
	Currency    string
	CallbackURL string
	Metadata    map[string]string
}

type SessionHandle struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
}

// SessionState is the processor's authoritative view of a transaction.
type SessionState struct {
	Reference     string
	Status        string
	AmountCents   int64
	Currency      string
	CustomerEmail string
	Metadata      map[string]string
	PaidAt        *time.Time
}

const SessionStatusSucceeded = "success"

type PaymentGateway interface {
	// EnsureCustomer looks up or creates the processor-side customer for an
	// email and returns its code, keeping customer identities deduplicated.
	EnsureCustomer(ctx context.Context, email string) (string, error)
	InitializeTransaction(ctx context.Context, params SessionParams) (*SessionHandle, error)
	VerifyTransaction(ctx context.Context, reference string) (*SessionState, error)
}
