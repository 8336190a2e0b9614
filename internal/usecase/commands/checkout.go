package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"conftix/internal/domain/coupon"
	"conftix/internal/domain/product"
	"conftix/internal/domain/purchase"
	"conftix/internal/domain/user"
	"conftix/internal/infra"
	"conftix/internal/pkg/clock"
	"conftix/internal/pkg/errs"
	"conftix/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Metadata keys attached to the processor session for later reconciliation.
const (
	metaProductIDs    = "product_ids"
	metaUserID        = "user_id"
	metaPayerEmail    = "payer_email"
	metaCouponCode    = "coupon_code"
	metaDiscountCents = "discount_cents"
	metaEventYears    = "event_years"
)

type CreateSessionParams struct {
	ProductIDs []uuid.UUID
	UserID     *uuid.UUID
	GuestEmail string
	CouponCode *string
}

type CreateSessionResult struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
	AmountCents      int64
	DiscountCents    int64
	Currency         string
}

type ConfirmParams struct {
	PaymentReference string
	CreateAccount    bool
}

type ConfirmResult struct {
	Purchases  []PurchaseRecord
	IsReplayed bool
}

type CheckoutCommands interface {
	// CreateSession re-prices the items from the catalog, applies an optional
	// coupon, and opens exactly one processor session for the attempt.
	CreateSession(ctx context.Context, params CreateSessionParams) (*CreateSessionResult, error)
	// Confirm re-verifies payment state with the processor and persists the
	// resulting purchases exactly once per payment reference.
	Confirm(ctx context.Context, params ConfirmParams) (*ConfirmResult, error)
}

type checkoutCommandsImpl struct {
	productRepo  ProductRepository
	couponRepo   CouponRepository
	purchaseRepo PurchaseRepository
	userRepo     UserRepository
	gateway      PaymentGateway
	db           *pgxpool.Pool
	clock        clock.Clock
}

func NewCheckoutCommands(
	productRepo ProductRepository,
	couponRepo CouponRepository,
	purchaseRepo PurchaseRepository,
	userRepo UserRepository,
	gateway PaymentGateway,
	db *pgxpool.Pool,
	clock clock.Clock,
) CheckoutCommands {
	return &checkoutCommandsImpl{
		productRepo:  productRepo,
		couponRepo:   couponRepo,
		purchaseRepo: purchaseRepo,
		userRepo:     userRepo,
		gateway:      gateway,
		db:           db,
		clock:        clock,
	}
}

func (c *checkoutCommandsImpl) CreateSession(ctx context.Context, params CreateSessionParams) (*CreateSessionResult, error) {
	if len(params.ProductIDs) == 0 {
		return nil, errs.ErrEmptyCheckout
	}

	payerEmail, err := c.resolvePayerEmail(ctx, params)
	if err != nil {
		return nil, err
	}

	products, err := c.loadPurchasableProducts(ctx, params.ProductIDs)
	if err != nil {
		return nil, err
	}

	// Authoritative pricing comes from the catalog; whatever the client
	// displayed is advisory only.
	var subtotal int64
	currency := products[0].Currency()
	for _, p := range products {
		if p.Currency() != currency {
			return nil, errs.Mark(errs.New("mixed currencies in one checkout"), errs.ErrDomainValidation)
		}
		subtotal += p.AmountCents()
	}

	var discount int64
	var appliedCode *string
	if params.CouponCode != nil {
		couponEntity, couponErr := c.loadCoupon(ctx, *params.CouponCode)
		if couponErr != nil {
			return nil, couponErr
		}
		discount, couponErr = couponEntity.Evaluate(subtotal, c.clock.Now())
		if couponErr != nil {
			return nil, markCouponError(couponErr)
		}
		code := couponEntity.Code().String()
		appliedCode = &code
	}

	if _, err := c.gateway.EnsureCustomer(ctx, payerEmail); err != nil {
		return nil, errs.Mark(err, errs.ErrProcessorUnreachable)
	}

	reference := "ctx_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	sessionParams := SessionParams{
		Reference:   reference,
		Email:       payerEmail,
		AmountCents: subtotal - discount,
		Currency:    currency,
		Metadata:    buildMetadata(products, params.UserID, payerEmail, appliedCode, discount),
	}

	handle, err := c.gateway.InitializeTransaction(ctx, sessionParams)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrProcessorUnreachable)
	}

	return &CreateSessionResult{
		Reference:        handle.Reference,
		AuthorizationURL: handle.AuthorizationURL,
		AccessCode:       handle.AccessCode,
		AmountCents:      sessionParams.AmountCents,
		DiscountCents:    discount,
		Currency:         currency,
	}, nil
}

func (c *checkoutCommandsImpl) Confirm(ctx context.Context, params ConfirmParams) (*ConfirmResult, error) {
	if params.PaymentReference == "" {
		return nil, errs.Mark(errs.New("missing payment reference"), errs.ErrDomainValidation)
	}

	// Replay: confirmation may arrive more than once (client call plus
	// webhook retries). Existing rows win.
	existing, err := c.purchaseRepo.FindByPaymentReference(ctx, params.PaymentReference)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if len(existing) > 0 {
		// The webhook usually lands first, so a guest's create-account request
		// routinely arrives on a replayed confirmation.
		records, adoptErr := c.adoptGuestPurchases(ctx, params, existing)
		if adoptErr != nil {
			return nil, adoptErr
		}
		return &ConfirmResult{Purchases: records, IsReplayed: true}, nil
	}

	state, err := c.gateway.VerifyTransaction(ctx, params.PaymentReference)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrProcessorUnreachable)
	}
	if state.Status != SessionStatusSucceeded {
		return nil, errs.ErrPaymentNotCompleted
	}

	meta, err := parseSessionMetadata(state)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	products, err := c.loadProducts(ctx, meta.productIDs)
	if err != nil {
		return nil, err
	}

	purchases, err := c.persistPurchases(ctx, params, state, meta, products)
	if err != nil {
		return nil, err
	}

	return &ConfirmResult{Purchases: purchases, IsReplayed: false}, nil
}

// persistPurchases runs the one transaction that must not be dropped: the
// payer has already been charged, so any failure here is surfaced as a
// persistence failure for manual reconciliation.
func (c *checkoutCommandsImpl) persistPurchases(
	ctx context.Context,
	params ConfirmParams,
	state *SessionState,
	meta sessionMetadata,
	products []*product.Product,
) ([]PurchaseRecord, error) {
	tx, err := c.db.Begin(ctx)
	if err != nil {
		return nil, c.persistenceFailure(state.Reference, "begin transaction", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !strings.Contains(rollbackErr.Error(), "closed") {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	userID := meta.userID
	if userID == nil && params.CreateAccount {
		newID, provisionErr := c.provisionAccount(ctx, tx, meta.payerEmail)
		if provisionErr != nil {
			return nil, c.persistenceFailure(state.Reference, "provision account", provisionErr)
		}
		userID = &newID
	}

	now := c.clock.Now()
	discountShares := apportionDiscount(meta.discountCents, products)
	rows := make([]*purchase.Purchase, 0, len(products))
	for i, p := range products {
		var discountCents *int64
		if meta.couponCode != nil {
			share := discountShares[i]
			discountCents = &share
		}
		row, buildErr := purchase.FromProduct(p, userID, meta.payerEmail, state.Reference, meta.couponCode, discountCents, now)
		if buildErr != nil {
			return nil, errs.Mark(buildErr, errs.ErrDomainValidation)
		}
		rows = append(rows, row)
	}

	if err := c.purchaseRepo.CreateAll(ctx, tx, rows); err != nil {
		return nil, c.persistenceFailure(state.Reference, "insert purchases", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, c.persistenceFailure(state.Reference, "commit", err)
	}

	// Read-after-write so concurrent confirmations converge on one row set.
	records, err := c.purchaseRepo.FindByPaymentReference(ctx, state.Reference)
	if err != nil {
		return nil, c.persistenceFailure(state.Reference, "read back purchases", err)
	}
	return records, nil
}

// adoptGuestPurchases honors a create-account request against rows that were
// already persisted by an earlier confirmation: provision the account and
// attach the guest rows to it. Rows that already belong to a user are final.
func (c *checkoutCommandsImpl) adoptGuestPurchases(ctx context.Context, params ConfirmParams, records []PurchaseRecord) ([]PurchaseRecord, error) {
	if !params.CreateAccount {
		return records, nil
	}
	for _, r := range records {
		if r.UserID != nil {
			return records, nil
		}
	}
	if records[0].PayerEmail == "" {
		return records, nil
	}

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return nil, c.persistenceFailure(params.PaymentReference, "begin adoption transaction", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !strings.Contains(rollbackErr.Error(), "closed") {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	userID, err := c.provisionAccount(ctx, tx, records[0].PayerEmail)
	if err != nil {
		return nil, c.persistenceFailure(params.PaymentReference, "provision account", err)
	}
	if err := c.purchaseRepo.AttachUser(ctx, tx, params.PaymentReference, userID); err != nil {
		return nil, c.persistenceFailure(params.PaymentReference, "attach purchases", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, c.persistenceFailure(params.PaymentReference, "commit adoption", err)
	}

	updated, err := c.purchaseRepo.FindByPaymentReference(ctx, params.PaymentReference)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return updated, nil
}

func (c *checkoutCommandsImpl) provisionAccount(ctx context.Context, tx pgx.Tx, email string) (uuid.UUID, error) {
	if existing, err := c.userRepo.FindIDByEmail(ctx, email); err == nil && existing != nil {
		return *existing, nil
	} else if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return uuid.Nil, err
	}

	// Guest accounts start with an unguessable password; the payer resets it
	// through the regular flow.
	hash, err := password.HashPassword(uuid.New().String())
	if err != nil {
		return uuid.Nil, err
	}

	return c.userRepo.CreateAccount(ctx, tx, email, hash)
}

func (c *checkoutCommandsImpl) resolvePayerEmail(ctx context.Context, params CreateSessionParams) (string, error) {
	if params.UserID != nil {
		email, err := c.userRepo.FindEmailByID(ctx, *params.UserID)
		if err != nil {
			return "", errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return email, nil
	}

	email, err := user.NewEmail(params.GuestEmail)
	if err != nil {
		return "", errs.Mark(err, errs.ErrInvalidPayerEmail)
	}
	return email.Value(), nil
}

func (c *checkoutCommandsImpl) loadPurchasableProducts(ctx context.Context, ids []uuid.UUID) ([]*product.Product, error) {
	products, err := c.loadProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if err := p.EnsurePurchasable(); err != nil {
			return nil, errs.Mark(err, errs.ErrProductUnavailable)
		}
	}
	return products, nil
}

func (c *checkoutCommandsImpl) loadProducts(ctx context.Context, ids []uuid.UUID) ([]*product.Product, error) {
	snapshots, err := c.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	bySnapshotID := make(map[uuid.UUID]ProductSnapshot, len(snapshots))
	for _, s := range snapshots {
		bySnapshotID[s.ID] = s
	}

	products := make([]*product.Product, 0, len(ids))
	for _, id := range ids {
		s, ok := bySnapshotID[id]
		if !ok {
			return nil, errs.Mark(fmt.Errorf("product %s: %w", id, errs.ErrProductNotFound), errs.ErrProductUnavailable)
		}
		entity, buildErr := toProductEntity(s)
		if buildErr != nil {
			return nil, errs.Mark(buildErr, errs.ErrDomainValidation)
		}
		products = append(products, entity)
	}
	return products, nil
}

func (c *checkoutCommandsImpl) loadCoupon(ctx context.Context, code string) (*coupon.Coupon, error) {
	snapshot, err := c.couponRepo.FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrCouponNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	entity, err := coupon.NewCoupon(
		snapshot.ID,
		snapshot.Code,
		snapshot.AmountOffCents,
		snapshot.PercentOff,
		snapshot.ValidFrom,
		snapshot.ValidUntil,
		snapshot.MaxRedemptions,
		snapshot.TimesRedeemed,
		snapshot.Active,
	)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	return entity, nil
}

func (c *checkoutCommandsImpl) persistenceFailure(reference, step string, err error) error {
	// Money has moved but entitlement has not been granted: log loudly so
	// operators can reconcile, and return a distinguishable error.
	slog.Error("purchase persistence failed after successful payment",
		"payment_reference", reference,
		"step", step,
		"error", err.Error(),
	)
	return errs.Mark(err, errs.ErrPersistenceFailure)
}

func markCouponError(err error) error {
	switch err {
	case coupon.ErrCouponInactive:
		return errs.ErrCouponNotFound
	case coupon.ErrCouponExpired:
		return errs.ErrCouponExpired
	case coupon.ErrCouponNotYetValid:
		return errs.ErrCouponNotYetValid
	case coupon.ErrRedemptionLimitReached:
		return errs.ErrCouponRedemptionExhausted
	}
	return errs.Mark(err, errs.ErrDomainValidation)
}

func toProductEntity(s ProductSnapshot) (*product.Product, error) {
	kind, err := product.NewKind(s.Kind)
	if err != nil {
		return nil, err
	}
	return product.NewProduct(s.ID, s.Slug, s.Name, kind, s.EventYear, s.ReplayID, s.AmountCents, s.Currency, s.Active)
}

func buildMetadata(products []*product.Product, userID *uuid.UUID, payerEmail string, couponCode *string, discountCents int64) map[string]string {
	ids := make([]string, len(products))
	years := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID().String()
		years[i] = strconv.Itoa(p.EventYear())
	}

	meta := map[string]string{
		metaProductIDs: strings.Join(ids, ","),
		metaEventYears: strings.Join(years, ","),
		metaPayerEmail: payerEmail,
	}
	if userID != nil {
		meta[metaUserID] = userID.String()
	}
	if couponCode != nil {
		meta[metaCouponCode] = *couponCode
		meta[metaDiscountCents] = strconv.FormatInt(discountCents, 10)
	}
	return meta
}

type sessionMetadata struct {
	productIDs    []uuid.UUID
	userID        *uuid.UUID
	payerEmail    string
	couponCode    *string
	discountCents int64
}

func parseSessionMetadata(state *SessionState) (sessionMetadata, error) {
	meta := sessionMetadata{payerEmail: state.Metadata[metaPayerEmail]}
	if meta.payerEmail == "" {
		meta.payerEmail = state.CustomerEmail
	}

	rawIDs := state.Metadata[metaProductIDs]
	if rawIDs == "" {
		return meta, errs.New("session metadata missing product ids")
	}
	for _, raw := range strings.Split(rawIDs, ",") {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return meta, errs.Wrap(err, "bad product id in session metadata")
		}
		meta.productIDs = append(meta.productIDs, id)
	}

	if raw := state.Metadata[metaUserID]; raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return meta, errs.Wrap(err, "bad user id in session metadata")
		}
		meta.userID = &id
	}

	if code := state.Metadata[metaCouponCode]; code != "" {
		meta.couponCode = &code
		if raw := state.Metadata[metaDiscountCents]; raw != "" {
			cents, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return meta, errs.Wrap(err, "bad discount in session metadata")
			}
			meta.discountCents = cents
		}
	}

	return meta, nil
}

// apportionDiscount splits a total discount across lines proportionally to
// their amounts, pushing rounding remainder onto the first line.
func apportionDiscount(total int64, products []*product.Product) []int64 {
	shares := make([]int64, len(products))
	if total <= 0 || len(products) == 0 {
		return shares
	}

	var subtotal int64
	for _, p := range products {
		subtotal += p.AmountCents()
	}
	if subtotal <= 0 {
		return shares
	}

	var assigned int64
	for i, p := range products {
		shares[i] = total * p.AmountCents() / subtotal
		assigned += shares[i]
	}
	shares[0] += total - assigned
	return shares
}
