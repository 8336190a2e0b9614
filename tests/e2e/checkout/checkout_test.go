//go:build e2e

package checkout_test

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	stdhttptest "net/http/httptest"
	"strings"
	"sync"
	"testing"

	"conftix/internal/handler/dto/request"
	"conftix/internal/handler/dto/response"
	"conftix/internal/pkg/config"
	"conftix/tests/common/dbtest"
	"conftix/tests/common/httptest"
	"conftix/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	sessionURL = "/api/checkout/session"
	confirmURL = "/api/checkout/confirm"
	webhookURL = "/api/webhooks/payment"
)

// stubProcessor stands in for the hosted payment API: it remembers every
// initialized session and reports it as succeeded once markPaid is called.
type stubProcessor struct {
	mu       sync.Mutex
	sessions map[string]stubSession
}

type stubSession struct {
	Email    string            `json:"email"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
	paid     bool
}

func newStubProcessor() *stubProcessor {
	return &stubProcessor{sessions: make(map[string]stubSession)}
}

func (p *stubProcessor) markPaid(reference string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.sessions[reference]
	s.paid = true
	p.sessions[reference] = s
}

func (p *stubProcessor) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /transaction/initialize", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			stubSession
			Reference string `json:"reference"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		p.mu.Lock()
		p.sessions[req.Reference] = req.stubSession
		p.mu.Unlock()

		fmt.Fprintf(w, `{
			"status": true,
			"message": "Authorization URL created",
			"data": {
				"authorization_url": "https://pay.example.com/%s",
				"access_code": "AC_%s",
				"reference": "%s"
			}
		}`, req.Reference, req.Reference, req.Reference)
	})

	mux.HandleFunc("GET /transaction/verify/{reference}", func(w http.ResponseWriter, r *http.Request) {
		reference := r.PathValue("reference")

		p.mu.Lock()
		s, ok := p.sessions[reference]
		p.mu.Unlock()

		status := "abandoned"
		if ok && s.paid {
			status = "success"
		}

		payload := map[string]any{
			"status": true,
			"data": map[string]any{
				"status":    status,
				"reference": reference,
				"amount":    s.Amount,
				"currency":  s.Currency,
				"metadata":  s.Metadata,
				"customer":  map[string]string{"email": s.Email, "customer_code": "CUS_E2E"},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	})

	mux.HandleFunc("/customer/", func(w http.ResponseWriter, r *http.Request) {
		email := strings.TrimPrefix(r.URL.Path, "/customer/")
		fmt.Fprintf(w, `{"status": true, "data": {"email": "%s", "customer_code": "CUS_E2E"}}`, email)
	})
	mux.HandleFunc("POST /customer", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status": true, "data": {"email": "", "customer_code": "CUS_E2E"}}`)
	})

	return mux
}

type checkoutSuite struct {
	e2e.SharedSuite
	processor *stubProcessor
}

func TestCheckoutSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(checkoutSuite))
}

func (s *checkoutSuite) SetupSuite() {
	s.processor = newStubProcessor()
	server := stdhttptest.NewServer(s.processor.handler())
	s.T().Cleanup(server.Close)

	s.SetupSharedSuiteWithConfig(s.T(), func(cfg *config.Config) {
		cfg.Payment.BaseURL = server.URL
	})
}

func (s *checkoutSuite) createSession(productIDs []uuid.UUID, email string, couponCode *string) *response.SessionResponse {
	t := s.T()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, sessionURL,
		request.CreateSessionRequest{ProductIDs: productIDs, Email: email, CouponCode: couponCode}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body response.SessionResponse
	_ = httptest.DecodeResponseBody(t, w.Body, &body)
	require.NotEmpty(t, body.Reference)
	return &body
}

func (s *checkoutSuite) confirm(reference string, createAccount bool) (*response.ConfirmResponse, *stdhttptest.ResponseRecorder) {
	t := s.T()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, confirmURL,
		request.ConfirmRequest{Reference: reference, CreateAccount: createAccount}, "")
	if w.Code != http.StatusOK {
		return nil, w
	}

	var body response.ConfirmResponse
	_ = httptest.DecodeResponseBody(t, w.Body, &body)
	return &body, w
}

func (s *checkoutSuite) deliverWebhook(reference string) *stdhttptest.ResponseRecorder {
	t := s.T()

	body := []byte(`{"event":"charge.success","data":{"reference":"` + reference + `"}}`)
	mac := hmac.New(sha512.New, []byte(s.Config.Payment.WebhookSecret))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	return httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, webhookURL,
		json.RawMessage(body), "", map[string]string{"X-Paystack-Signature": signature})
}

func (s *checkoutSuite) userIDByEmail(email string) *uuid.UUID {
	var id uuid.UUID
	err := s.DB.QueryRow(s.T().Context(), "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err != nil {
		return nil
	}
	return &id
}

func (s *checkoutSuite) TestConfirm() {
	s.Run("guest checkout with a percentage coupon lands one discounted purchase", func() {
		t := s.T()

		code := "SAVE10"
		session := s.createSession([]uuid.UUID{dbtest.SeedBundleProductID}, "guest@example.com", &code)
		require.Equal(t, int64(17730), session.AmountCents)
		require.Equal(t, int64(1970), session.DiscountCents)

		s.processor.markPaid(session.Reference)

		result, w := s.confirm(session.Reference, false)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.False(t, result.Replayed)
		require.Len(t, result.Purchases, 1)

		p := result.Purchases[0]
		require.Equal(t, "paid", p.OrderType)
		require.Equal(t, dbtest.SeedBundleProductID, *p.ProductID)
		require.Nil(t, p.ReplayID)
		require.Equal(t, "SAVE10", *p.CouponCode)
		require.Equal(t, int64(1970), *p.DiscountCents)
	})

	s.Run("confirming twice converges on one row set", func() {
		t := s.T()

		session := s.createSession([]uuid.UUID{dbtest.SeedReplayProductID, dbtest.SeedBundleProductID}, "guest@example.com", nil)
		s.processor.markPaid(session.Reference)

		first, w := s.confirm(session.Reference, false)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.False(t, first.Replayed)
		require.Len(t, first.Purchases, 2)

		second, w := s.confirm(session.Reference, false)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.True(t, second.Replayed)
		require.Len(t, second.Purchases, 2)
		for i := range first.Purchases {
			require.Equal(t, first.Purchases[i].ID, second.Purchases[i].ID)
		}

		var count int
		err := s.DB.QueryRow(t.Context(),
			"SELECT count(*) FROM purchases WHERE payment_reference = $1", session.Reference).Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 2, count)

		// One row per product: the replay row carries its replay id, the
		// bundle row covers the whole year.
		for _, p := range second.Purchases {
			switch *p.ProductID {
			case dbtest.SeedReplayProductID:
				require.Equal(t, dbtest.SeedReplayID, *p.ReplayID)
			case dbtest.SeedBundleProductID:
				require.Nil(t, p.ReplayID)
			default:
				t.Fatalf("unexpected product %s", p.ProductID)
			}
		}
	})

	s.Run("a fixed coupon is split across lines without losing a cent", func() {
		t := s.T()

		code := "TAKE5"
		session := s.createSession([]uuid.UUID{dbtest.SeedReplayProductID, dbtest.SeedBundleProductID}, "guest@example.com", &code)
		require.Equal(t, int64(500), session.DiscountCents)

		s.processor.markPaid(session.Reference)

		result, w := s.confirm(session.Reference, false)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Len(t, result.Purchases, 2)

		var total int64
		byProduct := map[uuid.UUID]int64{}
		for _, p := range result.Purchases {
			require.NotNil(t, p.DiscountCents)
			total += *p.DiscountCents
			byProduct[*p.ProductID] = *p.DiscountCents
		}
		require.Equal(t, int64(500), total)
		// Proportional shares with the rounding remainder on the first line.
		require.Equal(t, int64(168), byProduct[dbtest.SeedReplayProductID])
		require.Equal(t, int64(332), byProduct[dbtest.SeedBundleProductID])
	})

	s.Run("create_account provisions the guest and attributes the purchase", func() {
		t := s.T()

		session := s.createSession([]uuid.UUID{dbtest.SeedBundleProductID}, "newmember@example.com", nil)
		s.processor.markPaid(session.Reference)

		result, w := s.confirm(session.Reference, true)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Len(t, result.Purchases, 1)

		userID := s.userIDByEmail("newmember@example.com")
		require.NotNil(t, userID, "account was not provisioned")

		var owner *uuid.UUID
		err := s.DB.QueryRow(t.Context(),
			"SELECT user_id FROM purchases WHERE payment_reference = $1", session.Reference).Scan(&owner)
		require.NoError(t, err)
		require.NotNil(t, owner)
		require.Equal(t, *userID, *owner)
	})

	s.Run("create_account is honored when the webhook confirmed first", func() {
		t := s.T()

		session := s.createSession([]uuid.UUID{dbtest.SeedBundleProductID}, "latecomer@example.com", nil)
		s.processor.markPaid(session.Reference)

		// The processor's webhook wins the race and persists guest rows.
		w := s.deliverWebhook(session.Reference)
		require.Equal(t, http.StatusOK, w.Code)
		require.Nil(t, s.userIDByEmail("latecomer@example.com"))

		result, w := s.confirm(session.Reference, true)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.True(t, result.Replayed)

		userID := s.userIDByEmail("latecomer@example.com")
		require.NotNil(t, userID, "account was not provisioned on the replayed confirmation")

		var owner *uuid.UUID
		err := s.DB.QueryRow(t.Context(),
			"SELECT user_id FROM purchases WHERE payment_reference = $1", session.Reference).Scan(&owner)
		require.NoError(t, err)
		require.NotNil(t, owner)
		require.Equal(t, *userID, *owner)
	})

	s.Run("confirming an unpaid session is a 402", func() {
		t := s.T()

		session := s.createSession([]uuid.UUID{dbtest.SeedReplayProductID}, "guest@example.com", nil)

		_, w := s.confirm(session.Reference, false)
		require.Equal(t, http.StatusPaymentRequired, w.Code, w.Body.String())

		var count int
		err := s.DB.QueryRow(t.Context(),
			"SELECT count(*) FROM purchases WHERE payment_reference = $1", session.Reference).Scan(&count)
		require.NoError(t, err)
		require.Zero(t, count)
	})
}
