//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"conftix/internal/handler/api"
	"conftix/internal/pkg/errs"
	"conftix/internal/usecase/commands"
	"conftix/tests/common/httptest"
	commandsmock "conftix/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// stubVerifier accepts exactly one signature value.
type stubVerifier struct {
	valid string
}

func (v stubVerifier) VerifyWebhookSignature(_ []byte, signature string) bool {
	return signature == v.valid
}

type WebhookHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCheckoutCommands
}

func (s *WebhookHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCheckoutCommands(s.mockCtrl)
	handler := api.NewWebhookHandler(s.mockCommands, stubVerifier{valid: "good-signature"})

	s.router.POST("/webhooks/payment", handler.HandlePaymentEvent)
}

func (s *WebhookHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestWebhookHandlerSuite(t *testing.T) {
	suite.Run(t, new(WebhookHandlerTestSuite))
}

func (s *WebhookHandlerTestSuite) TestHandlePaymentEvent() {
	url := "/webhooks/payment"
	chargeSuccess := map[string]any{
		"event": "charge.success",
		"data":  map[string]any{"reference": "ctx_abc"},
	}
	signed := map[string]string{"X-Paystack-Signature": "good-signature"}

	s.Run("success: charge.success triggers confirmation", func() {
		s.mockCommands.EXPECT().
			Confirm(gomock.Any(), commands.ConfirmParams{PaymentReference: "ctx_abc"}).
			Return(&commands.ConfirmResult{}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, chargeSuccess, "", signed)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("success: other events are acknowledged without confirmation", func() {
		event := map[string]any{
			"event": "charge.dispute.create",
			"data":  map[string]any{"reference": "ctx_abc"},
		}

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, event, "", signed)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 401 Unauthorized without a signature", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, chargeSuccess, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("error: 401 Unauthorized with a wrong signature", func() {
		bad := map[string]string{"X-Paystack-Signature": "tampered"}
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, chargeSuccess, "", bad)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("error: confirmation failure returns 500 so the processor redelivers", func() {
		s.mockCommands.EXPECT().
			Confirm(gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrProcessorUnreachable).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, chargeSuccess, "", signed)
		s.Equal(http.StatusInternalServerError, rec.Code)
	})
}
