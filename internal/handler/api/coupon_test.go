//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"conftix/internal/handler/api"
	resdto "conftix/internal/handler/dto/response"
	"conftix/internal/pkg/errs"
	"conftix/internal/usecase/queries"
	"conftix/tests/common/httptest"
	"conftix/tests/common/testutil"
	queriesmock "conftix/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CouponHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockCouponQueries
	handler     *api.CouponHandler
}

func (s *CouponHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockCouponQueries(s.mockCtrl)
	s.handler = api.NewCouponHandler(s.mockQueries)

	s.router.POST("/coupons/evaluate", s.handler.Evaluate)
}

func (s *CouponHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCouponHandlerSuite(t *testing.T) {
	suite.Run(t, new(CouponHandlerTestSuite))
}

func (s *CouponHandlerTestSuite) TestEvaluate() {
	url := "/coupons/evaluate"
	reqBody := map[string]any{"code": "SAVE10", "subtotal_cents": 19700}

	s.Run("success: returns 200 with evaluation", func() {
		s.mockQueries.EXPECT().Evaluate(gomock.Any(), "SAVE10", int64(19700)).
			Return(&queries.CouponEvaluation{
				AppliedCode:   "SAVE10",
				DiscountCents: 1970,
				SubtotalCents: 19700,
				PayableCents:  17730,
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body resdto.CouponEvaluationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("SAVE10", body.AppliedCode)
		s.Equal(int64(1970), body.DiscountCents)
		s.Equal(int64(17730), body.PayableCents)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing code", mutate: testutil.Field("code", nil)},
			{name: "negative subtotal", mutate: testutil.Field("subtotal_cents", -1)},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})

	s.Run("error: query failures map to status codes", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "coupon not found", err: errs.ErrCouponNotFound, expectCode: http.StatusNotFound},
			{name: "coupon expired", err: errs.ErrCouponExpired, expectCode: http.StatusUnprocessableEntity},
			{name: "coupon not yet valid", err: errs.ErrCouponNotYetValid, expectCode: http.StatusUnprocessableEntity},
			{name: "redemption exhausted", err: errs.ErrCouponRedemptionExhausted, expectCode: http.StatusUnprocessableEntity},
			{name: "database failure", err: errs.ErrDatabaseOperationFailed, expectCode: http.StatusInternalServerError},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockQueries.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				s.Equal(tc.expectCode, rec.Code)
			})
		}
	})
}
