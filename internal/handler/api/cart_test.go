//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"conftix/internal/domain/cart"
	"conftix/internal/handler/api"
	resdto "conftix/internal/handler/dto/response"
	"conftix/internal/pkg/errs"
	"conftix/tests/common/builder"
	"conftix/tests/common/httptest"
	usecasemock "conftix/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CartHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockService *usecasemock.MockCartService
}

func (s *CartHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockService = usecasemock.NewMockCartService(s.mockCtrl)
	handler := api.NewCartHandler(s.mockService)

	s.router.GET("/cart", handler.GetCart)
	s.router.POST("/cart/items", handler.AddItem)
	s.router.DELETE("/cart/items/:product_id", handler.RemoveItem)
	s.router.DELETE("/cart", handler.ClearCart)
}

func (s *CartHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCartHandlerSuite(t *testing.T) {
	suite.Run(t, new(CartHandlerTestSuite))
}

func (s *CartHandlerTestSuite) cartWithOneItem(token string) *cart.Cart {
	p, err := builder.NewProductBuilder().BuildDomain()
	require.NoError(s.T(), err)

	c := cart.New(token)
	c.Add(cart.ItemFromProduct(p))
	return c
}

func (s *CartHandlerTestSuite) TestGetCart() {
	s.Run("success: existing token echoes back in the header", func() {
		s.mockService.EXPECT().Get(gomock.Any(), "tok123").
			Return(s.cartWithOneItem("tok123"), nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodGet, "/cart", nil, "",
			map[string]string{"X-Cart-Token": "tok123"})

		var body resdto.CartResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Items, 1)
		s.Equal(int64(9900), body.TotalCents)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"X-Cart-Token": "tok123"})
	})

	s.Run("success: missing token mints a new session", func() {
		s.mockService.EXPECT().NewToken().Return("fresh456").Times(1)
		s.mockService.EXPECT().Get(gomock.Any(), "fresh456").
			Return(cart.New("fresh456"), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/cart", nil, "")

		var body resdto.CartResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Empty(body.Items)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"X-Cart-Token": "fresh456"})
	})
}

func (s *CartHandlerTestSuite) TestAddItem() {
	url := "/cart/items"
	productID := uuid.New()
	reqBody := map[string]any{"product_id": productID.String()}
	withToken := map[string]string{"X-Cart-Token": "tok123"}

	s.Run("success: returns 200 with the updated cart", func() {
		s.mockService.EXPECT().AddItem(gomock.Any(), "tok123", productID).
			Return(s.cartWithOneItem("tok123"), nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "", withToken)

		var body resdto.CartResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Items, 1)
	})

	s.Run("error: 400 Bad Request without a product id", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, map[string]any{}, "", withToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 404 Not Found for an unknown product", func() {
		s.mockService.EXPECT().AddItem(gomock.Any(), "tok123", productID).
			Return(nil, errs.ErrProductNotFound).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "", withToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Product not found")
	})

	s.Run("error: 422 for an inactive product", func() {
		s.mockService.EXPECT().AddItem(gomock.Any(), "tok123", productID).
			Return(nil, errs.ErrProductUnavailable).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "", withToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Product not available")
	})
}

func (s *CartHandlerTestSuite) TestRemoveItem() {
	productID := uuid.New()
	withToken := map[string]string{"X-Cart-Token": "tok123"}

	s.Run("success: returns 200 with the remaining cart", func() {
		s.mockService.EXPECT().RemoveItem(gomock.Any(), "tok123", productID).
			Return(cart.New("tok123"), nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodDelete, "/cart/items/"+productID.String(), nil, "", withToken)

		var body resdto.CartResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Empty(body.Items)
	})

	s.Run("error: 400 Bad Request for a malformed product id", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodDelete, "/cart/items/not-a-uuid", nil, "", withToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid product ID format")
	})
}

func (s *CartHandlerTestSuite) TestClearCart() {
	s.Run("success: returns 204 No Content", func() {
		s.mockService.EXPECT().Clear(gomock.Any(), "tok123").Return(nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodDelete, "/cart", nil, "",
			map[string]string{"X-Cart-Token": "tok123"})
		s.Equal(http.StatusNoContent, rec.Code)
	})
}
