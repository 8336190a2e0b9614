//go:build e2e

package cart_test

import (
	"net/http"
	stdhttptest "net/http/httptest"
	"testing"

	"conftix/internal/handler/dto/request"
	"conftix/internal/handler/dto/response"
	"conftix/tests/common/dbtest"
	"conftix/tests/common/httptest"
	"conftix/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	cartURL      = "/api/cart"
	cartItemsURL = "/api/cart/items"
)

type cartSuite struct {
	e2e.SharedSuite
}

func TestCartSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(cartSuite))
}

func (s *cartSuite) getCart(token string) (*response.CartResponse, string) {
	t := s.T()

	headers := map[string]string{}
	if token != "" {
		headers["X-Cart-Token"] = token
	}
	w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodGet, cartURL, nil, "", headers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body response.CartResponse
	_ = httptest.DecodeResponseBody(t, w.Body, &body)
	return &body, w.Header().Get("X-Cart-Token")
}

func (s *cartSuite) addItem(token string, productID uuid.UUID) *stdhttptest.ResponseRecorder {
	t := s.T()
	return httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, cartItemsURL,
		request.AddCartItemRequest{ProductID: productID}, "",
		map[string]string{"X-Cart-Token": token})
}

func (s *cartSuite) TestCartLifecycle() {
	s.Run("a fresh request mints a cart token", func() {
		t := s.T()

		body, token := s.getCart("")
		require.NotEmpty(t, token)
		require.Equal(t, token, body.Token)
		require.Empty(t, body.Items)
		require.Zero(t, body.TotalCents)
	})

	s.Run("adding seeded products accumulates the total", func() {
		t := s.T()

		_, token := s.getCart("")

		w := s.addItem(token, dbtest.SeedReplayProductID)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = s.addItem(token, dbtest.SeedBundleProductID)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body response.CartResponse
		_ = httptest.DecodeResponseBody(t, w.Body, &body)
		require.Len(t, body.Items, 2)
		require.Equal(t, 2, body.ItemCount)
		require.Equal(t, int64(9900+19700), body.TotalCents)
		require.Equal(t, dbtest.SeedReplayProductID, body.Items[0].ProductID)
		require.Equal(t, dbtest.SeedBundleProductID, body.Items[1].ProductID)
	})

	s.Run("adding the same product twice keeps one line", func() {
		t := s.T()

		_, token := s.getCart("")

		w := s.addItem(token, dbtest.SeedReplayProductID)
		require.Equal(t, http.StatusOK, w.Code)
		w = s.addItem(token, dbtest.SeedReplayProductID)
		require.Equal(t, http.StatusOK, w.Code)

		var body response.CartResponse
		_ = httptest.DecodeResponseBody(t, w.Body, &body)
		require.Len(t, body.Items, 1)
		require.Equal(t, int64(9900), body.TotalCents)
	})

	s.Run("cart contents survive across requests with the same token", func() {
		t := s.T()

		_, token := s.getCart("")
		w := s.addItem(token, dbtest.SeedReplayProductID)
		require.Equal(t, http.StatusOK, w.Code)

		body, echoed := s.getCart(token)
		require.Equal(t, token, echoed)
		require.Len(t, body.Items, 1)
		require.Equal(t, "Keynote Replay 2025", body.Items[0].Name)
	})

	s.Run("removing an item leaves the rest", func() {
		t := s.T()

		_, token := s.getCart("")
		require.Equal(t, http.StatusOK, s.addItem(token, dbtest.SeedReplayProductID).Code)
		require.Equal(t, http.StatusOK, s.addItem(token, dbtest.SeedBundleProductID).Code)

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodDelete,
			cartItemsURL+"/"+dbtest.SeedReplayProductID.String(), nil, "",
			map[string]string{"X-Cart-Token": token})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body response.CartResponse
		_ = httptest.DecodeResponseBody(t, w.Body, &body)
		require.Len(t, body.Items, 1)
		require.Equal(t, dbtest.SeedBundleProductID, body.Items[0].ProductID)
	})

	s.Run("clearing the cart empties it", func() {
		t := s.T()

		_, token := s.getCart("")
		require.Equal(t, http.StatusOK, s.addItem(token, dbtest.SeedReplayProductID).Code)

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodDelete, cartURL, nil, "",
			map[string]string{"X-Cart-Token": token})
		require.Equal(t, http.StatusNoContent, w.Code)

		body, _ := s.getCart(token)
		require.Empty(t, body.Items)
	})

	s.Run("unknown product is a 404", func() {
		t := s.T()

		_, token := s.getCart("")
		w := s.addItem(token, uuid.New())
		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})
}
