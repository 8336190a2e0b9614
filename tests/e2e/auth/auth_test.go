//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"conftix/internal/domain/user"
	"conftix/internal/handler/dto/request"
	"conftix/internal/handler/dto/response"
	"conftix/tests/common/httptest"
	"conftix/tests/e2e"
	"conftix/tests/e2e/common/helper"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	loginURL   = "/api/auth/login"
	refreshURL = "/api/auth/refresh"
	meURL      = "/api/auth/me"
	logoutURL  = "/api/auth/logout"
)

type authSuite struct {
	e2e.SharedSuite
	auth *helper.AuthTestHelper
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.auth = helper.NewAuthTestHelper(s.DB, s.Config.JWT)
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	s.auth.CreateTestUser(s.T(), "admin@example.com", user.RoleAdmin)
	s.auth.CreateTestUser(s.T(), "member@example.com", user.RoleMember)
	s.auth.CreateTestUser(s.T(), "inactive@example.com", user.RoleMember)

	ctx := s.T().Context()
	_, err := s.DB.Exec(ctx, "UPDATE users SET is_active = false WHERE email = 'inactive@example.com'")
	require.NoError(s.T(), err)
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{
			name:           "valid credentials log in",
			email:          "member@example.com",
			password:       "password123",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown user is rejected",
			email:          "nobody@example.com",
			password:       "password123",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong password is rejected",
			email:          "member@example.com",
			password:       "wrongpassword",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "inactive account is refused",
			email:          "inactive@example.com",
			password:       "password123",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "empty email fails validation",
			email:          "",
			password:       "password123",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty password fails validation",
			email:          "member@example.com",
			password:       "",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
				request.LoginRequest{Email: tt.email, Password: tt.password}, "")
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var body response.LoginResponse
				_ = httptest.DecodeResponseBody(t, w.Body, &body)
				require.NotEmpty(t, body.AccessToken)
				require.NotEmpty(t, body.RefreshToken)
				require.NotEqual(t, body.AccessToken, body.RefreshToken)
			}
		})
	}
}

func (s *authSuite) TestRefresh() {
	s.Run("refresh token yields a new pair", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "member@example.com", Password: "password123"}, "")
		require.Equal(t, http.StatusOK, w.Code)

		var login response.LoginResponse
		_ = httptest.DecodeResponseBody(t, w.Body, &login)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL,
			request.RefreshRequest{RefreshToken: login.RefreshToken}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var pair response.TokenPairResponse
		_ = httptest.DecodeResponseBody(t, w.Body, &pair)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
	})

	s.Run("access token is not accepted as a refresh token", func() {
		t := s.T()

		_, accessToken := s.auth.CreateAndLogin(t, s.Router, "refresher@example.com", user.RoleMember)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL,
			request.RefreshRequest{RefreshToken: accessToken}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("garbage token is rejected", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL,
			request.RefreshRequest{RefreshToken: "not.a.jwt"}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func (s *authSuite) TestMe() {
	s.Run("authenticated user sees their own profile", func() {
		t := s.T()

		userID, token := s.auth.CreateAndLogin(t, s.Router, "me@example.com", user.RoleMember)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body response.UserResponse
		_ = httptest.DecodeResponseBody(t, w.Body, &body)
		require.Equal(t, userID, body.ID)
		require.Equal(t, "me@example.com", body.Email)
		require.Equal(t, "member", body.Role)
		require.True(t, body.IsActive)
	})

	s.Run("missing token is unauthorized", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("expired token is unauthorized", func() {
		t := s.T()

		userID := s.auth.CreateTestUser(t, "expired@example.com", user.RoleMember)
		token := s.auth.CreateExpiredToken(t, userID, user.RoleMember)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func (s *authSuite) TestLogout() {
	s.Run("logout returns 204 for an authenticated user", func() {
		t := s.T()

		_, token := s.auth.CreateAndLogin(t, s.Router, "leaver@example.com", user.RoleMember)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, logoutURL, nil, token)
		require.Equal(t, http.StatusNoContent, w.Code)
	})
}
