//go:build e2e

package helper

import (
	"net/http"
	"testing"
	"time"

	"conftix/internal/domain/user"
	"conftix/internal/handler/dto/request"
	"conftix/internal/handler/dto/response"
	"conftix/internal/pkg/config"
	"conftix/internal/pkg/jwt"
	"conftix/tests/common/dbtest"
	"conftix/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// AuthTestHelper creates users and obtains tokens for e2e flows.
type AuthTestHelper struct {
	pool *pgxpool.Pool
	cfg  config.JWTConfig
}

func NewAuthTestHelper(pool *pgxpool.Pool, cfg config.JWTConfig) *AuthTestHelper {
	return &AuthTestHelper{pool: pool, cfg: cfg}
}

func (h *AuthTestHelper) CreateTestUser(t *testing.T, email string, role user.Role) uuid.UUID {
	t.Helper()
	return dbtest.CreateTestUser(t, h.pool, email, role.String())
}

func (h *AuthTestHelper) LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body response.LoginResponse
	_ = httptest.DecodeResponseBody(t, w.Body, &body)
	require.NotEmpty(t, body.AccessToken, "access token missing from login response")

	return body.AccessToken
}

func (h *AuthTestHelper) CreateAndLogin(t *testing.T, router *gin.Engine, email string, role user.Role) (uuid.UUID, string) {
	t.Helper()
	userID := h.CreateTestUser(t, email, role)
	return userID, h.LoginUser(t, router, email, "password123")
}

func (h *AuthTestHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	duration, _ := time.ParseDuration(h.cfg.AccessTokenDuration)
	refreshDuration, _ := time.ParseDuration(h.cfg.RefreshTokenDuration)
	service := jwt.NewService(h.cfg.Secret, duration, refreshDuration)
	token, err := service.GenerateAccessToken(userID, role.String())
	require.NoError(t, err)
	return token
}

func (h *AuthTestHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	refreshDuration, _ := time.ParseDuration(h.cfg.RefreshTokenDuration)
	service := jwt.NewService(h.cfg.Secret, 1*time.Millisecond, refreshDuration)
	token, err := service.GenerateAccessToken(userID, role.String())
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}
