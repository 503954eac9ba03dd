package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetcollars/storefront/internal/infrastructure/auth"
	"github.com/vetcollars/storefront/internal/infrastructure/config"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: expiration,
		Issuer:                "test-issuer",
	})
}

func newAdminRouter(jwtService *auth.JWTService, blacklist auth.TokenBlacklist) *gin.Engine {
	router := gin.New()
	router.Use(AdminAuth(JWTMiddlewareConfig{JWTService: jwtService, TokenBlacklist: blacklist}))
	router.GET("/admin", func(c *gin.Context) {
		c.String(http.StatusOK, GetAdminID(c))
	})
	return router
}

func doAdminRequest(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if header != "" {
		req.Header.Set(AuthHeaderKey, header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminAuth(t *testing.T) {
	jwtService := newTestJWTService(15 * time.Minute)
	adminID := uuid.New()
	token, err := jwtService.GenerateAccessToken(adminID, "owner@example.com")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		w := doAdminRequest(newAdminRouter(jwtService, nil), "Bearer "+token.Token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, adminID.String(), w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := doAdminRequest(newAdminRouter(jwtService, nil), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := doAdminRequest(newAdminRouter(jwtService, nil), "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		w := doAdminRequest(newAdminRouter(jwtService, nil), "Bearer "+token.Token+"x")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expiredSvc := newTestJWTService(-time.Minute)
		expired, err := expiredSvc.GenerateAccessToken(adminID, "owner@example.com")
		require.NoError(t, err)

		w := doAdminRequest(newAdminRouter(jwtService, nil), "Bearer "+expired.Token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	})

	t.Run("revoked token", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		claims, err := jwtService.ValidateAccessToken(token.Token)
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Minute))

		w := doAdminRequest(newAdminRouter(jwtService, blacklist), "Bearer "+token.Token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
	})
}
