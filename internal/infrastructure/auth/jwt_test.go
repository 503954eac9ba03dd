package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetcollars/storefront/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "storefront-test",
	})
}

func TestGenerateAccessToken(t *testing.T) {
	svc := newTestJWTService()
	adminID := uuid.New()

	token, err := svc.GenerateAccessToken(adminID, "owner@shop.by")
	require.NoError(t, err)

	assert.NotEmpty(t, token.Token)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), token.ExpiresAt, 5*time.Second)
}

func TestValidateAccessToken_Success(t *testing.T) {
	svc := newTestJWTService()
	adminID := uuid.New()

	token, err := svc.GenerateAccessToken(adminID, "owner@shop.by")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token.Token)
	require.NoError(t, err)

	id, err := claims.GetAdminUUID()
	require.NoError(t, err)
	assert.Equal(t, adminID, id)
	assert.Equal(t, "owner@shop.by", claims.Email)
	assert.NotEmpty(t, claims.ID, "jti is needed for logout")
	assert.Greater(t, claims.GetRemainingTTL(), 14*time.Minute)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: -time.Minute,
		Issuer:                "storefront-test",
	})

	token, err := svc.GenerateAccessToken(uuid.New(), "owner@shop.by")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateAccessToken_Rejections(t *testing.T) {
	svc := newTestJWTService()

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("different secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "another-secret-key-at-least-32-ch",
			AccessTokenExpiration: time.Minute,
			Issuer:                "storefront-test",
		})
		token, err := other.GenerateAccessToken(uuid.New(), "owner@shop.by")
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("different issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-at-least-32-chars",
			AccessTokenExpiration: time.Minute,
			Issuer:                "someone-else",
		})
		token, err := other.GenerateAccessToken(uuid.New(), "owner@shop.by")
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing admin id", func(t *testing.T) {
		now := time.Now()
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "storefront-test",
				Audience:  jwt.ClaimStrings{"storefront-test"},
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			TokenType: TokenTypeAccess,
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(signed)
		assert.ErrorIs(t, err, ErrMissingAdminID)
	})

	t.Run("wrong token type", func(t *testing.T) {
		now := time.Now()
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "storefront-test",
				Audience:  jwt.ClaimStrings{"storefront-test"},
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			},
			AdminID:   uuid.NewString(),
			TokenType: TokenType("refresh"),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(signed)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})
}

func TestClaims_ExpiryHelpers(t *testing.T) {
	var c Claims
	assert.True(t, c.GetExpiresAtTime().IsZero())
	assert.Zero(t, c.GetRemainingTTL())

	c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	assert.Zero(t, c.GetRemainingTTL())
}
