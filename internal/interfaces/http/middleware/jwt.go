package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vetcollars/storefront/internal/infrastructure/auth"
	"github.com/vetcollars/storefront/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTAdminIDKey = "jwt_admin_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// TokenBlacklist is optional; revoked tokens are rejected when set
	TokenBlacklist auth.TokenBlacklist
	Logger         *zap.Logger
}

// AdminAuth requires a valid, non-revoked admin access token
func AdminAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			rejectToken(c, log, auth.ErrInvalidToken)
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		if tokenString == "" {
			rejectToken(c, log, auth.ErrInvalidToken)
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			rejectToken(c, log, err)
			return
		}

		if cfg.TokenBlacklist != nil && claims.ID != "" {
			revoked, err := cfg.TokenBlacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// fail open: a blacklist outage must not lock the back office
				log.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
			} else if revoked {
				rejectToken(c, log, auth.ErrTokenBlacklisted)
				return
			}
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTAdminIDKey, claims.AdminID)
		c.Request = c.Request.WithContext(logger.WithAdminID(c.Request.Context(), claims.AdminID))
		c.Next()
	}
}

func rejectToken(c *gin.Context, log *zap.Logger, err error) {
	log.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)

	code, message := "UNAUTHORIZED", "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = "TOKEN_EXPIRED", "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code, message = "TOKEN_REVOKED", "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType),
		errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrMissingAdminID),
		errors.Is(err, auth.ErrTokenNotYetValid):
		code, message = "INVALID_TOKEN", "Invalid token"
	}
	abortWithError(c, code, message)
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetAdminID retrieves the admin ID from JWT claims in context
func GetAdminID(c *gin.Context) string {
	return c.GetString(JWTAdminIDKey)
}
