package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vetcollars/storefront/internal/infrastructure/config"
	"github.com/vetcollars/storefront/internal/infrastructure/logger"
)

// Session identity
const (
	SessionHeader        = "X-Session-ID"
	SessionIDKey         = "session_id"
	maxSessionIDLength   = 64
	defaultSessionName   = "sid"
	defaultSessionMaxAge = 30 * 24 * 60 * 60
)

// Session resolves the anonymous storefront session from the X-Session-ID
// header or the session cookie. A missing or malformed id is replaced by a
// new one, which is returned in both the cookie and the header.
func Session(cfg config.SessionConfig) gin.HandlerFunc {
	name := cfg.CookieName
	if name == "" {
		name = defaultSessionName
	}
	maxAge := int(cfg.MaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = defaultSessionMaxAge
	}

	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if !validSessionID(sessionID) {
			sessionID, _ = c.Cookie(name)
		}
		if !validSessionID(sessionID) {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(name, sessionID, maxAge, "/", "", cfg.Secure, true)
		}

		c.Set(SessionIDKey, sessionID)
		c.Writer.Header().Set(SessionHeader, sessionID)
		c.Request = c.Request.WithContext(logger.WithSessionID(c.Request.Context(), sessionID))
		c.Next()
	}
}

// GetSessionID returns the session resolved by Session
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

func validSessionID(id string) bool {
	if id == "" || len(id) > maxSessionIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
