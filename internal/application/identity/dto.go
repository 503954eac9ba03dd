package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/vetcollars/storefront/internal/domain/identity"
)

// LoginInput contains the admin credentials
type LoginInput struct {
	Email    string `json:"email" binding:"required,max=200"`
	Password string `json:"password" binding:"required,max=72"`
}

// LoginResult is returned after a successful login
type LoginResult struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	Admin       AdminResponse `json:"admin"`
}

// LogoutInput identifies the token being revoked
type LogoutInput struct {
	TokenJTI  string
	ExpiresAt time.Time
}

// AdminResponse represents an admin in API responses
type AdminResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// ToAdminResponse converts a domain admin
func ToAdminResponse(a *identity.Admin) AdminResponse {
	return AdminResponse{
		ID:          a.ID,
		Email:       a.Email,
		CreatedAt:   a.CreatedAt,
		LastLoginAt: a.LastLoginAt,
	}
}
