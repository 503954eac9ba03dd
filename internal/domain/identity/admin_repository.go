package identity

import (
	"context"

	"github.com/google/uuid"
)

// AdminRepository defines the interface for admin persistence
type AdminRepository interface {
	// Create creates a new admin
	Create(ctx context.Context, admin *Admin) error

	// FindByID finds an admin by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Admin, error)

	// FindByEmail finds an admin by normalized email
	FindByEmail(ctx context.Context, email string) (*Admin, error)

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// UpdateLastLogin stamps the last login time
	UpdateLastLogin(ctx context.Context, admin *Admin) error
}
