package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/vetcollars/storefront/internal/domain/identity"
)

// AdminModel is the persistence model for back office accounts.
type AdminModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email        string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time  `gorm:"not null"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (AdminModel) TableName() string {
	return "admins"
}

// ToDomain converts the persistence model to a domain Admin.
func (m *AdminModel) ToDomain() *identity.Admin {
	return &identity.Admin{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		LastLoginAt:  m.LastLoginAt,
	}
}

// AdminModelFromDomain creates a new persistence model from a domain Admin.
func AdminModelFromDomain(a *identity.Admin) *AdminModel {
	return &AdminModel{
		ID:           a.ID,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
		LastLoginAt:  a.LastLoginAt,
	}
}
