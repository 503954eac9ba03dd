package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vetcollars/storefront/internal/domain/identity"
	"github.com/vetcollars/storefront/internal/domain/shared"
	"github.com/vetcollars/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAdminRepository implements identity.AdminRepository using GORM
type GormAdminRepository struct {
	db *gorm.DB
}

// NewGormAdminRepository creates a new GormAdminRepository
func NewGormAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// Create creates a new admin
func (r *GormAdminRepository) Create(ctx context.Context, admin *identity.Admin) error {
	if err := r.db.WithContext(ctx).Create(models.AdminModelFromDomain(admin)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds an admin by ID
func (r *GormAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Admin, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByEmail finds an admin by email
func (r *GormAdminRepository) FindByEmail(ctx context.Context, email string) (*identity.Admin, error) {
	return r.findOne(ctx, "email = ?", identity.NormalizeEmail(email))
}

// ExistsByEmail checks if an email is already registered
func (r *GormAdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AdminModel{}).
		Where("email = ?", identity.NormalizeEmail(email)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateLastLogin stamps the last login time
func (r *GormAdminRepository) UpdateLastLogin(ctx context.Context, admin *identity.Admin) error {
	result := r.db.WithContext(ctx).Model(&models.AdminModel{}).
		Where("id = ?", admin.ID).
		Update("last_login_at", admin.LastLoginAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormAdminRepository) findOne(ctx context.Context, cond string, arg any) (*identity.Admin, error) {
	var model models.AdminModel
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var _ identity.AdminRepository = (*GormAdminRepository)(nil)
