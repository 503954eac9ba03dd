package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vetcollars/storefront/internal/domain/identity"
	"github.com/vetcollars/storefront/internal/domain/shared"
	"github.com/vetcollars/storefront/internal/infrastructure/auth"
	"github.com/vetcollars/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

// MockAdminRepository is a mock implementation of identity.AdminRepository
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *identity.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Admin), args.Error(1)
}

func (m *MockAdminRepository) FindByEmail(ctx context.Context, email string) (*identity.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Admin), args.Error(1)
}

func (m *MockAdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdminRepository) UpdateLastLogin(ctx context.Context, admin *identity.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-that-is-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "storefront-test",
	})
}

func newTestAdmin(t *testing.T) *identity.Admin {
	t.Helper()
	admin, err := identity.NewAdmin("owner@example.com", "correct-horse")
	require.NoError(t, err)
	return admin
}

func TestAuthService_Login(t *testing.T) {
	admin := newTestAdmin(t)
	jwtSvc := newTestJWTService()

	t.Run("success", func(t *testing.T) {
		repo := new(MockAdminRepository)
		svc := NewAuthService(repo, jwtSvc, nil, zap.NewNop())

		repo.On("FindByEmail", mock.Anything, "owner@example.com").Return(admin, nil)
		repo.On("UpdateLastLogin", mock.Anything, admin).Return(nil)

		result, err := svc.Login(context.Background(), LoginInput{Email: " Owner@Example.com ", Password: "correct-horse"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, admin.ID, result.Admin.ID)
		assert.NotNil(t, result.Admin.LastLoginAt)

		claims, err := jwtSvc.ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, admin.ID.String(), claims.AdminID)
		repo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockAdminRepository)
		svc := NewAuthService(repo, jwtSvc, nil, zap.NewNop())
		repo.On("FindByEmail", mock.Anything, "owner@example.com").Return(admin, nil)

		_, err := svc.Login(context.Background(), LoginInput{Email: "owner@example.com", Password: "wrong-password"})
		assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
		repo.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(MockAdminRepository)
		svc := NewAuthService(repo, jwtSvc, nil, zap.NewNop())
		repo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever1"})
		assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(MockAdminRepository)
		svc := NewAuthService(repo, jwtSvc, nil, zap.NewNop())
		repo.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		_, err := svc.Login(context.Background(), LoginInput{Email: "owner@example.com", Password: "correct-horse"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, identity.ErrInvalidCredentials)
	})
}

func TestAuthService_Logout(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := NewAuthService(new(MockAdminRepository), newTestJWTService(), blacklist, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx, LogoutInput{TokenJTI: "jti-1", ExpiresAt: time.Now().Add(time.Minute)}))
	revoked, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, svc.Logout(ctx, LogoutInput{TokenJTI: "jti-2", ExpiresAt: time.Now().Add(-time.Minute)}))
	revoked, err = blacklist.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestAuthService_Me(t *testing.T) {
	admin := newTestAdmin(t)
	repo := new(MockAdminRepository)
	svc := NewAuthService(repo, newTestJWTService(), nil, zap.NewNop())
	repo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)

	resp, err := svc.Me(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", resp.Email)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	t.Run("creates missing admin", func(t *testing.T) {
		repo := new(MockAdminRepository)
		svc := NewAuthService(repo, newTestJWTService(), nil, zap.NewNop())
		repo.On("ExistsByEmail", mock.Anything, "owner@example.com").Return(false, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(a *identity.Admin) bool {
			return a.Email == "owner@example.com" && a.VerifyPassword("bootstrap-pass")
		})).Return(nil)

		require.NoError(t, svc.EnsureAdmin(context.Background(), "Owner@example.com", "bootstrap-pass"))
		repo.AssertExpectations(t)
	})

	t.Run("keeps existing admin", func(t *testing.T) {
		repo := new(MockAdminRepository)
		svc := NewAuthService(repo, newTestJWTService(), nil, zap.NewNop())
		repo.On("ExistsByEmail", mock.Anything, "owner@example.com").Return(true, nil)

		require.NoError(t, svc.EnsureAdmin(context.Background(), "owner@example.com", "bootstrap-pass"))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("empty email is skipped", func(t *testing.T) {
		repo := new(MockAdminRepository)
		svc := NewAuthService(repo, newTestJWTService(), nil, zap.NewNop())
		require.NoError(t, svc.EnsureAdmin(context.Background(), "", ""))
	})

	t.Run("weak password rejected", func(t *testing.T) {
		repo := new(MockAdminRepository)
		svc := NewAuthService(repo, newTestJWTService(), nil, zap.NewNop())
		repo.On("ExistsByEmail", mock.Anything, "owner@example.com").Return(false, nil)

		err := svc.EnsureAdmin(context.Background(), "owner@example.com", "short")
		require.Error(t, err)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_PASSWORD", de.Code)
	})
}
