// Package identity implements back office authentication.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vetcollars/storefront/internal/domain/identity"
	"github.com/vetcollars/storefront/internal/domain/shared"
	"github.com/vetcollars/storefront/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles admin authentication
type AuthService struct {
	adminRepo  identity.AdminRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service. blacklist may be
// nil, in which case logout only ends the client side session.
func NewAuthService(
	adminRepo identity.AdminRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		adminRepo:  adminRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
		now:        time.Now,
	}
}

// Login authenticates an admin and issues an access token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := identity.NormalizeEmail(input.Email)
	s.logger.Info("Login attempt", zap.String("email", email))

	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Admin not found during login", zap.String("email", email))
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}

	if !admin.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password", zap.String("email", email))
		return nil, identity.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(admin.ID, admin.Email)
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, shared.NewDomainError("TOKEN_GENERATION_ERROR", "Failed to generate access token")
	}

	admin.RecordLogin(s.now())
	if err := s.adminRepo.UpdateLastLogin(ctx, admin); err != nil {
		s.logger.Warn("Failed to record login time", zap.String("admin_id", admin.ID.String()), zap.Error(err))
	}

	s.logger.Info("Login successful", zap.String("admin_id", admin.ID.String()))

	return &LoginResult{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		Admin:       ToAdminResponse(admin),
	}, nil
}

// Logout revokes the access token until it would have expired
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if s.blacklist == nil || input.TokenJTI == "" {
		return nil
	}
	ttl := input.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, ttl); err != nil {
		s.logger.Error("Failed to revoke token", zap.String("jti", input.TokenJTI), zap.Error(err))
		return shared.ErrUnavailable
	}
	return nil
}

// Me returns the signed in admin
func (s *AuthService) Me(ctx context.Context, adminID uuid.UUID) (*AdminResponse, error) {
	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	resp := ToAdminResponse(admin)
	return &resp, nil
}

// EnsureAdmin creates the bootstrap admin when no account with email
// exists. An existing account is left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}
	exists, err := s.adminRepo.ExistsByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	admin, err := identity.NewAdmin(email, password)
	if err != nil {
		return err
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return err
	}

	s.logger.Info("Bootstrap admin created", zap.String("email", admin.Email))
	return nil
}
