package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/clock"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// AuthServiceDeps bundles the collaborators of AuthService.
type AuthServiceDeps struct {
	Store          repository.Store
	PasswordResets repository.PasswordResetRepository
	Tokens         *auth.TokenManager
	Clock          clock.Clock
	Logger         *zap.Logger
	Config         config.AuthConfig
}

// AuthService handles registration, login and password management.
type AuthService struct {
	store          repository.Store
	passwordResets repository.PasswordResetRepository
	tokens         *auth.TokenManager
	clock          clock.Clock
	logger         *zap.Logger
	cfg            config.AuthConfig
}

// NewAuthService wires the service.
func NewAuthService(deps AuthServiceDeps) *AuthService {
	return &AuthService{
		store:          deps.Store,
		passwordResets: deps.PasswordResets,
		tokens:         deps.Tokens,
		clock:          deps.Clock,
		logger:         deps.Logger,
		cfg:            deps.Config,
	}
}

// Register creates an account holding exactly the USER role; names are
// unique. Privileged roles are only ever granted through the admin rights
// update, never at signup.
func (s *AuthService) Register(ctx context.Context, name, password string) (*domain.User, error) {
	if name == "" || password == "" {
		return nil, util.NewValidationError("name and password are required", nil)
	}

	hash, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleUser},
	}
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().GetByName(ctx, name); err == nil {
			return util.NewConflict("name already taken", map[string]any{"name": name})
		}
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		return nil, util.MapError(err)
	}

	s.logger.Info("user registered", zap.String("name", name))
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, name, password string) (string, *domain.User, error) {
	user, err := s.store.Users().GetByName(ctx, name)
	if err != nil || !auth.VerifyPassword(user.PasswordHash, password) {
		return "", nil, util.NewUnauthorized("invalid credentials")
	}
	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return "", nil, util.NewInternalError(err)
	}
	return token, user, nil
}

// ChangePassword swaps the caller's password after checking the old one.
func (s *AuthService) ChangePassword(ctx context.Context, name, oldPassword, newPassword string) error {
	if newPassword == "" {
		return util.NewValidationError("new password must not be empty", nil)
	}

	return util.MapError(s.store.WithTx(ctx, func(tx repository.Store) error {
		user, err := tx.Users().GetByName(ctx, name)
		if err != nil {
			return util.NewNotFound("user", map[string]any{"name": name})
		}
		if !auth.VerifyPassword(user.PasswordHash, oldPassword) {
			return util.NewValidationError("old password does not match", nil)
		}
		hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
		if err != nil {
			return util.NewInternalError(err)
		}
		user.PasswordHash = hash
		return tx.Users().UpdatePassword(ctx, user)
	}))
}

// RequestPasswordReset issues a one-shot reset token for the named account.
// An unknown name yields no error, so the endpoint does not leak which
// accounts exist.
func (s *AuthService) RequestPasswordReset(ctx context.Context, name string) (string, error) {
	user, err := s.store.Users().GetByName(ctx, name)
	if err != nil {
		return "", nil
	}

	token := &repository.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: s.clock.Now().Add(s.resetTTL()),
	}
	if err := s.passwordResets.Create(ctx, token); err != nil {
		return "", util.MapError(err)
	}
	s.logger.Info("password reset requested", zap.String("name", name))
	return token.Token, nil
}

// ConfirmPasswordReset redeems a reset token and stores the new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	if newPassword == "" {
		return util.NewValidationError("new password must not be empty", nil)
	}

	token, err := s.passwordResets.GetByToken(ctx, tokenStr)
	if err != nil {
		return util.NewValidationError("invalid reset token", nil)
	}
	if token.UsedAt != nil || s.clock.Now().After(token.ExpiresAt) {
		return util.NewValidationError("reset token expired or already used", nil)
	}

	return util.MapError(s.store.WithTx(ctx, func(tx repository.Store) error {
		user, err := tx.Users().GetByID(ctx, token.UserID)
		if err != nil {
			return util.NewNotFound("user", map[string]any{"id": token.UserID})
		}
		hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
		if err != nil {
			return util.NewInternalError(err)
		}
		user.PasswordHash = hash
		if err := tx.Users().UpdatePassword(ctx, user); err != nil {
			return err
		}
		return s.passwordResets.MarkUsed(ctx, token.ID)
	}))
}

func (s *AuthService) resetTTL() time.Duration {
	return time.Duration(s.cfg.PasswordResetTTLMinutes) * time.Minute
}
