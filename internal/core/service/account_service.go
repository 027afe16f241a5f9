package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dbu-council/council-system/internal/core/authz"
	"github.com/dbu-council/council-system/internal/core/domain"
	"github.com/dbu-council/council-system/internal/core/ports"
)

// AccountService implements super-admin account management. Role is the
// single source of truth for permissions: every role mutation rewrites the
// derived vector in the same update.
type AccountService struct {
	accounts ports.AccountRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewAccountService(accounts ports.AccountRepository, logger zerolog.Logger) *AccountService {
	return &AccountService{
		accounts: accounts,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create provisions a privileged account.
func (s *AccountService) Create(ctx context.Context, input ports.CreateAccountInput, actor *domain.Account) (*domain.Account, error) {
	if d := authz.SuperAdminOnly(actor); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
	}
	if !input.Role.Valid() {
		return nil, domain.NewValidationError(fmt.Sprintf("unknown role %q", input.Role))
	}
	if len(input.Password) < 8 {
		return nil, domain.NewValidationError("password must be at least 8 characters")
	}

	if existing, err := s.accounts.FindByUsernameOrEmail(ctx, input.Username, input.Email); err == nil && existing != nil {
		return nil, domain.ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	account := &domain.Account{
		Name:         input.Name,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		Permissions:  domain.DerivePermissions(input.Role),
		Department:   input.Department,
		Year:         input.Year,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("username", created.Username).
		Str("role", string(created.Role)).
		Msg("privileged account created")
	return created, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.FindByID(ctx, id)
}

func (s *AccountService) List(ctx context.Context, filter ports.AccountFilter) ([]*domain.Account, int64, error) {
	return s.accounts.List(ctx, filter)
}

// ChangeRole updates the role and the permission vector derived from it as
// one store update.
func (s *AccountService) ChangeRole(ctx context.Context, id string, role domain.Role, actor *domain.Account) (*domain.Account, error) {
	if d := authz.SuperAdminOnly(actor); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
	}
	if !role.Valid() {
		return nil, domain.NewValidationError(fmt.Sprintf("unknown role %q", role))
	}
	if _, err := s.accounts.FindByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.accounts.SetRole(ctx, id, role, domain.DerivePermissions(role)); err != nil {
		return nil, err
	}

	s.logger.Info().Str("account", id).Str("role", string(role)).Msg("role changed")
	return s.accounts.FindByID(ctx, id)
}

// SetActive soft-enables or soft-disables an account.
func (s *AccountService) SetActive(ctx context.Context, id string, active bool, actor *domain.Account) error {
	if d := authz.SuperAdminOnly(actor); !d.Allowed {
		return fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
	}
	if actor.ID == id && !active {
		return domain.NewValidationError("cannot deactivate your own account")
	}
	return s.accounts.SetActive(ctx, id, active)
}

// Unlock clears a login lock ahead of its expiry.
func (s *AccountService) Unlock(ctx context.Context, id string) error {
	return s.accounts.Unlock(ctx, id)
}

// Delete removes an account permanently; self-deletion is rejected.
func (s *AccountService) Delete(ctx context.Context, id string, actor *domain.Account) error {
	if d := authz.SuperAdminOnly(actor); !d.Allowed {
		return fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
	}
	if actor.ID == id {
		return domain.NewValidationError("cannot delete your own account")
	}
	return s.accounts.Delete(ctx, id)
}
