package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dbu-council/council-system/internal/core/domain"
	"github.com/dbu-council/council-system/internal/core/ports"
)

const (
	maxLoginAttempts = 5
	lockDuration     = 30 * time.Minute
)

var usernamePattern = regexp.MustCompile(`^dbu\d{8}$`)

// AuthService implements registration, login with lockout, and the password
// flows.
type AuthService struct {
	accounts  ports.AccountRepository
	tokens    ports.ResetTokenStore
	mail      ports.MailEnqueuer
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAuthService(
	accounts ports.AccountRepository,
	tokens ports.ResetTokenStore,
	mail ports.MailEnqueuer,
	jwtSecret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		accounts:  accounts,
		tokens:    tokens,
		mail:      mail,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a student account. The role is fixed here; privileged
// accounts go through AccountService.Create instead.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Account, error) {
	var violations []string
	if input.Name == "" {
		violations = append(violations, "name is required")
	}
	if !usernamePattern.MatchString(input.Username) {
		violations = append(violations, "username must start with dbu followed by 8 digits")
	}
	if len(input.Password) < 8 {
		violations = append(violations, "password must be at least 8 characters")
	}
	if input.Department == "" {
		violations = append(violations, "department is required")
	}
	if input.Year == "" {
		violations = append(violations, "academic year is required")
	}
	if len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
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
		Role:         domain.RoleStudent,
		Permissions:  domain.DerivePermissions(domain.RoleStudent),
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

	s.logger.Info().Str("username", created.Username).Msg("account registered")
	return created, nil
}

// Login authenticates a user and returns a signed token. Failed attempts are
// counted by a single conditional store update that also applies the lock once
// the threshold is reached; an expired lock is cleared on the next successful
// check.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Account, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !account.IsActive {
		return "", nil, domain.ErrAccountDeactivated
	}

	now := s.now()
	if account.LockedNow(now) {
		return "", nil, domain.ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		updated, recErr := s.accounts.RecordFailedLogin(ctx, account.ID, maxLoginAttempts, lockDuration, now)
		if recErr != nil {
			s.logger.Error().Err(recErr).Str("username", username).Msg("failed to record login attempt")
		} else if updated.IsLocked {
			s.logger.Warn().Str("username", username).Msg("account locked after repeated failed logins")
			return "", nil, domain.ErrAccountLocked
		}
		return "", nil, domain.ErrInvalidCredentials
	}

	// Success clears the attempt counter and any expired lock.
	if err := s.accounts.ClearLoginFailures(ctx, account.ID, now); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("failed to clear login state")
	}

	token, err := s.generateToken(account)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info().Str("username", username).Str("role", string(account.Role)).Msg("login")
	return token, account, nil
}

// ChangePassword verifies the current password and swaps the hash. The
// permission vector is rewritten from the role in the same update.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, current, next string) error {
	if len(next) < 8 {
		return domain.NewValidationError("password must be at least 8 characters")
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.accounts.SetPassword(ctx, accountID, string(hash), domain.DerivePermissions(account.Role))
}

// ForgotPassword stores an opaque token and enqueues the reset mail. The
// outcome is identical whether or not the account exists, so the endpoint
// cannot be used to probe for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.accounts.FindByUsernameOrEmail(ctx, "", email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil
		}
		return err
	}

	token := uuid.NewString()
	if err := s.tokens.Save(ctx, token, account.ID); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}

	s.mail.Enqueue(ports.Mail{
		To:      account.Email,
		Subject: "Password reset request",
		Body:    fmt.Sprintf("Use the following token to reset your password: %s", token),
	})
	s.logger.Info().Str("account", account.ID).Msg("password reset requested")
	return nil
}

// ResetPassword consumes a token and sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return domain.NewValidationError("password must be at least 8 characters")
	}

	accountID, err := s.tokens.Consume(ctx, token)
	if err != nil {
		return err
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.accounts.SetPassword(ctx, account.ID, string(hash), domain.DerivePermissions(account.Role)); err != nil {
		return err
	}

	s.logger.Info().Str("account", account.ID).Msg("password reset completed")
	return nil
}

func (s *AuthService) generateToken(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"sub":  account.ID,
		"role": string(account.Role),
		"exp":  s.now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
