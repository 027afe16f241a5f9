package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/dbu-council/council-system/internal/core/domain"
	"github.com/dbu-council/council-system/internal/core/ports"
)

// stubAccounts serves only FindByID; the rest of the interface is inert.
type stubAccounts struct {
	accounts map[string]*domain.Account
}

func newStubAccounts(accounts ...*domain.Account) *stubAccounts {
	s := &stubAccounts{accounts: make(map[string]*domain.Account)}
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
	return s
}

func (s *stubAccounts) FindByID(_ context.Context, id string) (*domain.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

func (s *stubAccounts) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	return a, nil
}
func (s *stubAccounts) FindByUsername(context.Context, string) (*domain.Account, error) {
	return nil, domain.ErrAccountNotFound
}
func (s *stubAccounts) FindByUsernameOrEmail(context.Context, string, string) (*domain.Account, error) {
	return nil, domain.ErrAccountNotFound
}
func (s *stubAccounts) List(context.Context, ports.AccountFilter) ([]*domain.Account, int64, error) {
	return nil, 0, nil
}
func (s *stubAccounts) Delete(context.Context, string) error { return nil }
func (s *stubAccounts) SetRole(context.Context, string, domain.Role, domain.Permissions) error {
	return nil
}
func (s *stubAccounts) SetPassword(context.Context, string, string, domain.Permissions) error {
	return nil
}
func (s *stubAccounts) SetActive(context.Context, string, bool) error { return nil }
func (s *stubAccounts) Unlock(context.Context, string) error          { return nil }
func (s *stubAccounts) RecordFailedLogin(context.Context, string, int, time.Duration, time.Time) (*domain.Account, error) {
	return nil, domain.ErrAccountNotFound
}
func (s *stubAccounts) ClearLoginFailures(context.Context, string, time.Time) error { return nil }
func (s *stubAccounts) SetAssignedClub(context.Context, string, string) error       { return nil }
func (s *stubAccounts) AddJoinedClub(context.Context, string, string) error         { return nil }
func (s *stubAccounts) AddVotedElection(context.Context, string, string) error      { return nil }
func (s *stubAccounts) CountEligibleVoters(context.Context, []domain.Role) (int64, error) {
	return 0, nil
}

func signToken(t *testing.T, secret, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": "student",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	repo := newStubAccounts(&domain.Account{
		ID:       "acc1",
		Username: "dbu10050001",
		Role:     domain.RoleStudent,
		IsActive: true,
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", "acc1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth("secret", repo)
	handler := mw(func(c echo.Context) error {
		called = true
		subject := Subject(c)
		if subject == nil || subject.ID != "acc1" {
			t.Fatalf("subject not injected: %+v", subject)
		}
		if !subject.Permissions.CanVoteElections {
			t.Fatalf("permissions not derived from role")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_PermissionsRederived(t *testing.T) {
	e := echo.New()
	// Stored vector claims capabilities the role does not grant.
	repo := newStubAccounts(&domain.Account{
		ID:       "acc1",
		Role:     domain.RoleStudent,
		IsActive: true,
		Permissions: domain.Permissions{
			CanCreateElections:   true,
			CanResolveComplaints: true,
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", "acc1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth("secret", repo)
	handler := mw(func(c echo.Context) error {
		subject := Subject(c)
		if subject.Permissions.CanCreateElections || subject.Permissions.CanResolveComplaints {
			t.Fatalf("stored permission vector was trusted")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth("secret", newStubAccounts())
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth("secret", newStubAccounts())
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_DeactivatedAccount(t *testing.T) {
	e := echo.New()
	repo := newStubAccounts(&domain.Account{
		ID:       "acc1",
		Role:     domain.RoleStudent,
		IsActive: false,
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", "acc1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth("secret", repo)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAuthMiddleware_LockedAccount(t *testing.T) {
	e := echo.New()
	repo := newStubAccounts(&domain.Account{
		ID:        "acc1",
		Role:      domain.RoleStudent,
		IsActive:  true,
		IsLocked:  true,
		LockUntil: time.Now().Add(15 * time.Minute),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", "acc1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth("secret", repo)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
