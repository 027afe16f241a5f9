package ports

import (
	"context"

	"github.com/dbu-council/council-system/internal/core/domain"
)

// CreateAccountInput carries an admin-created privileged account.
type CreateAccountInput struct {
	Name       string
	Username   string
	Email      string
	Password   string
	Department string
	Year       string
	Role       domain.Role
}

// AccountService defines administrative account management. Every operation
// that touches role rewrites the permission vector from the role.
type AccountService interface {
	Create(ctx context.Context, input CreateAccountInput, actor *domain.Account) (*domain.Account, error)
	Get(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]*domain.Account, int64, error)
	ChangeRole(ctx context.Context, id string, role domain.Role, actor *domain.Account) (*domain.Account, error)
	SetActive(ctx context.Context, id string, active bool, actor *domain.Account) error
	Unlock(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, actor *domain.Account) error
}
