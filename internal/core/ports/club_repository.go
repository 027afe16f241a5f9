package ports

import (
	"context"

	"github.com/dbu-council/council-system/internal/core/domain"
)

// ClubFilter carries query parameters for listing clubs.
type ClubFilter struct {
	Status   domain.ClubStatus // optional
	Category string            // optional
	Search   string            // optional: partial match on name
	Page     int
	Limit    int
}

// ClubRepository defines persistence operations for clubs.
type ClubRepository interface {
	Create(ctx context.Context, c *domain.Club) (*domain.Club, error)
	FindByID(ctx context.Context, id string) (*domain.Club, error)
	List(ctx context.Context, filter ClubFilter) ([]*domain.Club, int64, error)
	Update(ctx context.Context, c *domain.Club) error
	Delete(ctx context.Context, id string) error

	// SetAdmin sets or clears (empty accountID) the club's admin reference.
	SetAdmin(ctx context.Context, clubID string, accountID string) error

	// AddMember appends a membership entry unless the account is already a
	// member; returns ErrAlreadyMember on the condition miss.
	AddMember(ctx context.Context, clubID string, m domain.ClubMember) error

	SetMemberStatus(ctx context.Context, clubID string, accountID string, status domain.MemberStatus) error
}
