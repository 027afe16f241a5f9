package ports

import (
	"context"

	"github.com/dbu-council/council-system/internal/core/domain"
)

// CreateClubInput carries a new club.
type CreateClubInput struct {
	Name        string
	Description string
	Category    string
	Creator     *domain.Account
}

// ClubDashboard is the assigned admin's management view.
type ClubDashboard struct {
	Club            *domain.Club
	TotalMembers    int
	ApprovedMembers int
	PendingMembers  int
}

// ClubService defines use-case operations for clubs.
type ClubService interface {
	Create(ctx context.Context, input CreateClubInput) (*domain.Club, error)
	Get(ctx context.Context, id string) (*domain.Club, error)
	List(ctx context.Context, filter ClubFilter) ([]*domain.Club, int64, error)
	Update(ctx context.Context, id string, name, description, category string, status domain.ClubStatus, actor *domain.Account) (*domain.Club, error)
	Delete(ctx context.Context, id string, actor *domain.Account) error

	// AssignAdmin rewires the club↔admin bidirectional pair, clearing both
	// stale sides (previous admin of the club, previous club of the admin)
	// before setting the new pair.
	AssignAdmin(ctx context.Context, clubID, accountID string, actor *domain.Account) error

	// Join files a pending membership request.
	Join(ctx context.Context, clubID string, member *domain.Account) error
	// ReviewMember approves or rejects a pending membership request;
	// ownership-gated to the club's assigned admin.
	ReviewMember(ctx context.Context, clubID, accountID string, status domain.MemberStatus, actor *domain.Account) error

	Dashboard(ctx context.Context, actor *domain.Account) (*ClubDashboard, error)
}
