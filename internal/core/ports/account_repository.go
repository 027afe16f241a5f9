package ports

import (
	"context"
	"time"

	"github.com/dbu-council/council-system/internal/core/domain"
)

// AccountFilter carries query parameters for listing accounts.
type AccountFilter struct {
	Role     domain.Role // optional: filter by role
	Search   string      // optional: partial match on name or username
	IsActive *bool       // optional: filter by activation state
	Page     int         // 1-based
	Limit    int         // max rows per page
}

// AccountRepository defines persistence operations for accounts.
//
// RecordFailedLogin and ClearLoginFailures exist so the increment-and-maybe-
// lock sequence is one conditional store update, never a read/modify/write
// pair in the service.
type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]*domain.Account, int64, error)
	Delete(ctx context.Context, id string) error

	// SetRole atomically updates role and the permission vector derived from it.
	SetRole(ctx context.Context, id string, role domain.Role, perms domain.Permissions) error
	// SetPassword atomically updates the hash and rewrites the derived vector.
	SetPassword(ctx context.Context, id string, hash string, perms domain.Permissions) error
	SetActive(ctx context.Context, id string, active bool) error
	Unlock(ctx context.Context, id string) error

	// RecordFailedLogin increments the attempt counter and, when it reaches
	// threshold, sets the lock in the same update. The post-update account is
	// returned so the caller can report lock state.
	RecordFailedLogin(ctx context.Context, id string, threshold int, lockFor time.Duration, now time.Time) (*domain.Account, error)
	// ClearLoginFailures resets the counter and lock and stamps last_login.
	ClearLoginFailures(ctx context.Context, id string, lastLogin time.Time) error

	// SetAssignedClub pins a club_admin account to a club; empty clubID clears it.
	SetAssignedClub(ctx context.Context, id string, clubID string) error
	AddJoinedClub(ctx context.Context, id string, clubID string) error
	// AddVotedElection appends to the account's vote-history list (set semantics).
	AddVotedElection(ctx context.Context, id string, electionID string) error

	// CountEligibleVoters snapshots the number of active accounts holding one
	// of the given roles.
	CountEligibleVoters(ctx context.Context, roles []domain.Role) (int64, error)
}
