package ports

import (
	"context"
	"time"

	"github.com/dbu-council/council-system/internal/core/domain"
)

// ElectionFilter carries query parameters for listing elections.
type ElectionFilter struct {
	Status     domain.ElectionStatus // optional: filter by stored status
	Type       string                // optional: filter by election type
	Search     string                // optional: partial match on title or description
	PublicOnly bool                  // non-admin callers only see public elections
	Page       int                   // 1-based
	Limit      int                   // max rows per page
}

// ElectionStats is the aggregate overview for administrators.
type ElectionStats struct {
	Total      int64
	Upcoming   int64
	Active     int64
	Completed  int64
	Cancelled  int64
	TotalVotes int64
}

// ElectionRepository defines persistence operations for elections.
//
// CastVote is the correctness-critical operation: the eligibility condition
// (voter absent from the ledger, voting window open) and the full mutation
// (ledger append, both counter increments) must be one atomic conditional
// update against the backing store. A read-then-write implementation is a
// documented bug class.
type ElectionRepository interface {
	Create(ctx context.Context, e *domain.Election) (*domain.Election, error)
	FindByID(ctx context.Context, id string) (*domain.Election, error)
	List(ctx context.Context, filter ElectionFilter) ([]*domain.Election, int64, error)
	Update(ctx context.Context, e *domain.Election) error
	Delete(ctx context.Context, id string) error

	// UpdateStatus opportunistically persists a derived status. Idempotent and
	// safe to race: losing the race leaves a value another writer derived from
	// the same dates.
	UpdateStatus(ctx context.Context, id string, status domain.ElectionStatus) error

	// CastVote appends the ledger record, increments the candidate's counter
	// and the total, all in one conditional write keyed on "voter not already
	// present and now within [start, end)". On a condition miss it returns
	// ErrAlreadyVoted, ErrElectionNotActive, or ErrCandidateNotFound according
	// to which condition failed.
	CastVote(ctx context.Context, electionID string, record domain.VoteRecord, now time.Time) (*domain.Election, error)

	// PublishResults flips the one-way resultsPublished flag.
	PublishResults(ctx context.Context, id string, at time.Time) error

	// RefreshStatuses bulk-promotes upcoming→active and active→completed
	// according to now, returning the number of elections updated.
	RefreshStatuses(ctx context.Context, now time.Time) (int64, error)

	Stats(ctx context.Context) (*ElectionStats, error)
}
