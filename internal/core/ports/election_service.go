package ports

import (
	"context"
	"time"

	"github.com/dbu-council/council-system/internal/core/domain"
)

// CandidateInput describes one candidate at election creation/update time.
type CandidateInput struct {
	Name       string
	Username   string
	Department string
	Year       string
	Position   string
	Platform   []string
	Biography  string
}

// CreateElectionInput carries all data needed to create an election.
type CreateElectionInput struct {
	Title        string
	Description  string
	StartDate    time.Time
	EndDate      time.Time
	Candidates   []CandidateInput
	ElectionType string
	IsPublic     *bool
	Eligibility  domain.VotingEligibility
	CreatedBy    *domain.Account
}

// UpdateElectionInput carries a partial update; nil/zero fields are left
// untouched. Only upcoming elections accept updates.
type UpdateElectionInput struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Candidates  []CandidateInput
	IsPublic    *bool
}

// ElectionView is an election read with its derived status and countdown.
type ElectionView struct {
	Election *domain.Election
	Status   domain.ElectionStatus
	Timer    domain.Timer
	CanVote  bool
	Turnout  float64
}

// CastVoteInput identifies one vote attempt.
type CastVoteInput struct {
	ElectionID  string
	CandidateID string
	Voter       *domain.Account
	IPAddress   string
}

// VoteResult reports the post-vote tallies.
type VoteResult struct {
	ElectionID string
	TotalVotes int
}

// AnnounceResult reports the published outcome.
type AnnounceResult struct {
	Winner  *domain.Candidate
	Turnout float64
}

// ElectionService defines use-case operations for elections.
type ElectionService interface {
	Create(ctx context.Context, input CreateElectionInput) (*domain.Election, error)
	Get(ctx context.Context, id string, includePrivate bool) (*ElectionView, error)
	List(ctx context.Context, filter ElectionFilter) ([]*ElectionView, int64, error)
	Update(ctx context.Context, id string, input UpdateElectionInput) (*domain.Election, error)
	Delete(ctx context.Context, id string) error
	CastVote(ctx context.Context, input CastVoteInput) (*VoteResult, error)
	Announce(ctx context.Context, id string) (*AnnounceResult, error)
	RefreshStatuses(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (*ElectionStats, error)
}
