package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dbu-council/council-system/internal/core/authz"
	"github.com/dbu-council/council-system/internal/core/domain"
	"github.com/dbu-council/council-system/internal/core/ports"
)

// eligibleVoterRoles is the population counted into the eligibleVoters
// snapshot at election creation.
var eligibleVoterRoles = []domain.Role{
	domain.RoleStudent,
	domain.RoleClubAdmin,
	domain.RoleAcademicAffairs,
}

// ElectionService implements the election lifecycle: scheduling, lazy status
// derivation, vote casting, and result publication.
type ElectionService struct {
	elections ports.ElectionRepository
	accounts  ports.AccountRepository
	logger    zerolog.Logger
	now       func() time.Time
}

func NewElectionService(elections ports.ElectionRepository, accounts ports.AccountRepository, logger zerolog.Logger) *ElectionService {
	return &ElectionService{
		elections: elections,
		accounts:  accounts,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create validates the schedule and persists a new election with an
// eligible-voter snapshot.
func (s *ElectionService) Create(ctx context.Context, input ports.CreateElectionInput) (*domain.Election, error) {
	now := s.now()
	if err := domain.ValidateSchedule(input.StartDate, input.EndDate, now); err != nil {
		return nil, err
	}
	if input.Title == "" || input.Description == "" {
		return nil, domain.NewValidationError("title and description are required")
	}

	eligible, err := s.accounts.CountEligibleVoters(ctx, eligibleVoterRoles)
	if err != nil {
		return nil, fmt.Errorf("count eligible voters: %w", err)
	}

	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}
	electionType := input.ElectionType
	if electionType == "" {
		electionType = "general"
	}

	election := &domain.Election{
		Title:          input.Title,
		Description:    input.Description,
		StartDate:      input.StartDate.UTC(),
		EndDate:        input.EndDate.UTC(),
		Status:         domain.ElectionUpcoming,
		Candidates:     buildCandidates(input.Candidates),
		EligibleVoters: int(eligible),
		Eligibility:    input.Eligibility,
		ElectionType:   electionType,
		IsPublic:       isPublic,
		CreatedBy:      input.CreatedBy.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.elections.Create(ctx, election)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("election_id", created.ID).
		Time("start", created.StartDate).
		Time("end", created.EndDate).
		Msg("election created")
	return created, nil
}

// Get reads one election through the status derivation, persisting the
// derived status opportunistically when it differs from the stored one.
func (s *ElectionService) Get(ctx context.Context, id string, includePrivate bool) (*ports.ElectionView, error) {
	election, err := s.elections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !election.IsPublic && !includePrivate {
		return nil, domain.ErrElectionNotFound
	}
	return s.view(ctx, election), nil
}

// List reads a page of elections, each with derived status and timer.
func (s *ElectionService) List(ctx context.Context, filter ports.ElectionFilter) ([]*ports.ElectionView, int64, error) {
	elections, total, err := s.elections.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	views := make([]*ports.ElectionView, 0, len(elections))
	for _, e := range elections {
		views = append(views, s.view(ctx, e))
	}
	return views, total, nil
}

// view derives status and timer for one election. The persisted update is an
// optimisation: a race simply rewrites the same derived value.
func (s *ElectionService) view(ctx context.Context, e *domain.Election) *ports.ElectionView {
	now := s.now()
	derived := e.CurrentStatus(now)
	if derived != e.Status {
		if err := s.elections.UpdateStatus(ctx, e.ID, derived); err != nil {
			s.logger.Warn().Err(err).Str("election_id", e.ID).Msg("failed to persist derived status")
		}
		e.Status = derived
	}
	return &ports.ElectionView{
		Election: e,
		Status:   derived,
		Timer:    domain.ComputeTimer(now, derived, e.StartDate, e.EndDate),
		CanVote:  derived == domain.ElectionActive,
		Turnout:  e.TurnoutPercent(),
	}
}

// Update modifies an election while it is still upcoming. Date changes are
// re-validated as a pair.
func (s *ElectionService) Update(ctx context.Context, id string, input ports.UpdateElectionInput) (*domain.Election, error) {
	election, err := s.elections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if election.CurrentStatus(now) != domain.ElectionUpcoming {
		return nil, domain.ErrElectionNotEditable
	}

	if !input.StartDate.IsZero() || !input.EndDate.IsZero() {
		start, end := election.StartDate, election.EndDate
		if !input.StartDate.IsZero() {
			start = input.StartDate.UTC()
		}
		if !input.EndDate.IsZero() {
			end = input.EndDate.UTC()
		}
		if err := domain.ValidateSchedule(start, end, now); err != nil {
			return nil, err
		}
		election.StartDate, election.EndDate = start, end
	}
	if input.Title != "" {
		election.Title = input.Title
	}
	if input.Description != "" {
		election.Description = input.Description
	}
	if input.Candidates != nil {
		election.Candidates = buildCandidates(input.Candidates)
	}
	if input.IsPublic != nil {
		election.IsPublic = *input.IsPublic
	}
	election.UpdatedAt = now

	if err := s.elections.Update(ctx, election); err != nil {
		return nil, err
	}
	return election, nil
}

// Delete removes an election unless it is currently active.
func (s *ElectionService) Delete(ctx context.Context, id string) error {
	election, err := s.elections.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if election.CurrentStatus(s.now()) == domain.ElectionActive {
		return domain.ErrElectionActive
	}
	return s.elections.Delete(ctx, id)
}

// CastVote re-checks eligibility at call time and delegates the mutation to
// the repository's single conditional update, so the eligibility condition and
// the ledger/counter writes are one atomic unit. Never read-then-write.
func (s *ElectionService) CastVote(ctx context.Context, input ports.CastVoteInput) (*ports.VoteResult, error) {
	election, err := s.elections.FindByID(ctx, input.ElectionID)
	if err != nil {
		return nil, err
	}

	// Admin-tier and president roles carry canVoteElections=false, so an open
	// eligibility list alone never admits them.
	if d := authz.HasCapability(input.Voter, authz.CapVoteElections); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
	}

	now := s.now()

	// Pre-flight checks produce precise rejections; the repository update
	// re-enforces the already-voted and voting-window conditions atomically.
	if election.Candidate(input.CandidateID) == nil {
		return nil, domain.ErrCandidateNotFound
	}
	if result := election.CheckEligibility(input.Voter, now); !result.Eligible {
		switch result.Reason {
		case "already voted":
			return nil, domain.ErrAlreadyVoted
		case "election not active":
			return nil, domain.ErrElectionNotActive
		default:
			return nil, domain.ErrNotEligible
		}
	}

	record := domain.VoteRecord{
		Account:     input.Voter.ID,
		CandidateID: input.CandidateID,
		VotedAt:     now,
		IPAddress:   input.IPAddress,
	}

	updated, err := s.elections.CastVote(ctx, input.ElectionID, record, now)
	if err != nil {
		return nil, err
	}

	// The vote-history append is set-semantics and idempotent; failing it does
	// not undo an accepted vote, it is repaired on the next cast attempt.
	if err := s.accounts.AddVotedElection(ctx, input.Voter.ID, input.ElectionID); err != nil {
		s.logger.Warn().Err(err).Str("account", input.Voter.ID).Msg("failed to append vote history")
	}

	s.logger.Info().
		Str("election_id", input.ElectionID).
		Str("candidate_id", input.CandidateID).
		Int("total_votes", updated.TotalVotes).
		Msg("vote cast")

	return &ports.VoteResult{ElectionID: updated.ID, TotalVotes: updated.TotalVotes}, nil
}

// Announce publishes the results of a completed election and reports the
// winner. resultsPublished is one-way.
func (s *ElectionService) Announce(ctx context.Context, id string) (*ports.AnnounceResult, error) {
	election, err := s.elections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if election.CurrentStatus(s.now()) != domain.ElectionCompleted {
		return nil, domain.ErrElectionNotCompleted
	}

	if err := s.elections.PublishResults(ctx, id, s.now()); err != nil {
		return nil, err
	}

	s.logger.Info().Str("election_id", id).Msg("results announced")
	return &ports.AnnounceResult{
		Winner:  election.Winner(),
		Turnout: election.TurnoutPercent(),
	}, nil
}

// RefreshStatuses bulk-promotes stale stored statuses; the sweep loop and the
// administrative route both call this.
func (s *ElectionService) RefreshStatuses(ctx context.Context) (int64, error) {
	n, err := s.elections.RefreshStatuses(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info().Int64("updated", n).Msg("election statuses refreshed")
	}
	return n, nil
}

// Stats returns the administrator overview.
func (s *ElectionService) Stats(ctx context.Context) (*ports.ElectionStats, error) {
	return s.elections.Stats(ctx)
}

func buildCandidates(inputs []ports.CandidateInput) []domain.Candidate {
	candidates := make([]domain.Candidate, 0, len(inputs))
	for _, c := range inputs {
		candidates = append(candidates, domain.Candidate{
			ID:         uuid.NewString(),
			Name:       c.Name,
			Username:   c.Username,
			Department: c.Department,
			Year:       c.Year,
			Position:   c.Position,
			Platform:   c.Platform,
			Biography:  c.Biography,
		})
	}
	return candidates
}
