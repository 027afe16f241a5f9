package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dbu-council/council-system/internal/core/authz"
	"github.com/dbu-council/council-system/internal/core/domain"
	"github.com/dbu-council/council-system/internal/core/ports"
)

// ClubService implements club administration and membership.
type ClubService struct {
	clubs    ports.ClubRepository
	accounts ports.AccountRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewClubService(clubs ports.ClubRepository, accounts ports.AccountRepository, logger zerolog.Logger) *ClubService {
	return &ClubService{
		clubs:    clubs,
		accounts: accounts,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create registers a new club.
func (s *ClubService) Create(ctx context.Context, input ports.CreateClubInput) (*domain.Club, error) {
	if d := authz.HasCapability(input.Creator, authz.CapCreateClubs); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
	}
	if input.Name == "" {
		return nil, domain.NewValidationError("club name is required")
	}

	now := s.now()
	club := &domain.Club{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Status:      domain.ClubActive,
		Members:     []domain.ClubMember{},
		CreatedBy:   input.Creator.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.clubs.Create(ctx, club)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("club_id", created.ID).Str("name", created.Name).Msg("club created")
	return created, nil
}

func (s *ClubService) Get(ctx context.Context, id string) (*domain.Club, error) {
	return s.clubs.FindByID(ctx, id)
}

func (s *ClubService) List(ctx context.Context, filter ports.ClubFilter) ([]*domain.Club, int64, error) {
	return s.clubs.List(ctx, filter)
}

// Update edits club metadata. President/super admin may edit any club; a club
// admin only its own (ownership gate).
func (s *ClubService) Update(ctx context.Context, id string, name, description, category string, status domain.ClubStatus, actor *domain.Account) (*domain.Club, error) {
	club, err := s.clubs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if d := authz.PresidentOrSuperAdmin(actor); !d.Allowed {
		if d := authz.ManageClub(actor, id); !d.Allowed {
			return nil, fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
		}
	}

	if name != "" {
		club.Name = name
	}
	if description != "" {
		club.Description = description
	}
	if category != "" {
		club.Category = category
	}
	if status != "" {
		club.Status = status
	}
	club.UpdatedAt = s.now()

	if err := s.clubs.Update(ctx, club); err != nil {
		return nil, err
	}
	return club, nil
}

// Delete removes a club and unpins its admin, keeping the bidirectional pair
// consistent.
func (s *ClubService) Delete(ctx context.Context, id string, actor *domain.Account) error {
	if d := authz.PresidentOrSuperAdmin(actor); !d.Allowed {
		return fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
	}
	club, err := s.clubs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if club.ClubAdmin != "" {
		if err := s.accounts.SetAssignedClub(ctx, club.ClubAdmin, ""); err != nil {
			return fmt.Errorf("clear admin assignment: %w", err)
		}
	}
	return s.clubs.Delete(ctx, id)
}

// AssignAdmin rewires the club/admin pair. Both stale sides (the club's
// previous admin and the new admin's previous club) are cleared before the
// new pair is written, so no account ever points at a club that does not
// point back.
func (s *ClubService) AssignAdmin(ctx context.Context, clubID, accountID string, actor *domain.Account) error {
	if d := authz.PresidentOrSuperAdmin(actor); !d.Allowed {
		return fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
	}

	club, err := s.clubs.FindByID(ctx, clubID)
	if err != nil {
		return err
	}
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.Role != domain.RoleClubAdmin {
		return domain.NewValidationError("account must have the club_admin role")
	}

	// Clear the stale sides first.
	if club.ClubAdmin != "" && club.ClubAdmin != accountID {
		if err := s.accounts.SetAssignedClub(ctx, club.ClubAdmin, ""); err != nil {
			return fmt.Errorf("clear previous admin: %w", err)
		}
	}
	if account.AssignedClub != "" && account.AssignedClub != clubID {
		if err := s.clubs.SetAdmin(ctx, account.AssignedClub, ""); err != nil {
			return fmt.Errorf("clear previous club: %w", err)
		}
	}

	if err := s.clubs.SetAdmin(ctx, clubID, accountID); err != nil {
		return err
	}
	if err := s.accounts.SetAssignedClub(ctx, accountID, clubID); err != nil {
		return err
	}

	s.logger.Info().Str("club_id", clubID).Str("account", accountID).Msg("club admin assigned")
	return nil
}

// Join files a pending membership request.
func (s *ClubService) Join(ctx context.Context, clubID string, member *domain.Account) error {
	if d := authz.HasCapability(member, authz.CapJoinClubs); !d.Allowed {
		return fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
	}
	if _, err := s.clubs.FindByID(ctx, clubID); err != nil {
		return err
	}

	err := s.clubs.AddMember(ctx, clubID, domain.ClubMember{
		AccountID: member.ID,
		Role:      "member",
		Status:    domain.MemberPending,
		JoinedAt:  s.now(),
	})
	if err != nil {
		return err
	}

	if err := s.accounts.AddJoinedClub(ctx, member.ID, clubID); err != nil {
		s.logger.Warn().Err(err).Str("account", member.ID).Msg("failed to append joined club")
	}
	return nil
}

// ReviewMember approves or rejects a pending request; ownership-gated to the
// club's assigned admin (super_admin bypasses).
func (s *ClubService) ReviewMember(ctx context.Context, clubID, accountID string, status domain.MemberStatus, actor *domain.Account) error {
	if status != domain.MemberApproved && status != domain.MemberRejected {
		return domain.NewValidationError("status must be approved or rejected")
	}
	if d := authz.ManageClub(actor, clubID); !d.Allowed {
		return fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
	}

	club, err := s.clubs.FindByID(ctx, clubID)
	if err != nil {
		return err
	}
	if club.Member(accountID) == nil {
		return domain.ErrAccountNotFound
	}
	return s.clubs.SetMemberStatus(ctx, clubID, accountID, status)
}

// Dashboard builds the management view for the actor's assigned club.
func (s *ClubService) Dashboard(ctx context.Context, actor *domain.Account) (*ports.ClubDashboard, error) {
	if actor.Role != domain.RoleClubAdmin {
		return nil, fmt.Errorf("%w: Access denied. Only assigned club admin can manage this club.", domain.ErrPolicyDenied)
	}
	if actor.AssignedClub == "" {
		return nil, domain.NewValidationError("no club assigned to this admin")
	}

	club, err := s.clubs.FindByID(ctx, actor.AssignedClub)
	if err != nil {
		return nil, err
	}

	pending := 0
	for _, m := range club.Members {
		if m.Status == domain.MemberPending {
			pending++
		}
	}

	return &ports.ClubDashboard{
		Club:            club,
		TotalMembers:    len(club.Members),
		ApprovedMembers: club.ApprovedMembers(),
		PendingMembers:  pending,
	}, nil
}
