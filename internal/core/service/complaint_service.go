package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/dbu-council/council-system/internal/core/authz"
	"github.com/dbu-council/council-system/internal/core/domain"
	"github.com/dbu-council/council-system/internal/core/ports"
)

// ComplaintService implements complaint submission, routing, and resolution.
type ComplaintService struct {
	complaints ports.ComplaintRepository
	logger     zerolog.Logger
	now        func() time.Time
}

func NewComplaintService(complaints ports.ComplaintRepository, logger zerolog.Logger) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Submit files a new complaint. The resolver set is derived from the type at
// creation, never taken from the client.
func (s *ComplaintService) Submit(ctx context.Context, input ports.SubmitComplaintInput) (*domain.Complaint, error) {
	if d := authz.HasCapability(input.Submitter, authz.CapWriteComplaints); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
	}

	var violations []string
	if input.Title == "" {
		violations = append(violations, "title is required")
	}
	if input.Description == "" {
		violations = append(violations, "description is required")
	}
	complaintType := input.ComplaintType
	if complaintType == "" {
		complaintType = domain.ComplaintGeneral
	}
	if !complaintType.Valid() {
		violations = append(violations, "complaint type must be general or academic")
	}
	if len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}

	priority := input.Priority
	if priority == "" {
		priority = "medium"
	}

	now := s.now()
	complaint := &domain.Complaint{
		CaseID:          generateCaseID(now),
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		ComplaintType:   complaintType,
		Priority:        priority,
		Status:          domain.ComplaintSubmitted,
		SubmittedBy:     input.Submitter.ID,
		CanBeResolvedBy: domain.ResolverSet(complaintType),
		Responses:       []domain.ComplaintResponse{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.complaints.Create(ctx, complaint)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("case_id", created.CaseID).
		Str("type", string(created.ComplaintType)).
		Msg("complaint submitted")
	return created, nil
}

// Get returns a complaint the viewer is allowed to see: the author, a member
// of the resolver partition, or the admin tier.
func (s *ComplaintService) Get(ctx context.Context, id string, viewer *domain.Account) (*domain.Complaint, error) {
	complaint, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if complaint.SubmittedBy == viewer.ID || viewer.Role.IsAdminTier() {
		return complaint, nil
	}
	if d := authz.AccessPartition(viewer, partitionOf(complaint.ComplaintType)); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
	}
	return complaint, nil
}

// List scopes results to the viewer: resolver roles get their partition,
// admin tier gets everything, everyone else gets their own complaints.
func (s *ComplaintService) List(ctx context.Context, viewer *domain.Account, filter ports.ComplaintFilter) ([]*domain.Complaint, int64, error) {
	switch {
	case viewer.Role.IsAdminTier():
		// unrestricted
	case viewer.Role == domain.RoleAcademicAffairs:
		filter.Types = []domain.ComplaintType{domain.ComplaintAcademic}
	case viewer.Role == domain.RolePresidentAdmin:
		filter.Types = []domain.ComplaintType{domain.ComplaintGeneral}
	default:
		filter.SubmittedBy = viewer.ID
	}
	return s.complaints.List(ctx, filter)
}

// Inbox lists open complaints the viewer's role may resolve.
func (s *ComplaintService) Inbox(ctx context.Context, viewer *domain.Account, page, limit int) ([]*domain.Complaint, int64, error) {
	if len(authz.PartitionFor(viewer.Role)) == 0 {
		return nil, 0, fmt.Errorf("%w: your role has no complaint inbox", domain.ErrPolicyDenied)
	}
	return s.complaints.List(ctx, ports.ComplaintFilter{
		Resolvable: viewer.Role,
		OpenOnly:   true,
		Page:       page,
		Limit:      limit,
	})
}

// Respond appends to the response thread. The first official response from a
// role in the resolver set assigns the complaint and moves it under review as
// a side effect; there is no separate transition call.
func (s *ComplaintService) Respond(ctx context.Context, input ports.RespondInput) (*domain.Complaint, error) {
	complaint, err := s.complaints.FindByID(ctx, input.ComplaintID)
	if err != nil {
		return nil, err
	}
	if complaint.Status == domain.ComplaintClosed {
		return nil, domain.ErrComplaintClosed
	}

	official := complaint.CanResolve(input.Responder.Role)
	if !official && complaint.SubmittedBy != input.Responder.ID {
		return nil, fmt.Errorf("%w: only the author or a resolver may respond", domain.ErrPolicyDenied)
	}

	response := domain.ComplaintResponse{
		Author:     input.Responder.Name,
		AuthorID:   input.Responder.ID,
		Message:    input.Message,
		Timestamp:  s.now(),
		IsOfficial: official,
	}

	assignTo := ""
	if official && complaint.Status == domain.ComplaintSubmitted && complaint.AssignedTo == "" {
		assignTo = input.Responder.ID
	}

	if err := s.complaints.AddResponse(ctx, input.ComplaintID, response, assignTo); err != nil {
		return nil, err
	}
	return s.complaints.FindByID(ctx, input.ComplaintID)
}

// Assign routes a complaint to a specific resolver, moving it under review if
// still submitted.
func (s *ComplaintService) Assign(ctx context.Context, complaintID, assigneeID string, actor *domain.Account) error {
	complaint, err := s.complaints.FindByID(ctx, complaintID)
	if err != nil {
		return err
	}
	if d := authz.ResolveComplaint(actor, complaint); !d.Allowed {
		return fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
	}
	if complaint.Status == domain.ComplaintResolved || complaint.Status == domain.ComplaintClosed {
		return domain.ErrComplaintAlreadyResolved
	}
	return s.complaints.Assign(ctx, complaintID, assigneeID)
}

// ChangeType re-partitions a complaint, recomputing the resolver set from the
// new type.
func (s *ComplaintService) ChangeType(ctx context.Context, complaintID string, t domain.ComplaintType, actor *domain.Account) error {
	if !t.Valid() {
		return domain.NewValidationError("complaint type must be general or academic")
	}
	if d := authz.AdminTier(actor); !d.Allowed {
		return fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
	}
	if _, err := s.complaints.FindByID(ctx, complaintID); err != nil {
		return err
	}
	return s.complaints.SetType(ctx, complaintID, t, domain.ResolverSet(t))
}

// Resolve moves a complaint to resolved with provenance, exactly once.
// Resolving an already-resolved complaint is a state conflict, not a repeat.
func (s *ComplaintService) Resolve(ctx context.Context, input ports.ResolveInput) (*domain.Complaint, error) {
	complaint, err := s.complaints.FindByID(ctx, input.ComplaintID)
	if err != nil {
		return nil, err
	}

	if d := authz.ResolveComplaint(input.Resolver, complaint); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
	}
	if !complaint.Status.CanTransitionTo(domain.ComplaintResolved) {
		return nil, domain.ErrComplaintAlreadyResolved
	}

	rt := domain.DeriveResolutionType(input.Resolver.Role)
	if err := s.complaints.Resolve(ctx, input.ComplaintID, input.Resolver.ID, rt, input.Notes, s.now()); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("case_id", complaint.CaseID).
		Str("resolution_type", string(rt)).
		Msg("complaint resolved")
	return s.complaints.FindByID(ctx, input.ComplaintID)
}

// Close finishes a complaint's lifecycle; one-directional like every other
// transition.
func (s *ComplaintService) Close(ctx context.Context, complaintID string, actor *domain.Account) error {
	complaint, err := s.complaints.FindByID(ctx, complaintID)
	if err != nil {
		return err
	}
	if !complaint.Status.CanTransitionTo(domain.ComplaintClosed) {
		return domain.ErrComplaintClosed
	}
	if complaint.SubmittedBy != actor.ID {
		if d := authz.ResolveComplaint(actor, complaint); !d.Allowed {
			return fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
		}
	}
	return s.complaints.Close(ctx, complaintID, s.now())
}

// AttachDocument records a reference to an externally stored file.
func (s *ComplaintService) AttachDocument(ctx context.Context, complaintID string, doc domain.ComplaintDocument, actor *domain.Account) error {
	if d := authz.HasCapability(actor, authz.CapUploadDocuments); !d.Allowed {
		return fmt.Errorf("%w: %s", domain.ErrPolicyDenied, d.Reason)
	}
	complaint, err := s.complaints.FindByID(ctx, complaintID)
	if err != nil {
		return err
	}
	if complaint.Status == domain.ComplaintClosed {
		return domain.ErrComplaintClosed
	}
	doc.UploadedBy = actor.ID
	doc.UploadedAt = s.now()
	return s.complaints.AddDocument(ctx, complaintID, doc)
}

// Stats summarises complaint volume scoped to the viewer's partition.
func (s *ComplaintService) Stats(ctx context.Context, viewer *domain.Account) (*ports.ComplaintStats, error) {
	partitions := authz.PartitionFor(viewer.Role)
	if len(partitions) == 0 {
		return nil, fmt.Errorf("%w: your role has no complaint dashboard", domain.ErrPolicyDenied)
	}
	var types []domain.ComplaintType
	if len(partitions) == 1 {
		types = []domain.ComplaintType{complaintTypeOf(partitions[0])}
	}
	return s.complaints.Stats(ctx, types)
}

func partitionOf(t domain.ComplaintType) authz.Partition {
	if t == domain.ComplaintAcademic {
		return authz.PartitionAcademic
	}
	return authz.PartitionGeneral
}

func complaintTypeOf(p authz.Partition) domain.ComplaintType {
	if p == authz.PartitionAcademic {
		return domain.ComplaintAcademic
	}
	return domain.ComplaintGeneral
}

// generateCaseID produces ids like CASE-20260831-4821.
func generateCaseID(now time.Time) string {
	return fmt.Sprintf("CASE-%s-%04d", now.Format("20060102"), rand.Intn(10000))
}
