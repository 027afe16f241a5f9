package ports

import (
	"context"

	"github.com/dbu-council/council-system/internal/core/domain"
)

// SubmitComplaintInput carries a new complaint.
type SubmitComplaintInput struct {
	Title         string
	Description   string
	Category      string
	ComplaintType domain.ComplaintType
	Priority      string
	Submitter     *domain.Account
}

// RespondInput appends to a complaint's response thread. Official responses
// from resolver roles auto-assign the complaint and move it under review.
type RespondInput struct {
	ComplaintID string
	Message     string
	Responder   *domain.Account
}

// ResolveInput resolves a complaint with provenance.
type ResolveInput struct {
	ComplaintID string
	Notes       string
	Resolver    *domain.Account
}

// ComplaintService defines use-case operations for complaints.
type ComplaintService interface {
	Submit(ctx context.Context, input SubmitComplaintInput) (*domain.Complaint, error)
	Get(ctx context.Context, id string, viewer *domain.Account) (*domain.Complaint, error)
	// List scopes results to the viewer: writers see their own complaints,
	// resolver roles see their partition, admin tier sees everything.
	List(ctx context.Context, viewer *domain.Account, filter ComplaintFilter) ([]*domain.Complaint, int64, error)
	// Inbox lists open complaints the viewer's role may resolve.
	Inbox(ctx context.Context, viewer *domain.Account, page, limit int) ([]*domain.Complaint, int64, error)
	Respond(ctx context.Context, input RespondInput) (*domain.Complaint, error)
	Assign(ctx context.Context, complaintID, assigneeID string, actor *domain.Account) error
	ChangeType(ctx context.Context, complaintID string, t domain.ComplaintType, actor *domain.Account) error
	Resolve(ctx context.Context, input ResolveInput) (*domain.Complaint, error)
	Close(ctx context.Context, complaintID string, actor *domain.Account) error
	AttachDocument(ctx context.Context, complaintID string, doc domain.ComplaintDocument, actor *domain.Account) error
	Stats(ctx context.Context, viewer *domain.Account) (*ComplaintStats, error)
}
