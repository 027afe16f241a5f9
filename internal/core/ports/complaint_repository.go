package ports

import (
	"context"
	"time"

	"github.com/dbu-council/council-system/internal/core/domain"
)

// ComplaintFilter carries query parameters for listing complaints.
type ComplaintFilter struct {
	Types       []domain.ComplaintType   // optional: restrict to the caller's partition
	Statuses    []domain.ComplaintStatus // optional: filter by status set
	SubmittedBy string                   // optional: scope to the author (students see their own)
	Resolvable  domain.Role              // optional: complaints whose resolver set contains this role
	OpenOnly    bool                     // exclude resolved and closed
	Search      string                   // optional: partial match on title or case id
	Page        int
	Limit       int
}

// ComplaintStats summarises complaint volume for dashboards.
type ComplaintStats struct {
	Total       int64
	Submitted   int64
	UnderReview int64
	Resolved    int64
	Closed      int64
}

// ComplaintRepository defines persistence operations for complaints.
type ComplaintRepository interface {
	Create(ctx context.Context, c *domain.Complaint) (*domain.Complaint, error)
	FindByID(ctx context.Context, id string) (*domain.Complaint, error)
	List(ctx context.Context, filter ComplaintFilter) ([]*domain.Complaint, int64, error)

	// AddResponse appends to the response thread. When assignTo is non-empty
	// the same update assigns the complaint and moves submitted→under_review,
	// so the first official response transitions state as a side effect.
	AddResponse(ctx context.Context, id string, response domain.ComplaintResponse, assignTo string) error

	// Assign sets assignedTo and moves submitted→under_review in one update.
	Assign(ctx context.Context, id string, assignTo string) error

	// SetType changes the complaint type together with the resolver set
	// recomputed from it.
	SetType(ctx context.Context, id string, t domain.ComplaintType, resolvers []domain.Role) error

	// Resolve conditionally moves an unresolved complaint to resolved,
	// recording provenance exactly once. Returns ErrComplaintAlreadyResolved
	// when the complaint is already resolved or closed.
	Resolve(ctx context.Context, id string, resolvedBy string, rt domain.ResolutionType, notes string, at time.Time) error

	// Close conditionally moves a complaint to closed.
	Close(ctx context.Context, id string, at time.Time) error

	AddDocument(ctx context.Context, id string, doc domain.ComplaintDocument) error

	Stats(ctx context.Context, types []domain.ComplaintType) (*ComplaintStats, error)
}
