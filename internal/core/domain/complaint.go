package domain

import "time"

// ComplaintType partitions complaints between resolver pools.
type ComplaintType string

const (
	ComplaintGeneral  ComplaintType = "general"
	ComplaintAcademic ComplaintType = "academic"
)

// Valid reports whether t is a recognised complaint type.
func (t ComplaintType) Valid() bool {
	return t == ComplaintGeneral || t == ComplaintAcademic
}

// ComplaintStatus is the one-directional complaint lifecycle.
type ComplaintStatus string

const (
	ComplaintSubmitted   ComplaintStatus = "submitted"
	ComplaintUnderReview ComplaintStatus = "under_review"
	ComplaintResolved    ComplaintStatus = "resolved"
	ComplaintClosed      ComplaintStatus = "closed"
)

// complaintTransitions defines the allowed status moves. There is no path
// backwards: a resolved complaint cannot be un-resolved.
var complaintTransitions = map[ComplaintStatus][]ComplaintStatus{
	ComplaintSubmitted:   {ComplaintUnderReview, ComplaintResolved, ComplaintClosed},
	ComplaintUnderReview: {ComplaintResolved, ComplaintClosed},
	ComplaintResolved:    {ComplaintClosed},
}

// CanTransitionTo reports whether a move from s to next is allowed.
func (s ComplaintStatus) CanTransitionTo(next ComplaintStatus) bool {
	for _, allowed := range complaintTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ResolutionType records which pool resolved a complaint.
type ResolutionType string

const (
	ResolvedByPresidentAdmin  ResolutionType = "president_admin_resolved"
	ResolvedByAcademicAffairs ResolutionType = "academic_affairs_resolved"
	ResolvedByAdmin           ResolutionType = "admin_resolved"
)

// ResolverSet maps a complaint type to the roles allowed to resolve it.
// Recomputed whenever the type is set or changed; a stored set is never
// trusted across a type change.
func ResolverSet(t ComplaintType) []Role {
	if t == ComplaintAcademic {
		return []Role{RoleAcademicAffairs, RoleAdmin, RoleSuperAdmin}
	}
	return []Role{RolePresidentAdmin, RoleAdmin, RoleSuperAdmin}
}

// DeriveResolutionType maps the resolver's role to the recorded provenance.
func DeriveResolutionType(role Role) ResolutionType {
	switch role {
	case RoleAcademicAffairs:
		return ResolvedByAcademicAffairs
	case RolePresidentAdmin:
		return ResolvedByPresidentAdmin
	default:
		return ResolvedByAdmin
	}
}

// ComplaintResponse is one entry in a complaint's response thread.
type ComplaintResponse struct {
	Author     string    `json:"author" bson:"author"`
	AuthorID   string    `json:"authorId" bson:"author_id"`
	Message    string    `json:"message" bson:"message"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
	IsOfficial bool      `json:"isOfficial" bson:"is_official"`
}

// ComplaintDocument references an attachment held by the external file store.
type ComplaintDocument struct {
	Filename     string    `json:"filename" bson:"filename"`
	OriginalName string    `json:"originalName" bson:"original_name"`
	MimeType     string    `json:"mimetype" bson:"mimetype"`
	Size         int64     `json:"size" bson:"size"`
	UploadedBy   string    `json:"uploadedBy" bson:"uploaded_by"`
	UploadedAt   time.Time `json:"uploadedAt" bson:"uploaded_at"`
}

// Complaint is the grievance aggregate root.
type Complaint struct {
	ID              string              `json:"id" bson:"_id,omitempty"`
	CaseID          string              `json:"caseId" bson:"case_id"`
	Title           string              `json:"title" bson:"title"`
	Description     string              `json:"description" bson:"description"`
	Category        string              `json:"category" bson:"category"`
	ComplaintType   ComplaintType       `json:"complaintType" bson:"complaint_type"`
	Priority        string              `json:"priority" bson:"priority"`
	Status          ComplaintStatus     `json:"status" bson:"status"`
	SubmittedBy     string              `json:"submittedBy" bson:"submitted_by"`
	AssignedTo      string              `json:"assignedTo,omitempty" bson:"assigned_to,omitempty"`
	ResolvedBy      string              `json:"resolvedBy,omitempty" bson:"resolved_by,omitempty"`
	ResolutionType  ResolutionType      `json:"resolutionType,omitempty" bson:"resolution_type,omitempty"`
	ResolutionNotes string              `json:"resolutionNotes,omitempty" bson:"resolution_notes,omitempty"`
	CanBeResolvedBy []Role              `json:"canBeResolvedBy" bson:"can_be_resolved_by"`
	Responses       []ComplaintResponse `json:"responses" bson:"responses"`
	Documents       []ComplaintDocument `json:"documents,omitempty" bson:"documents,omitempty"`
	ResolvedAt      time.Time           `json:"resolvedAt,omitempty" bson:"resolved_at,omitempty"`
	ClosedAt        time.Time           `json:"closedAt,omitempty" bson:"closed_at,omitempty"`
	CreatedAt       time.Time           `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updated_at"`
}

// CanResolve reports whether role belongs to this complaint's resolver set.
// The set already includes admin and super_admin for every type.
func (c *Complaint) CanResolve(role Role) bool {
	return containsRole(c.CanBeResolvedBy, role)
}
