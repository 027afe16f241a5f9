// Package authz is the single policy-evaluation point for the API. Every gate
// is a pure function from (subject, action, resource) to a Decision; acting on
// the decision is the caller's job. A Deny is an ordinary outcome, not an
// error.
package authz

import (
	"fmt"

	"github.com/dbu-council/council-system/internal/core/domain"
)

// Decision is the outcome of a policy evaluation. Reason is set only on deny
// and is safe to show to the caller verbatim.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow is the positive decision.
var Allow = Decision{Allowed: true}

// Deny builds a negative decision with a fixed human-readable reason.
func Deny(reason string) Decision {
	return Decision{Reason: reason}
}

// ─── Coarse role gates ───────────────────────────────────────────────────────

// AdminTier permits admin and super_admin.
func AdminTier(subject *domain.Account) Decision {
	if subject != nil && subject.Role.IsAdminTier() {
		return Allow
	}
	return Deny("Access denied. Admin privileges required.")
}

// SuperAdminOnly permits only super_admin.
func SuperAdminOnly(subject *domain.Account) Decision {
	if subject != nil && subject.Role == domain.RoleSuperAdmin {
		return Allow
	}
	return Deny("Access denied. Super Admin privileges required.")
}

// PresidentOrSuperAdmin permits president_admin and super_admin.
func PresidentOrSuperAdmin(subject *domain.Account) Decision {
	if subject != nil && (subject.Role == domain.RolePresidentAdmin || subject.Role == domain.RoleSuperAdmin) {
		return Allow
	}
	return Deny("Access denied. President Admin or Super Admin privileges required.")
}

// RequireRole permits subjects whose role is in the given set.
func RequireRole(subject *domain.Account, roles ...domain.Role) Decision {
	if subject == nil {
		return Deny("Not authorized")
	}
	for _, r := range roles {
		if subject.Role == r {
			return Allow
		}
	}
	return Deny(fmt.Sprintf("User role %s is not authorized to access this route", subject.Role))
}

// ─── Capability gates ────────────────────────────────────────────────────────

// Capability names one flag in the permission vector.
type Capability string

const (
	CapCreateClubs               Capability = "canCreateClubs"
	CapManageClubs               Capability = "canManageClubs"
	CapCreateElections           Capability = "canCreateElections"
	CapVoteElections             Capability = "canVoteElections"
	CapPostNews                  Capability = "canPostNews"
	CapViewNews                  Capability = "canViewNews"
	CapWriteComplaints           Capability = "canWriteComplaints"
	CapResolveComplaints         Capability = "canResolveComplaints"
	CapResolveAcademicComplaints Capability = "canResolveAcademicComplaints"
	CapUploadDocuments           Capability = "canUploadDocuments"
	CapJoinClubs                 Capability = "canJoinClubs"
)

// HasCapability evaluates a capability against the vector re-derived from the
// subject's role, never against a stored or client-supplied vector. It is
// therefore really "is this role allowed to do X".
func HasCapability(subject *domain.Account, capability Capability) Decision {
	if subject == nil {
		return Deny("Not authorized")
	}
	perms := domain.DerivePermissions(subject.Role)
	allowed := false
	switch capability {
	case CapCreateClubs:
		allowed = perms.CanCreateClubs
	case CapManageClubs:
		allowed = perms.CanManageClubs
	case CapCreateElections:
		allowed = perms.CanCreateElections
	case CapVoteElections:
		allowed = perms.CanVoteElections
	case CapPostNews:
		allowed = perms.CanPostNews
	case CapViewNews:
		allowed = perms.CanViewNews
	case CapWriteComplaints:
		allowed = perms.CanWriteComplaints
	case CapResolveComplaints:
		allowed = perms.CanResolveComplaints
	case CapResolveAcademicComplaints:
		allowed = perms.CanResolveAcademicComplaints
	case CapUploadDocuments:
		allowed = perms.CanUploadDocuments
	case CapJoinClubs:
		allowed = perms.CanJoinClubs
	}
	if allowed {
		return Allow
	}
	return Deny(fmt.Sprintf("You do not have the %s permission", capability))
}

// ─── Ownership gates ─────────────────────────────────────────────────────────

// ManageClub decides whether subject may perform day-to-day management of the
// club with the given id. Super admins bypass ownership; president_admin does
// not (it creates clubs but never manages membership); a club_admin must be
// assigned to exactly this club.
func ManageClub(subject *domain.Account, clubID string) Decision {
	if subject == nil {
		return Deny("Not authorized")
	}
	if subject.Role == domain.RoleSuperAdmin {
		return Allow
	}
	if subject.Role != domain.RoleClubAdmin {
		return Deny("Access denied. Only assigned club admin can manage this club.")
	}
	if subject.AssignedClub == "" || subject.AssignedClub != clubID {
		return Deny("Access denied. You can only manage your assigned club.")
	}
	return Allow
}

// ─── Partitioned-domain gates ────────────────────────────────────────────────

// Partition is one half of the complaint/dashboard domain split.
type Partition string

const (
	PartitionAcademic Partition = "academic"
	PartitionGeneral  Partition = "general"
)

// PartitionFor maps a resolver role to the partitions it may see. Admin-tier
// roles see both; other roles see at most one.
func PartitionFor(role domain.Role) []Partition {
	switch role {
	case domain.RoleAcademicAffairs:
		return []Partition{PartitionAcademic}
	case domain.RolePresidentAdmin:
		return []Partition{PartitionGeneral}
	case domain.RoleAdmin, domain.RoleSuperAdmin:
		return []Partition{PartitionAcademic, PartitionGeneral}
	default:
		return nil
	}
}

// AccessPartition denies cross-partition access even when a coarse role gate
// would otherwise pass.
func AccessPartition(subject *domain.Account, p Partition) Decision {
	if subject == nil {
		return Deny("Not authorized")
	}
	for _, allowed := range PartitionFor(subject.Role) {
		if allowed == p {
			return Allow
		}
	}
	return Deny(fmt.Sprintf("Access denied. Your role cannot access %s complaints.", p))
}

// ResolveComplaint decides whether subject may resolve the given complaint:
// membership in the complaint's resolver set, which already carries the
// admin-tier bypass for both types.
func ResolveComplaint(subject *domain.Account, complaint *domain.Complaint) Decision {
	if subject == nil {
		return Deny("Not authorized")
	}
	if complaint.CanResolve(subject.Role) {
		return Allow
	}
	return Deny(fmt.Sprintf("Access denied. %s complaints cannot be resolved by your role.", complaint.ComplaintType))
}
