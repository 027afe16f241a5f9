package domain

import "time"

// Role identifies the administrative tier of an account.
type Role string

const (
	RoleStudent         Role = "student"
	RoleClubAdmin       Role = "club_admin"
	RoleAcademicAffairs Role = "academic_affairs"
	RolePresidentAdmin  Role = "president_admin"
	RoleAdmin           Role = "admin"
	RoleSuperAdmin      Role = "super_admin"
)

// Roles lists every recognised role.
var Roles = []Role{
	RoleStudent,
	RoleClubAdmin,
	RoleAcademicAffairs,
	RolePresidentAdmin,
	RoleAdmin,
	RoleSuperAdmin,
}

// Valid reports whether r is one of the recognised roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// IsAdminTier reports whether r is admin or super_admin.
func (r Role) IsAdminTier() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Permissions is the capability vector attached to every account. It is a
// cache: the authoritative value is always DerivePermissions(role), and it is
// rewritten on every role change. Client-supplied vectors are never trusted.
type Permissions struct {
	CanCreateClubs               bool `json:"canCreateClubs" bson:"can_create_clubs"`
	CanManageClubs               bool `json:"canManageClubs" bson:"can_manage_clubs"`
	CanCreateElections           bool `json:"canCreateElections" bson:"can_create_elections"`
	CanVoteElections             bool `json:"canVoteElections" bson:"can_vote_elections"`
	CanPostNews                  bool `json:"canPostNews" bson:"can_post_news"`
	CanViewNews                  bool `json:"canViewNews" bson:"can_view_news"`
	CanWriteComplaints           bool `json:"canWriteComplaints" bson:"can_write_complaints"`
	CanResolveComplaints         bool `json:"canResolveComplaints" bson:"can_resolve_complaints"`
	CanResolveAcademicComplaints bool `json:"canResolveAcademicComplaints" bson:"can_resolve_academic_complaints"`
	CanUploadDocuments           bool `json:"canUploadDocuments" bson:"can_upload_documents"`
	CanJoinClubs                 bool `json:"canJoinClubs" bson:"can_join_clubs"`
}

// DerivePermissions maps a role to its fixed capability set. Total: an
// unrecognised role falls back to the student row.
func DerivePermissions(role Role) Permissions {
	switch role {
	case RolePresidentAdmin:
		return Permissions{
			CanCreateClubs:       true,
			CanCreateElections:   true,
			CanPostNews:          true,
			CanViewNews:          true,
			CanResolveComplaints: true,
			CanUploadDocuments:   true,
		}
	case RoleClubAdmin:
		return Permissions{
			CanManageClubs:     true,
			CanVoteElections:   true,
			CanViewNews:        true,
			CanWriteComplaints: true,
		}
	case RoleAcademicAffairs:
		return Permissions{
			CanVoteElections:             true,
			CanViewNews:                  true,
			CanWriteComplaints:           true,
			CanResolveAcademicComplaints: true,
			CanUploadDocuments:           true,
			CanJoinClubs:                 true,
		}
	case RoleAdmin, RoleSuperAdmin:
		return Permissions{
			CanCreateClubs:               true,
			CanManageClubs:               true,
			CanCreateElections:           true,
			CanPostNews:                  true,
			CanViewNews:                  true,
			CanResolveComplaints:         true,
			CanResolveAcademicComplaints: true,
			CanUploadDocuments:           true,
			CanJoinClubs:                 false,
		}
	default: // student and anything unrecognised
		return Permissions{
			CanVoteElections:   true,
			CanViewNews:        true,
			CanWriteComplaints: true,
			CanJoinClubs:       true,
		}
	}
}

// Account is an identity in the system.
type Account struct {
	ID             string      `json:"id" bson:"_id,omitempty"`
	Name           string      `json:"name" bson:"name"`
	Username       string      `json:"username" bson:"username"`
	Email          string      `json:"email,omitempty" bson:"email,omitempty"`
	PasswordHash   string      `json:"-" bson:"password_hash"`
	Role           Role        `json:"role" bson:"role"`
	Permissions    Permissions `json:"permissions" bson:"permissions"`
	Department     string      `json:"department" bson:"department"`
	Year           string      `json:"year" bson:"year"`
	IsActive       bool        `json:"isActive" bson:"is_active"`
	IsLocked       bool        `json:"isLocked" bson:"is_locked"`
	LoginAttempts  int         `json:"-" bson:"login_attempts"`
	LockUntil      time.Time   `json:"-" bson:"lock_until,omitempty"`
	LastLogin      time.Time   `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
	AssignedClub   string      `json:"assignedClub,omitempty" bson:"assigned_club,omitempty"`
	JoinedClubs    []string    `json:"joinedClubs,omitempty" bson:"joined_clubs,omitempty"`
	VotedElections []string    `json:"votedElections,omitempty" bson:"voted_elections,omitempty"`
	CreatedAt      time.Time   `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time   `json:"updatedAt" bson:"updated_at"`
}

// LockedNow reports whether the account lock is still in force at now.
// A lock whose lockUntil has elapsed is treated as expired; callers clear it
// on the next successful check.
func (a *Account) LockedNow(now time.Time) bool {
	return a.IsLocked && a.LockUntil.After(now)
}
