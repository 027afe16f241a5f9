package domain

import "time"

// ClubStatus is the administrative state of a club.
type ClubStatus string

const (
	ClubActive   ClubStatus = "active"
	ClubInactive ClubStatus = "inactive"
	ClubPending  ClubStatus = "pending"
)

// MemberStatus is the approval state of a club membership request.
type MemberStatus string

const (
	MemberPending  MemberStatus = "pending"
	MemberApproved MemberStatus = "approved"
	MemberRejected MemberStatus = "rejected"
)

// ClubMember is one membership entry.
type ClubMember struct {
	AccountID string       `json:"accountId" bson:"account_id"`
	Role      string       `json:"role" bson:"role"`
	Status    MemberStatus `json:"status" bson:"status"`
	JoinedAt  time.Time    `json:"joinedAt" bson:"joined_at"`
}

// Club is a student organisation. A club has at most one assigned admin, and
// the club's ClubAdmin and that account's AssignedClub form a consistent
// bidirectional pair: reassignment must clear the stale side atomically.
type Club struct {
	ID          string       `json:"id" bson:"_id,omitempty"`
	Name        string       `json:"name" bson:"name"`
	Description string       `json:"description" bson:"description"`
	Category    string       `json:"category" bson:"category"`
	Status      ClubStatus   `json:"status" bson:"status"`
	ClubAdmin   string       `json:"clubAdmin,omitempty" bson:"club_admin,omitempty"`
	Members     []ClubMember `json:"members" bson:"members"`
	CreatedBy   string       `json:"createdBy" bson:"created_by"`
	CreatedAt   time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" bson:"updated_at"`
}

// Member returns the membership entry for accountID, or nil.
func (c *Club) Member(accountID string) *ClubMember {
	for i := range c.Members {
		if c.Members[i].AccountID == accountID {
			return &c.Members[i]
		}
	}
	return nil
}

// ApprovedMembers counts members whose request has been approved.
func (c *Club) ApprovedMembers() int {
	n := 0
	for _, m := range c.Members {
		if m.Status == MemberApproved {
			n++
		}
	}
	return n
}
