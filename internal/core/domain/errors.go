package domain

import (
	"errors"
	"strings"
)

// Policy denials. Always surfaced to the caller with a fixed reason, never
// treated as a fault.
var (
	ErrPolicyDenied       = errors.New("access denied")
	ErrAccountDeactivated = errors.New("account has been deactivated")
	ErrAccountLocked      = errors.New("account is temporarily locked")
	ErrNotEligible        = errors.New("you are not eligible to vote in this election")
)

// State conflicts: the operation is incompatible with the entity's current
// state. Reported distinctly from policy denials so callers can render
// "already done" rather than "not allowed".
var (
	ErrAlreadyVoted             = errors.New("you have already voted in this election")
	ErrElectionNotActive        = errors.New("election is not active")
	ErrElectionNotEditable      = errors.New("cannot update active or completed elections")
	ErrElectionActive           = errors.New("cannot delete active elections")
	ErrElectionNotCompleted     = errors.New("can only announce completed elections")
	ErrComplaintAlreadyResolved = errors.New("complaint has already been resolved")
	ErrComplaintClosed          = errors.New("complaint is closed")
	ErrClubAdminAssigned        = errors.New("club already has an assigned admin")
	ErrAlreadyMember            = errors.New("already a member of this club")
)

// Not-found family.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrElectionNotFound  = errors.New("election not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrClubNotFound      = errors.New("club not found")
	ErrNewsNotFound      = errors.New("news item not found")
)

// Authentication / account lifecycle.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("account already exists with this username or email")
	ErrInvalidResetToken  = errors.New("password reset token is invalid or has expired")
)

// ValidationError carries the complete list of violated constraints so a
// client can render them all at once.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// NewValidationError builds a ValidationError from one or more violations.
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}
