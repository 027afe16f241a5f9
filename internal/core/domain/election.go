package domain

import "time"

// ElectionStatus represents the lifecycle state of an election.
type ElectionStatus string

const (
	ElectionUpcoming  ElectionStatus = "upcoming"
	ElectionActive    ElectionStatus = "active"
	ElectionCompleted ElectionStatus = "completed"
	ElectionCancelled ElectionStatus = "cancelled"
)

// MinElectionDuration is the floor enforced at schedule validation.
const MinElectionDuration = time.Hour

// Candidate is a sub-entity of an election with a mutable vote counter.
type Candidate struct {
	ID         string   `json:"id" bson:"id"`
	Name       string   `json:"name" bson:"name"`
	Username   string   `json:"username" bson:"username"`
	Department string   `json:"department" bson:"department"`
	Year       string   `json:"year" bson:"year"`
	Position   string   `json:"position" bson:"position"`
	Platform   []string `json:"platform,omitempty" bson:"platform,omitempty"`
	Biography  string   `json:"biography,omitempty" bson:"biography,omitempty"`
	Votes      int      `json:"votes" bson:"votes"`
	Voters     []string `json:"-" bson:"voters,omitempty"`
}

// VoteRecord is one entry in the eligibility ledger: exactly one per cast vote.
type VoteRecord struct {
	Account     string    `json:"account" bson:"account"`
	CandidateID string    `json:"candidate" bson:"candidate"`
	VotedAt     time.Time `json:"votedAt" bson:"voted_at"`
	IPAddress   string    `json:"-" bson:"ip_address,omitempty"`
}

// VotingEligibility restricts who may vote. An empty list means no restriction
// on that dimension.
type VotingEligibility struct {
	Roles       []Role   `json:"roles,omitempty" bson:"roles,omitempty"`
	Departments []string `json:"departments,omitempty" bson:"departments,omitempty"`
	Years       []string `json:"years,omitempty" bson:"years,omitempty"`
}

// Election is the voting aggregate root.
type Election struct {
	ID               string            `json:"id" bson:"_id,omitempty"`
	Title            string            `json:"title" bson:"title"`
	Description      string            `json:"description" bson:"description"`
	StartDate        time.Time         `json:"startDate" bson:"start_date"`
	EndDate          time.Time         `json:"endDate" bson:"end_date"`
	Status           ElectionStatus    `json:"status" bson:"status"`
	Candidates       []Candidate       `json:"candidates" bson:"candidates"`
	TotalVotes       int               `json:"totalVotes" bson:"total_votes"`
	EligibleVoters   int               `json:"eligibleVoters" bson:"eligible_voters"`
	Voters           []VoteRecord      `json:"-" bson:"voters"`
	Eligibility      VotingEligibility `json:"votingEligibility" bson:"voting_eligibility"`
	ElectionType     string            `json:"electionType" bson:"election_type"`
	IsPublic         bool              `json:"isPublic" bson:"is_public"`
	ResultsPublished bool              `json:"resultsPublished" bson:"results_published"`
	PublishedAt      time.Time         `json:"publishedAt,omitempty" bson:"published_at,omitempty"`
	CreatedBy        string            `json:"createdBy" bson:"created_by"`
	CreatedAt        time.Time         `json:"createdAt" bson:"created_at"`
	UpdatedAt        time.Time         `json:"updatedAt" bson:"updated_at"`
}

// DeriveStatus computes the status an election should have at now. Cancelled
// is absorbing; everything else is a pure function of now vs [start, end).
// Reads always run through this; persisting the result is an optimisation.
func DeriveStatus(now time.Time, start, end time.Time, current ElectionStatus) ElectionStatus {
	if current == ElectionCancelled {
		return ElectionCancelled
	}
	switch {
	case now.Before(start):
		return ElectionUpcoming
	case now.Before(end):
		return ElectionActive
	default:
		return ElectionCompleted
	}
}

// CurrentStatus derives the election's status at now.
func (e *Election) CurrentStatus(now time.Time) ElectionStatus {
	return DeriveStatus(now, e.StartDate, e.EndDate, e.Status)
}

// Timer types reported by ComputeTimer.
const (
	TimerStartsIn = "starts_in"
	TimerEndsIn   = "ends_in"
	TimerEnded    = "ended"
)

// Timer is a countdown broken into calendar components.
type Timer struct {
	Type    string `json:"type"`
	Days    int    `json:"days"`
	Hours   int    `json:"hours"`
	Minutes int    `json:"minutes"`
	Seconds int    `json:"seconds"`
	Expired bool   `json:"expired"`
}

// ComputeTimer returns the countdown for an election at now: to the start
// while upcoming, to the end while active, and an expired "ended" timer once
// completed or cancelled.
func ComputeTimer(now time.Time, status ElectionStatus, start, end time.Time) Timer {
	var target time.Time
	var typ string

	switch status {
	case ElectionUpcoming:
		target, typ = start, TimerStartsIn
	case ElectionActive:
		target, typ = end, TimerEndsIn
	default:
		return Timer{Type: TimerEnded, Expired: true}
	}

	ms := target.Sub(now).Milliseconds()
	if ms <= 0 {
		return Timer{Type: typ, Expired: true}
	}

	const (
		msPerSecond = int64(1000)
		msPerMinute = 60 * msPerSecond
		msPerHour   = 60 * msPerMinute
		msPerDay    = 24 * msPerHour
	)

	return Timer{
		Type:    typ,
		Days:    int(ms / msPerDay),
		Hours:   int(ms % msPerDay / msPerHour),
		Minutes: int(ms % msPerHour / msPerMinute),
		Seconds: int(ms % msPerMinute / msPerSecond),
	}
}

// ValidateSchedule checks an election schedule at creation time and reports
// every violated rule, not just the first.
func ValidateSchedule(start, end, now time.Time) error {
	var violations []string

	if start.IsZero() {
		violations = append(violations, "invalid start date")
	}
	if end.IsZero() {
		violations = append(violations, "invalid end date")
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}

	if !end.After(start) {
		violations = append(violations, "end date must be after start date")
	}
	if !start.After(now) {
		violations = append(violations, "start date must be in the future")
	}
	if end.Sub(start) < MinElectionDuration {
		violations = append(violations, "election must run for at least 1 hour")
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// HasVoted reports whether accountID already appears in the ledger.
func (e *Election) HasVoted(accountID string) bool {
	for _, v := range e.Voters {
		if v.Account == accountID {
			return true
		}
	}
	return false
}

// Candidate returns the candidate with the given id, or nil.
func (e *Election) Candidate(id string) *Candidate {
	for i := range e.Candidates {
		if e.Candidates[i].ID == id {
			return &e.Candidates[i]
		}
	}
	return nil
}

// Eligibility outcome for a prospective voter.
type EligibilityResult struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason"`
}

// CheckEligibility decides whether voter may vote at now. Denial reasons are
// checked in a fixed precedence: already voted, election not active, role,
// department, academic year. Empty restriction lists are open.
func (e *Election) CheckEligibility(voter *Account, now time.Time) EligibilityResult {
	if e.HasVoted(voter.ID) {
		return EligibilityResult{Reason: "already voted"}
	}
	if e.CurrentStatus(now) != ElectionActive {
		return EligibilityResult{Reason: "election not active"}
	}
	if len(e.Eligibility.Roles) > 0 && !containsRole(e.Eligibility.Roles, voter.Role) {
		return EligibilityResult{Reason: "role not eligible"}
	}
	if len(e.Eligibility.Departments) > 0 && !contains(e.Eligibility.Departments, voter.Department) {
		return EligibilityResult{Reason: "department not eligible"}
	}
	if len(e.Eligibility.Years) > 0 && !contains(e.Eligibility.Years, voter.Year) {
		return EligibilityResult{Reason: "academic year not eligible"}
	}
	return EligibilityResult{Eligible: true, Reason: "eligible to vote"}
}

// Winner returns the candidate with the most votes, or nil when there are no
// candidates. Ties go to the candidate encountered first in the list; the
// ordering is arbitrary but fixed.
func (e *Election) Winner() *Candidate {
	if len(e.Candidates) == 0 {
		return nil
	}
	winner := &e.Candidates[0]
	for i := 1; i < len(e.Candidates); i++ {
		if e.Candidates[i].Votes > winner.Votes {
			winner = &e.Candidates[i]
		}
	}
	return winner
}

// TurnoutPercent returns totalVotes/eligibleVoters as a percentage, 0 when the
// eligible-voter snapshot is empty.
func (e *Election) TurnoutPercent() float64 {
	if e.EligibleVoters == 0 {
		return 0
	}
	return float64(e.TotalVotes) / float64(e.EligibleVoters) * 100
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsRole(list []Role, r Role) bool {
	for _, item := range list {
		if item == r {
			return true
		}
	}
	return false
}
