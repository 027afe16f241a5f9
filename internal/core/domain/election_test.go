package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		start   time.Time
		end     time.Time
		current ElectionStatus
		want    ElectionStatus
	}{
		{"before start", now.Add(time.Hour), now.Add(3 * time.Hour), ElectionUpcoming, ElectionUpcoming},
		{"within window", now.Add(-time.Hour), now.Add(time.Hour), ElectionUpcoming, ElectionActive},
		{"at start boundary", now, now.Add(2 * time.Hour), ElectionUpcoming, ElectionActive},
		{"past end", now.Add(-3 * time.Hour), now.Add(-time.Hour), ElectionActive, ElectionCompleted},
		{"at end boundary", now.Add(-2 * time.Hour), now, ElectionActive, ElectionCompleted},
		{"cancelled absorbs", now.Add(-time.Hour), now.Add(time.Hour), ElectionCancelled, ElectionCancelled},
	}

	for _, tc := range cases {
		if got := DeriveStatus(now, tc.start, tc.end, tc.current); got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestComputeTimer(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	start := now.Add(26*time.Hour + 3*time.Minute + 4*time.Second)
	end := start.Add(48 * time.Hour)

	timer := ComputeTimer(now, ElectionUpcoming, start, end)
	if timer.Type != TimerStartsIn || timer.Expired {
		t.Fatalf("upcoming timer: %+v", timer)
	}
	if timer.Days != 1 || timer.Hours != 2 || timer.Minutes != 3 || timer.Seconds != 4 {
		t.Fatalf("countdown decomposition wrong: %+v", timer)
	}

	timer = ComputeTimer(now, ElectionActive, now.Add(-time.Hour), now.Add(90*time.Second))
	if timer.Type != TimerEndsIn || timer.Minutes != 1 || timer.Seconds != 30 {
		t.Fatalf("active timer: %+v", timer)
	}

	timer = ComputeTimer(now, ElectionCompleted, start, end)
	if timer.Type != TimerEnded || !timer.Expired {
		t.Fatalf("completed timer: %+v", timer)
	}

	timer = ComputeTimer(now, ElectionCancelled, start, end)
	if timer.Type != TimerEnded || !timer.Expired {
		t.Fatalf("cancelled timer: %+v", timer)
	}

	// Sub-second remainder floors to zero rather than reporting expired early.
	timer = ComputeTimer(now, ElectionActive, now.Add(-time.Hour), now.Add(500*time.Millisecond))
	if timer.Expired || timer.Seconds != 0 {
		t.Fatalf("sub-second timer: %+v", timer)
	}
}

func TestValidateSchedule(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if err := ValidateSchedule(now.Add(time.Hour), now.Add(3*time.Hour), now); err != nil {
		t.Fatalf("valid schedule rejected: %v", err)
	}

	err := ValidateSchedule(time.Time{}, time.Time{}, now)
	var ve *ValidationError
	if !errors.As(err, &ve) || len(ve.Violations) != 2 {
		t.Fatalf("zero dates should report both violations: %v", err)
	}

	// A past start that also inverts the window reports every broken rule.
	err = ValidateSchedule(now.Add(-time.Hour), now.Add(-2*time.Hour), now)
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %v", ve.Violations)
	}

	err = ValidateSchedule(now.Add(time.Hour), now.Add(time.Hour+30*time.Minute), now)
	if !errors.As(err, &ve) || len(ve.Violations) != 1 {
		t.Fatalf("30-minute window should violate the duration floor: %v", err)
	}
}

func electionFixture(now time.Time) *Election {
	return &Election{
		ID:        "e1",
		Title:     "Council President 2026",
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		Status:    ElectionActive,
		Candidates: []Candidate{
			{ID: "c1", Name: "Abel", Votes: 3},
			{ID: "c2", Name: "Beza", Votes: 5},
		},
		Eligibility: VotingEligibility{
			Roles:       []Role{RoleStudent},
			Departments: []string{"Computer Science"},
			Years:       []string{"3"},
		},
	}
}

func TestCheckEligibility(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	e := electionFixture(now)

	voter := &Account{ID: "acc1", Role: RoleStudent, Department: "Computer Science", Year: "3"}
	if r := e.CheckEligibility(voter, now); !r.Eligible {
		t.Fatalf("matching voter should be eligible: %+v", r)
	}

	// Already-voted wins over every other reason.
	e.Voters = []VoteRecord{{Account: "acc1", CandidateID: "c1"}}
	wrong := &Account{ID: "acc1", Role: RoleClubAdmin, Department: "Law", Year: "1"}
	if r := e.CheckEligibility(wrong, now); r.Reason != "already voted" {
		t.Fatalf("expected already voted, got %q", r.Reason)
	}
	e.Voters = nil

	if r := e.CheckEligibility(voter, now.Add(2*time.Hour)); r.Reason != "election not active" {
		t.Fatalf("expected election not active, got %q", r.Reason)
	}

	badRole := &Account{ID: "acc2", Role: RoleClubAdmin, Department: "Law", Year: "1"}
	if r := e.CheckEligibility(badRole, now); r.Reason != "role not eligible" {
		t.Fatalf("role precedes department: %q", r.Reason)
	}

	badDept := &Account{ID: "acc3", Role: RoleStudent, Department: "Law", Year: "1"}
	if r := e.CheckEligibility(badDept, now); r.Reason != "department not eligible" {
		t.Fatalf("department precedes year: %q", r.Reason)
	}

	badYear := &Account{ID: "acc4", Role: RoleStudent, Department: "Computer Science", Year: "1"}
	if r := e.CheckEligibility(badYear, now); r.Reason != "academic year not eligible" {
		t.Fatalf("expected year denial, got %q", r.Reason)
	}

	// Empty restriction lists are open.
	open := electionFixture(now)
	open.Eligibility = VotingEligibility{}
	anyone := &Account{ID: "acc5", Role: RoleClubAdmin, Department: "Law", Year: "5"}
	if r := open.CheckEligibility(anyone, now); !r.Eligible {
		t.Fatalf("unrestricted election should admit anyone: %+v", r)
	}
}

func TestWinner(t *testing.T) {
	now := time.Now()
	e := electionFixture(now)
	if w := e.Winner(); w == nil || w.ID != "c2" {
		t.Fatalf("expected c2 to win, got %+v", w)
	}

	// Ties resolve to the earlier candidate in the list.
	e.Candidates[0].Votes = 5
	if w := e.Winner(); w.ID != "c1" {
		t.Fatalf("tie should go to the first candidate, got %s", w.ID)
	}

	empty := &Election{}
	if w := empty.Winner(); w != nil {
		t.Fatalf("no candidates means no winner")
	}
}

func TestTurnoutPercent(t *testing.T) {
	e := &Election{TotalVotes: 25, EligibleVoters: 100}
	if got := e.TurnoutPercent(); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}

	zero := &Election{TotalVotes: 10}
	if got := zero.TurnoutPercent(); got != 0 {
		t.Fatalf("empty snapshot should yield 0, got %v", got)
	}
}

func TestHasVotedAndCandidateLookup(t *testing.T) {
	e := electionFixture(time.Now())
	e.Voters = []VoteRecord{{Account: "acc1", CandidateID: "c1"}}

	if !e.HasVoted("acc1") {
		t.Fatalf("acc1 has voted")
	}
	if e.HasVoted("acc2") {
		t.Fatalf("acc2 has not voted")
	}
	if c := e.Candidate("c2"); c == nil || c.Name != "Beza" {
		t.Fatalf("candidate lookup failed: %+v", c)
	}
	if c := e.Candidate("missing"); c != nil {
		t.Fatalf("missing candidate should be nil")
	}
}
