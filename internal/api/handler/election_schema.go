package handler

import (
	"time"

	"github.com/dbu-council/council-system/internal/core/domain"
	"github.com/dbu-council/council-system/internal/core/ports"
)

type candidateRequest struct {
	Name       string   `json:"name"       validate:"required"`
	Username   string   `json:"username"`
	Department string   `json:"department"`
	Year       string   `json:"year"`
	Position   string   `json:"position"`
	Platform   []string `json:"platform"`
	Biography  string   `json:"biography"`
}

type eligibilityRequest struct {
	Roles       []string `json:"roles"`
	Departments []string `json:"departments"`
	Years       []string `json:"years"`
}

type createElectionRequest struct {
	Title        string             `json:"title"        validate:"required"`
	Description  string             `json:"description"`
	StartDate    time.Time          `json:"startDate"    validate:"required"`
	EndDate      time.Time          `json:"endDate"      validate:"required"`
	Candidates   []candidateRequest `json:"candidates"   validate:"required,min=2,dive"`
	ElectionType string             `json:"electionType"`
	IsPublic     *bool              `json:"isPublic"`
	Eligibility  eligibilityRequest `json:"eligibility"`
}

type updateElectionRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	StartDate   time.Time          `json:"startDate"`
	EndDate     time.Time          `json:"endDate"`
	Candidates  []candidateRequest `json:"candidates" validate:"omitempty,min=2,dive"`
	IsPublic    *bool              `json:"isPublic"`
}

type castVoteRequest struct {
	CandidateID string `json:"candidateId" validate:"required"`
}

type electionResponse struct {
	Election *domain.Election      `json:"election"`
	Status   domain.ElectionStatus `json:"status"`
	Timer    domain.Timer          `json:"timer"`
	CanVote  bool                  `json:"canVote"`
	Turnout  float64               `json:"turnout"`
}

type voteResponse struct {
	Message    string `json:"message"`
	ElectionID string `json:"electionId"`
	TotalVotes int    `json:"totalVotes"`
}

type timerResponse struct {
	ElectionID string                `json:"electionId"`
	Status     domain.ElectionStatus `json:"status"`
	Timer      domain.Timer          `json:"timer"`
}

type refreshStatusesResponse struct {
	Updated int64 `json:"updated"`
}

type announceResponse struct {
	Winner  *domain.Candidate `json:"winner"`
	Turnout float64           `json:"turnout"`
}

type listResponse struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func toElectionResponse(v *ports.ElectionView) electionResponse {
	return electionResponse{
		Election: v.Election,
		Status:   v.Status,
		Timer:    v.Timer,
		CanVote:  v.CanVote,
		Turnout:  v.Turnout,
	}
}

func toCandidateInputs(reqs []candidateRequest) []ports.CandidateInput {
	inputs := make([]ports.CandidateInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, ports.CandidateInput{
			Name:       r.Name,
			Username:   r.Username,
			Department: r.Department,
			Year:       r.Year,
			Position:   r.Position,
			Platform:   r.Platform,
			Biography:  r.Biography,
		})
	}
	return inputs
}

func toEligibility(r eligibilityRequest) domain.VotingEligibility {
	roles := make([]domain.Role, 0, len(r.Roles))
	for _, s := range r.Roles {
		roles = append(roles, domain.Role(s))
	}
	return domain.VotingEligibility{
		Roles:       roles,
		Departments: r.Departments,
		Years:       r.Years,
	}
}
