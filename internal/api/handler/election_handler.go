package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dbu-council/council-system/internal/api/metrics"
	"github.com/dbu-council/council-system/internal/core/domain"
	"github.com/dbu-council/council-system/internal/core/ports"
)

// ElectionHandler handles HTTP requests for election operations.
type ElectionHandler struct {
	service ports.ElectionService
}

func NewElectionHandler(service ports.ElectionService) *ElectionHandler {
	return &ElectionHandler{service: service}
}

// Create handles POST /v1/elections.
//
// @Summary      Create an election
// @Tags         elections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createElectionRequest  true  "Election details"
// @Success      201   {object}  domain.Election
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/elections [post]
func (h *ElectionHandler) Create(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req createElectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	election, err := h.service.Create(c.Request().Context(), ports.CreateElectionInput{
		Title:        req.Title,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Candidates:   toCandidateInputs(req.Candidates),
		ElectionType: req.ElectionType,
		IsPublic:     req.IsPublic,
		Eligibility:  toEligibility(req.Eligibility),
		CreatedBy:    subject,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, election)
}

// List handles GET /v1/elections. Non-admin callers only see public
// elections.
func (h *ElectionHandler) List(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	filter := ports.ElectionFilter{
		Status:     domain.ElectionStatus(c.QueryParam("status")),
		Type:       c.QueryParam("type"),
		Search:     c.QueryParam("search"),
		PublicOnly: !subject.Role.IsAdminTier(),
	}
	filter.Page, filter.Limit = pageParams(c)

	views, total, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	items := make([]electionResponse, 0, len(views))
	for _, v := range views {
		items = append(items, toElectionResponse(v))
	}
	return c.JSON(http.StatusOK, listResponse{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

// Get handles GET /v1/elections/:id. The response carries the derived
// status, the countdown timer, and whether the caller may vote.
func (h *ElectionHandler) Get(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	view, err := h.service.Get(c.Request().Context(), c.Param("id"), subject.Role.IsAdminTier())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toElectionResponse(view))
}

// Update handles PUT /v1/elections/:id. Only upcoming elections accept
// updates.
func (h *ElectionHandler) Update(c echo.Context) error {
	var req updateElectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	election, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateElectionInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Candidates:  toCandidateInputs(req.Candidates),
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, election)
}

// Delete handles DELETE /v1/elections/:id.
func (h *ElectionHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "election deleted"})
}

// Vote handles POST /v1/elections/:id/vote.
//
// @Summary      Cast a vote
// @Tags         elections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Election id"
// @Param        body  body      castVoteRequest  true  "Chosen candidate"
// @Success      200   {object}  voteResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/elections/{id}/vote [post]
func (h *ElectionHandler) Vote(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req castVoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.service.CastVote(c.Request().Context(), ports.CastVoteInput{
		ElectionID:  c.Param("id"),
		CandidateID: req.CandidateID,
		Voter:       subject,
		IPAddress:   c.RealIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyVoted):
			metrics.VotesRejectedTotal.WithLabelValues("already_voted").Inc()
		case errors.Is(err, domain.ErrElectionNotActive):
			metrics.VotesRejectedTotal.WithLabelValues("not_active").Inc()
		case errors.Is(err, domain.ErrNotEligible):
			metrics.VotesRejectedTotal.WithLabelValues("not_eligible").Inc()
		case errors.Is(err, domain.ErrCandidateNotFound):
			metrics.VotesRejectedTotal.WithLabelValues("candidate_not_found").Inc()
		}
		return err
	}

	metrics.VotesCastTotal.Inc()
	return c.JSON(http.StatusOK, voteResponse{
		Message:    "vote cast successfully",
		ElectionID: result.ElectionID,
		TotalVotes: result.TotalVotes,
	})
}

// Timer handles GET /v1/elections/:id/timer. It returns only the countdown
// so clients can poll it cheaply.
func (h *ElectionHandler) Timer(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	view, err := h.service.Get(c.Request().Context(), c.Param("id"), subject.Role.IsAdminTier())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, timerResponse{
		ElectionID: view.Election.ID,
		Status:     view.Status,
		Timer:      view.Timer,
	})
}

// RefreshStatuses handles POST /v1/elections/refresh-statuses, the manual
// counterpart of the periodic sweep.
func (h *ElectionHandler) RefreshStatuses(c echo.Context) error {
	updated, err := h.service.RefreshStatuses(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, refreshStatusesResponse{Updated: updated})
}

// Announce handles POST /v1/elections/:id/announce.
func (h *ElectionHandler) Announce(c echo.Context) error {
	result, err := h.service.Announce(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, announceResponse{
		Winner:  result.Winner,
		Turnout: result.Turnout,
	})
}

// Stats handles GET /v1/elections/stats.
func (h *ElectionHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// pageParams reads the standard page/limit query parameters with defaults.
func pageParams(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
