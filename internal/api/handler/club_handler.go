package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dbu-council/council-system/internal/core/domain"
	"github.com/dbu-council/council-system/internal/core/ports"
)

// ClubHandler handles HTTP requests for club operations.
type ClubHandler struct {
	service ports.ClubService
}

func NewClubHandler(service ports.ClubService) *ClubHandler {
	return &ClubHandler{service: service}
}

type createClubRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type updateClubRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive pending"`
}

type assignAdminRequest struct {
	AccountID string `json:"accountId" validate:"required"`
}

type reviewMemberRequest struct {
	AccountID string `json:"accountId" validate:"required"`
	Status    string `json:"status"    validate:"required,oneof=approved rejected"`
}

// Create handles POST /v1/clubs.
func (h *ClubHandler) Create(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req createClubRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	club, err := h.service.Create(c.Request().Context(), ports.CreateClubInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Creator:     subject,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, club)
}

// List handles GET /v1/clubs.
func (h *ClubHandler) List(c echo.Context) error {
	filter := ports.ClubFilter{
		Status:   domain.ClubStatus(c.QueryParam("status")),
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	}
	filter.Page, filter.Limit = pageParams(c)

	clubs, total, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{
		Items: clubs,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

// Get handles GET /v1/clubs/:id.
func (h *ClubHandler) Get(c echo.Context) error {
	club, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, club)
}

// Update handles PUT /v1/clubs/:id.
func (h *ClubHandler) Update(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req updateClubRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	club, err := h.service.Update(c.Request().Context(), c.Param("id"),
		req.Name, req.Description, req.Category, domain.ClubStatus(req.Status), subject)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, club)
}

// Delete handles DELETE /v1/clubs/:id.
func (h *ClubHandler) Delete(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), subject); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "club deleted"})
}

// AssignAdmin handles POST /v1/clubs/:id/admin. Rewires the club and the
// account as a pair, clearing both stale sides.
func (h *ClubHandler) AssignAdmin(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req assignAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.AssignAdmin(c.Request().Context(), c.Param("id"), req.AccountID, subject); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "club admin assigned"})
}

// Join handles POST /v1/clubs/:id/join, filing a pending membership request.
func (h *ClubHandler) Join(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	if err := h.service.Join(c.Request().Context(), c.Param("id"), subject); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "membership request submitted"})
}

// ReviewMember handles POST /v1/clubs/:id/members/review.
func (h *ClubHandler) ReviewMember(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req reviewMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.ReviewMember(c.Request().Context(), c.Param("id"),
		req.AccountID, domain.MemberStatus(req.Status), subject); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "membership updated"})
}

// Dashboard handles GET /v1/clubs/dashboard for the assigned club admin.
func (h *ClubHandler) Dashboard(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	dashboard, err := h.service.Dashboard(c.Request().Context(), subject)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboard)
}
