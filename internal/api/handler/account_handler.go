package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dbu-council/council-system/internal/core/domain"
	"github.com/dbu-council/council-system/internal/core/ports"
)

// AccountHandler handles administrative account management. All routes are
// gated to super_admin by the router.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

type createAccountRequest struct {
	Name       string `json:"name"     validate:"required"`
	Username   string `json:"username" validate:"required"`
	Email      string `json:"email"    validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Department string `json:"department"`
	Year       string `json:"year"`
	Role       string `json:"role" validate:"required,oneof=student club_admin academic_affairs president_admin admin super_admin"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student club_admin academic_affairs president_admin admin super_admin"`
}

type setActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// Create handles POST /v1/accounts.
func (h *AccountHandler) Create(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.service.Create(c.Request().Context(), ports.CreateAccountInput{
		Name:       req.Name,
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Department: req.Department,
		Year:       req.Year,
		Role:       domain.Role(req.Role),
	}, subject)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// List handles GET /v1/accounts.
func (h *AccountHandler) List(c echo.Context) error {
	filter := ports.AccountFilter{
		Role:   domain.Role(c.QueryParam("role")),
		Search: c.QueryParam("search"),
	}
	filter.Page, filter.Limit = pageParams(c)

	accounts, total, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	items := make([]*accountResponse, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, toAccountResponse(a))
	}
	return c.JSON(http.StatusOK, listResponse{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

// Get handles GET /v1/accounts/:id.
func (h *AccountHandler) Get(c echo.Context) error {
	account, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// ChangeRole handles PATCH /v1/accounts/:id/role. The permission vector is
// rewritten from the new role in the same operation.
func (h *AccountHandler) ChangeRole(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.service.ChangeRole(c.Request().Context(), c.Param("id"), domain.Role(req.Role), subject)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// SetActive handles PATCH /v1/accounts/:id/active.
func (h *AccountHandler) SetActive(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.SetActive(c.Request().Context(), c.Param("id"), *req.IsActive, subject); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "account updated"})
}

// Unlock handles POST /v1/accounts/:id/unlock, clearing a login lockout.
func (h *AccountHandler) Unlock(c echo.Context) error {
	if err := h.service.Unlock(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "account unlocked"})
}

// Delete handles DELETE /v1/accounts/:id.
func (h *AccountHandler) Delete(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), subject); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "account deleted"})
}
