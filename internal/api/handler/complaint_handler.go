package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dbu-council/council-system/internal/api/metrics"
	"github.com/dbu-council/council-system/internal/core/domain"
	"github.com/dbu-council/council-system/internal/core/ports"
)

// ComplaintHandler handles HTTP requests for complaint operations.
type ComplaintHandler struct {
	service ports.ComplaintService
}

func NewComplaintHandler(service ports.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{service: service}
}

// Submit handles POST /v1/complaints.
//
// @Summary      Submit a complaint
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitComplaintRequest  true  "Complaint details"
// @Success      201   {object}  domain.Complaint
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/complaints [post]
func (h *ComplaintHandler) Submit(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req submitComplaintRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	complaint, err := h.service.Submit(c.Request().Context(), ports.SubmitComplaintInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		ComplaintType: toComplaintType(req.ComplaintType),
		Priority:      req.Priority,
		Submitter:     subject,
	})
	if err != nil {
		return err
	}

	metrics.ComplaintsSubmittedTotal.WithLabelValues(string(complaint.ComplaintType)).Inc()
	return c.JSON(http.StatusCreated, complaint)
}

// List handles GET /v1/complaints, scoped to what the caller may see.
func (h *ComplaintHandler) List(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	filter := ports.ComplaintFilter{Search: c.QueryParam("search")}
	if s := c.QueryParam("status"); s != "" {
		filter.Statuses = []domain.ComplaintStatus{domain.ComplaintStatus(s)}
	}
	filter.Page, filter.Limit = pageParams(c)

	complaints, total, err := h.service.List(c.Request().Context(), subject, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{
		Items: complaints,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

// Inbox handles GET /v1/complaints/inbox: open complaints the caller's role
// may resolve.
func (h *ComplaintHandler) Inbox(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	page, limit := pageParams(c)
	complaints, total, err := h.service.Inbox(c.Request().Context(), subject, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{
		Items: complaints,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Get handles GET /v1/complaints/:id.
func (h *ComplaintHandler) Get(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	complaint, err := h.service.Get(c.Request().Context(), c.Param("id"), subject)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, complaint)
}

// Respond handles POST /v1/complaints/:id/responses.
func (h *ComplaintHandler) Respond(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req respondRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	complaint, err := h.service.Respond(c.Request().Context(), ports.RespondInput{
		ComplaintID: c.Param("id"),
		Message:     req.Message,
		Responder:   subject,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, complaint)
}

// Assign handles POST /v1/complaints/:id/assign.
func (h *ComplaintHandler) Assign(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.Assign(c.Request().Context(), c.Param("id"), req.AssigneeID, subject); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "complaint assigned"})
}

// ChangeType handles PATCH /v1/complaints/:id/type. The resolver set is
// recomputed from the new type.
func (h *ComplaintHandler) ChangeType(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req changeTypeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.ChangeType(c.Request().Context(), c.Param("id"), domain.ComplaintType(req.ComplaintType), subject); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "complaint type updated"})
}

// Resolve handles POST /v1/complaints/:id/resolve.
//
// @Summary      Resolve a complaint
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Complaint id"
// @Param        body  body      resolveRequest  true  "Resolution notes"
// @Success      200   {object}  domain.Complaint
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/complaints/{id}/resolve [post]
func (h *ComplaintHandler) Resolve(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	complaint, err := h.service.Resolve(c.Request().Context(), ports.ResolveInput{
		ComplaintID: c.Param("id"),
		Notes:       req.Notes,
		Resolver:    subject,
	})
	if err != nil {
		return err
	}

	metrics.ComplaintsResolvedTotal.WithLabelValues(string(complaint.ResolutionType)).Inc()
	return c.JSON(http.StatusOK, complaint)
}

// Close handles POST /v1/complaints/:id/close.
func (h *ComplaintHandler) Close(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	if err := h.service.Close(c.Request().Context(), c.Param("id"), subject); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "complaint closed"})
}

// AttachDocument handles POST /v1/complaints/:id/documents. The file body
// lives in the external store; this records its metadata.
func (h *ComplaintHandler) AttachDocument(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req attachDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	doc := domain.ComplaintDocument{
		Filename:     req.Filename,
		OriginalName: req.OriginalName,
		MimeType:     req.MimeType,
		Size:         req.Size,
		UploadedBy:   subject.ID,
		UploadedAt:   time.Now().UTC(),
	}
	if err := h.service.AttachDocument(c.Request().Context(), c.Param("id"), doc, subject); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "document attached"})
}

// Stats handles GET /v1/complaints/stats, scoped to the caller's partition.
func (h *ComplaintHandler) Stats(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), subject)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
