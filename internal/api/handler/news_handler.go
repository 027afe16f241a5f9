package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dbu-council/council-system/internal/core/domain"
	"github.com/dbu-council/council-system/internal/core/ports"
)

// NewsHandler handles HTTP requests for announcements.
type NewsHandler struct {
	service ports.NewsService
}

func NewNewsHandler(service ports.NewsService) *NewsHandler {
	return &NewsHandler{service: service}
}

type attachmentRequest struct {
	Filename     string `json:"filename"     validate:"required"`
	OriginalName string `json:"originalName" validate:"required"`
	MimeType     string `json:"mimetype"     validate:"required"`
	Size         int64  `json:"size"         validate:"required,gt=0"`
}

type postNewsRequest struct {
	Title       string              `json:"title"    validate:"required"`
	Content     string              `json:"content"  validate:"required"`
	Category    string              `json:"category"`
	Attachments []attachmentRequest `json:"attachments" validate:"omitempty,dive"`
}

type updateNewsRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// Post handles POST /v1/news.
func (h *NewsHandler) Post(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req postNewsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	attachments := make([]domain.NewsAttachment, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		attachments = append(attachments, domain.NewsAttachment{
			Filename:     a.Filename,
			OriginalName: a.OriginalName,
			MimeType:     a.MimeType,
			Size:         a.Size,
		})
	}

	item, err := h.service.Post(c.Request().Context(), ports.PostNewsInput{
		Title:       req.Title,
		Content:     req.Content,
		Category:    req.Category,
		Attachments: attachments,
		Author:      subject,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// List handles GET /v1/news.
func (h *NewsHandler) List(c echo.Context) error {
	filter := ports.NewsFilter{
		Category:      c.QueryParam("category"),
		Search:        c.QueryParam("search"),
		PublishedOnly: true,
	}
	filter.Page, filter.Limit = pageParams(c)

	items, total, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

// Get handles GET /v1/news/:id.
func (h *NewsHandler) Get(c echo.Context) error {
	item, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Update handles PUT /v1/news/:id.
func (h *NewsHandler) Update(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req updateNewsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	item, err := h.service.Update(c.Request().Context(), c.Param("id"),
		req.Title, req.Content, req.Category, subject)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /v1/news/:id.
func (h *NewsHandler) Delete(c echo.Context) error {
	subject, err := ctxSubject(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), subject); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "news item deleted"})
}
