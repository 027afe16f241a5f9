package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dbu-council/council-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
// Violations is present only on validation failures, carrying every broken
// constraint at once.
type errorResponse struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, errorResponse{
				Error:      "validation failed",
				Violations: ve.Violations,
			})
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Policy denials carry the reason; surface it without the sentinel prefix.
	if errors.Is(err, domain.ErrPolicyDenied) {
		msg := err.Error()
		if reason, ok := strings.CutPrefix(msg, domain.ErrPolicyDenied.Error()+": "); ok {
			msg = reason
		}
		return http.StatusForbidden, msg
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrAccountDeactivated),
		errors.Is(err, domain.ErrAccountLocked),
		// Eligibility restrictions describe who may vote, not the election's
		// state, so a denial reads as forbidden rather than conflict.
		errors.Is(err, domain.ErrNotEligible):
		return http.StatusForbidden, err.Error()

	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrElectionNotFound),
		errors.Is(err, domain.ErrCandidateNotFound),
		errors.Is(err, domain.ErrComplaintNotFound),
		errors.Is(err, domain.ErrClubNotFound),
		errors.Is(err, domain.ErrNewsNotFound):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, domain.ErrAlreadyVoted),
		errors.Is(err, domain.ErrElectionNotActive),
		errors.Is(err, domain.ErrElectionNotEditable),
		errors.Is(err, domain.ErrElectionActive),
		errors.Is(err, domain.ErrElectionNotCompleted),
		errors.Is(err, domain.ErrComplaintAlreadyResolved),
		errors.Is(err, domain.ErrComplaintClosed),
		errors.Is(err, domain.ErrClubAdminAssigned),
		errors.Is(err, domain.ErrAlreadyMember),
		errors.Is(err, domain.ErrAccountExists):
		return http.StatusConflict, err.Error()

	case errors.Is(err, domain.ErrInvalidResetToken):
		return http.StatusBadRequest, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
