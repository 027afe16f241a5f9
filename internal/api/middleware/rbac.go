package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dbu-council/council-system/internal/core/authz"
	"github.com/dbu-council/council-system/internal/core/domain"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// Subject returns the authenticated account injected by Auth, or nil when
// the middleware did not run.
func Subject(c echo.Context) *domain.Account {
	a, _ := c.Get(SubjectKey).(*domain.Account)
	return a
}

// RequireRoles admits only the listed roles. The denial message comes from
// the policy evaluation, so the same wording appears whether the check runs
// here or inside a service.
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	return requireDecision(func(subject *domain.Account) authz.Decision {
		return authz.RequireRole(subject, roles...)
	})
}

// RequireAdminTier admits admin and super_admin.
func RequireAdminTier() echo.MiddlewareFunc {
	return requireDecision(authz.AdminTier)
}

// RequireSuperAdmin admits only super_admin.
func RequireSuperAdmin() echo.MiddlewareFunc {
	return requireDecision(authz.SuperAdminOnly)
}

// RequireCapability admits subjects whose role-derived permissions grant the
// capability.
func RequireCapability(capability authz.Capability) echo.MiddlewareFunc {
	return requireDecision(func(subject *domain.Account) authz.Decision {
		return authz.HasCapability(subject, capability)
	})
}

func requireDecision(eval func(*domain.Account) authz.Decision) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subject := Subject(c)
			if subject == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if d := eval(subject); !d.Allowed {
				return echo.NewHTTPError(http.StatusForbidden, d.Reason)
			}
			return next(c)
		}
	}
}
