package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/dbu-council/council-system/internal/core/domain"
	"github.com/dbu-council/council-system/internal/core/ports"
)

// SubjectKey is the context key under which the authenticated account is
// stored for downstream handlers.
const SubjectKey = "subject"

// Auth validates the JWT, loads the current account and injects it into
// context. The account is re-read on every request so deactivation, lockout
// and role changes take effect immediately rather than at token expiry, and
// the permission vector handlers see is always derived from the current role.
func Auth(jwtSecret string, accounts ports.AccountRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims["sub"].(string)
			if sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}

			account, err := accounts.FindByID(c.Request().Context(), sub)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if !account.IsActive {
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrAccountDeactivated.Error())
			}
			if account.LockedNow(nowUTC()) {
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrAccountLocked.Error())
			}

			account.Permissions = domain.DerivePermissions(account.Role)
			c.Set(SubjectKey, account)

			return next(c)
		}
	}
}
