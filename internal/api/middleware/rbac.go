package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/usermgmt/accounts-api/internal/core/domain"
	"github.com/usermgmt/accounts-api/internal/core/security"
	"github.com/usermgmt/accounts-api/pkg/metrics"
)

// Require enforces the access gate for req. It must run after Auth.
func Require(req security.Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ref, _ := PrincipalFrom(c)
			switch err := security.Authorize(ref, req); {
			case err == nil:
				return next(c)
			case domain.IsAuthentication(err):
				return unauthorized("authentication required", err)
			default:
				metrics.AuthorizationDenialsTotal.WithLabelValues(req.String()).Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
		}
	}
}
