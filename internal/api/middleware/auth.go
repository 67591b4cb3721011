package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/usermgmt/accounts-api/internal/core/domain"
	"github.com/usermgmt/accounts-api/internal/core/ports"
	"github.com/usermgmt/accounts-api/pkg/metrics"
)

const principalKey = "principal"

// Auth verifies the bearer token and injects the principal reference into
// context. now is the verification clock; nil means time.Now.
func Auth(verifier ports.TokenVerifier, now func() time.Time) echo.MiddlewareFunc {
	if now == nil {
		now = time.Now
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return unauthorized("missing authorization header", domain.ErrUnauthenticated)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("malformed").Inc()
				return unauthorized("invalid authorization header", domain.ErrTokenMalformed)
			}

			ref, err := verifier.Verify(parts[1], now())
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues(verificationResult(err)).Inc()
				return unauthorized("could not validate credentials", err)
			}
			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()

			c.Set(principalKey, ref)
			return next(c)
		}
	}
}

// PrincipalFrom returns the reference set by Auth, if any.
func PrincipalFrom(c echo.Context) (*domain.PrincipalRef, bool) {
	ref, ok := c.Get(principalKey).(*domain.PrincipalRef)
	return ref, ok && ref != nil
}

func unauthorized(msg string, cause error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, msg).SetInternal(cause)
}

func verificationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}
