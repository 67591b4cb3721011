package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/usermgmt/accounts-api/internal/api/middleware"
	"github.com/usermgmt/accounts-api/internal/core/domain"
)

// ctxPrincipal returns the principal set by the Auth middleware. Its absence
// means the route was wired without Auth, so fail with 401 rather than panic.
func ctxPrincipal(c echo.Context) (domain.PrincipalRef, error) {
	ref, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.PrincipalRef{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return *ref, nil
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "id must be a positive integer")
	}
	return uint(id), nil
}

// bindAndValidate decodes the body into req and runs struct validation.
// Malformed JSON is a 400; field rule violations bubble up as
// *ValidationError for the error handler to render as 422.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	return c.Validate(req)
}
