package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/usermgmt/accounts-api/internal/core/domain"
	"github.com/usermgmt/accounts-api/internal/core/ports"
)

type AdminHandler struct {
	accounts ports.AccountService
}

func NewAdminHandler(accounts ports.AccountService) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

var adminEndpoints = map[string]string{
	"admin_login":         "POST /admin/login",
	"admin_profile":       "GET /admin/me",
	"admin_create_user":   "POST /admin/users",
	"admin_get_all_users": "GET /admin/users",
	"admin_get_user":      "GET /admin/users/{id}",
	"admin_update_user":   "PUT /admin/users/{id}",
	"admin_delete_user":   "DELETE /admin/users/{id}",
	"admin_create_admin":  "POST /admin/admins",
}

// Dashboard lists the admin endpoints.
//
// @Summary      Admin dashboard
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, dashboardResponse{
		Message:            "Admin Dashboard",
		AvailableEndpoints: adminEndpoints,
		Note:               "Use POST /admin/login to authenticate and get access token",
	})
}

// Me returns the calling admin's record.
//
// @Summary      Current admin
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  adminResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/me [get]
func (h *AdminHandler) Me(c echo.Context) error {
	ref, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	admin, err := h.accounts.Profile(c.Request().Context(), ref)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAdminResponse(admin))
}

// CreateUser creates a user, optionally with is_admin set.
//
// @Summary      Create a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  userResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Router       /admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.Create(c.Request().Context(), domain.KindUser, ports.CreatePrincipalInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// ListUsers pages through users in id order.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query     int  false  "Records to skip"  default(0)
// @Param        limit  query     int  false  "Page size (max 100)"  default(100)
// @Success      200    {array}   userResponse
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      422    {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 100)
	if err != nil {
		return err
	}

	users, err := h.accounts.ListUsers(c.Request().Context(), skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// GetUser returns a single user.
//
// @Summary      Get a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateUser changes any user, including is_admin.
//
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Router       /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	return updateUser(c, h.accounts)
}

// DeleteUser removes any user.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  detailResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	return deleteUser(c, h.accounts)
}

// CreateAdmin provisions another admin. Super admins only.
//
// @Summary      Create an admin
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAdminRequest  true  "New admin"
// @Success      201   {object}  adminResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Router       /admin/admins [post]
func (h *AdminHandler) CreateAdmin(c echo.Context) error {
	var req createAdminRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	admin, err := h.accounts.Create(c.Request().Context(), domain.KindAdmin, ports.CreatePrincipalInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		IsSuperAdmin: req.IsSuperAdmin,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAdminResponse(admin))
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, name+" must be an integer")
	}
	return n, nil
}
