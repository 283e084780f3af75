package handler

import (
	"series_guide/internal/service"
	"series_guide/model"
	"series_guide/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type IAdminHandler interface {
	FetchDbConfigs(c *fiber.Ctx) error
	GetDashboard(c *fiber.Ctx) error
	GetUsers(c *fiber.Ctx) error
	SetUserRole(c *fiber.Ctx) error
	SetUserActive(c *fiber.Ctx) error
	DeleteUser(c *fiber.Ctx) error
}

type AdminHandler struct {
	adminService service.IAdminService
	userService  service.IUserService
}

func NewAdminHandler(adminService service.IAdminService, userService service.IUserService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		userService:  userService,
	}
}

type SetRoleReq struct {
	Role model.UserRole `json:"role" validate:"required,oneof=admin user"`
}

type SetActiveReq struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

//------------------------------------------
//------------------------------------------

// FetchDbConfigs godoc
//
//	@Summary		Fetch Configs
//	@Description	Reload db configs and dynamic configs.
//	@Tags			Admin
//	@Success		200		{object}	response.ResponseOKModel
//	@Failure		400,401	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/fetch_configs [get]
func (m *AdminHandler) FetchDbConfigs(c *fiber.Ctx) error {
	err := m.adminService.FetchDbConfigs()
	if err != nil {
		return sendError(c, err)
	}

	return response.ResponseOK(c, "")
}

// GetDashboard godoc
//
//	@Summary		Dashboard
//	@Description	Collection counts, chat activity, top rated series and top reviewers.
//	@Tags			Admin
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		401,403	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/dashboard [get]
func (m *AdminHandler) GetDashboard(c *fiber.Ctx) error {
	stats, err := m.adminService.GetDashboardStats()
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, stats)
}

// GetUsers godoc
//
//	@Summary		Users
//	@Description	Paginated accounts, newest first. Password hashes are never returned.
//	@Tags			Admin
//	@Param			page	query		int	false	"page"
//	@Param			limit	query		int	false	"limit"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		401,403	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/users [get]
func (m *AdminHandler) GetUsers(c *fiber.Ctx) error {
	page, limit := pageQuery(c)
	result, err := m.userService.ListUsers(page, limit)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, result)
}

// SetUserRole godoc
//
//	@Summary		Set Role
//	@Description	Change the role of another account.
//	@Tags			Admin
//	@Param			id		path		string		true	"user id"
//	@Param			body	body		SetRoleReq	true	"role"
//	@Success		200		{object}	response.ResponseOKModel
//	@Failure		400,401,403,404	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/users/{id}/role [put]
func (m *AdminHandler) SetUserRole(c *fiber.Ctx) error {
	actorId, ok := currentAdminId(c)
	if !ok {
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}
	userId, ok := paramObjectId(c, "id")
	if !ok {
		return response.ResponseError(c, response.InvalidId, fiber.StatusBadRequest)
	}
	var req SetRoleReq
	if msg, ok := parseBody(c, &req); !ok {
		return response.ResponseError(c, msg, fiber.StatusBadRequest)
	}
	if err := m.userService.SetRole(actorId, userId, req.Role); err != nil {
		return sendError(c, err)
	}
	return response.ResponseOK(c, "")
}

// SetUserActive godoc
//
//	@Summary		Set Active
//	@Description	Enable or disable another account.
//	@Tags			Admin
//	@Param			id		path		string			true	"user id"
//	@Param			body	body		SetActiveReq	true	"status"
//	@Success		200		{object}	response.ResponseOKModel
//	@Failure		400,401,403,404	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/users/{id}/active [put]
func (m *AdminHandler) SetUserActive(c *fiber.Ctx) error {
	actorId, ok := currentAdminId(c)
	if !ok {
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}
	userId, ok := paramObjectId(c, "id")
	if !ok {
		return response.ResponseError(c, response.InvalidId, fiber.StatusBadRequest)
	}
	var req SetActiveReq
	if msg, ok := parseBody(c, &req); !ok {
		return response.ResponseError(c, msg, fiber.StatusBadRequest)
	}
	if err := m.userService.SetActive(actorId, userId, *req.IsActive); err != nil {
		return sendError(c, err)
	}
	return response.ResponseOK(c, "")
}

// DeleteUser godoc
//
//	@Summary		Delete User
//	@Description	Delete another account with its ratings, comments and chat messages.
//	@Tags			Admin
//	@Param			id		path		string	true	"user id"
//	@Success		200		{object}	response.ResponseOKModel
//	@Failure		400,401,403,404	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/users/{id} [delete]
func (m *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	actorId, ok := currentAdminId(c)
	if !ok {
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}
	userId, ok := paramObjectId(c, "id")
	if !ok {
		return response.ResponseError(c, response.InvalidId, fiber.StatusBadRequest)
	}
	if err := m.userService.DeleteUser(actorId, userId); err != nil {
		return sendError(c, err)
	}
	return response.ResponseOK(c, "")
}
