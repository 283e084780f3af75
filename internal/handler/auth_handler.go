package handler

import (
	"time"

	"series_guide/api/middleware"
	"series_guide/configs"
	"series_guide/internal/service"
	"series_guide/model"
	"series_guide/pkg/logger"
	"series_guide/pkg/response"
	"series_guide/util"

	"github.com/gofiber/fiber/v2"
)

type IAuthHandler interface {
	AdminLogin(c *fiber.Ctx) error
	AdminLogout(c *fiber.Ctx) error
	Register(c *fiber.Ctx) error
	Login(c *fiber.Ctx) error
	Logout(c *fiber.Ctx) error
	Me(c *fiber.Ctx) error
}

type AuthHandler struct {
	authService service.IAuthService
	userService service.IUserService
}

func NewAuthHandler(authService service.IAuthService, userService service.IUserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

type AdminLoginReq struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Password   string `json:"password" validate:"required"`
}

type LoginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterReq struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SessionRes struct {
	User      *model.UserProfileRes `json:"user"`
	ExpiresAt time.Time             `json:"expiresAt"`
}

//------------------------------------------
//------------------------------------------

// AdminLogin godoc
//
//	@Summary		Admin Login
//	@Description	Sign in to the admin panel with username or email. Replaces any public session.
//	@Tags			Auth
//	@Param			body	body		AdminLoginReq	true	"credentials"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,403	{object}	response.ResponseErrorModel
//	@Router			/v1/auth/admin/login [post]
func (m *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req AdminLoginReq
	if msg, ok := parseBody(c, &req); !ok {
		return response.ResponseError(c, msg, fiber.StatusBadRequest)
	}
	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Username
	}
	if identifier == "" {
		return response.ResponseError(c, response.BadRequestBody, fiber.StatusBadRequest)
	}

	session, err := m.authService.AdminLogin(identifier, req.Password)
	if err != nil {
		return sendError(c, err)
	}

	clearCookie(c, util.PublicUserCookieName)
	setCookie(c, util.AdminCookieName, session.Token, session.ExpiresAt)
	return response.ResponseOKWithData(c, SessionRes{User: session.User.ToProfile(), ExpiresAt: session.ExpiresAt})
}

// AdminLogout godoc
//
//	@Summary		Admin Logout
//	@Description	Revoke the admin session and clear its cookie.
//	@Tags			Auth
//	@Success		200		{object}	response.ResponseOKModel
//	@Failure		401		{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/auth/admin/logout [delete]
func (m *AuthHandler) AdminLogout(c *fiber.Ctx) error {
	clearCookie(c, util.AdminCookieName)
	token, expiresAt := middleware.GetSession(c)
	if err := m.authService.Logout(token, expiresAt); err != nil {
		logger.Warn("admin token revocation failed", "error", err)
	}
	return response.ResponseOK(c, "")
}

// Register godoc
//
//	@Summary		Register
//	@Description	Create a public account and start its session.
//	@Tags			Auth
//	@Param			body	body		RegisterReq	true	"new account"
//	@Success		201		{object}	response.ResponseOKWithDataModel
//	@Failure		400,403,409	{object}	response.ResponseErrorModel
//	@Router			/v1/auth/register [post]
func (m *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if msg, ok := parseBody(c, &req); !ok {
		return response.ResponseError(c, msg, fiber.StatusBadRequest)
	}

	session, err := m.authService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		return sendError(c, err)
	}

	setCookie(c, util.PublicUserCookieName, session.Token, session.ExpiresAt)
	return response.ResponseCreated(c, SessionRes{User: session.User.ToProfile(), ExpiresAt: session.ExpiresAt})
}

// Login godoc
//
//	@Summary		Login
//	@Description	Sign in a public user. Admin accounts are refused.
//	@Tags			Auth
//	@Param			body	body		LoginReq	true	"credentials"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,403	{object}	response.ResponseErrorModel
//	@Router			/v1/auth/login [post]
func (m *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if msg, ok := parseBody(c, &req); !ok {
		return response.ResponseError(c, msg, fiber.StatusBadRequest)
	}

	session, err := m.authService.UserLogin(req.Email, req.Password)
	if err != nil {
		return sendError(c, err)
	}

	setCookie(c, util.PublicUserCookieName, session.Token, session.ExpiresAt)
	return response.ResponseOKWithData(c, SessionRes{User: session.User.ToProfile(), ExpiresAt: session.ExpiresAt})
}

// Logout godoc
//
//	@Summary		Logout
//	@Description	Clear the public session cookie and blacklist its token.
//	@Tags			Auth
//	@Success		200		{object}	response.ResponseOKModel
//	@Router			/v1/auth/logout [post]
func (m *AuthHandler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(util.PublicUserCookieName, "")
	clearCookie(c, util.PublicUserCookieName)
	if token != "" {
		if claims, err := util.VerifyPublicUserToken(token); err == nil {
			if err = m.authService.Logout(token, claims.ExpiresAt.Time); err != nil {
				logger.Warn("public token revocation failed", "error", err)
			}
		}
	}
	return response.ResponseOK(c, "")
}

// Me godoc
//
//	@Summary		Current User
//	@Description	Profile of the signed in public user, with favorites, watchlist, watched and liked sets.
//	@Tags			Auth
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		401,404	{object}	response.ResponseErrorModel
//	@Router			/v1/auth/me [get]
func (m *AuthHandler) Me(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}
	profile, err := m.userService.GetProfile(userId)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, profile)
}

//------------------------------------------
//------------------------------------------

func setCookie(c *fiber.Ctx, name string, value string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		Secure:   configs.GetConfigs().CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   configs.GetConfigs().CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
