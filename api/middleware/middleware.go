package middleware

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"series_guide/pkg/response"
	"series_guide/util"

	"github.com/gofiber/fiber/v2"
)

// RevocationChecker reports tokens blacklisted by a logout.
type RevocationChecker interface {
	IsTokenRevoked(token string) bool
}

const (
	adminClaimsKey = "adminClaims"
	userClaimsKey  = "userClaims"
	sessionKey     = "sessionToken"
	sessionExpKey  = "sessionExpiresAt"
)

type AuthMiddleware struct {
	revocation RevocationChecker
}

func NewAuthMiddleware(revocation RevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{
		revocation: revocation,
	}
}

//------------------------------------------
//------------------------------------------

// AdminAuth guards the admin api. A missing or broken admin session is 401,
// any session that is not an admin one is 403.
func (m *AuthMiddleware) AdminAuth(c *fiber.Ctx) error {
	token := readToken(c, util.AdminCookieName)
	if token == "" {
		if m.publicClaims(c) != nil {
			return response.ResponseError(c, response.AdminOnly, fiber.StatusForbidden)
		}
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}

	claims, status := m.adminClaims(token)
	if claims == nil {
		if status == fiber.StatusForbidden {
			return response.ResponseError(c, response.AdminOnly, fiber.StatusForbidden)
		}
		return response.ResponseError(c, response.InvalidSession, fiber.StatusUnauthorized)
	}

	c.Locals(adminClaimsKey, claims)
	c.Locals(sessionKey, token)
	c.Locals(sessionExpKey, expiresAt(claims.ExpiresAt.Time))
	return c.Next()
}

func (m *AuthMiddleware) UserAuth(c *fiber.Ctx) error {
	token := readToken(c, util.PublicUserCookieName)
	if token == "" {
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}

	claims, err := util.VerifyPublicUserToken(token)
	if err != nil || m.revoked(token) {
		return response.ResponseError(c, response.InvalidSession, fiber.StatusUnauthorized)
	}

	c.Locals(userClaimsKey, claims)
	c.Locals(sessionKey, token)
	c.Locals(sessionExpKey, expiresAt(claims.ExpiresAt.Time))
	return c.Next()
}

// OptionalUser attaches the public session when one is valid and never rejects.
func (m *AuthMiddleware) OptionalUser(c *fiber.Ctx) error {
	if claims := m.publicClaims(c); claims != nil {
		c.Locals(userClaimsKey, claims)
	}
	return c.Next()
}

// AdminPage guards the server rendered admin panel.
func (m *AuthMiddleware) AdminPage(c *fiber.Ctx) error {
	if token := c.Cookies(util.AdminCookieName, ""); token != "" {
		if claims, _ := m.adminClaims(token); claims != nil {
			c.Locals(adminClaimsKey, claims)
			return c.Next()
		}
	}
	if m.publicClaims(c) != nil {
		return c.Status(fiber.StatusForbidden).SendString("Access denied: admin session required")
	}
	return c.Redirect("/login", fiber.StatusFound)
}

// NoCache marks admin responses as private and uncacheable.
func NoCache(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate, private")
	c.Set(fiber.HeaderPragma, "no-cache")
	c.Set(fiber.HeaderExpires, "0")
	c.Set("X-Robots-Tag", "noindex, nofollow")
	return c.Next()
}

//------------------------------------------
//------------------------------------------

func (m *AuthMiddleware) adminClaims(token string) (*util.AdminJwtClaims, int) {
	claims, err := util.VerifyAdminToken(token)
	if err != nil {
		if errors.Is(err, util.ErrRoleMismatch) {
			return nil, fiber.StatusForbidden
		}
		return nil, fiber.StatusUnauthorized
	}
	if m.revoked(token) {
		return nil, fiber.StatusUnauthorized
	}
	return claims, fiber.StatusOK
}

func (m *AuthMiddleware) publicClaims(c *fiber.Ctx) *util.PublicUserJwtClaims {
	token := readToken(c, util.PublicUserCookieName)
	if token == "" {
		return nil
	}
	claims, err := util.VerifyPublicUserToken(token)
	if err != nil || m.revoked(token) {
		return nil
	}
	return claims
}

func (m *AuthMiddleware) revoked(token string) bool {
	return m.revocation != nil && m.revocation.IsTokenRevoked(token)
}

// readToken prefers the session cookie and falls back to a bearer header.
func readToken(c *fiber.Ctx, cookieName string) string {
	if token := c.Cookies(cookieName, ""); token != "" {
		return token
	}
	header := c.Get(fiber.HeaderAuthorization, "")
	parts := strings.Split(header, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

func expiresAt(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().Add(util.SessionDuration)
	}
	return t
}

//------------------------------------------
//------------------------------------------

func GetAdminClaims(c *fiber.Ctx) *util.AdminJwtClaims {
	claims, _ := c.Locals(adminClaimsKey).(*util.AdminJwtClaims)
	return claims
}

func GetUserClaims(c *fiber.Ctx) *util.PublicUserJwtClaims {
	claims, _ := c.Locals(userClaimsKey).(*util.PublicUserJwtClaims)
	return claims
}

// GetSession returns the raw token and its expiry for the authenticated request.
func GetSession(c *fiber.Ctx) (string, time.Time) {
	token, _ := c.Locals(sessionKey).(string)
	exp, _ := c.Locals(sessionExpKey).(time.Time)
	return token, exp
}

var (
	LocalhostRegex = regexp.MustCompile(`(?i)^(https?://)?localhost(:\d{4})?$`)
)
