package handler

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"series_guide/api/middleware"
	"series_guide/internal/service"
	"series_guide/model"
	"series_guide/pkg/response"
	"series_guide/util"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubAuthService struct {
	service.IAuthService
	user      *model.User
	err       error
	logoutErr error
	revoked   []string
}

func (s *stubAuthService) session() (*service.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.Session{User: s.user, Token: "signed-token", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *stubAuthService) AdminLogin(string, string) (*service.Session, error) { return s.session() }
func (s *stubAuthService) UserLogin(string, string) (*service.Session, error)  { return s.session() }

func (s *stubAuthService) Logout(token string, _ time.Time) error {
	if s.logoutErr != nil {
		return s.logoutErr
	}
	s.revoked = append(s.revoked, token)
	return nil
}

func (s *stubAuthService) IsTokenRevoked(string) bool { return false }

type stubRatingService struct {
	service.IRatingService
	userRating *model.Rating
	slugs      []string
	batchUser  *primitive.ObjectID
}

func (s *stubRatingService) GetStats(serieSlug string) (*model.RatingStats, error) {
	if serieSlug == "" {
		return nil, service.ErrMissingSlug
	}
	return model.EmptyRatingStats(serieSlug), nil
}

func (s *stubRatingService) GetUserRating(primitive.ObjectID, string) (*model.Rating, error) {
	return s.userRating, nil
}

func (s *stubRatingService) BatchStats(slugs []string, userId *primitive.ObjectID) (map[string]model.BatchRatingItem, error) {
	s.slugs = slugs
	s.batchUser = userId
	result := make(map[string]model.BatchRatingItem)
	for _, slug := range slugs {
		result[slug] = model.BatchRatingItem{}
	}
	return result, nil
}

func decode(t *testing.T, res *http.Response) map[string]interface{} {
	t.Helper()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	out := map[string]interface{}{}
	if err = json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return out
}

func findCookie(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

//------------------------------------------
//------------------------------------------

func TestSendErrorMapsKinds(t *testing.T) {
	tests := []struct {
		err     error
		code    int
		message string
	}{
		{service.ErrInvalidRating, fiber.StatusBadRequest, response.InvalidRating},
		{service.ErrInvalidCredentials, fiber.StatusUnauthorized, response.UserPassNotMatch},
		{service.ErrUseAdminPanel, fiber.StatusForbidden, response.AdminUseAdminPanel},
		{service.ErrSerieNotFound, fiber.StatusNotFound, response.SerieNotFound},
		{service.ErrSlugTaken, fiber.StatusConflict, response.SlugAlreadyExist},
		{service.ErrServer, fiber.StatusInternalServerError, response.ServerError},
		{errors.New("E11000 duplicate key error collection: users"), fiber.StatusInternalServerError, response.ServerError},
	}

	for _, tt := range tests {
		app := fiber.New()
		err := tt.err
		app.Get("/", func(c *fiber.Ctx) error { return sendError(c, err) })

		res, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		if res.StatusCode != tt.code {
			t.Errorf("%v: status = %d, want %d", tt.err, res.StatusCode, tt.code)
		}
		body := decode(t, res)
		if body["errorMessage"] != tt.message || body["success"] != false {
			t.Errorf("%v: body = %v", tt.err, body)
		}
	}
}

func TestLoginSetsPublicCookie(t *testing.T) {
	user := model.NewUser("ana", "ana@example.com", "hash", model.UserRoleName)
	user.Id = primitive.NewObjectID()
	h := NewAuthHandler(&stubAuthService{user: user}, nil)

	app := fiber.New()
	app.Post("/login", h.Login)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"ana@example.com","password":"Secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)

	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	cookie := findCookie(res, util.PublicUserCookieName)
	if cookie == nil || cookie.Value != "signed-token" || !cookie.HttpOnly {
		t.Fatalf("cookie = %+v", cookie)
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("samesite = %v", cookie.SameSite)
	}
	data := decode(t, res)["data"].(map[string]interface{})
	if _, leaked := data["user"].(map[string]interface{})["password"]; leaked {
		t.Error("password hash leaked in login response")
	}
}

func TestLoginErrorsAreMapped(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: service.ErrUseAdminPanel}, nil)
	app := fiber.New()
	app.Post("/login", h.Login)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"root@example.com","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want 403", res.StatusCode)
	}
	if findCookie(res, util.PublicUserCookieName) != nil {
		t.Error("cookie set on failed login")
	}

	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":""}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Errorf("missing fields: status = %d, want 400", res.StatusCode)
	}
}

func TestAdminLoginReplacesPublicSession(t *testing.T) {
	admin := model.NewUser("root", "root@example.com", "hash", model.AdminRole)
	admin.Id = primitive.NewObjectID()
	h := NewAuthHandler(&stubAuthService{user: admin}, nil)

	app := fiber.New()
	app.Post("/admin/login", h.AdminLogin)
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"username":"root","password":"Secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: util.PublicUserCookieName, Value: "old"})
	res, _ := app.Test(req)

	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if c := findCookie(res, util.AdminCookieName); c == nil || c.Value != "signed-token" {
		t.Errorf("admin cookie = %+v", c)
	}
	if c := findCookie(res, util.PublicUserCookieName); c == nil || c.Value != "" {
		t.Errorf("public cookie not cleared: %+v", c)
	}
}

func TestLogoutRevokesValidToken(t *testing.T) {
	token, _, err := util.CreatePublicUserToken(primitive.NewObjectID().Hex(), "ana", "ana@example.com")
	if err != nil {
		t.Fatal(err)
	}
	auth := &stubAuthService{}
	h := NewAuthHandler(auth, nil)
	app := fiber.New()
	app.Post("/logout", h.Logout)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: util.PublicUserCookieName, Value: token})
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if len(auth.revoked) != 1 || auth.revoked[0] != token {
		t.Errorf("revoked = %v", auth.revoked)
	}

	res, _ = app.Test(httptest.NewRequest(http.MethodPost, "/logout", nil))
	if res.StatusCode != fiber.StatusOK || len(auth.revoked) != 1 {
		t.Errorf("logout without session: status = %d revoked = %d", res.StatusCode, len(auth.revoked))
	}
}

func TestLogoutClearsCookieWhenRevocationFails(t *testing.T) {
	token, _, err := util.CreatePublicUserToken(primitive.NewObjectID().Hex(), "ana", "ana@example.com")
	if err != nil {
		t.Fatal(err)
	}
	h := NewAuthHandler(&stubAuthService{logoutErr: service.ErrServer}, nil)
	app := fiber.New()
	app.Post("/logout", h.Logout)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: util.PublicUserCookieName, Value: token})
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", res.StatusCode)
	}
	if c := findCookie(res, util.PublicUserCookieName); c == nil || c.Value != "" {
		t.Errorf("public cookie not cleared: %+v", c)
	}
}

func TestRatingActions(t *testing.T) {
	ratings := &stubRatingService{}
	h := NewRatingHandler(ratings)
	auth := middleware.NewAuthMiddleware(&stubAuthService{})

	app := fiber.New()
	app.Get("/ratings", auth.OptionalUser, h.GetRatings)
	app.Get("/ratings/batch", auth.OptionalUser, h.GetBatch)

	res, _ := app.Test(httptest.NewRequest(http.MethodGet, "/ratings?serieSlug=dark", nil))
	if res.StatusCode != fiber.StatusOK {
		t.Errorf("stats: status = %d", res.StatusCode)
	}
	res, _ = app.Test(httptest.NewRequest(http.MethodGet, "/ratings?serieSlug=dark&action=user", nil))
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("user action without session: status = %d", res.StatusCode)
	}
	res, _ = app.Test(httptest.NewRequest(http.MethodGet, "/ratings?serieSlug=dark&action=bogus", nil))
	if res.StatusCode != fiber.StatusBadRequest {
		t.Errorf("unknown action: status = %d", res.StatusCode)
	}
	res, _ = app.Test(httptest.NewRequest(http.MethodGet, "/ratings", nil))
	if res.StatusCode != fiber.StatusBadRequest {
		t.Errorf("missing slug: status = %d", res.StatusCode)
	}

	userId := primitive.NewObjectID()
	token, _, _ := util.CreatePublicUserToken(userId.Hex(), "ana", "ana@example.com")
	req := httptest.NewRequest(http.MethodGet, "/ratings/batch?serieSlug=a,b,,a", nil)
	req.AddCookie(&http.Cookie{Name: util.PublicUserCookieName, Value: token})
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("batch: status = %d", res.StatusCode)
	}
	if strings.Join(ratings.slugs, ",") != "a,b" {
		t.Errorf("slugs = %v", ratings.slugs)
	}
	if ratings.batchUser == nil || *ratings.batchUser != userId {
		t.Errorf("batch user = %v", ratings.batchUser)
	}
}

func TestParseBodyReportsValidation(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		var req SetRoleReq
		if msg, ok := parseBody(c, &req); !ok {
			return response.ResponseError(c, msg, fiber.StatusBadRequest)
		}
		return response.ResponseOK(c, "")
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"role":"owner"}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if msg, _ := decode(t, res)["errorMessage"].(string); !strings.Contains(msg, "Role") {
		t.Errorf("message = %q", msg)
	}
}
