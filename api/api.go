package api

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"series_guide/api/middleware"
	"series_guide/configs"
	_ "series_guide/docs"
	"series_guide/internal/handler"
	"series_guide/pkg/logger"
	"series_guide/pkg/response"

	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Series   *handler.SeriesHandler
	Analysis *handler.AnalysisHandler
	Rating   *handler.RatingHandler
	Comment  *handler.CommentHandler
	Chat     *handler.ChatHandler
	Blog     *handler.BlogHandler
	Admin    *handler.AdminHandler
}

var router *fiber.App

func InitRouter(h Handlers, auth *middleware.AuthMiddleware) *fiber.App {
	var defaultErrorHandler = func(c *fiber.Ctx, err error) error {
		// Status code defaults to 500
		code := fiber.StatusInternalServerError

		// Retrieve the custom status code if it's a *fiber.Error
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}

		if !strings.Contains(err.Error(), "/favicon.ico") && code >= 500 {
			logger.Error("unhandled request error", "path", c.Path(), "error", err)
		}

		if code >= 500 {
			return response.ResponseError(c, response.ServerError, code)
		}
		return response.ResponseError(c, err.Error(), code)
	}

	engine := html.New("./templates", ".tpl")
	router = fiber.New(fiber.Config{
		UnescapePath: true,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: defaultErrorHandler,
		Views:        engine,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	router.Use(helmet.New())
	router.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return middleware.LocalhostRegex.MatchString(origin) ||
				slices.Index(configs.GetConfigs().CorsAllowedOrigins, origin) != -1 ||
				slices.Index(configs.GetDbConfigs().CorsAllowedOrigins, origin) != -1
		},
		AllowCredentials: true,
	}))
	router.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	router.Use(timeoutMiddleware(time.Second * 10))
	router.Use(recover.New())
	router.Use(compress.New())

	router.Use(fibersentry.New(fibersentry.Config{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	authLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return response.ResponseError(c, "Too many attempts, try again later", fiber.StatusTooManyRequests)
		},
	})

	authRoutes := router.Group("v1/auth")
	{
		authRoutes.Post("/admin/login", authLimiter, h.Auth.AdminLogin)
		authRoutes.Delete("/admin/logout", auth.AdminAuth, h.Auth.AdminLogout)
		authRoutes.Post("/register", authLimiter, h.Auth.Register)
		authRoutes.Post("/login", authLimiter, h.Auth.Login)
		authRoutes.Post("/logout", h.Auth.Logout)
		authRoutes.Get("/me", auth.UserAuth, h.Auth.Me)
	}

	userRoutes := router.Group("v1/users", auth.UserAuth)
	{
		userRoutes.Post("/favorites", h.User.ToggleFavorite)
		userRoutes.Post("/watchlist", h.User.ToggleWatchlist)
		userRoutes.Post("/watched", h.User.ToggleWatched)
		userRoutes.Post("/likes", h.User.ToggleLikedAnalysis)
		userRoutes.Get("/ratings", h.User.GetMyRatings)
		userRoutes.Get("/comments", h.User.GetMyComments)
	}

	seriesRoutes := router.Group("v1/series")
	{
		seriesRoutes.Get("/", h.Series.GetSeries)
		seriesRoutes.Get("/id/:id", h.Series.GetSerieById)
		seriesRoutes.Get("/:slug/analysis", h.Series.GetSerieAnalysis)
		seriesRoutes.Get("/:slug", h.Series.GetSerieBySlug)
	}

	analysisRoutes := router.Group("v1/analysis")
	{
		analysisRoutes.Get("/", h.Analysis.GetPublished)
		analysisRoutes.Get("/search", h.Analysis.Search)
		analysisRoutes.Post("/views", h.Analysis.AddView)
		analysisRoutes.Post("/likes", auth.UserAuth, h.Analysis.UpdateLikes)
		analysisRoutes.Get("/:slug", h.Analysis.GetBySlug)
	}

	ratingRoutes := router.Group("v1/ratings")
	{
		ratingRoutes.Get("/batch", auth.OptionalUser, h.Rating.GetBatch)
		ratingRoutes.Get("/top", h.Rating.GetTopRated)
		ratingRoutes.Get("/top-reviewers", h.Rating.GetTopReviewers)
		ratingRoutes.Get("/", auth.OptionalUser, h.Rating.GetRatings)
		ratingRoutes.Post("/", auth.UserAuth, h.Rating.Rate)
		ratingRoutes.Delete("/", auth.UserAuth, h.Rating.DeleteRating)
	}

	commentRoutes := router.Group("v1/comments")
	{
		commentRoutes.Get("/count", h.Comment.CountComments)
		commentRoutes.Get("/serie/:serieId", auth.OptionalUser, h.Comment.GetSerieComments)
		commentRoutes.Post("/", auth.UserAuth, h.Comment.CreateComment)
		commentRoutes.Put("/:id", auth.UserAuth, h.Comment.UpdateComment)
		commentRoutes.Delete("/:id", auth.UserAuth, h.Comment.DeleteComment)
		commentRoutes.Post("/:id/like", auth.UserAuth, h.Comment.ToggleLike)
	}

	chatRoutes := router.Group("v1/chat")
	{
		chatRoutes.Get("/", h.Chat.GetMessages)
		chatRoutes.Get("/stats", h.Chat.GetStats)
		chatRoutes.Post("/", auth.UserAuth, h.Chat.SendMessage)
		chatRoutes.Put("/:id", auth.UserAuth, h.Chat.EditMessage)
		chatRoutes.Delete("/:id", auth.UserAuth, h.Chat.DeleteMessage)
	}

	blogRoutes := router.Group("v1/blog")
	{
		blogRoutes.Get("/", h.Blog.GetPosts)
		blogRoutes.Get("/count", h.Blog.CountPosts)
		blogRoutes.Get("/:slug", h.Blog.GetPostBySlug)
	}

	adminRoutes := router.Group("v1/admin", auth.AdminAuth, middleware.NoCache)
	{
		adminRoutes.Get("/fetch_configs", h.Admin.FetchDbConfigs)
		adminRoutes.Get("/dashboard", h.Admin.GetDashboard)

		adminRoutes.Get("/users", h.Admin.GetUsers)
		adminRoutes.Put("/users/:id/role", h.Admin.SetUserRole)
		adminRoutes.Put("/users/:id/active", h.Admin.SetUserActive)
		adminRoutes.Delete("/users/:id", h.Admin.DeleteUser)

		adminRoutes.Post("/series", h.Series.CreateSerie)
		adminRoutes.Put("/series/:id", h.Series.UpdateSerie)
		adminRoutes.Delete("/series/:id", h.Series.DeleteSerie)

		adminRoutes.Get("/analysis", h.Analysis.GetAll)
		adminRoutes.Get("/analysis/:id", h.Analysis.GetById)
		adminRoutes.Post("/analysis", h.Analysis.CreateAnalysis)
		adminRoutes.Put("/analysis/:id", h.Analysis.UpdateAnalysis)
		adminRoutes.Delete("/analysis/:id", h.Analysis.DeleteAnalysis)

		adminRoutes.Get("/blog", h.Blog.GetAllPosts)
		adminRoutes.Get("/blog/:id", h.Blog.GetPostById)
		adminRoutes.Post("/blog", h.Blog.CreatePost)
		adminRoutes.Put("/blog/:id", h.Blog.UpdatePost)
		adminRoutes.Delete("/blog/:id", h.Blog.DeletePost)

		adminRoutes.Delete("/comments/:id", h.Comment.ModerateComment)

		adminRoutes.Get("/chat/stats", h.Chat.GetStats)
		adminRoutes.Post("/chat/announce", h.Chat.Announce)
		adminRoutes.Post("/chat/system", h.Chat.SystemMessage)
		adminRoutes.Post("/chat/cleanup", h.Chat.Cleanup)
		adminRoutes.Delete("/chat/:id", h.Chat.AdminDeleteMessage)
	}

	router.Get("/login", func(c *fiber.Ctx) error {
		return c.Render("login", fiber.Map{})
	})
	router.Get("/admin", auth.AdminPage, middleware.NoCache, func(c *fiber.Ctx) error {
		claims := middleware.GetAdminClaims(c)
		return c.Render("admin", fiber.Map{
			"Username": claims.Username,
		})
	})

	router.Get("/", HealthCheck)
	router.Get("/metrics", monitor.New())
	router.Get("/metrics/prometheus", adaptor.HTTPHandler(promhttp.Handler()))

	router.Get("/swagger/*", swagger.HandlerDefault) // default

	return router
}

func Start(addr string) error {
	return router.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func Shutdown(timeout time.Duration) error {
	if router == nil {
		return nil
	}
	return router.ShutdownWithTimeout(timeout)
}

func timeoutMiddleware(timeout time.Duration) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {

		// wrap the request context with a timeout
		ctx, cancel := context.WithTimeout(c.Context(), timeout)

		defer func() {
			// check if context timeout was reached
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				_ = c.SendStatus(fiber.StatusGatewayTimeout)
			}

			cancel()
		}()

		return c.Next()
	}
}

// HealthCheck godoc
//
//	@Summary		Show the status of server.
//	@Description	get the status of server.
//	@Tags			System
//	@Success		200	{object}	map[string]interface{}
//	@Router			/ [get]
func HealthCheck(c *fiber.Ctx) error {
	res := map[string]interface{}{
		"data": "Server is up and running",
	}

	if err := c.JSON(res); err != nil {
		return err
	}

	return nil
}
