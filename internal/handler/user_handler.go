package handler

import (
	"series_guide/internal/service"
	"series_guide/model"
	"series_guide/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type IUserHandler interface {
	ToggleFavorite(c *fiber.Ctx) error
	ToggleWatchlist(c *fiber.Ctx) error
	ToggleWatched(c *fiber.Ctx) error
	ToggleLikedAnalysis(c *fiber.Ctx) error
	GetMyRatings(c *fiber.Ctx) error
	GetMyComments(c *fiber.Ctx) error
}

type UserHandler struct {
	userService    service.IUserService
	ratingService  service.IRatingService
	commentService service.ICommentService
}

func NewUserHandler(userService service.IUserService, ratingService service.IRatingService,
	commentService service.ICommentService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		ratingService:  ratingService,
		commentService: commentService,
	}
}

type SerieToggleReq struct {
	SerieSlug string             `json:"serieSlug" validate:"required"`
	Action    model.ToggleAction `json:"action" validate:"required"`
}

type AnalysisToggleReq struct {
	AnalysisId string             `json:"analysisId" validate:"required"`
	Action     model.ToggleAction `json:"action" validate:"required"`
}

//------------------------------------------
//------------------------------------------

// ToggleFavorite godoc
//
//	@Summary		Favorites
//	@Description	Add or remove a serie from the user's favorites. Repeating an action is a no-op.
//	@Tags			User
//	@Param			body	body		SerieToggleReq	true	"serie and action"
//	@Success		200		{object}	response.ResponseOKModel
//	@Failure		400,401,404	{object}	response.ResponseErrorModel
//	@Router			/v1/users/favorites [post]
func (m *UserHandler) ToggleFavorite(c *fiber.Ctx) error {
	return m.toggleSerie(c, model.FavoritesSeriesField)
}

// ToggleWatchlist godoc
//
//	@Summary		Watchlist
//	@Description	Add or remove a serie from the user's watchlist.
//	@Tags			User
//	@Param			body	body		SerieToggleReq	true	"serie and action"
//	@Success		200		{object}	response.ResponseOKModel
//	@Failure		400,401,404	{object}	response.ResponseErrorModel
//	@Router			/v1/users/watchlist [post]
func (m *UserHandler) ToggleWatchlist(c *fiber.Ctx) error {
	return m.toggleSerie(c, model.WatchlistSeriesField)
}

// ToggleWatched godoc
//
//	@Summary		Watched
//	@Description	Mark or unmark a serie as watched.
//	@Tags			User
//	@Param			body	body		SerieToggleReq	true	"serie and action"
//	@Success		200		{object}	response.ResponseOKModel
//	@Failure		400,401,404	{object}	response.ResponseErrorModel
//	@Router			/v1/users/watched [post]
func (m *UserHandler) ToggleWatched(c *fiber.Ctx) error {
	return m.toggleSerie(c, model.WatchedSeriesField)
}

func (m *UserHandler) toggleSerie(c *fiber.Ctx, field model.UserSetField) error {
	var req SerieToggleReq
	if msg, ok := parseBody(c, &req); !ok {
		return response.ResponseError(c, msg, fiber.StatusBadRequest)
	}
	return m.toggle(c, field, req.SerieSlug, req.Action)
}

// ToggleLikedAnalysis godoc
//
//	@Summary		Liked Analysis
//	@Description	Add or remove an analysis from the user's liked set. Counters are updated through /v1/analysis/likes.
//	@Tags			User
//	@Param			body	body		AnalysisToggleReq	true	"analysis and action"
//	@Success		200		{object}	response.ResponseOKModel
//	@Failure		400,401,404	{object}	response.ResponseErrorModel
//	@Router			/v1/users/likes [post]
func (m *UserHandler) ToggleLikedAnalysis(c *fiber.Ctx) error {
	var req AnalysisToggleReq
	if msg, ok := parseBody(c, &req); !ok {
		return response.ResponseError(c, msg, fiber.StatusBadRequest)
	}
	return m.toggle(c, model.LikedAnalysisField, req.AnalysisId, req.Action)
}

func (m *UserHandler) toggle(c *fiber.Ctx, field model.UserSetField, item string, action model.ToggleAction) error {
	userId, ok := currentUserId(c)
	if !ok {
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}
	if err := m.userService.ToggleSet(userId, field, item, action); err != nil {
		return sendError(c, err)
	}
	return response.ResponseOK(c, "")
}

// GetMyRatings godoc
//
//	@Summary		My Ratings
//	@Description	Ratings written by the signed in user, newest first.
//	@Tags			User
//	@Param			page	query		int	false	"page"
//	@Param			limit	query		int	false	"limit"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		401		{object}	response.ResponseErrorModel
//	@Router			/v1/users/ratings [get]
func (m *UserHandler) GetMyRatings(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}
	page, limit := pageQuery(c)
	ratings, err := m.ratingService.ListUserRatings(userId, page, limit)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, ratings)
}

// GetMyComments godoc
//
//	@Summary		My Comments
//	@Description	Comments written by the signed in user, newest first.
//	@Tags			User
//	@Param			page	query		int	false	"page"
//	@Param			limit	query		int	false	"limit"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		401		{object}	response.ResponseErrorModel
//	@Router			/v1/users/comments [get]
func (m *UserHandler) GetMyComments(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}
	page, limit := pageQuery(c)
	comments, err := m.commentService.ListForUser(userId, page, limit)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, comments)
}
