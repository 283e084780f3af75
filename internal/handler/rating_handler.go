package handler

import (
	"series_guide/internal/service"
	"series_guide/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type IRatingHandler interface {
	Rate(c *fiber.Ctx) error
	GetRatings(c *fiber.Ctx) error
	DeleteRating(c *fiber.Ctx) error
	GetBatch(c *fiber.Ctx) error
	GetTopRated(c *fiber.Ctx) error
	GetTopReviewers(c *fiber.Ctx) error
}

type RatingHandler struct {
	ratingService service.IRatingService
}

func NewRatingHandler(ratingService service.IRatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

type RateReq struct {
	SerieSlug string `json:"serieSlug" validate:"required"`
	Rating    int    `json:"rating"`
	Review    string `json:"review"`
}

type UserRatingRes struct {
	Rating interface{} `json:"rating"`
}

//------------------------------------------
//------------------------------------------

// Rate godoc
//
//	@Summary		Rate Serie
//	@Description	Create or replace the caller's rating (1 to 5) of a serie.
//	@Tags			Ratings
//	@Param			body	body		RateReq	true	"rating"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401	{object}	response.ResponseErrorModel
//	@Router			/v1/ratings [post]
func (m *RatingHandler) Rate(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}
	var req RateReq
	if msg, ok := parseBody(c, &req); !ok {
		return response.ResponseError(c, msg, fiber.StatusBadRequest)
	}
	rating, err := m.ratingService.Rate(userId, req.SerieSlug, req.Rating, req.Review)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, rating)
}

// GetRatings godoc
//
//	@Summary		Ratings
//	@Description	action=stats (default) gives average and distribution, action=user the caller's rating, action=list the paginated reviews.
//	@Tags			Ratings
//	@Param			serieSlug	query		string	true	"serie slug"
//	@Param			action		query		string	false	"stats | user | list"
//	@Param			page		query		int		false	"page"
//	@Param			limit		query		int		false	"limit"
//	@Success		200			{object}	response.ResponseOKWithDataModel
//	@Failure		400,401		{object}	response.ResponseErrorModel
//	@Router			/v1/ratings [get]
func (m *RatingHandler) GetRatings(c *fiber.Ctx) error {
	serieSlug := c.Query("serieSlug", "")
	switch c.Query("action", "stats") {
	case "stats":
		stats, err := m.ratingService.GetStats(serieSlug)
		if err != nil {
			return sendError(c, err)
		}
		return response.ResponseOKWithData(c, stats)
	case "user":
		userId, ok := currentUserId(c)
		if !ok {
			return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
		}
		rating, err := m.ratingService.GetUserRating(userId, serieSlug)
		if err != nil {
			return sendError(c, err)
		}
		return response.ResponseOKWithData(c, UserRatingRes{Rating: rating})
	case "list":
		page, limit := pageQuery(c)
		result, err := m.ratingService.ListSerieRatings(serieSlug, page, limit)
		if err != nil {
			return sendError(c, err)
		}
		return response.ResponseOKWithData(c, result)
	default:
		return response.ResponseError(c, response.InvalidAction, fiber.StatusBadRequest)
	}
}

// DeleteRating godoc
//
//	@Summary		Delete Rating
//	@Tags			Ratings
//	@Param			serieSlug	query		string	true	"serie slug"
//	@Success		200			{object}	response.ResponseOKModel
//	@Failure		400,401,404	{object}	response.ResponseErrorModel
//	@Router			/v1/ratings [delete]
func (m *RatingHandler) DeleteRating(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}
	if err := m.ratingService.Delete(userId, c.Query("serieSlug", "")); err != nil {
		return sendError(c, err)
	}
	return response.ResponseOK(c, "")
}

// GetBatch godoc
//
//	@Summary		Batch Ratings
//	@Description	Average, total and (with a session) the caller's rating for many series at once. Every requested slug is answered; more than 100 slugs is rejected.
//	@Tags			Ratings
//	@Param			serieSlug	query		string	true	"comma separated slugs"
//	@Success		200			{object}	response.ResponseOKWithDataModel
//	@Failure		400			{object}	response.ResponseErrorModel
//	@Router			/v1/ratings/batch [get]
func (m *RatingHandler) GetBatch(c *fiber.Ctx) error {
	slugs := service.ParseSerieSlugs(c.Query("serieSlug", ""))
	result, err := m.ratingService.BatchStats(slugs, optionalUserId(c))
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, result)
}

// GetTopRated godoc
//
//	@Summary		Top Rated
//	@Description	Series with the best average among those with enough ratings.
//	@Tags			Ratings
//	@Param			limit	query		int	false	"limit"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Router			/v1/ratings/top [get]
func (m *RatingHandler) GetTopRated(c *fiber.Ctx) error {
	result, err := m.ratingService.TopRatedSeries(int64(c.QueryInt("limit", 0)))
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, result)
}

// GetTopReviewers godoc
//
//	@Summary		Top Reviewers
//	@Tags			Ratings
//	@Param			limit	query		int	false	"limit"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Router			/v1/ratings/top-reviewers [get]
func (m *RatingHandler) GetTopReviewers(c *fiber.Ctx) error {
	result, err := m.ratingService.TopReviewers(int64(c.QueryInt("limit", 0)))
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, result)
}
