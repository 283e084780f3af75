package handler

import (
	"series_guide/internal/service"
	"series_guide/model"
	"series_guide/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type ISeriesHandler interface {
	GetSeries(c *fiber.Ctx) error
	GetSerieBySlug(c *fiber.Ctx) error
	GetSerieById(c *fiber.Ctx) error
	GetSerieAnalysis(c *fiber.Ctx) error
	CreateSerie(c *fiber.Ctx) error
	UpdateSerie(c *fiber.Ctx) error
	DeleteSerie(c *fiber.Ctx) error
}

type SeriesHandler struct {
	seriesService   service.ISeriesService
	analysisService service.IAnalysisService
}

func NewSeriesHandler(seriesService service.ISeriesService, analysisService service.IAnalysisService) *SeriesHandler {
	return &SeriesHandler{
		seriesService:   seriesService,
		analysisService: analysisService,
	}
}

//------------------------------------------
//------------------------------------------

// GetSeries godoc
//
//	@Summary		Series
//	@Description	List series sorted by title. lgbtq=true matches the flag or the LGBTIQ+ genre tag.
//	@Tags			Series
//	@Param			genre		query		string	false	"genre, case insensitive"
//	@Param			platform	query		string	false	"streaming platform name"
//	@Param			lgbtq		query		bool	false	"only LGBTIQ+ series"
//	@Param			q			query		string	false	"text search"
//	@Param			page		query		int		false	"page"
//	@Param			limit		query		int		false	"limit"
//	@Success		200			{object}	response.ResponseOKWithDataModel
//	@Failure		500			{object}	response.ResponseErrorModel
//	@Router			/v1/series [get]
func (m *SeriesHandler) GetSeries(c *fiber.Ctx) error {
	filter := model.SerieFilter{
		Genre:    c.Query("genre", ""),
		Platform: c.Query("platform", ""),
		Lgbtq:    c.QueryBool("lgbtq", false),
		Query:    c.Query("q", ""),
	}
	page, limit := pageQuery(c)
	result, err := m.seriesService.ListSeries(filter, page, limit)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, result)
}

// GetSerieBySlug godoc
//
//	@Summary		Serie
//	@Description	Get a serie by slug.
//	@Tags			Series
//	@Param			slug	path		string	true	"serie slug"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400,404	{object}	response.ResponseErrorModel
//	@Router			/v1/series/{slug} [get]
func (m *SeriesHandler) GetSerieBySlug(c *fiber.Ctx) error {
	serie, err := m.seriesService.GetSerieBySlug(c.Params("slug", ""))
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, serie)
}

// GetSerieById godoc
//
//	@Summary		Serie By Id
//	@Description	Get a serie by its document id.
//	@Tags			Series
//	@Param			id		path		string	true	"serie id"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400,404	{object}	response.ResponseErrorModel
//	@Router			/v1/series/id/{id} [get]
func (m *SeriesHandler) GetSerieById(c *fiber.Ctx) error {
	serie, err := m.seriesService.GetSerieById(c.Params("id", ""))
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, serie)
}

// GetSerieAnalysis godoc
//
//	@Summary		Serie Analysis
//	@Description	Published analyses about a serie, matched by serie slug, tags, title or content.
//	@Tags			Series
//	@Param			slug	path		string	true	"serie slug"
//	@Param			limit	query		int		false	"limit"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400		{object}	response.ResponseErrorModel
//	@Router			/v1/series/{slug}/analysis [get]
func (m *SeriesHandler) GetSerieAnalysis(c *fiber.Ctx) error {
	result, err := m.analysisService.GetBySerie(c.Params("slug", ""), int64(c.QueryInt("limit", 0)))
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, result)
}

//------------------------------------------
//------------------------------------------

// CreateSerie godoc
//
//	@Summary		Create Serie
//	@Description	Slug is derived from the title when missing. The LGBTIQ+ flag and genre tag are kept in sync.
//	@Tags			Admin-Series
//	@Param			body	body		model.SerieReq	true	"serie"
//	@Success		201		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,403,409	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/series [post]
func (m *SeriesHandler) CreateSerie(c *fiber.Ctx) error {
	var req model.SerieReq
	if msg, ok := parseBody(c, &req); !ok {
		return response.ResponseError(c, msg, fiber.StatusBadRequest)
	}
	serie, err := m.seriesService.CreateSerie(&req)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseCreated(c, serie)
}

// UpdateSerie godoc
//
//	@Summary		Update Serie
//	@Description	Replace the editable fields of a serie.
//	@Tags			Admin-Series
//	@Param			id		path		string			true	"serie id"
//	@Param			body	body		model.SerieReq	true	"serie"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,403,404,409	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/series/{id} [put]
func (m *SeriesHandler) UpdateSerie(c *fiber.Ctx) error {
	var req model.SerieReq
	if msg, ok := parseBody(c, &req); !ok {
		return response.ResponseError(c, msg, fiber.StatusBadRequest)
	}
	serie, err := m.seriesService.UpdateSerie(c.Params("id", ""), &req)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, serie)
}

// DeleteSerie godoc
//
//	@Summary		Delete Serie
//	@Tags			Admin-Series
//	@Param			id		path		string	true	"serie id"
//	@Success		200		{object}	response.ResponseOKModel
//	@Failure		400,401,403,404	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/series/{id} [delete]
func (m *SeriesHandler) DeleteSerie(c *fiber.Ctx) error {
	if err := m.seriesService.DeleteSerie(c.Params("id", "")); err != nil {
		return sendError(c, err)
	}
	return response.ResponseOK(c, "")
}
