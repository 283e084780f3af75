package handler

import (
	"strings"

	"series_guide/internal/service"
	"series_guide/model"
	"series_guide/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type IAnalysisHandler interface {
	GetPublished(c *fiber.Ctx) error
	Search(c *fiber.Ctx) error
	GetBySlug(c *fiber.Ctx) error
	AddView(c *fiber.Ctx) error
	UpdateLikes(c *fiber.Ctx) error
	GetAll(c *fiber.Ctx) error
	GetById(c *fiber.Ctx) error
	CreateAnalysis(c *fiber.Ctx) error
	UpdateAnalysis(c *fiber.Ctx) error
	DeleteAnalysis(c *fiber.Ctx) error
}

type AnalysisHandler struct {
	analysisService service.IAnalysisService
}

func NewAnalysisHandler(analysisService service.IAnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
	}
}

// AnalysisCounterReq addresses an analysis by id or by slug.
type AnalysisCounterReq struct {
	AnalysisId   string                   `json:"analysisId"`
	AnalysisSlug string                   `json:"analysisSlug"`
	Action       model.AnalysisLikeAction `json:"action"`
}

func (r *AnalysisCounterReq) key() string {
	if id := strings.TrimSpace(r.AnalysisId); id != "" {
		return id
	}
	return strings.TrimSpace(r.AnalysisSlug)
}

//------------------------------------------
//------------------------------------------

// GetPublished godoc
//
//	@Summary		Analysis
//	@Description	Published analyses, newest first.
//	@Tags			Analysis
//	@Param			page	query		int	false	"page"
//	@Param			limit	query		int	false	"limit"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Router			/v1/analysis [get]
func (m *AnalysisHandler) GetPublished(c *fiber.Ctx) error {
	page, limit := pageQuery(c)
	result, err := m.analysisService.ListPublished(page, limit)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, result)
}

// Search godoc
//
//	@Summary		Search Analysis
//	@Description	Case insensitive search over title, excerpt, content and tags of published analyses.
//	@Tags			Analysis
//	@Param			q		query		string	true	"search text"
//	@Param			limit	query		int		false	"limit"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Router			/v1/analysis/search [get]
func (m *AnalysisHandler) Search(c *fiber.Ctx) error {
	result, err := m.analysisService.Search(c.Query("q", ""), int64(c.QueryInt("limit", 0)))
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, result)
}

// GetBySlug godoc
//
//	@Summary		Analysis By Slug
//	@Tags			Analysis
//	@Param			slug	path		string	true	"analysis slug"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		404		{object}	response.ResponseErrorModel
//	@Router			/v1/analysis/{slug} [get]
func (m *AnalysisHandler) GetBySlug(c *fiber.Ctx) error {
	analysis, err := m.analysisService.GetBySlug(c.Params("slug", ""))
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, analysis)
}

// AddView godoc
//
//	@Summary		Analysis View
//	@Description	Atomically increment the view counter.
//	@Tags			Analysis
//	@Param			body	body		AnalysisCounterReq	true	"analysisId or analysisSlug"
//	@Success		200		{object}	response.ResponseOKModel
//	@Failure		400,404	{object}	response.ResponseErrorModel
//	@Router			/v1/analysis/views [post]
func (m *AnalysisHandler) AddView(c *fiber.Ctx) error {
	var req AnalysisCounterReq
	if err := c.BodyParser(&req); err != nil {
		return response.ResponseError(c, response.BadRequestBody, fiber.StatusBadRequest)
	}
	if err := m.analysisService.IncrementViews(req.key()); err != nil {
		return sendError(c, err)
	}
	return response.ResponseOK(c, "")
}

// UpdateLikes godoc
//
//	@Summary		Analysis Likes
//	@Description	like/add increments, unlike/remove decrements. The counter never goes below zero. Requires a public session.
//	@Tags			Analysis
//	@Param			body	body		AnalysisCounterReq	true	"analysisId or analysisSlug and action"
//	@Success		200			{object}	response.ResponseOKModel
//	@Failure		400,401,404	{object}	response.ResponseErrorModel
//	@Router			/v1/analysis/likes [post]
func (m *AnalysisHandler) UpdateLikes(c *fiber.Ctx) error {
	var req AnalysisCounterReq
	if err := c.BodyParser(&req); err != nil {
		return response.ResponseError(c, response.BadRequestBody, fiber.StatusBadRequest)
	}
	if err := m.analysisService.ApplyLikeAction(req.key(), req.Action); err != nil {
		return sendError(c, err)
	}
	return response.ResponseOK(c, "")
}

//------------------------------------------
//------------------------------------------

// GetAll godoc
//
//	@Summary		All Analysis
//	@Description	Drafts and published analyses.
//	@Tags			Admin-Analysis
//	@Param			page	query		int	false	"page"
//	@Param			limit	query		int	false	"limit"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		401,403	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/analysis [get]
func (m *AnalysisHandler) GetAll(c *fiber.Ctx) error {
	page, limit := pageQuery(c)
	result, err := m.analysisService.ListAll(page, limit)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, result)
}

// GetById godoc
//
//	@Summary		Analysis By Id
//	@Tags			Admin-Analysis
//	@Param			id		path		string	true	"analysis id"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,403,404	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/analysis/{id} [get]
func (m *AnalysisHandler) GetById(c *fiber.Ctx) error {
	analysis, err := m.analysisService.GetById(c.Params("id", ""))
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, analysis)
}

// CreateAnalysis godoc
//
//	@Summary		Create Analysis
//	@Tags			Admin-Analysis
//	@Param			body	body		model.AnalysisReq	true	"analysis"
//	@Success		201		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,403,409	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/analysis [post]
func (m *AnalysisHandler) CreateAnalysis(c *fiber.Ctx) error {
	var req model.AnalysisReq
	if msg, ok := parseBody(c, &req); !ok {
		return response.ResponseError(c, msg, fiber.StatusBadRequest)
	}
	analysis, err := m.analysisService.CreateAnalysis(&req)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseCreated(c, analysis)
}

// UpdateAnalysis godoc
//
//	@Summary		Update Analysis
//	@Description	Views and likes are not editable.
//	@Tags			Admin-Analysis
//	@Param			id		path		string				true	"analysis id"
//	@Param			body	body		model.AnalysisReq	true	"analysis"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,403,404,409	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/analysis/{id} [put]
func (m *AnalysisHandler) UpdateAnalysis(c *fiber.Ctx) error {
	var req model.AnalysisReq
	if msg, ok := parseBody(c, &req); !ok {
		return response.ResponseError(c, msg, fiber.StatusBadRequest)
	}
	analysis, err := m.analysisService.UpdateAnalysis(c.Params("id", ""), &req)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, analysis)
}

// DeleteAnalysis godoc
//
//	@Summary		Delete Analysis
//	@Tags			Admin-Analysis
//	@Param			id		path		string	true	"analysis id"
//	@Success		200		{object}	response.ResponseOKModel
//	@Failure		400,401,403,404	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/analysis/{id} [delete]
func (m *AnalysisHandler) DeleteAnalysis(c *fiber.Ctx) error {
	if err := m.analysisService.DeleteAnalysis(c.Params("id", "")); err != nil {
		return sendError(c, err)
	}
	return response.ResponseOK(c, "")
}
