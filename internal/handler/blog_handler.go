package handler

import (
	"series_guide/internal/service"
	"series_guide/model"
	"series_guide/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type IBlogHandler interface {
	GetPosts(c *fiber.Ctx) error
	CountPosts(c *fiber.Ctx) error
	GetPostBySlug(c *fiber.Ctx) error
	GetAllPosts(c *fiber.Ctx) error
	GetPostById(c *fiber.Ctx) error
	CreatePost(c *fiber.Ctx) error
	UpdatePost(c *fiber.Ctx) error
	DeletePost(c *fiber.Ctx) error
}

type BlogHandler struct {
	blogService service.IBlogService
}

func NewBlogHandler(blogService service.IBlogService) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
	}
}

//------------------------------------------
//------------------------------------------

// GetPosts godoc
//
//	@Summary		Blog
//	@Description	Published posts, newest publication first.
//	@Tags			Blog
//	@Param			category	query		string	false	"news | analysis | interview | editorial"
//	@Param			page		query		int		false	"page"
//	@Param			limit		query		int		false	"limit"
//	@Success		200			{object}	response.ResponseOKWithDataModel
//	@Failure		400			{object}	response.ResponseErrorModel
//	@Router			/v1/blog [get]
func (m *BlogHandler) GetPosts(c *fiber.Ctx) error {
	page, limit := pageQuery(c)
	result, err := m.blogService.ListPublished(model.BlogCategory(c.Query("category", "")), page, limit)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, result)
}

// CountPosts godoc
//
//	@Summary		Count Posts
//	@Tags			Blog
//	@Param			category	query		string	false	"category"
//	@Success		200			{object}	response.ResponseOKWithDataModel
//	@Failure		400			{object}	response.ResponseErrorModel
//	@Router			/v1/blog/count [get]
func (m *BlogHandler) CountPosts(c *fiber.Ctx) error {
	count, err := m.blogService.CountPublished(model.BlogCategory(c.Query("category", "")))
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, CountRes{Count: count})
}

// GetPostBySlug godoc
//
//	@Summary		Blog Post
//	@Tags			Blog
//	@Param			slug	path		string	true	"post slug"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		404		{object}	response.ResponseErrorModel
//	@Router			/v1/blog/{slug} [get]
func (m *BlogHandler) GetPostBySlug(c *fiber.Ctx) error {
	post, err := m.blogService.GetBySlug(c.Params("slug", ""))
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, post)
}

//------------------------------------------
//------------------------------------------

// GetAllPosts godoc
//
//	@Summary		All Posts
//	@Description	Drafts and published posts.
//	@Tags			Admin-Blog
//	@Param			page	query		int	false	"page"
//	@Param			limit	query		int	false	"limit"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		401,403	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/blog [get]
func (m *BlogHandler) GetAllPosts(c *fiber.Ctx) error {
	page, limit := pageQuery(c)
	result, err := m.blogService.ListAll(page, limit)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, result)
}

// GetPostById godoc
//
//	@Summary		Post By Id
//	@Tags			Admin-Blog
//	@Param			id		path		string	true	"post id"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,403,404	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/blog/{id} [get]
func (m *BlogHandler) GetPostById(c *fiber.Ctx) error {
	post, err := m.blogService.GetById(c.Params("id", ""))
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, post)
}

// CreatePost godoc
//
//	@Summary		Create Post
//	@Description	Publishing stamps publishedAt once.
//	@Tags			Admin-Blog
//	@Param			body	body		model.BlogPostReq	true	"post"
//	@Success		201		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,403,409	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/blog [post]
func (m *BlogHandler) CreatePost(c *fiber.Ctx) error {
	var req model.BlogPostReq
	if msg, ok := parseBody(c, &req); !ok {
		return response.ResponseError(c, msg, fiber.StatusBadRequest)
	}
	post, err := m.blogService.CreatePost(&req)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseCreated(c, post)
}

// UpdatePost godoc
//
//	@Summary		Update Post
//	@Tags			Admin-Blog
//	@Param			id		path		string				true	"post id"
//	@Param			body	body		model.BlogPostReq	true	"post"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,403,404,409	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/blog/{id} [put]
func (m *BlogHandler) UpdatePost(c *fiber.Ctx) error {
	var req model.BlogPostReq
	if msg, ok := parseBody(c, &req); !ok {
		return response.ResponseError(c, msg, fiber.StatusBadRequest)
	}
	post, err := m.blogService.UpdatePost(c.Params("id", ""), &req)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, post)
}

// DeletePost godoc
//
//	@Summary		Delete Post
//	@Tags			Admin-Blog
//	@Param			id		path		string	true	"post id"
//	@Success		200		{object}	response.ResponseOKModel
//	@Failure		400,401,403,404	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/blog/{id} [delete]
func (m *BlogHandler) DeletePost(c *fiber.Ctx) error {
	if err := m.blogService.DeletePost(c.Params("id", "")); err != nil {
		return sendError(c, err)
	}
	return response.ResponseOK(c, "")
}
