package handler

import (
	"series_guide/internal/service"
	"series_guide/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type ICommentHandler interface {
	GetSerieComments(c *fiber.Ctx) error
	CountComments(c *fiber.Ctx) error
	CreateComment(c *fiber.Ctx) error
	UpdateComment(c *fiber.Ctx) error
	DeleteComment(c *fiber.Ctx) error
	ToggleLike(c *fiber.Ctx) error
	ModerateComment(c *fiber.Ctx) error
}

type CommentHandler struct {
	commentService service.ICommentService
}

func NewCommentHandler(commentService service.ICommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

type CreateCommentReq struct {
	SerieId  string `json:"serieId" validate:"required"`
	Content  string `json:"content"`
	ParentId string `json:"parentId"`
}

type UpdateCommentReq struct {
	Content string `json:"content"`
}

type CommentLikeRes struct {
	Liked bool `json:"liked"`
}

type CountRes struct {
	Count int64 `json:"count"`
}

//------------------------------------------
//------------------------------------------

// GetSerieComments godoc
//
//	@Summary		Serie Comments
//	@Description	Top-level comments newest first, each with its replies oldest first.
//	@Tags			Comments
//	@Param			serieId	path		string	true	"serie id"
//	@Param			page	query		int		false	"page"
//	@Param			limit	query		int		false	"limit"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400		{object}	response.ResponseErrorModel
//	@Router			/v1/comments/serie/{serieId} [get]
func (m *CommentHandler) GetSerieComments(c *fiber.Ctx) error {
	page, limit := pageQuery(c)
	result, err := m.commentService.ListForSerie(c.Params("serieId", ""), page, limit, optionalUserId(c))
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, result)
}

// CountComments godoc
//
//	@Summary		Count Comments
//	@Description	Number of comments, replies included. Without serieId every comment is counted.
//	@Tags			Comments
//	@Param			serieId	query		string	false	"serie id"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400		{object}	response.ResponseErrorModel
//	@Router			/v1/comments/count [get]
func (m *CommentHandler) CountComments(c *fiber.Ctx) error {
	count, err := m.commentService.Count(c.Query("serieId", ""))
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, CountRes{Count: count})
}

// CreateComment godoc
//
//	@Summary		Create Comment
//	@Description	A reply must target a top-level comment of the same serie.
//	@Tags			Comments
//	@Param			body	body		CreateCommentReq	true	"comment"
//	@Success		201		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,404	{object}	response.ResponseErrorModel
//	@Router			/v1/comments [post]
func (m *CommentHandler) CreateComment(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}
	var req CreateCommentReq
	if msg, ok := parseBody(c, &req); !ok {
		return response.ResponseError(c, msg, fiber.StatusBadRequest)
	}
	comment, err := m.commentService.Create(userId, req.SerieId, req.Content, req.ParentId)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseCreated(c, comment)
}

// UpdateComment godoc
//
//	@Summary		Edit Comment
//	@Tags			Comments
//	@Param			id		path		string				true	"comment id"
//	@Param			body	body		UpdateCommentReq	true	"new content"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,403,404	{object}	response.ResponseErrorModel
//	@Router			/v1/comments/{id} [put]
func (m *CommentHandler) UpdateComment(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}
	var req UpdateCommentReq
	if err := c.BodyParser(&req); err != nil {
		return response.ResponseError(c, response.BadRequestBody, fiber.StatusBadRequest)
	}
	comment, err := m.commentService.Update(c.Params("id", ""), userId, req.Content)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, comment)
}

// DeleteComment godoc
//
//	@Summary		Delete Comment
//	@Description	Deleting a top-level comment also deletes its replies.
//	@Tags			Comments
//	@Param			id		path		string	true	"comment id"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,403,404	{object}	response.ResponseErrorModel
//	@Router			/v1/comments/{id} [delete]
func (m *CommentHandler) DeleteComment(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}
	deleted, err := m.commentService.Delete(c.Params("id", ""), userId)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, CountRes{Count: deleted})
}

// ToggleLike godoc
//
//	@Summary		Like Comment
//	@Description	Like the comment, or remove the like when already present.
//	@Tags			Comments
//	@Param			id		path		string	true	"comment id"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,404	{object}	response.ResponseErrorModel
//	@Router			/v1/comments/{id}/like [post]
func (m *CommentHandler) ToggleLike(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}
	liked, err := m.commentService.ToggleLike(c.Params("id", ""), userId)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, CommentLikeRes{Liked: liked})
}

// ModerateComment godoc
//
//	@Summary		Moderate Comment
//	@Description	Remove any comment and its replies.
//	@Tags			Admin-Comments
//	@Param			id		path		string	true	"comment id"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,403,404	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/comments/{id} [delete]
func (m *CommentHandler) ModerateComment(c *fiber.Ctx) error {
	deleted, err := m.commentService.Moderate(c.Params("id", ""))
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, CountRes{Count: deleted})
}
