package handler

import (
	"time"

	"series_guide/internal/service"
	"series_guide/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IChatHandler interface {
	GetMessages(c *fiber.Ctx) error
	SendMessage(c *fiber.Ctx) error
	EditMessage(c *fiber.Ctx) error
	DeleteMessage(c *fiber.Ctx) error
	GetStats(c *fiber.Ctx) error
	AdminDeleteMessage(c *fiber.Ctx) error
	Announce(c *fiber.Ctx) error
	SystemMessage(c *fiber.Ctx) error
	Cleanup(c *fiber.Ctx) error
}

type ChatHandler struct {
	chatService service.IChatService
}

func NewChatHandler(chatService service.IChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

type ChatMessageReq struct {
	Message string `json:"message"`
	ReplyTo string `json:"replyTo"`
}

type ChatCleanupRes struct {
	Deleted int64 `json:"deleted"`
}

//------------------------------------------
//------------------------------------------

// GetMessages godoc
//
//	@Summary		Chat Messages
//	@Description	Latest messages, oldest first. Use before (RFC3339) to page back.
//	@Tags			Chat
//	@Param			limit	query		int		false	"at most 100, default 50"
//	@Param			before	query		string	false	"RFC3339 time"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400		{object}	response.ResponseErrorModel
//	@Router			/v1/chat [get]
func (m *ChatHandler) GetMessages(c *fiber.Ctx) error {
	var before *time.Time
	if raw := c.Query("before", ""); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return response.ResponseError(c, "Invalid before parameter", fiber.StatusBadRequest)
		}
		before = &t
	}
	messages, err := m.chatService.List(int64(c.QueryInt("limit", 0)), before)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, messages)
}

// SendMessage godoc
//
//	@Summary		Send Message
//	@Tags			Chat
//	@Param			body	body		ChatMessageReq	true	"message"
//	@Success		201		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,404	{object}	response.ResponseErrorModel
//	@Router			/v1/chat [post]
func (m *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}
	var req ChatMessageReq
	if err := c.BodyParser(&req); err != nil {
		return response.ResponseError(c, response.BadRequestBody, fiber.StatusBadRequest)
	}
	message, err := m.chatService.Send(userId, req.Message, req.ReplyTo)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseCreated(c, message)
}

// EditMessage godoc
//
//	@Summary		Edit Message
//	@Description	Only the author can edit, and only regular messages.
//	@Tags			Chat
//	@Param			id		path		string			true	"message id"
//	@Param			body	body		ChatMessageReq	true	"new text"
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,403,404	{object}	response.ResponseErrorModel
//	@Router			/v1/chat/{id} [put]
func (m *ChatHandler) EditMessage(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}
	var req ChatMessageReq
	if err := c.BodyParser(&req); err != nil {
		return response.ResponseError(c, response.BadRequestBody, fiber.StatusBadRequest)
	}
	message, err := m.chatService.Edit(c.Params("id", ""), userId, req.Message)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, message)
}

// DeleteMessage godoc
//
//	@Summary		Delete Message
//	@Tags			Chat
//	@Param			id		path		string	true	"message id"
//	@Success		200		{object}	response.ResponseOKModel
//	@Failure		400,401,403,404	{object}	response.ResponseErrorModel
//	@Router			/v1/chat/{id} [delete]
func (m *ChatHandler) DeleteMessage(c *fiber.Ctx) error {
	userId, ok := currentUserId(c)
	if !ok {
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}
	if err := m.chatService.Delete(c.Params("id", ""), userId, false); err != nil {
		return sendError(c, err)
	}
	return response.ResponseOK(c, "")
}

// GetStats godoc
//
//	@Summary		Chat Stats
//	@Tags			Chat
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Router			/v1/chat/stats [get]
func (m *ChatHandler) GetStats(c *fiber.Ctx) error {
	stats, err := m.chatService.Stats()
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, stats)
}

//------------------------------------------
//------------------------------------------

// AdminDeleteMessage godoc
//
//	@Summary		Remove Message
//	@Tags			Admin-Chat
//	@Param			id		path		string	true	"message id"
//	@Success		200		{object}	response.ResponseOKModel
//	@Failure		400,401,403,404	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/chat/{id} [delete]
func (m *ChatHandler) AdminDeleteMessage(c *fiber.Ctx) error {
	if err := m.chatService.Delete(c.Params("id", ""), primitive.NilObjectID, true); err != nil {
		return sendError(c, err)
	}
	return response.ResponseOK(c, "")
}

// Announce godoc
//
//	@Summary		Announcement
//	@Description	Post an announcement signed by the current admin.
//	@Tags			Admin-Chat
//	@Param			body	body		ChatMessageReq	true	"announcement"
//	@Success		201		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,403	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/chat/announce [post]
func (m *ChatHandler) Announce(c *fiber.Ctx) error {
	adminId, ok := currentAdminId(c)
	if !ok {
		return response.ResponseError(c, response.Unauthorized, fiber.StatusUnauthorized)
	}
	var req ChatMessageReq
	if err := c.BodyParser(&req); err != nil {
		return response.ResponseError(c, response.BadRequestBody, fiber.StatusBadRequest)
	}
	message, err := m.chatService.Announce(adminId, req.Message)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseCreated(c, message)
}

// SystemMessage godoc
//
//	@Summary		System Message
//	@Tags			Admin-Chat
//	@Param			body	body		ChatMessageReq	true	"message"
//	@Success		201		{object}	response.ResponseOKWithDataModel
//	@Failure		400,401,403	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/chat/system [post]
func (m *ChatHandler) SystemMessage(c *fiber.Ctx) error {
	var req ChatMessageReq
	if err := c.BodyParser(&req); err != nil {
		return response.ResponseError(c, response.BadRequestBody, fiber.StatusBadRequest)
	}
	message, err := m.chatService.SystemMessage(req.Message)
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseCreated(c, message)
}

// Cleanup godoc
//
//	@Summary		Chat Cleanup
//	@Description	Apply the retention cap now instead of waiting for the worker.
//	@Tags			Admin-Chat
//	@Success		200		{object}	response.ResponseOKWithDataModel
//	@Failure		401,403	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/admin/chat/cleanup [post]
func (m *ChatHandler) Cleanup(c *fiber.Ctx) error {
	deleted, err := m.chatService.Cleanup()
	if err != nil {
		return sendError(c, err)
	}
	return response.ResponseOKWithData(c, ChatCleanupRes{Deleted: deleted})
}
