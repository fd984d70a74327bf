package handler

import (
	"net/http"

	"courier-chat/internal/domain/message"
	"courier-chat/internal/services"
	"courier-chat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MessageHandler struct {
	service *services.MessageService
	users   *services.UserService
	paging  Pagination
}

func NewMessageHandler(service *services.MessageService, users *services.UserService, paging Pagination) *MessageHandler {
	return &MessageHandler{service: service, users: users, paging: paging}
}

func (h *MessageHandler) Create(c *gin.Context) {
	senderID, ok := currentUser(c)
	if !ok {
		return
	}
	threadID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	m, err := h.service.Create(c.Request.Context(), threadID, senderID, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}

	names, err := h.senderNames(c, []message.Message{m})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromMessage(m, names)))
}

// List returns a thread's messages, newest first.
func (h *MessageHandler) List(c *gin.Context) {
	requesterID, ok := currentUser(c)
	if !ok {
		return
	}
	threadID, ok := pathID(c, "id")
	if !ok {
		return
	}

	page := h.paging.fromQuery(c)
	messages, total, err := h.service.List(c.Request.Context(), threadID, requesterID, page)
	if err != nil {
		writeError(c, err)
		return
	}

	names, err := h.senderNames(c, messages)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(
		httpdto.NewPageResponse(httpdto.FromMessages(messages, names), total, page.Number, page.Size),
	))
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	requesterID, ok := currentUser(c)
	if !ok {
		return
	}
	messageID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), messageID, requesterID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	count, err := h.service.CountUnread(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.UnreadCountResponse{Count: count}))
}

func (h *MessageHandler) senderNames(c *gin.Context, messages []message.Message) (map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.SenderID)
	}
	return h.users.DisplayNames(c.Request.Context(), ids)
}
