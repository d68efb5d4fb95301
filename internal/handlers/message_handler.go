package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirelink/backend/internal/messaging"
	"github.com/hirelink/backend/internal/models"
)

type MessageHandler struct {
	messages *messaging.Service
}

func NewMessageHandler(messages *messaging.Service) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// GetMessages returns a page of messages for a conversation, oldest first.
// Fetching a page also marks the other participant's messages as read.
func (h *MessageHandler) GetMessages(c *gin.Context) {
	var req models.GetMessagesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.Limit == 0 {
		req.Limit = 50
	}

	messages, err := h.messages.GetMessages(req.ConversationID, callerID(c), req.Limit, req.Offset)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SendMessage sends a text message. The response carries the screening
// warning, if the message tripped one.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	msg, warning, err := h.messages.SendText(req.ConversationID, callerID(c), req.Text)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SendMessageResponse{
		Message: msg,
		Warning: warning,
	})
}

// SendFile sends a file attachment message.
func (h *MessageHandler) SendFile(c *gin.Context) {
	var req models.SendFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.messages.SendFile(req.ConversationID, callerID(c), req.File)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SendMessageResponse{Message: msg})
}

// GetUnreadSummary returns per-conversation unread counts for the caller.
func (h *MessageHandler) GetUnreadSummary(c *gin.Context) {
	summary, err := h.messages.UnreadSummary(callerID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
