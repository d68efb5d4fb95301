package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hirelink/backend/internal/messaging"
	"github.com/hirelink/backend/internal/models"
	"github.com/hirelink/backend/internal/moderation"
)

type ConversationHandler struct {
	messages   *messaging.Service
	moderation *moderation.Service
}

func NewConversationHandler(messages *messaging.Service, mod *moderation.Service) *ConversationHandler {
	return &ConversationHandler{
		messages:   messages,
		moderation: mod,
	}
}

// CreateConversation opens the recruiter↔applicant conversation for a job
// application. Repeat calls for the same application return the existing
// conversation instead of creating a duplicate.
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	var req models.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	conv, greeting, err := h.messages.CreateConversation(callerID(c), req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	status := http.StatusOK
	if greeting != nil {
		status = http.StatusCreated
	}
	c.JSON(status, models.CreateConversationResponse{
		Conversation:  conv,
		SystemMessage: greeting,
	})
}

// ListConversations returns the caller's conversations, most recent activity
// first, each with its unread count and last message.
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	conversations, err := h.messages.ListConversations(callerID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, conversations)
}

// GetConversation returns a single conversation the caller participates in.
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	conv, err := h.messages.GetConversation(conversationID, callerID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, conv)
}

// MarkRead marks all messages from the other participant as read.
func (h *ConversationHandler) MarkRead(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	if err := h.messages.MarkRead(conversationID, callerID(c)); err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

// Report flags a conversation for moderation review.
func (h *ConversationHandler) Report(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	var req models.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.moderation.Report(conversationID, callerID(c), req.Reason, req.Evidence); err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": string(models.ConversationReported)})
}

// ModerationHistory returns the audit trail for a conversation.
func (h *ConversationHandler) ModerationHistory(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	logs, err := h.moderation.History(conversationID, 50)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}

// Resolve applies an admin decision to a reported conversation.
func (h *ConversationHandler) Resolve(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	var req models.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.moderation.Resolve(conversationID, callerID(c), req.Action, req.Resolution, req.AdminNotes)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ResolveResponse{
		Conversation: conv,
		Action:       req.Action,
	})
}
