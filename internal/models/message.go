package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SenderType identifies who authored a message.
type SenderType string

const (
	SenderApplicant SenderType = "applicant"
	SenderRecruiter SenderType = "recruiter"
	SenderSystem    SenderType = "system"
	SenderAI        SenderType = "ai"
)

// MessageType identifies the payload variant carried by a message.
type MessageType string

const (
	MessageText   MessageType = "text"
	MessageFile   MessageType = "file"
	MessageImage  MessageType = "image"
	MessageVideo  MessageType = "video"
	MessageSystem MessageType = "system"
)

// FileAttachment is the descriptor handed back by the upload subsystem after
// it has validated the file bytes. This core trusts the descriptor.
type FileAttachment struct {
	FileName string `json:"file_name" binding:"required"`
	FileURL  string `json:"file_url" binding:"required"`
	FileSize int64  `json:"file_size" binding:"required"`
	MimeType string `json:"mime_type" binding:"required"`
}

// MaxFileSize caps attachments at 10 MiB, matching the upload subsystem.
const MaxFileSize = 10 << 20

// AllowedMimeTypes is the attachment MIME allow-list, keyed to the message
// type each entry produces.
var AllowedMimeTypes = map[string]MessageType{
	"application/pdf":    MessageFile,
	"application/msword": MessageFile,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": MessageFile,
	"text/plain": MessageFile,
	"image/jpeg": MessageImage,
	"image/png":  MessageImage,
	"image/gif":  MessageImage,
	"image/webp": MessageImage,
	"video/mp4":  MessageVideo,
	"video/webm": MessageVideo,
}

// Validate checks the descriptor fields and returns the message type the
// attachment maps to.
func (f *FileAttachment) Validate() (MessageType, error) {
	if f.FileName == "" || f.FileURL == "" {
		return "", fmt.Errorf("file name and url are required")
	}
	if f.FileSize <= 0 || f.FileSize > MaxFileSize {
		return "", fmt.Errorf("file size must be between 1 byte and %d bytes", MaxFileSize)
	}
	mt, ok := AllowedMimeTypes[f.MimeType]
	if !ok {
		return "", fmt.Errorf("mime type %q is not allowed", f.MimeType)
	}
	return mt, nil
}

// MessageContent is a tagged payload keyed by MessageType: text and system
// messages carry Text, file/image/video messages carry File.
type MessageContent struct {
	Text string          `json:"text,omitempty"`
	File *FileAttachment `json:"file,omitempty"`
}

// Validate checks the content matches the declared message type.
func (mc *MessageContent) Validate(mt MessageType) error {
	switch mt {
	case MessageText, MessageSystem:
		if mc.Text == "" {
			return fmt.Errorf("%s message requires text content", mt)
		}
		if mc.File != nil {
			return fmt.Errorf("%s message cannot carry a file", mt)
		}
	case MessageFile, MessageImage, MessageVideo:
		if mc.File == nil {
			return fmt.Errorf("%s message requires a file attachment", mt)
		}
	default:
		return fmt.Errorf("unknown message type %q", mt)
	}
	return nil
}

// Message is a single entry in a conversation. It is immutable after
// creation except for read-receipt appends; moderation never deletes it.
type Message struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	ConversationID uuid.UUID   `json:"conversation_id" db:"conversation_id"`
	// SenderID is nil for system-generated messages.
	SenderID    *uuid.UUID     `json:"sender_id,omitempty" db:"sender_id"`
	SenderType  SenderType     `json:"sender_type" db:"sender_type"`
	MessageType MessageType    `json:"message_type" db:"message_type"`
	Content     MessageContent `json:"content"`
	// RiskAnalysis is attached once at creation and never recomputed,
	// so moderation reviews see exactly what was scored at send time.
	RiskAnalysis RiskAssessment `json:"risk_analysis"`
	ReadBy       []MessageRead  `json:"read_by,omitempty"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

// MessageRead is a read receipt; at most one exists per (message, reader).
type MessageRead struct {
	MessageID uuid.UUID `json:"message_id" db:"message_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ReadAt    time.Time `json:"read_at" db:"read_at"`
}

// SendMessageRequest is the payload for sending a text message.
type SendMessageRequest struct {
	ConversationID uuid.UUID `json:"conversation_id" binding:"required"`
	Text           string    `json:"text" binding:"required,max=10000"`
}

// SendFileRequest is the payload for sending a file message.
type SendFileRequest struct {
	ConversationID uuid.UUID      `json:"conversation_id" binding:"required"`
	File           FileAttachment `json:"file" binding:"required"`
}

// GetMessagesRequest is the query for fetching a page of messages.
type GetMessagesRequest struct {
	ConversationID uuid.UUID `form:"conversation_id" binding:"required"`
	Limit          int       `form:"limit"`
	Offset         int       `form:"offset"`
}

// SendMessageResponse returns the created message plus the derived warning,
// if any. The warning is advisory and never persisted as its own message.
type SendMessageResponse struct {
	Message *Message `json:"message"`
	Warning string   `json:"warning,omitempty"`
}

// UnreadConversation is one entry in the caller's unread summary.
type UnreadConversation struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	UnreadCount    int       `json:"unread_count"`
	LatestPreview  string    `json:"latest_preview"`
	LatestAt       time.Time `json:"latest_at"`
}

// UnreadSummary aggregates unread counts across all of a user's conversations.
type UnreadSummary struct {
	TotalUnread   int                  `json:"total_unread"`
	Conversations []UnreadConversation `json:"conversations"`
}
