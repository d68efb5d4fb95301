package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hirelink/backend/internal/database"
	"github.com/hirelink/backend/internal/models"
)

type MessageRepository struct {
	db *database.DB
}

func NewMessageRepository(db *database.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create persists a message with its risk assessment snapshot. The snapshot
// is written once here and never updated afterwards.
func (r *MessageRepository) Create(message *models.Message) error {
	analysis, err := json.Marshal(message.RiskAnalysis)
	if err != nil {
		return fmt.Errorf("failed to marshal risk analysis: %w", err)
	}

	var fileName, fileURL, mimeType sql.NullString
	var fileSize sql.NullInt64
	if f := message.Content.File; f != nil {
		fileName = sql.NullString{String: f.FileName, Valid: true}
		fileURL = sql.NullString{String: f.FileURL, Valid: true}
		fileSize = sql.NullInt64{Int64: f.FileSize, Valid: true}
		mimeType = sql.NullString{String: f.MimeType, Valid: true}
	}

	query := `
		INSERT INTO messages (id, conversation_id, sender_id, sender_type, message_type,
			body, file_name, file_url, file_size, mime_type, risk_analysis)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	err = r.db.QueryRow(
		query,
		message.ID,
		message.ConversationID,
		message.SenderID,
		message.SenderType,
		message.MessageType,
		message.Content.Text,
		fileName,
		fileURL,
		fileSize,
		mimeType,
		analysis,
	).Scan(&message.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

func scanMessage(rows rowScanner) (*models.Message, error) {
	msg := &models.Message{}
	var body string
	var fileName, fileURL, mimeType sql.NullString
	var fileSize sql.NullInt64
	var analysis []byte

	err := rows.Scan(
		&msg.ID,
		&msg.ConversationID,
		&msg.SenderID,
		&msg.SenderType,
		&msg.MessageType,
		&body,
		&fileName,
		&fileURL,
		&fileSize,
		&mimeType,
		&analysis,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	switch msg.MessageType {
	case models.MessageText, models.MessageSystem:
		msg.Content = models.MessageContent{Text: body}
	case models.MessageFile, models.MessageImage, models.MessageVideo:
		msg.Content = models.MessageContent{File: &models.FileAttachment{
			FileName: fileName.String,
			FileURL:  fileURL.String,
			FileSize: fileSize.Int64,
			MimeType: mimeType.String,
		}}
	default:
		return nil, fmt.Errorf("unknown message type %q for message %s", msg.MessageType, msg.ID)
	}

	if len(analysis) > 0 {
		if err := json.Unmarshal(analysis, &msg.RiskAnalysis); err != nil {
			return nil, fmt.Errorf("failed to unmarshal risk analysis: %w", err)
		}
	}

	return msg, nil
}

const messageColumns = `
	id, conversation_id, sender_id, sender_type, message_type,
	body, file_name, file_url, file_size, mime_type, risk_analysis, created_at
`

// GetByConversationID retrieves a page of messages, oldest first, with their
// read receipts attached.
func (r *MessageRepository) GetByConversationID(conversationID uuid.UUID, limit, offset int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(query, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	ids := []uuid.UUID{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, *msg)
		ids = append(ids, msg.ID)
	}

	if len(ids) == 0 {
		return messages, nil
	}

	receipts, err := r.getReadReceipts(ids)
	if err != nil {
		return nil, err
	}
	for i := range messages {
		messages[i].ReadBy = receipts[messages[i].ID]
	}

	return messages, nil
}

func (r *MessageRepository) getReadReceipts(messageIDs []uuid.UUID) (map[uuid.UUID][]models.MessageRead, error) {
	// Convert UUIDs to strings for the array parameter
	idStrings := make([]string, len(messageIDs))
	for i, id := range messageIDs {
		idStrings[i] = id.String()
	}

	query := `
		SELECT message_id, user_id, read_at
		FROM message_reads
		WHERE message_id = ANY($1)
		ORDER BY read_at ASC
	`

	rows, err := r.db.Query(query, pq.Array(idStrings))
	if err != nil {
		return nil, fmt.Errorf("failed to get read receipts: %w", err)
	}
	defer rows.Close()

	receipts := map[uuid.UUID][]models.MessageRead{}
	for rows.Next() {
		var receipt models.MessageRead
		if err := rows.Scan(&receipt.MessageID, &receipt.UserID, &receipt.ReadAt); err != nil {
			return nil, fmt.Errorf("failed to scan read receipt: %w", err)
		}
		receipts[receipt.MessageID] = append(receipts[receipt.MessageID], receipt)
	}

	return receipts, nil
}

// GetLastMessage returns the newest message in a conversation, or nil if the
// conversation has none.
func (r *MessageRepository) GetLastMessage(conversationID uuid.UUID) (*models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	msg, err := scanMessage(r.db.QueryRow(query, conversationID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last message: %w", err)
	}

	return msg, nil
}

// MarkAllAsRead appends a read receipt for every message in the conversation
// not sent by the reader. The unique constraint plus ON CONFLICT DO NOTHING
// makes repeated calls produce no additional entries.
func (r *MessageRepository) MarkAllAsRead(conversationID, userID uuid.UUID) error {
	query := `
		INSERT INTO message_reads (message_id, user_id)
		SELECT m.id, $2
		FROM messages m
		WHERE m.conversation_id = $1
		AND m.sender_id IS DISTINCT FROM $2
		ON CONFLICT (message_id, user_id) DO NOTHING
	`

	if _, err := r.db.Exec(query, conversationID, userID); err != nil {
		return fmt.Errorf("failed to mark messages as read: %w", err)
	}

	return nil
}

// GetUnreadCount gets the number of unread messages for a user in a conversation
func (r *MessageRepository) GetUnreadCount(conversationID, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM messages m
		LEFT JOIN message_reads mr ON m.id = mr.message_id AND mr.user_id = $2
		WHERE m.conversation_id = $1
		AND m.sender_id IS DISTINCT FROM $2
		AND mr.id IS NULL
	`

	var count int
	err := r.db.QueryRow(query, conversationID, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}

	return count, nil
}

// GetUnreadSummary aggregates unread counts and the newest unread preview for
// every conversation the user participates in, newest activity first.
func (r *MessageRepository) GetUnreadSummary(userID uuid.UUID) ([]models.UnreadConversation, error) {
	query := `
		SELECT m.conversation_id,
		       COUNT(*),
		       (ARRAY_AGG(COALESCE(NULLIF(m.body, ''), m.file_name, '') ORDER BY m.created_at DESC))[1],
		       MAX(m.created_at)
		FROM messages m
		INNER JOIN conversations c ON c.id = m.conversation_id
		LEFT JOIN message_reads mr ON m.id = mr.message_id AND mr.user_id = $1
		WHERE (c.applicant_id = $1 OR c.recruiter_id = $1)
		AND m.sender_id IS DISTINCT FROM $1
		AND mr.id IS NULL
		GROUP BY m.conversation_id
		ORDER BY MAX(m.created_at) DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unread summary: %w", err)
	}
	defer rows.Close()

	summary := []models.UnreadConversation{}
	for rows.Next() {
		var entry models.UnreadConversation
		if err := rows.Scan(&entry.ConversationID, &entry.UnreadCount, &entry.LatestPreview, &entry.LatestAt); err != nil {
			return nil, fmt.Errorf("failed to scan unread summary: %w", err)
		}
		summary = append(summary, entry)
	}

	return summary, nil
}
