package repository

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hirelink/backend/internal/database"
	"github.com/hirelink/backend/internal/models"
)

type ModerationRepository struct {
	db *database.DB
}

func NewModerationRepository(db *database.DB) *ModerationRepository {
	return &ModerationRepository{db: db}
}

// AddLog records a moderation action against a conversation. The log is
// append-only; resolutions are never rewritten.
func (r *ModerationRepository) AddLog(log *models.ModerationLog) error {
	query := `
		INSERT INTO moderation_logs (id, conversation_id, action, actor_id, reason, risk_score)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		query,
		log.ID,
		log.ConversationID,
		log.Action,
		log.ActorID,
		log.Reason,
		log.RiskScore,
	).Scan(&log.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert moderation log: %w", err)
	}

	return nil
}

// GetLogsByConversation returns the moderation history of a conversation,
// newest first.
func (r *ModerationRepository) GetLogsByConversation(conversationID uuid.UUID, limit int) ([]models.ModerationLog, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, conversation_id, action, actor_id, reason, risk_score, created_at
		FROM moderation_logs
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query moderation logs: %w", err)
	}
	defer rows.Close()

	logs := []models.ModerationLog{}
	for rows.Next() {
		var m models.ModerationLog
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Action, &m.ActorID, &m.Reason, &m.RiskScore, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan moderation log: %w", err)
		}
		logs = append(logs, m)
	}

	return logs, nil
}
