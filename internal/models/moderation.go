package models

import (
	"time"

	"github.com/google/uuid"
)

// ModerationLog records every report and resolution action taken against a
// conversation. It is an append-only audit trail kept alongside the report
// fields stored on the conversation itself.
type ModerationLog struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ConversationID uuid.UUID  `json:"conversation_id" db:"conversation_id"`
	Action         string     `json:"action" db:"action"` // report, dismiss, warn_recruiter, suspend_recruiter, close_conversation
	ActorID        uuid.UUID  `json:"actor_id" db:"actor_id"`
	Reason         *string    `json:"reason,omitempty" db:"reason"`
	RiskScore      int        `json:"risk_score" db:"risk_score"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}
