package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hirelink/backend/internal/apperr"
	"github.com/hirelink/backend/internal/database"
	"github.com/hirelink/backend/internal/models"
)

type ConversationRepository struct {
	db *database.DB
}

func NewConversationRepository(db *database.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

const conversationColumns = `
	id, applicant_id, recruiter_id, job_id, application_id, status, risk_score,
	started_at, last_activity, reported_by, report_reason, report_evidence,
	reported_at, resolution, admin_notes, resolved_by, resolved_at
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConversation(row rowScanner) (*models.Conversation, error) {
	conv := &models.Conversation{}
	err := row.Scan(
		&conv.ID,
		&conv.ApplicantID,
		&conv.RecruiterID,
		&conv.JobID,
		&conv.ApplicationID,
		&conv.Status,
		&conv.RiskScore,
		&conv.StartedAt,
		&conv.LastActivity,
		&conv.ReportedBy,
		&conv.ReportReason,
		pq.Array(&conv.ReportEvidence),
		&conv.ReportedAt,
		&conv.Resolution,
		&conv.AdminNotes,
		&conv.ResolvedBy,
		&conv.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// GetOrCreate inserts a conversation for the (applicant, recruiter, job,
// application) tuple, or returns the existing one unchanged. The unique
// constraint makes creation exactly-once under concurrent retries; the
// returned flag reports whether this call actually inserted.
func (r *ConversationRepository) GetOrCreate(conv *models.Conversation) (bool, error) {
	insert := `
		INSERT INTO conversations (id, applicant_id, recruiter_id, job_id, application_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (applicant_id, recruiter_id, job_id, application_id) DO NOTHING
		RETURNING started_at, last_activity
	`

	err := r.db.QueryRow(
		insert,
		conv.ID,
		conv.ApplicantID,
		conv.RecruiterID,
		conv.JobID,
		conv.ApplicationID,
		models.ConversationActive,
	).Scan(&conv.StartedAt, &conv.LastActivity)

	if err == nil {
		conv.Status = models.ConversationActive
		return true, nil
	}
	if err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to create conversation: %w", err)
	}

	// Lost the insert race or the conversation already existed; load it.
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE applicant_id = $1 AND recruiter_id = $2 AND job_id = $3 AND application_id = $4
	`
	existing, err := scanConversation(r.db.QueryRow(query, conv.ApplicantID, conv.RecruiterID, conv.JobID, conv.ApplicationID))
	if err != nil {
		return false, fmt.Errorf("failed to load existing conversation: %w", err)
	}
	*conv = *existing
	return false, nil
}

// GetByID retrieves a conversation by ID
func (r *ConversationRepository) GetByID(id uuid.UUID) (*models.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE id = $1
	`

	conv, err := scanConversation(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("conversation %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return conv, nil
}

// GetByUserID retrieves all conversations where the user is a participant,
// most recent activity first.
func (r *ConversationRepository) GetByUserID(userID uuid.UUID) ([]models.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE applicant_id = $1 OR recruiter_id = $1
		ORDER BY last_activity DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversations: %w", err)
	}
	defer rows.Close()

	conversations := []models.Conversation{}
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, *conv)
	}

	return conversations, nil
}

// RecordMessageRisk folds a message's fraud score into the conversation's
// aggregate and bumps last_activity. GREATEST keeps the update a monotonic
// max, so concurrent sends are safe in any order and the score never drops.
func (r *ConversationRepository) RecordMessageRisk(id uuid.UUID, fraudScore int) error {
	query := `
		UPDATE conversations
		SET risk_score = GREATEST(risk_score, $2), last_activity = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, id, fraudScore)
	if err != nil {
		return fmt.Errorf("failed to record message risk: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("conversation %s: %w", id, apperr.ErrNotFound)
	}

	return nil
}

// MarkReported transitions active -> reported and records the report details.
// The status guard in the WHERE clause makes the transition atomic: a caller
// that loses a concurrent race gets zero rows and a conflict error instead of
// silently overwriting.
func (r *ConversationRepository) MarkReported(id, reporterID uuid.UUID, reason string, evidence []string) error {
	query := `
		UPDATE conversations
		SET status = $2, reported_by = $3, report_reason = $4, report_evidence = $5, reported_at = NOW()
		WHERE id = $1 AND status = $6
	`

	result, err := r.db.Exec(query, id, models.ConversationReported, reporterID, reason, pq.Array(evidence), models.ConversationActive)
	if err != nil {
		return fmt.Errorf("failed to report conversation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("conversation %s is not reportable: %w", id, apperr.ErrConflict)
	}

	return nil
}

// Resolve transitions reported/under_review to the target status and stamps
// the resolution. Guarded the same way as MarkReported: two concurrent
// resolutions cannot both succeed.
func (r *ConversationRepository) Resolve(id, adminID uuid.UUID, target models.ConversationStatus, resolution, adminNotes string) (*models.Conversation, error) {
	query := `
		UPDATE conversations
		SET status = $2, resolution = $3, admin_notes = NULLIF($4, ''), resolved_by = $5, resolved_at = NOW()
		WHERE id = $1 AND status IN ($6, $7)
		RETURNING ` + conversationColumns + `
	`

	conv, err := scanConversation(r.db.QueryRow(
		query,
		id,
		target,
		resolution,
		adminNotes,
		adminID,
		models.ConversationReported,
		models.ConversationUnderReview,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("conversation %s has no open report: %w", id, apperr.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve conversation: %w", err)
	}

	return conv, nil
}
