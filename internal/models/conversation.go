package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConversationStatus is the lifecycle state of a conversation.
type ConversationStatus string

const (
	ConversationActive      ConversationStatus = "active"
	ConversationClosed      ConversationStatus = "closed"
	ConversationReported    ConversationStatus = "reported"
	ConversationUnderReview ConversationStatus = "under_review"
)

// Conversation is the private channel between one applicant and one recruiter,
// scoped to a single job application. Exactly one conversation exists per
// (applicant, recruiter, job, application) tuple.
type Conversation struct {
	ID            uuid.UUID          `json:"id" db:"id"`
	ApplicantID   uuid.UUID          `json:"applicant_id" db:"applicant_id"`
	RecruiterID   uuid.UUID          `json:"recruiter_id" db:"recruiter_id"`
	JobID         uuid.UUID          `json:"job_id" db:"job_id"`
	ApplicationID uuid.UUID          `json:"application_id" db:"application_id"`
	Status        ConversationStatus `json:"status" db:"status"`
	// RiskScore is the maximum single-message fraud score observed so far.
	// It only ever increases; a dismissed report does not lower it.
	RiskScore    int       `json:"risk_score" db:"risk_score"`
	StartedAt    time.Time `json:"started_at" db:"started_at"`
	LastActivity time.Time `json:"last_activity" db:"last_activity"`

	ReportedBy     *uuid.UUID `json:"reported_by,omitempty" db:"reported_by"`
	ReportReason   *string    `json:"report_reason,omitempty" db:"report_reason"`
	ReportEvidence []string   `json:"report_evidence,omitempty" db:"report_evidence"`
	ReportedAt     *time.Time `json:"reported_at,omitempty" db:"reported_at"`
	Resolution     *string    `json:"resolution,omitempty" db:"resolution"`
	AdminNotes     *string    `json:"admin_notes,omitempty" db:"admin_notes"`
	ResolvedBy     *uuid.UUID `json:"resolved_by,omitempty" db:"resolved_by"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`

	LastMessage *Message `json:"last_message,omitempty"`
}

// ParticipantRole returns the sender type for a caller, or an error if the
// caller is not a participant. Every read/write operation goes through this
// single check; participancy is never inferred per call site.
func (c *Conversation) ParticipantRole(callerID uuid.UUID) (SenderType, error) {
	switch callerID {
	case c.ApplicantID:
		return SenderApplicant, nil
	case c.RecruiterID:
		return SenderRecruiter, nil
	default:
		return "", fmt.Errorf("user %s is not a participant of conversation %s", callerID, c.ID)
	}
}

// CanAcceptMessages reports whether new messages are allowed in the current
// status. Messaging is blocked once a conversation is reported or closed.
func (c *Conversation) CanAcceptMessages() bool {
	return c.Status == ConversationActive || c.Status == ConversationUnderReview
}

// CanBeReported reports whether a new report may be filed. At most one open
// report exists per conversation, and closed conversations are terminal.
func (c *Conversation) CanBeReported() bool {
	return c.Status == ConversationActive
}

// CreateConversationRequest is the payload for opening a conversation from a
// shortlisted application. The caller is the recruiter; enforcing that the
// application is actually shortlisted is the caller's responsibility.
type CreateConversationRequest struct {
	ApplicantID   uuid.UUID `json:"applicant_id" binding:"required"`
	JobID         uuid.UUID `json:"job_id" binding:"required"`
	ApplicationID uuid.UUID `json:"application_id" binding:"required"`
}

// ConversationWithDetails pairs a conversation with the caller's unread count.
type ConversationWithDetails struct {
	Conversation
	UnreadCount int `json:"unread_count"`
}

// CreateConversationResponse returns the conversation together with the system
// greeting. The greeting is null when the conversation already existed.
type CreateConversationResponse struct {
	Conversation  *Conversation `json:"conversation"`
	SystemMessage *Message      `json:"system_message,omitempty"`
}

// ReportRequest is the payload for reporting a conversation.
type ReportRequest struct {
	Reason   string   `json:"reason" binding:"required"`
	Evidence []string `json:"evidence,omitempty"`
}

// ResolveAction is the admin decision applied to a reported conversation.
type ResolveAction string

const (
	ResolveDismiss           ResolveAction = "dismiss"
	ResolveWarnRecruiter     ResolveAction = "warn_recruiter"
	ResolveSuspendRecruiter  ResolveAction = "suspend_recruiter"
	ResolveCloseConversation ResolveAction = "close_conversation"
)

// ResolveRequest is the payload for resolving a reported conversation.
type ResolveRequest struct {
	Action     ResolveAction `json:"action" binding:"required"`
	Resolution string        `json:"resolution" binding:"required"`
	AdminNotes string        `json:"admin_notes,omitempty"`
}

// ResolveResponse returns the updated conversation and the action applied.
type ResolveResponse struct {
	Conversation *Conversation `json:"conversation"`
	Action       ResolveAction `json:"action"`
}
