// Package moderation provides the report -> review -> resolution workflow.
// A participant files a report, which freezes messaging; an administrator
// then resolves it, moving the conversation to a terminal or reopened state.
package moderation

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/hirelink/backend/internal/apperr"
	"github.com/hirelink/backend/internal/models"
)

// ConversationStore is the persistence surface moderation needs.
// Implemented by repository.ConversationRepository.
type ConversationStore interface {
	GetByID(id uuid.UUID) (*models.Conversation, error)
	MarkReported(id, reporterID uuid.UUID, reason string, evidence []string) error
	Resolve(id, adminID uuid.UUID, target models.ConversationStatus, resolution, adminNotes string) (*models.Conversation, error)
}

// AuditLog records every moderation action. Implemented by
// repository.ModerationRepository.
type AuditLog interface {
	AddLog(entry *models.ModerationLog) error
	GetLogsByConversation(conversationID uuid.UUID, limit int) ([]models.ModerationLog, error)
}

// EventPublisher is the outbound boundary towards notification transport.
// May be nil when Redis is unavailable.
type EventPublisher interface {
	PublishModerationEvent(conversationID uuid.UUID, action string) error
}

// Service handles the business logic for reports and resolutions.
type Service struct {
	convs  ConversationStore
	audit  AuditLog
	events EventPublisher
}

// NewService creates a new moderation service. events may be nil.
func NewService(convs ConversationStore, audit AuditLog, events EventPublisher) *Service {
	return &Service{convs: convs, audit: audit, events: events}
}

// Report files a report against a conversation on behalf of a participant.
// The conversation transitions active -> reported and messaging is blocked
// until an administrator resolves it.
func (s *Service) Report(conversationID, callerID uuid.UUID, reason string, evidence []string) error {
	if reason == "" {
		return fmt.Errorf("report reason is required: %w", apperr.ErrValidation)
	}

	conv, err := s.convs.GetByID(conversationID)
	if err != nil {
		return err
	}

	if _, err := conv.ParticipantRole(callerID); err != nil {
		return fmt.Errorf("%v: %w", err, apperr.ErrAccessDenied)
	}

	if !conv.CanBeReported() {
		return fmt.Errorf("conversation %s is %s and cannot be reported: %w", conv.ID, conv.Status, apperr.ErrInvalidState)
	}

	if err := s.convs.MarkReported(conversationID, callerID, reason, evidence); err != nil {
		return err
	}

	s.logAction(conv, "report", callerID, &reason)
	s.publish(conversationID, "report")

	return nil
}

// transitions maps a resolve action to the resulting conversation status.
var transitions = map[models.ResolveAction]models.ConversationStatus{
	models.ResolveDismiss:           models.ConversationActive,
	models.ResolveWarnRecruiter:     models.ConversationUnderReview,
	models.ResolveSuspendRecruiter:  models.ConversationClosed,
	models.ResolveCloseConversation: models.ConversationClosed,
}

// Resolve applies an administrator's decision to a reported conversation:
// dismiss reopens it, warn_recruiter keeps it under review, and
// suspend_recruiter/close_conversation close it for good. The conversation's
// risk score is left untouched either way; the record is permanent.
func (s *Service) Resolve(conversationID, adminID uuid.UUID, action models.ResolveAction, resolution, adminNotes string) (*models.Conversation, error) {
	target, ok := transitions[action]
	if !ok {
		return nil, fmt.Errorf("unknown resolve action %q: %w", action, apperr.ErrValidation)
	}
	if resolution == "" {
		return nil, fmt.Errorf("resolution text is required: %w", apperr.ErrValidation)
	}

	conv, err := s.convs.GetByID(conversationID)
	if err != nil {
		return nil, err
	}

	if conv.Status != models.ConversationReported && conv.Status != models.ConversationUnderReview {
		return nil, fmt.Errorf("conversation %s is %s, nothing to resolve: %w", conv.ID, conv.Status, apperr.ErrInvalidState)
	}

	resolved, err := s.convs.Resolve(conversationID, adminID, target, resolution, adminNotes)
	if err != nil {
		return nil, err
	}

	s.logAction(resolved, string(action), adminID, &resolution)
	s.publish(conversationID, string(action))

	return resolved, nil
}

// History returns a conversation's moderation trail, newest first. Admin-only
// at the route level; the conversation itself must exist.
func (s *Service) History(conversationID uuid.UUID, limit int) ([]models.ModerationLog, error) {
	if _, err := s.convs.GetByID(conversationID); err != nil {
		return nil, err
	}
	return s.audit.GetLogsByConversation(conversationID, limit)
}

func (s *Service) logAction(conv *models.Conversation, action string, actorID uuid.UUID, reason *string) {
	entry := &models.ModerationLog{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		Action:         action,
		ActorID:        actorID,
		Reason:         reason,
		RiskScore:      conv.RiskScore,
	}
	if err := s.audit.AddLog(entry); err != nil {
		// The transition itself already landed; losing an audit row is
		// logged but does not fail the operation.
		log.Printf("WARN: failed to write moderation log for %s: %v", conv.ID, err)
	}
}

func (s *Service) publish(conversationID uuid.UUID, action string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishModerationEvent(conversationID, action); err != nil {
		log.Printf("WARN: failed to publish moderation event for %s: %v", conversationID, err)
	}
}
