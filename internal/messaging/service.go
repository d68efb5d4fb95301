// Package messaging orchestrates conversation and message flow between an
// applicant and a recruiter. Every message is screened by the risk analyzer
// before it is durably accepted, and the conversation's aggregate risk score
// tracks the worst assessment seen so far.
package messaging

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/hirelink/backend/internal/apperr"
	"github.com/hirelink/backend/internal/models"
	"github.com/hirelink/backend/internal/risk"
)

// ConversationStore is the persistence surface for conversations.
// Implemented by repository.ConversationRepository.
type ConversationStore interface {
	GetOrCreate(conv *models.Conversation) (bool, error)
	GetByID(id uuid.UUID) (*models.Conversation, error)
	GetByUserID(userID uuid.UUID) ([]models.Conversation, error)
	RecordMessageRisk(id uuid.UUID, fraudScore int) error
}

// MessageStore is the persistence surface for messages and read receipts.
// Implemented by repository.MessageRepository.
type MessageStore interface {
	Create(msg *models.Message) error
	GetByConversationID(conversationID uuid.UUID, limit, offset int) ([]models.Message, error)
	GetLastMessage(conversationID uuid.UUID) (*models.Message, error)
	MarkAllAsRead(conversationID, userID uuid.UUID) error
	GetUnreadCount(conversationID, userID uuid.UUID) (int, error)
	GetUnreadSummary(userID uuid.UUID) ([]models.UnreadConversation, error)
}

// EventPublisher is the outbound boundary towards notification transport.
// Implemented by cache.RedisClient; may be nil when Redis is unavailable.
type EventPublisher interface {
	PublishMessageEvent(msg *models.Message) error
	InvalidateUnread(userID uuid.UUID)
}

// UnreadCache is optionally implemented by the event publisher to absorb
// repeated unread-summary reads. cache.RedisClient implements it.
type UnreadCache interface {
	GetCachedUnread(userID uuid.UUID) (*models.UnreadSummary, bool)
	CacheUnread(userID uuid.UUID, summary *models.UnreadSummary)
}

// SystemGreeting is the system message emitted exactly once when a
// conversation is first created.
const SystemGreeting = "Conversation started for this job application. Keep all communication on the platform; legitimate employers never ask for payment."

// Service handles the business logic for messaging.
type Service struct {
	convs    ConversationStore
	msgs     MessageStore
	analyzer *risk.Analyzer
	events   EventPublisher
}

// NewService creates a new messaging service. events may be nil.
func NewService(convs ConversationStore, msgs MessageStore, analyzer *risk.Analyzer, events EventPublisher) *Service {
	return &Service{
		convs:    convs,
		msgs:     msgs,
		analyzer: analyzer,
		events:   events,
	}
}

// CreateConversation opens the conversation for a shortlisted application, or
// returns the existing one. The caller is the recruiter; verifying that the
// application is actually shortlisted belongs to the caller. The returned
// message is the system greeting, non-nil only when this call created the
// conversation.
func (s *Service) CreateConversation(recruiterID uuid.UUID, req models.CreateConversationRequest) (*models.Conversation, *models.Message, error) {
	conv := &models.Conversation{
		ID:            uuid.New(),
		ApplicantID:   req.ApplicantID,
		RecruiterID:   recruiterID,
		JobID:         req.JobID,
		ApplicationID: req.ApplicationID,
	}

	created, err := s.convs.GetOrCreate(conv)
	if err != nil {
		return nil, nil, err
	}
	if !created {
		return conv, nil, nil
	}

	greeting := &models.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderType:     models.SenderSystem,
		MessageType:    models.MessageSystem,
		Content:        models.MessageContent{Text: SystemGreeting},
		RiskAnalysis:   risk.ZeroAssessment(),
	}
	if err := s.msgs.Create(greeting); err != nil {
		return nil, nil, fmt.Errorf("failed to create system message: %w", err)
	}

	return conv, greeting, nil
}

// GetConversation returns a conversation to one of its participants.
func (s *Service) GetConversation(conversationID, callerID uuid.UUID) (*models.Conversation, error) {
	conv, err := s.convs.GetByID(conversationID)
	if err != nil {
		return nil, err
	}
	if _, err := conv.ParticipantRole(callerID); err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperr.ErrAccessDenied)
	}
	return conv, nil
}

// ListConversations returns the caller's conversations ordered by most
// recent activity, each with the caller's unread count and the last message.
func (s *Service) ListConversations(callerID uuid.UUID) ([]models.ConversationWithDetails, error) {
	convs, err := s.convs.GetByUserID(callerID)
	if err != nil {
		return nil, err
	}

	details := make([]models.ConversationWithDetails, 0, len(convs))
	for _, conv := range convs {
		unread, err := s.msgs.GetUnreadCount(conv.ID, callerID)
		if err != nil {
			return nil, err
		}
		last, err := s.msgs.GetLastMessage(conv.ID)
		if err != nil {
			return nil, err
		}
		conv.LastMessage = last
		details = append(details, models.ConversationWithDetails{
			Conversation: conv,
			UnreadCount:  unread,
		})
	}

	return details, nil
}

// GetMessages returns a page of messages oldest-to-newest and marks the
// caller's unread messages as read as a side effect.
func (s *Service) GetMessages(conversationID, callerID uuid.UUID, limit, offset int) ([]models.Message, error) {
	conv, err := s.convs.GetByID(conversationID)
	if err != nil {
		return nil, err
	}
	if _, err := conv.ParticipantRole(callerID); err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperr.ErrAccessDenied)
	}

	messages, err := s.msgs.GetByConversationID(conversationID, limit, offset)
	if err != nil {
		return nil, err
	}

	if err := s.msgs.MarkAllAsRead(conversationID, callerID); err != nil {
		// The page itself is good; losing the receipt append only delays
		// the unread counters until the next fetch.
		log.Printf("WARN: failed to mark conversation %s read for %s: %v", conversationID, callerID, err)
	} else if s.events != nil {
		s.events.InvalidateUnread(callerID)
	}

	return messages, nil
}

// SendText screens and persists a text message. The analyzer runs
// synchronously before the message is accepted; its assessment is stored with
// the message and folded into the conversation's aggregate risk score. The
// returned warning is advisory, derived, and never persisted.
func (s *Service) SendText(conversationID, callerID uuid.UUID, text string) (*models.Message, string, error) {
	if text == "" {
		return nil, "", fmt.Errorf("message text is required: %w", apperr.ErrValidation)
	}

	conv, role, err := s.sendChecks(conversationID, callerID)
	if err != nil {
		return nil, "", err
	}

	assessment := s.analyzer.Analyze(text)

	senderID := callerID
	msg := &models.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       &senderID,
		SenderType:     role,
		MessageType:    models.MessageText,
		Content:        models.MessageContent{Text: text},
		RiskAnalysis:   assessment,
	}
	if err := s.msgs.Create(msg); err != nil {
		return nil, "", err
	}

	if err := s.convs.RecordMessageRisk(conv.ID, assessment.FraudScore); err != nil {
		return nil, "", err
	}

	s.publish(msg, conv)

	var warning string
	if s.analyzer.ShouldAlert(assessment) {
		warning = s.analyzer.WarningFor(assessment)
		if warning == "" {
			// Flag-only alert below the score bands.
			warning = risk.WarningCaution
		}
	}

	return msg, warning, nil
}

// SendFile persists a file, image or video message. Binary payloads are not
// analyzed; the message carries a zero-valued assessment.
func (s *Service) SendFile(conversationID, callerID uuid.UUID, file models.FileAttachment) (*models.Message, error) {
	messageType, err := file.Validate()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperr.ErrValidation)
	}

	conv, role, err := s.sendChecks(conversationID, callerID)
	if err != nil {
		return nil, err
	}

	senderID := callerID
	msg := &models.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       &senderID,
		SenderType:     role,
		MessageType:    messageType,
		Content:        models.MessageContent{File: &file},
		RiskAnalysis:   risk.ZeroAssessment(),
	}
	if err := s.msgs.Create(msg); err != nil {
		return nil, err
	}

	// Zero score: this only bumps last_activity.
	if err := s.convs.RecordMessageRisk(conv.ID, 0); err != nil {
		return nil, err
	}

	s.publish(msg, conv)

	return msg, nil
}

// MarkRead appends read receipts for every message in the conversation not
// sent by the caller. Idempotent: repeated calls add nothing.
func (s *Service) MarkRead(conversationID, callerID uuid.UUID) error {
	conv, err := s.convs.GetByID(conversationID)
	if err != nil {
		return err
	}
	if _, err := conv.ParticipantRole(callerID); err != nil {
		return fmt.Errorf("%v: %w", err, apperr.ErrAccessDenied)
	}

	if err := s.msgs.MarkAllAsRead(conversationID, callerID); err != nil {
		return err
	}
	if s.events != nil {
		s.events.InvalidateUnread(callerID)
	}
	return nil
}

// UnreadSummary aggregates unread counts and previews across all of the
// caller's conversations.
func (s *Service) UnreadSummary(callerID uuid.UUID) (*models.UnreadSummary, error) {
	cache, cacheable := s.events.(UnreadCache)
	if cacheable {
		if summary, ok := cache.GetCachedUnread(callerID); ok {
			return summary, nil
		}
	}

	entries, err := s.msgs.GetUnreadSummary(callerID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, e := range entries {
		total += e.UnreadCount
	}

	summary := &models.UnreadSummary{
		TotalUnread:   total,
		Conversations: entries,
	}
	if cacheable {
		cache.CacheUnread(callerID, summary)
	}
	return summary, nil
}

// sendChecks runs the shared participancy and lifecycle gates for sends.
func (s *Service) sendChecks(conversationID, callerID uuid.UUID) (*models.Conversation, models.SenderType, error) {
	conv, err := s.convs.GetByID(conversationID)
	if err != nil {
		return nil, "", err
	}

	role, err := conv.ParticipantRole(callerID)
	if err != nil {
		return nil, "", fmt.Errorf("%v: %w", err, apperr.ErrAccessDenied)
	}

	if !conv.CanAcceptMessages() {
		return nil, "", fmt.Errorf("conversation %s is %s, messaging is blocked: %w", conv.ID, conv.Status, apperr.ErrInvalidState)
	}

	return conv, role, nil
}

func (s *Service) publish(msg *models.Message, conv *models.Conversation) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishMessageEvent(msg); err != nil {
		log.Printf("WARN: failed to publish message event for %s: %v", msg.ID, err)
	}
	// The recipient's unread counters just changed.
	if msg.SenderID != nil {
		if *msg.SenderID == conv.ApplicantID {
			s.events.InvalidateUnread(conv.RecruiterID)
		} else {
			s.events.InvalidateUnread(conv.ApplicantID)
		}
	}
}
