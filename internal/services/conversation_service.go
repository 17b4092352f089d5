package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hirebridge/hirebridge/internal/cache"
	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/internal/realtime"
	pgrepo "github.com/hirebridge/hirebridge/internal/repositories/postgres"
	"github.com/hirebridge/hirebridge/internal/utils"
)

const conversationListTTL = 5 * time.Minute

type ConversationService interface {
	List(ctx context.Context, userID string) ([]models.ConversationSummary, error)
	Messages(ctx context.Context, userID, conversationID string) ([]models.Message, error)
	Send(ctx context.Context, userID, conversationID, text string, attachmentURLs []string) (*models.Message, error)
	MarkRead(ctx context.Context, userID, conversationID string) error
	GetOrCreate(ctx context.Context, userID, applicationID, title string) (*models.Conversation, error)
}

type conversationService struct {
	convos pgrepo.ConversationRepo
	apps   pgrepo.ApplicationRepo
	jobs   pgrepo.JobRepo
	cache  cache.Cache
	events realtime.Publisher
}

func NewConversationService(convos pgrepo.ConversationRepo, apps pgrepo.ApplicationRepo, jobs pgrepo.JobRepo, c cache.Cache, events realtime.Publisher) ConversationService {
	return &conversationService{convos: convos, apps: apps, jobs: jobs, cache: c, events: events}
}

func (s *conversationService) List(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	const op = "ConversationService.List"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	key := cache.ConversationListKey(userID)
	var cached []models.ConversationSummary
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	rows, err := s.convos.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list conversations", err)
	}

	_ = s.cache.SetJSON(ctx, key, rows, conversationListTTL)
	return rows, nil
}

func (s *conversationService) Messages(ctx context.Context, userID, conversationID string) ([]models.Message, error) {
	const op = "ConversationService.Messages"

	if userID == "" || conversationID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and conversation_id are required", nil)
	}

	if err := s.requireParticipant(ctx, op, conversationID, userID); err != nil {
		return nil, err
	}

	msgs, err := s.convos.Messages(ctx, conversationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "conversation not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load messages", err)
	}
	return msgs, nil
}

func (s *conversationService) Send(ctx context.Context, userID, conversationID, text string, attachmentURLs []string) (*models.Message, error) {
	const op = "ConversationService.Send"

	if userID == "" || conversationID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and conversation_id are required", nil)
	}
	// Rejected before any I/O.
	if strings.TrimSpace(text) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "message text must not be empty", nil)
	}

	if err := s.requireParticipant(ctx, op, conversationID, userID); err != nil {
		return nil, err
	}

	msg := models.Message{
		ID:             uuid.NewString(),
		SenderID:       userID,
		Content:        text,
		Kind:           models.MessageKindText,
		AttachmentURLs: attachmentURLs,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.convos.AppendMessage(ctx, conversationID, msg); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "conversation not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to append message", err)
	}

	// Push is best-effort; the row is already written.
	_ = s.events.PublishMessage(ctx, realtime.MessageEvent{
		ConversationID: conversationID,
		MessageID:      msg.ID,
		SenderID:       msg.SenderID,
		Content:        msg.Content,
		Kind:           string(msg.Kind),
		SentAt:         msg.CreatedAt,
	})

	s.invalidateLists(ctx, conversationID)
	return &msg, nil
}

func (s *conversationService) MarkRead(ctx context.Context, userID, conversationID string) error {
	const op = "ConversationService.MarkRead"

	if userID == "" || conversationID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id and conversation_id are required", nil)
	}

	if err := s.requireParticipant(ctx, op, conversationID, userID); err != nil {
		return err
	}

	if err := s.convos.MarkRead(ctx, conversationID, userID, time.Now().UTC()); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "conversation not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to mark messages as read", err)
	}
	return nil
}

func (s *conversationService) GetOrCreate(ctx context.Context, userID, applicationID, title string) (*models.Conversation, error) {
	const op = "ConversationService.GetOrCreate"

	if userID == "" || applicationID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and application_id are required", nil)
	}

	existing, err := s.convos.FindByApplicationForUser(ctx, applicationID, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to look up conversation", err)
	}

	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load application", err)
	}

	job, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}

	if userID != app.SeekerID && userID != job.EmployerID {
		return nil, utils.E(utils.CodeForbidden, op, "not a party to this application", nil)
	}

	now := time.Now().UTC()
	conv := &models.Conversation{
		ID:            uuid.NewString(),
		Title:         title,
		ApplicationID: &app.ID,
		Messages:      []byte("[]"),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	parts := []models.ConversationParticipant{
		{UserID: app.SeekerID, Role: models.ParticipantApplicant, CreatedAt: now},
		{UserID: job.EmployerID, Role: models.ParticipantEmployer, CreatedAt: now},
	}

	if err := s.convos.CreateWithParticipants(ctx, conv, parts); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create conversation", err)
	}

	_ = s.cache.Del(ctx,
		cache.ConversationListKey(app.SeekerID),
		cache.ConversationListKey(job.EmployerID),
	)
	return conv, nil
}

func (s *conversationService) requireParticipant(ctx context.Context, op, conversationID, userID string) error {
	ok, err := s.convos.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to check participation", err)
	}
	if !ok {
		return utils.E(utils.CodeForbidden, op, "not a participant of this conversation", nil)
	}
	return nil
}

func (s *conversationService) invalidateLists(ctx context.Context, conversationID string) {
	ids, err := s.convos.ParticipantIDs(ctx, conversationID)
	if err != nil {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, cache.ConversationListKey(id))
	}
	_ = s.cache.Del(ctx, keys...)
}
