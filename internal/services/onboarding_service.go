package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hirebridge/hirebridge/internal/assistant"
	"github.com/hirebridge/hirebridge/internal/models"
	mongorepo "github.com/hirebridge/hirebridge/internal/repositories/mongo"
	"github.com/hirebridge/hirebridge/internal/providers/llm"
	"github.com/hirebridge/hirebridge/internal/utils"
)

// ChatResult is what the streaming handler reports once the model turn is
// fully consumed.
type ChatResult struct {
	Reply        string          `json:"reply"`
	CompanyBlock json.RawMessage `json:"company_block,omitempty"`
	Completed    bool            `json:"completed"`
}

type OnboardingService interface {
	Start(ctx context.Context, userID string) (*models.OnboardingSession, error)
	Get(ctx context.Context, userID, sessionID string) (*models.OnboardingSession, error)

	// Chat appends one user message, streams the assistant reply through
	// emit delta by delta, and persists both turns. When the reply carries
	// a complete company block the session is marked completed.
	Chat(ctx context.Context, userID, sessionID, message string, emit func(delta string) error) (*ChatResult, error)
}

type onboardingService struct {
	sessions mongorepo.OnboardingRepository
	provider llm.Provider
}

func NewOnboardingService(sessions mongorepo.OnboardingRepository, provider llm.Provider) OnboardingService {
	return &onboardingService{sessions: sessions, provider: provider}
}

func (s *onboardingService) Start(ctx context.Context, userID string) (*models.OnboardingSession, error) {
	const op = "OnboardingService.Start"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	now := time.Now().UTC()
	sess := &models.OnboardingSession{
		SessionID: uuid.NewString(),
		UserID:    userID,
		Status:    models.OnboardingActive,
		Turns:     []models.OnboardingTurn{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create session", err)
	}
	return sess, nil
}

func (s *onboardingService) Get(ctx context.Context, userID, sessionID string) (*models.OnboardingSession, error) {
	const op = "OnboardingService.Get"

	sess, err := s.loadOwned(ctx, op, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *onboardingService) Chat(ctx context.Context, userID, sessionID, message string, emit func(delta string) error) (*ChatResult, error) {
	const op = "OnboardingService.Chat"

	if strings.TrimSpace(message) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "message must not be empty", nil)
	}
	if s.provider == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "assistant provider is not configured", nil)
	}

	sess, err := s.loadOwned(ctx, op, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status == models.OnboardingCompleted {
		return nil, utils.E(utils.CodeConflict, op, "session is already completed", nil)
	}

	history := make([]llm.Turn, 0, len(sess.Turns))
	for _, t := range sess.Turns {
		history = append(history, llm.Turn{Role: t.Role, Content: t.Content})
	}

	if err := s.sessions.AppendTurn(ctx, sessionID, models.OnboardingTurn{
		Role:    "user",
		Content: message,
		At:      time.Now().UTC(),
	}); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to record user turn", err)
	}

	chunks, errs := s.provider.StreamChat(ctx, assistant.SystemPrompt, history, message)

	parser := assistant.NewBlockParser()
	var full strings.Builder
	var visible strings.Builder

	stream := func(text string) error {
		if text == "" {
			return nil
		}
		visible.WriteString(text)
		if emit == nil {
			return nil
		}
		return emit(text)
	}

	for chunks != nil || errs != nil {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				chunks = nil
				continue
			}
			full.WriteString(chunk)
			if err := stream(parser.Feed(chunk)); err != nil {
				return nil, utils.E(utils.CodeUnavailable, op, "client stream closed", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				return nil, utils.E(utils.CodeUnavailable, op, "assistant stream failed", err)
			}
		case <-ctx.Done():
			return nil, utils.E(utils.CodeUnavailable, op, "request cancelled", ctx.Err())
		}
	}
	if err := stream(parser.Finish()); err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "client stream closed", err)
	}

	// The full text, block included, goes into history so the model sees
	// its own prior answer unchanged on the next turn.
	if err := s.sessions.AppendTurn(ctx, sessionID, models.OnboardingTurn{
		Role:    "assistant",
		Content: full.String(),
		At:      time.Now().UTC(),
	}); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to record assistant turn", err)
	}

	out := &ChatResult{Reply: strings.TrimSpace(visible.String())}

	if block, ok := parser.Block(); ok {
		if err := s.sessions.SetCompanyBlock(ctx, sessionID, string(block)); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to store company block", err)
		}
		if err := s.sessions.Complete(ctx, sessionID, time.Now().UTC()); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to complete session", err)
		}
		out.CompanyBlock = block
		out.Completed = true
	}
	return out, nil
}

func (s *onboardingService) loadOwned(ctx context.Context, op, userID, sessionID string) (*models.OnboardingSession, error) {
	if userID == "" || sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and session_id are required", nil)
	}
	sess, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load session", err)
	}
	if sess.UserID != userID {
		return nil, utils.E(utils.CodeForbidden, op, "session belongs to another user", nil)
	}
	return sess, nil
}
