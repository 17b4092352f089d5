package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/internal/providers/llm"
	"github.com/hirebridge/hirebridge/internal/utils"
)

type fakeOnboardingRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.OnboardingSession
}

func newFakeOnboardingRepo() *fakeOnboardingRepo {
	return &fakeOnboardingRepo{sessions: map[string]*models.OnboardingSession{}}
}

func (f *fakeOnboardingRepo) Create(_ context.Context, s *models.OnboardingSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.sessions[s.SessionID] = &cp
	return nil
}

func (f *fakeOnboardingRepo) GetBySessionID(_ context.Context, sessionID string) (*models.OnboardingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeOnboardingRepo) AppendTurn(_ context.Context, sessionID string, turn models.OnboardingTurn) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return utils.ErrNotFound
	}
	s.Turns = append(s.Turns, turn)
	return nil
}

func (f *fakeOnboardingRepo) SetCompanyBlock(_ context.Context, sessionID string, block string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return utils.ErrNotFound
	}
	s.CompanyBlock = block
	return nil
}

func (f *fakeOnboardingRepo) Complete(_ context.Context, sessionID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return utils.ErrNotFound
	}
	s.Status = models.OnboardingCompleted
	t := at.UTC()
	s.CompletedAt = &t
	return nil
}

// fakeLLM replays a scripted response, split into the given chunks.
type fakeLLM struct {
	chunks []string
}

func (f *fakeLLM) StreamChat(_ context.Context, _ string, _ []llm.Turn, _ string) (<-chan string, <-chan error) {
	out := make(chan string, len(f.chunks))
	errs := make(chan error)
	go func() {
		defer close(out)
		defer close(errs)
		for _, c := range f.chunks {
			out <- c
		}
	}()
	return out, errs
}

func (f *fakeLLM) Close() error { return nil }

func TestOnboardingChatStreamsVisibleText(t *testing.T) {
	repo := newFakeOnboardingRepo()
	svc := NewOnboardingService(repo, &fakeLLM{chunks: []string{"What does ", "your company do?"}})

	sess, err := svc.Start(context.Background(), "emp")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	var deltas []string
	res, err := svc.Chat(context.Background(), "emp", sess.SessionID, "hi", func(d string) error {
		deltas = append(deltas, d)
		return nil
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if res.Completed {
		t.Fatal("session must not complete without a block")
	}
	if strings.Join(deltas, "") != "What does your company do?" {
		t.Fatalf("deltas = %q", strings.Join(deltas, ""))
	}

	stored, _ := repo.GetBySessionID(context.Background(), sess.SessionID)
	if len(stored.Turns) != 2 {
		t.Fatalf("expected user+assistant turns, got %d", len(stored.Turns))
	}
	if stored.Turns[0].Role != "user" || stored.Turns[1].Role != "assistant" {
		t.Fatalf("turn roles = %s, %s", stored.Turns[0].Role, stored.Turns[1].Role)
	}
}

func TestOnboardingChatCompletesOnBlock(t *testing.T) {
	repo := newFakeOnboardingRepo()
	// the closing fence is split across chunks on purpose
	svc := NewOnboardingService(repo, &fakeLLM{chunks: []string{
		"Thanks, all set!\n``", "`json\n{\"name\":\"Acme\",\"size\":\"10\"}\n", "```",
	}})

	sess, err := svc.Start(context.Background(), "emp")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	var visible strings.Builder
	res, err := svc.Chat(context.Background(), "emp", sess.SessionID, "here you go", func(d string) error {
		visible.WriteString(d)
		return nil
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !res.Completed {
		t.Fatal("expected completion")
	}
	if string(res.CompanyBlock) != `{"name":"Acme","size":"10"}` {
		t.Fatalf("block = %s", res.CompanyBlock)
	}
	if strings.Contains(visible.String(), "json") || strings.Contains(visible.String(), "Acme") {
		t.Fatalf("block leaked into visible text: %q", visible.String())
	}

	stored, _ := repo.GetBySessionID(context.Background(), sess.SessionID)
	if stored.Status != models.OnboardingCompleted {
		t.Fatalf("status = %s, want completed", stored.Status)
	}
	if stored.CompanyBlock == "" {
		t.Fatal("company block not persisted")
	}
	// full assistant text, fence included, must be in history
	if !strings.Contains(stored.Turns[1].Content, "```json") {
		t.Fatalf("assistant turn missing raw block: %q", stored.Turns[1].Content)
	}
}

func TestOnboardingChatRejectsCompletedSession(t *testing.T) {
	repo := newFakeOnboardingRepo()
	svc := NewOnboardingService(repo, &fakeLLM{chunks: []string{"hello"}})

	sess, _ := svc.Start(context.Background(), "emp")
	_ = repo.Complete(context.Background(), sess.SessionID, time.Now())

	_, err := svc.Chat(context.Background(), "emp", sess.SessionID, "more", nil)
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("err = %v, want CONFLICT", err)
	}
}

func TestOnboardingSessionOwnership(t *testing.T) {
	repo := newFakeOnboardingRepo()
	svc := NewOnboardingService(repo, &fakeLLM{chunks: []string{"hello"}})

	sess, _ := svc.Start(context.Background(), "emp")
	if _, err := svc.Get(context.Background(), "other", sess.SessionID); !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("err = %v, want FORBIDDEN", err)
	}
}
