package services

import (
	"context"
	"testing"
	"time"

	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/internal/utils"
)

func newConversationFixture(t *testing.T) (ConversationService, *fakeConversationRepo, *fakeApplicationRepo, *fakeJobRepo, *fakeCache, *fakePublisher) {
	t.Helper()
	ivs := newFakeInterviewRepo()
	convos := newFakeConversationRepo()
	apps := newFakeApplicationRepo(ivs)
	jobs := newFakeJobRepo()
	c := newFakeCache()
	pub := &fakePublisher{}
	svc := NewConversationService(convos, apps, jobs, c, pub)
	return svc, convos, apps, jobs, c, pub
}

func seedConversation(convos *fakeConversationRepo, id string, users ...string) {
	now := time.Now().UTC()
	parts := make([]models.ConversationParticipant, 0, len(users))
	for _, u := range users {
		parts = append(parts, models.ConversationParticipant{UserID: u, CreatedAt: now})
	}
	_ = convos.CreateWithParticipants(context.Background(), &models.Conversation{
		ID:        id,
		Messages:  []byte("[]"),
		CreatedAt: now,
		UpdatedAt: now,
	}, parts)
}

func TestSendRejectsWhitespaceBeforeAnyIO(t *testing.T) {
	svc, convos, _, _, _, pub := newConversationFixture(t)
	seedConversation(convos, "c1", "alice", "bob")

	_, err := svc.Send(context.Background(), "alice", "c1", "   \n\t ", nil)
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("err = %v, want INVALID_ARGUMENT", err)
	}
	if msgs, _ := convos.Messages(context.Background(), "c1"); len(msgs) != 0 {
		t.Fatalf("whitespace send must not persist, got %d messages", len(msgs))
	}
	if len(pub.events) != 0 {
		t.Fatal("whitespace send must not publish")
	}
}

func TestSendAppendsAndPublishes(t *testing.T) {
	svc, convos, _, _, _, pub := newConversationFixture(t)
	seedConversation(convos, "c1", "alice", "bob")

	msg, err := svc.Send(context.Background(), "alice", "c1", "hello", nil)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.ID == "" || msg.SenderID != "alice" || msg.Content != "hello" {
		t.Fatalf("unexpected message: %+v", msg)
	}

	msgs, err := svc.Messages(context.Background(), "bob", "c1")
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].ID != msg.ID {
		t.Fatalf("expected the sent message back, got %+v", msgs)
	}

	if len(pub.events) != 1 || pub.events[0].MessageID != msg.ID {
		t.Fatalf("expected one published event, got %+v", pub.events)
	}
}

func TestSendRequiresParticipant(t *testing.T) {
	svc, convos, _, _, _, _ := newConversationFixture(t)
	seedConversation(convos, "c1", "alice", "bob")

	_, err := svc.Send(context.Background(), "mallory", "c1", "hi", nil)
	if !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("err = %v, want FORBIDDEN", err)
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	svc, convos, _, _, _, _ := newConversationFixture(t)
	seedConversation(convos, "c1", "alice", "bob")

	if _, err := svc.Send(context.Background(), "alice", "c1", "one", nil); err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := svc.MarkRead(context.Background(), "bob", "c1"); err != nil {
		t.Fatalf("first mark read: %v", err)
	}
	first, _ := svc.Messages(context.Background(), "bob", "c1")
	if first[0].ReadAt == nil {
		t.Fatal("expected read_at to be set")
	}
	stamp := *first[0].ReadAt

	if err := svc.MarkRead(context.Background(), "bob", "c1"); err != nil {
		t.Fatalf("second mark read: %v", err)
	}
	second, _ := svc.Messages(context.Background(), "bob", "c1")
	if second[0].ReadAt == nil || !second[0].ReadAt.Equal(stamp) {
		t.Fatalf("read_at changed on re-run: %v vs %v", second[0].ReadAt, stamp)
	}
}

func TestMarkReadSkipsOwnMessages(t *testing.T) {
	svc, convos, _, _, _, _ := newConversationFixture(t)
	seedConversation(convos, "c1", "alice", "bob")

	if _, err := svc.Send(context.Background(), "alice", "c1", "mine", nil); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := svc.MarkRead(context.Background(), "alice", "c1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	msgs, _ := svc.Messages(context.Background(), "alice", "c1")
	if msgs[0].ReadAt != nil {
		t.Fatal("sender's own message must stay unread")
	}
}

func TestGetOrCreateReturnsSameConversation(t *testing.T) {
	svc, _, apps, jobs, _, _ := newConversationFixture(t)

	jobs.put(&models.Job{ID: "j1", EmployerID: "emp", Status: models.JobOpen})
	apps.put(&models.JobApplication{ID: "a1", SeekerID: "alice", JobID: "j1", Status: models.StatusApplied})

	first, err := svc.GetOrCreate(context.Background(), "alice", "a1", "Chat")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.GetOrCreate(context.Background(), "emp", "a1", "Chat")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same conversation, got %s and %s", first.ID, second.ID)
	}
}

func TestGetOrCreateRejectsThirdParty(t *testing.T) {
	svc, _, apps, jobs, _, _ := newConversationFixture(t)

	jobs.put(&models.Job{ID: "j1", EmployerID: "emp", Status: models.JobOpen})
	apps.put(&models.JobApplication{ID: "a1", SeekerID: "alice", JobID: "j1", Status: models.StatusApplied})

	_, err := svc.GetOrCreate(context.Background(), "mallory", "a1", "Chat")
	if !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("err = %v, want FORBIDDEN", err)
	}
}

func TestListUsesCacheUntilInvalidated(t *testing.T) {
	svc, convos, _, _, _, _ := newConversationFixture(t)
	seedConversation(convos, "c1", "alice", "bob")

	if _, err := svc.List(context.Background(), "alice"); err != nil {
		t.Fatalf("first list: %v", err)
	}
	if _, err := svc.List(context.Background(), "alice"); err != nil {
		t.Fatalf("second list: %v", err)
	}
	if convos.listCalls != 1 {
		t.Fatalf("expected one repo hit across two lists, got %d", convos.listCalls)
	}

	if _, err := svc.Send(context.Background(), "alice", "c1", "bump", nil); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.List(context.Background(), "alice"); err != nil {
		t.Fatalf("third list: %v", err)
	}
	if convos.listCalls != 2 {
		t.Fatalf("expected cache invalidation after send, got %d repo hits", convos.listCalls)
	}
}
