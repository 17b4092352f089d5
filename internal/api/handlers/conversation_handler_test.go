package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/internal/utils"
)

type stubConversationService struct {
	messages  []models.Message
	sent      *models.Message
	sendErr   error
	marked    bool
	conv      *models.Conversation
	summaries []models.ConversationSummary
}

func (s *stubConversationService) List(_ context.Context, _ string) ([]models.ConversationSummary, error) {
	return s.summaries, nil
}

func (s *stubConversationService) Messages(_ context.Context, _, _ string) ([]models.Message, error) {
	return s.messages, nil
}

func (s *stubConversationService) Send(_ context.Context, userID, conversationID, text string, _ []string) (*models.Message, error) {
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	s.sent = &models.Message{
		ID:        "m1",
		SenderID:  userID,
		Content:   text,
		Kind:      models.MessageKindText,
		CreatedAt: time.Now().UTC(),
	}
	return s.sent, nil
}

func (s *stubConversationService) MarkRead(_ context.Context, _, _ string) error {
	s.marked = true
	return nil
}

func (s *stubConversationService) GetOrCreate(_ context.Context, _, _, _ string) (*models.Conversation, error) {
	return s.conv, nil
}

func newConversationRouter(stub *stubConversationService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	h := NewConversationHandler(stub)
	r.GET("/conversations", h.List)
	r.GET("/conversations/:conversation_id/messages", h.Messages)
	r.POST("/conversations/:conversation_id/messages", h.Send)
	r.POST("/conversations/:conversation_id/read", h.MarkRead)
	return r
}

func TestSendHandlerCreatesMessage(t *testing.T) {
	stub := &stubConversationService{}
	r := newConversationRouter(stub, "alice")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/conversations/c1/messages",
		strings.NewReader(`{"content":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if stub.sent == nil || stub.sent.Content != "hello" {
		t.Fatalf("service not called with content, got %+v", stub.sent)
	}
}

func TestSendHandlerMapsServiceError(t *testing.T) {
	stub := &stubConversationService{
		sendErr: utils.E(utils.CodeForbidden, "ConversationService.Send", "not a participant of this conversation", nil),
	}
	r := newConversationRouter(stub, "mallory")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/conversations/c1/messages",
		strings.NewReader(`{"content":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"FORBIDDEN"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestSendHandlerRejectsBadJSON(t *testing.T) {
	stub := &stubConversationService{}
	r := newConversationRouter(stub, "alice")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/conversations/c1/messages",
		strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandlersRequireAuth(t *testing.T) {
	stub := &stubConversationService{}
	r := newConversationRouter(stub, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conversations", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestMarkReadHandler(t *testing.T) {
	stub := &stubConversationService{}
	r := newConversationRouter(stub, "bob")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/conversations/c1/read", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !stub.marked {
		t.Fatal("service MarkRead not called")
	}
}

func TestMessagesHandlerReturnsList(t *testing.T) {
	stub := &stubConversationService{
		messages: []models.Message{{ID: "m1", SenderID: "alice", Content: "hey"}},
	}
	r := newConversationRouter(stub, "bob")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conversations/c1/messages", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"m1"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}
