package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/internal/utils"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormpg.New(gormpg.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return db, mock
}

func TestAppendMessageSingleStatement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepo(db)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	msg := models.Message{
		ID:        "m1",
		SenderID:  "alice",
		Content:   "hello",
		Kind:      models.MessageKindText,
		CreatedAt: at,
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE conversations")).
		WithArgs(sqlmock.AnyArg(), at, at, "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.AppendMessage(context.Background(), "c1", msg); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAppendMessageMissingConversation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE conversations")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AppendMessage(context.Background(), "missing", models.Message{ID: "m1", SenderID: "a", CreatedAt: time.Now()})
	if !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMarkReadStampsOtherSendersOnly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepo(db)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	stamp := at.Format(time.RFC3339Nano)

	mock.ExpectExec(regexp.QuoteMeta("jsonb_set(t.elem, '{read_at}'")).
		WithArgs("bob", stamp, at, "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkRead(context.Background(), "c1", "bob", at); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMarkReadMissingConversation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE conversations")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkRead(context.Background(), "missing", "bob", time.Now())
	if !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListByUserScansSummaryRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepo(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "title", "application_id", "created_at", "updated_at", "last_message_at",
		"application_status", "job_title", "company_name", "counterpart_id", "counterpart_name",
	}).AddRow("c1", "Chat", "a1", now, now, now, "interviewing", "Go Engineer", "Acme", "emp", "Em Ployer")

	mock.ExpectQuery(regexp.QuoteMeta("FROM conversations c")).
		WithArgs("alice", "alice").
		WillReturnRows(rows)

	out, err := repo.ListByUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if out[0].ID != "c1" || out[0].CounterpartID != "emp" {
		t.Fatalf("unexpected row: %+v", out[0])
	}
	if out[0].JobTitle == nil || *out[0].JobTitle != "Go Engineer" {
		t.Fatalf("job title = %v", out[0].JobTitle)
	}
}
