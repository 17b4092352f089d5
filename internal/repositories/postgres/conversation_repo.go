package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/internal/utils"
	"gorm.io/gorm"
)

type ConversationRepo interface {
	ListByUser(ctx context.Context, userID string) ([]models.ConversationSummary, error)
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
	ParticipantIDs(ctx context.Context, conversationID string) ([]string, error)
	FindByApplicationForUser(ctx context.Context, applicationID, userID string) (*models.Conversation, error)
	CreateWithParticipants(ctx context.Context, conv *models.Conversation, parts []models.ConversationParticipant) error
	Messages(ctx context.Context, conversationID string) ([]models.Message, error)
	AppendMessage(ctx context.Context, conversationID string, msg models.Message) error
	MarkRead(ctx context.Context, conversationID, readerID string, at time.Time) error
}

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepo{db: db}
}

const listByUserSQL = `
SELECT c.id, c.title, c.application_id, c.created_at, c.updated_at, c.last_message_at,
       a.status      AS application_status,
       j.title       AS job_title,
       co.name       AS company_name,
       other.user_id AS counterpart_id,
       pr.full_name  AS counterpart_name
FROM conversations c
JOIN conversation_participants me    ON me.conversation_id = c.id AND me.user_id = ?
JOIN conversation_participants other ON other.conversation_id = c.id AND other.user_id <> ?
LEFT JOIN job_applications a ON a.id = c.application_id
LEFT JOIN jobs j             ON j.id = a.job_id
LEFT JOIN companies co       ON co.id = j.company_id
LEFT JOIN profiles pr        ON pr.user_id = other.user_id
ORDER BY c.last_message_at DESC NULLS LAST, c.created_at DESC`

func (r *conversationRepo) ListByUser(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	var rows []models.ConversationSummary
	err := r.db.WithContext(ctx).Raw(listByUserSQL, userID, userID).Scan(&rows).Error
	return rows, err
}

func (r *conversationRepo) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	var row models.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *conversationRepo) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *conversationRepo) ParticipantIDs(ctx context.Context, conversationID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.ConversationParticipant{}).
		Where("conversation_id = ?", conversationID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *conversationRepo) FindByApplicationForUser(ctx context.Context, applicationID, userID string) (*models.Conversation, error) {
	var row models.Conversation
	err := r.db.WithContext(ctx).
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("conversations.application_id = ? AND cp.user_id = ?", applicationID, userID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

// CreateWithParticipants inserts the conversation row and both participant
// rows in one transaction, so a failure never leaves an orphaned
// conversation with a partial participant set.
func (r *conversationRepo) CreateWithParticipants(ctx context.Context, conv *models.Conversation, parts []models.ConversationParticipant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		for i := range parts {
			parts[i].ConversationID = conv.ID
		}
		return tx.Create(&parts).Error
	})
}

func (r *conversationRepo) Messages(ctx context.Context, conversationID string) ([]models.Message, error) {
	conv, err := r.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if len(conv.Messages) == 0 {
		return []models.Message{}, nil
	}
	var msgs []models.Message
	if err := json.Unmarshal(conv.Messages, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

const appendMessageSQL = `
UPDATE conversations
SET messages = COALESCE(messages, '[]'::jsonb) || ?::jsonb,
    last_message_at = ?,
    updated_at = ?
WHERE id = ?`

// AppendMessage is the atomic append operation: a single statement that
// concatenates the new element onto the JSONB array, so two concurrent
// senders can never overwrite each other's message.
func (r *conversationRepo) AppendMessage(ctx context.Context, conversationID string, msg models.Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Exec(appendMessageSQL, string(b), msg.CreatedAt, msg.CreatedAt, conversationID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

const markReadSQL = `
UPDATE conversations
SET messages = (
      SELECT COALESCE(jsonb_agg(
               CASE WHEN t.elem->>'sender_id' <> ? AND t.elem->>'read_at' IS NULL
                    THEN jsonb_set(t.elem, '{read_at}', to_jsonb(?::text))
                    ELSE t.elem
               END ORDER BY t.ord), '[]'::jsonb)
      FROM jsonb_array_elements(COALESCE(messages, '[]'::jsonb)) WITH ORDINALITY AS t(elem, ord)
    ),
    updated_at = ?
WHERE id = ?`

// MarkRead stamps read_at on every element not sent by the reader, in one
// atomic statement. Re-running it is a no-op for already-read elements.
func (r *conversationRepo) MarkRead(ctx context.Context, conversationID, readerID string, at time.Time) error {
	stamp := at.UTC().Format(time.RFC3339Nano)
	res := r.db.WithContext(ctx).Exec(markReadSQL, readerID, stamp, at, conversationID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
