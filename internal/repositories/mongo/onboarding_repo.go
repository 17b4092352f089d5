package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type OnboardingRepository interface {
	Create(ctx context.Context, s *models.OnboardingSession) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.OnboardingSession, error)
	AppendTurn(ctx context.Context, sessionID string, turn models.OnboardingTurn) error
	SetCompanyBlock(ctx context.Context, sessionID string, block string) error
	Complete(ctx context.Context, sessionID string, at time.Time) error
}

type onboardingRepo struct {
	col *mongo.Collection
}

func NewOnboardingRepo(db *mongo.Database) OnboardingRepository {
	return &onboardingRepo{col: db.Collection("onboarding_sessions")}
}

func (r *onboardingRepo) Create(ctx context.Context, s *models.OnboardingSession) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *onboardingRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.OnboardingSession, error) {
	var s models.OnboardingSession
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *onboardingRepo) AppendTurn(ctx context.Context, sessionID string, turn models.OnboardingTurn) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{
			"$push": bson.M{"turns": turn},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *onboardingRepo) SetCompanyBlock(ctx context.Context, sessionID string, block string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{
			"company_block": block,
			"updated_at":    time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *onboardingRepo) Complete(ctx context.Context, sessionID string, at time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{
			"status":       models.OnboardingCompleted,
			"completed_at": at.UTC(),
			"updated_at":   at.UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}
