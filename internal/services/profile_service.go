package services

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"

	"github.com/hirebridge/hirebridge/internal/models"
	pgrepo "github.com/hirebridge/hirebridge/internal/repositories/postgres"
	"github.com/hirebridge/hirebridge/internal/utils"
)

type ProfileInput struct {
	FullName    string         `json:"full_name"`
	Headline    string         `json:"headline"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Bio         string         `json:"bio"`
	Skills      []string       `json:"skills"`
	Experience  datatypes.JSON `json:"experience"`
	Education   datatypes.JSON `json:"education"`
	Preferences datatypes.JSON `json:"preferences"`
}

type ProfileService interface {
	GetMe(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, userID string, in ProfileInput) (*models.Profile, error)
}

type profileService struct {
	profiles pgrepo.ProfileRepository
}

func NewProfileService(profiles pgrepo.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) GetMe(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.GetMe"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load profile", err)
	}
	return p, nil
}

func (s *profileService) Upsert(ctx context.Context, userID string, in ProfileInput) (*models.Profile, error) {
	const op = "ProfileService.Upsert"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if in.FullName == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "full_name is required", nil)
	}

	p := &models.Profile{
		UserID:      userID,
		FullName:    in.FullName,
		Headline:    in.Headline,
		Email:       in.Email,
		Phone:       in.Phone,
		Bio:         in.Bio,
		Skills:      pq.StringArray(in.Skills),
		Experience:  in.Experience,
		Education:   in.Education,
		Preferences: in.Preferences,
		UpdatedAt:   time.Now().UTC(),
	}

	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save profile", err)
	}

	// Re-read so the caller sees the merged row, embedding included.
	saved, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to reload profile", err)
	}
	return saved, nil
}
