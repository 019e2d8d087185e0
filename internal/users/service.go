// Package users implements the create-or-update flow for user records.
// A successful write is followed immediately by a single-user rating
// refresh so new users appear on the leaderboard with live scores.
package users

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"rating-tracker/internal/common/errors"
	"rating-tracker/internal/common/logger"
	"rating-tracker/internal/common/validation"
	"rating-tracker/internal/models"
	"rating-tracker/internal/repository"
)

// Refresher is the slice of the rating pipeline this service needs.
type Refresher interface {
	RefreshUser(ctx context.Context, userID string) error
}

type CreateInput struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	CodeforcesHandle string `json:"codeforcesHandle"`
	LeetcodeHandle   string `json:"leetcodeHandle"`
	CodechefHandle   string `json:"codechefHandle"`
}

type Service struct {
	repo      repository.UserRepository
	refresher Refresher
	logger    logger.Logger
}

func NewService(repo repository.UserRepository, refresher Refresher, log logger.Logger) *Service {
	return &Service{repo: repo, refresher: refresher, logger: log}
}

// CreateOrUpdate upserts a user keyed by email. New users start with a
// zeroed snapshot; existing users keep their snapshot and get new profile
// fields. Either way the user is refreshed before being returned.
func (s *Service) CreateOrUpdate(ctx context.Context, input CreateInput) (*models.User, bool, error) {
	if err := validateInput(input); err != nil {
		return nil, false, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	user := &models.User{
		Name:             strings.TrimSpace(input.Name),
		Email:            email,
		CodeforcesHandle: models.NormalizeHandle(input.CodeforcesHandle),
		LeetcodeHandle:   models.NormalizeHandle(input.LeetcodeHandle),
		CodechefHandle:   models.NormalizeHandle(input.CodechefHandle),
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	isUpdate := err == nil

	if isUpdate {
		user.ID = existing.ID
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, true, err
		}
	} else {
		if !errors.IsCode(err, errors.ErrCodeUserNotFound) {
			return nil, false, err
		}
		user.ID = uuid.NewString()
		if err := s.repo.Create(ctx, user); err != nil {
			return nil, false, err
		}
	}

	// Refresh failures don't fail the write; the user exists either way
	// and the next batch run picks them up.
	if err := s.refresher.RefreshUser(ctx, user.ID); err != nil {
		s.logger.Warn("Initial rating refresh failed after user write", map[string]interface{}{
			"userId": user.ID,
			"error":  err.Error(),
		})
	}

	stored, err := s.repo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, isUpdate, err
	}
	return stored, isUpdate, nil
}

// Get returns one user by id.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func validateInput(input CreateInput) error {
	doc := map[string]interface{}{
		"name":  input.Name,
		"email": input.Email,
	}
	if input.CodeforcesHandle != "" {
		doc["codeforcesHandle"] = input.CodeforcesHandle
	}
	if input.LeetcodeHandle != "" {
		doc["leetcodeHandle"] = input.LeetcodeHandle
	}
	if input.CodechefHandle != "" {
		doc["codechefHandle"] = input.CodechefHandle
	}

	result, err := validation.ValidateUserPayload(doc)
	if err != nil {
		return errors.NewValidationFailedError(err.Error())
	}
	if !result.Valid {
		return errors.NewValidationFailedError(result.Describe())
	}
	if strings.TrimSpace(input.Name) == "" {
		return errors.NewValidationFailedError("name: must not be blank")
	}
	return nil
}
