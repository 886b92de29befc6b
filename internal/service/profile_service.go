package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/syntherra/PooDough/internal/models"
	"github.com/syntherra/PooDough/internal/repository"
)

// ProfileService edits the mutable half of a user profile: display name,
// salary, currency and the work schedule. Aggregates never pass through here.
type ProfileService struct {
	users *repository.UserRepository
	log   zerolog.Logger
}

func NewProfileService(users *repository.UserRepository, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, log: log}
}

// ProfileUpdate is a partial patch; nil fields are left untouched.
type ProfileUpdate struct {
	DisplayName *string
	Currency    *string
	Salary      *float64
	WorkDays    *[]string
	WorkStart   *string
	WorkEnd     *string
}

// CheckDisplayName validates availability. The check is advisory: there is
// no unique index backing it, so a concurrent writer can still win the name.
func (s *ProfileService) CheckDisplayName(ctx context.Context, name string, excludeUserID string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameEmpty
	}

	count, err := s.users.CountByDisplayName(ctx, name, excludeUserID)
	if err != nil {
		return fmt.Errorf("check display name: %w", err)
	}
	if count > 0 {
		return ErrNameTaken
	}
	return nil
}

// Update applies a partial patch to the signed-in user's profile and returns
// the updated record.
func (s *ProfileService) Update(ctx context.Context, user models.User, patch ProfileUpdate) (models.User, error) {
	if user.ID == "" {
		return models.User{}, ErrNotSignedIn
	}

	if patch.DisplayName != nil {
		name := strings.TrimSpace(*patch.DisplayName)
		if name != user.DisplayName {
			if err := s.CheckDisplayName(ctx, name, user.ID); err != nil {
				return models.User{}, err
			}
		}
		user.DisplayName = name
	}
	if patch.Currency != nil {
		user.Currency = strings.ToUpper(strings.TrimSpace(*patch.Currency))
	}
	if patch.Salary != nil {
		user.Salary = *patch.Salary
	}
	if patch.WorkDays != nil {
		user.WorkDays = *patch.WorkDays
	}
	if patch.WorkStart != nil {
		user.WorkStart = *patch.WorkStart
	}
	if patch.WorkEnd != nil {
		user.WorkEnd = *patch.WorkEnd
	}

	if err := s.users.SaveProfile(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("save profile: %w", err)
	}
	return user, nil
}

// OnboardingInput is the one-shot setup collected after sign-up.
type OnboardingInput struct {
	DisplayName string
	Currency    string
	Salary      float64
	WorkDays    []string
	WorkStart   string
	WorkEnd     string
}

// CompleteOnboarding stores the initial salary and schedule and flips the
// onboarding flag. Calling it again simply overwrites the setup.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, user models.User, input OnboardingInput) (models.User, error) {
	if user.ID == "" {
		return models.User{}, ErrNotSignedIn
	}

	name := strings.TrimSpace(input.DisplayName)
	if name != "" && name != user.DisplayName {
		if err := s.CheckDisplayName(ctx, name, user.ID); err != nil {
			return models.User{}, err
		}
		user.DisplayName = name
	}

	if input.Currency != "" {
		user.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))
	}
	user.Salary = input.Salary
	user.WorkDays = input.WorkDays
	user.WorkStart = input.WorkStart
	user.WorkEnd = input.WorkEnd
	user.OnboardingCompleted = true

	if err := s.users.SaveProfile(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("save onboarding: %w", err)
	}
	return user, nil
}

// RegisterFCMToken stores the device push token; an empty token clears it.
func (s *ProfileService) RegisterFCMToken(ctx context.Context, userID string, token string) error {
	if userID == "" {
		return ErrNotSignedIn
	}
	if err := s.users.SetFCMToken(ctx, userID, token); err != nil {
		return fmt.Errorf("save push token: %w", err)
	}
	return nil
}
