package services

import (
	"errors"
	"fmt"

	"github.com/yallahq/yalla-api/internal/constants"
	"github.com/yallahq/yalla-api/internal/models"
	"github.com/yallahq/yalla-api/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("User not found")

// UserService provides business logic for user profiles synced from the
// external auth provider.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// SyncUserInput represents the profile the auth provider pushes on sign-in.
type SyncUserInput struct {
	AuthUserID string
	Email      string
	Name       *string
	Avatar     *string
}

// CreateOrUpdate upserts the caller's profile. Existing rows get their
// email, name and avatar overwritten (last write wins); new rows start with
// zeroed counters and default preferences.
func (s *UserService) CreateOrUpdate(input SyncUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByAuthID(input.AuthUserID)
	if err == nil {
		user.Email = input.Email
		user.Name = input.Name
		user.Avatar = input.Avatar

		if err := s.userRepo.Update(user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	theme := constants.DefaultTheme
	notifications := true
	language := constants.DefaultLanguage

	user = &models.User{
		AuthUserID: input.AuthUserID,
		Email:      input.Email,
		Name:       input.Name,
		Avatar:     input.Avatar,
		Preferences: datatypes.NewJSONType(models.Preferences{
			Theme:         &theme,
			Notifications: &notifications,
			Language:      &language,
		}),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByAuthID returns one user by external identity.
func (s *UserService) GetByAuthID(authUserID string) (*models.User, error) {
	return s.findUser(authUserID)
}

// ListAll returns every synced user.
func (s *UserService) ListAll() ([]models.User, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdatePreferences shallow-merges the present preference fields into the
// user's stored preferences.
func (s *UserService) UpdatePreferences(authUserID string, input models.Preferences) (*models.User, error) {
	user, err := s.findUser(authUserID)
	if err != nil {
		return nil, err
	}

	prefs := user.Preferences.Data()
	if input.Theme != nil {
		prefs.Theme = input.Theme
	}
	if input.Notifications != nil {
		prefs.Notifications = input.Notifications
	}
	if input.Language != nil {
		prefs.Language = input.Language
	}
	user.Preferences = datatypes.NewJSONType(prefs)

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	return user, nil
}

// UpdateProfileInput carries the optional fields of a profile patch.
type UpdateProfileInput struct {
	Name   *string
	Avatar *string
}

// UpdateProfile applies the present fields to a user's profile.
func (s *UserService) UpdateProfile(authUserID string, input UpdateProfileInput) (*models.User, error) {
	user, err := s.findUser(authUserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = input.Name
	}
	if input.Avatar != nil {
		user.Avatar = input.Avatar
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// Delete removes a user row. Deleting an unsynced user is a no-op.
func (s *UserService) Delete(authUserID string) error {
	if err := s.userRepo.Delete(authUserID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// UpdateKarmaLevel sets a user's karma level.
func (s *UserService) UpdateKarmaLevel(authUserID string, karmaLevel int) (*models.User, error) {
	user, err := s.findUser(authUserID)
	if err != nil {
		return nil, err
	}

	user.KarmaLevel = karmaLevel
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update karma level: %w", err)
	}

	return user, nil
}

// CounterUpdateInput adjusts a task counter: Increment bumps it by one,
// otherwise Count sets it when present.
type CounterUpdateInput struct {
	Increment bool
	Count     *int
}

// UpdateTasksCompleted adjusts the completed-tasks counter.
func (s *UserService) UpdateTasksCompleted(authUserID string, input CounterUpdateInput) (*models.User, error) {
	return s.updateCounter(authUserID, input, func(u *models.User, apply func(int) int) {
		u.TasksCompleted = apply(u.TasksCompleted)
	})
}

// UpdateTasksAssigned adjusts the assigned-tasks counter.
func (s *UserService) UpdateTasksAssigned(authUserID string, input CounterUpdateInput) (*models.User, error) {
	return s.updateCounter(authUserID, input, func(u *models.User, apply func(int) int) {
		u.TasksAssigned = apply(u.TasksAssigned)
	})
}

func (s *UserService) updateCounter(authUserID string, input CounterUpdateInput, set func(*models.User, func(int) int)) (*models.User, error) {
	user, err := s.findUser(authUserID)
	if err != nil {
		return nil, err
	}

	switch {
	case input.Increment:
		set(user, func(current int) int { return current + 1 })
	case input.Count != nil:
		set(user, func(int) int { return *input.Count })
	default:
		return user, nil
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update counter: %w", err)
	}

	return user, nil
}

func (s *UserService) findUser(authUserID string) (*models.User, error) {
	user, err := s.userRepo.FindByAuthID(authUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
