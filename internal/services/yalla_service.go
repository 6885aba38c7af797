package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yallahq/yalla-api/internal/constants"
	"github.com/yallahq/yalla-api/internal/models"
	"github.com/yallahq/yalla-api/internal/repository"
	"github.com/yallahq/yalla-api/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrYallaNotFound           = errors.New("Yalla not found")
	ErrNotCircleMemberCreate   = errors.New("Not authorized to create yallas in this circle")
	ErrAssignedYallaAdminOnly  = errors.New("Only admins can create assigned yallas in this circle")
	ErrNotAuthorizedEditYalla  = errors.New("Not authorized to update this yalla")
	ErrOnlyCreatorDeletesYalla = errors.New("Not authorized to delete this yalla")
	ErrVoteCommunityOnly       = errors.New("Can only vote on community yallas")
	ErrCannotVote              = errors.New("Not authorized to vote on this yalla")
	ErrNotCircleViewer         = errors.New("Not authorized to view yallas for this circle")
)

// YallaService provides business logic for yallas and votes. Notification
// fan-out happens here, after the triggering write commits, and never fails
// the request.
type YallaService struct {
	yallaRepo           repository.YallaRepository
	circleRepo          repository.CircleRepository
	notificationService *NotificationService
}

// NewYallaService creates a new YallaService.
func NewYallaService(
	yallaRepo repository.YallaRepository,
	circleRepo repository.CircleRepository,
	notificationService *NotificationService,
) *YallaService {
	return &YallaService{
		yallaRepo:           yallaRepo,
		circleRepo:          circleRepo,
		notificationService: notificationService,
	}
}

// GetUserYallas returns every yalla from every circle the user belongs to,
// votes included, batch-fetched by circle id set.
func (s *YallaService) GetUserYallas(authUserID string) ([]models.Yalla, error) {
	memberships, err := s.circleRepo.ListMembershipsByUser(authUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list circle memberships: %w", err)
	}

	circleIDs := make([]string, 0, len(memberships))
	for _, m := range memberships {
		circleIDs = append(circleIDs, m.CircleID)
	}

	yallas, err := s.yallaRepo.ListByCircleIDs(circleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list yallas: %w", err)
	}
	return yallas, nil
}

// GetCircleYallas returns a circle's yallas with votes. Members only.
func (s *YallaService) GetCircleYallas(circleID, authUserID string) ([]models.Yalla, error) {
	if err := s.requireMembership(circleID, authUserID, ErrNotCircleViewer); err != nil {
		return nil, err
	}

	yallas, err := s.yallaRepo.ListByCircle(circleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list yallas: %w", err)
	}
	return yallas, nil
}

// CreateYallaInput represents parameters to create a new yalla.
type CreateYallaInput struct {
	Title           string
	Description     *string
	Type            models.YallaType
	CircleID        string
	CreatorID       string
	AssignedTo      []string
	Priority        *int
	DueDate         *int64
	CompletionImage *string
}

// CreateYalla creates a yalla in a circle. The creator must be a member, and
// assigned yallas additionally require the admin role when the circle's
// assignment policy is admin-only. Assignment notifications fan out after
// the insert.
func (s *YallaService) CreateYalla(input CreateYallaInput) (string, error) {
	if err := s.requireMembership(input.CircleID, input.CreatorID, ErrNotCircleMemberCreate); err != nil {
		return "", err
	}

	circle, err := s.circleRepo.FindByID(input.CircleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrCircleNotFound
		}
		return "", fmt.Errorf("failed to find circle: %w", err)
	}

	if input.Type == models.YallaTypeAssigned &&
		circle.AssignmentPermissions == models.AssignmentAdminOnly &&
		circle.AdminID != input.CreatorID {
		return "", ErrAssignedYallaAdminOnly
	}

	priority := constants.DefaultYallaPriority
	if input.Priority != nil {
		priority = *input.Priority
	}

	yalla := &models.Yalla{
		ID:              uuid.NewString(),
		Title:           input.Title,
		Description:     input.Description,
		Type:            input.Type,
		CreatorID:       input.CreatorID,
		CircleID:        input.CircleID,
		AssignedTo:      datatypes.JSONSlice[string](input.AssignedTo),
		Status:          models.YallaStatusPending,
		Priority:        priority,
		DueDate:         input.DueDate,
		CompletionImage: input.CompletionImage,
	}

	if err := s.yallaRepo.Create(yalla); err != nil {
		return "", fmt.Errorf("failed to create yalla: %w", err)
	}

	if input.Type == models.YallaTypeAssigned && len(input.AssignedTo) > 0 {
		s.fanOut(models.NotificationAssignment, yalla.ID, input.CreatorID)
	}

	return yalla.ID, nil
}

// UpdateYallaInput carries the optional fields of a yalla patch.
type UpdateYallaInput struct {
	Title           *string
	Description     *string
	Status          *models.YallaStatus
	CompletedAt     *int64
	CompletionImage *string
}

// UpdateYalla applies the present fields to a yalla. Only the creator or an
// assignee may edit. A transition into the completed status fans completion
// notifications out to the circle.
func (s *YallaService) UpdateYalla(yallaID, authUserID string, input UpdateYallaInput) (*models.Yalla, error) {
	yalla, err := s.findYalla(yallaID)
	if err != nil {
		return nil, err
	}

	if yalla.CreatorID != authUserID && !containsString(yalla.AssignedTo, authUserID) {
		return nil, ErrNotAuthorizedEditYalla
	}

	wasCompleted := yalla.Status == models.YallaStatusCompleted

	if input.Title != nil {
		yalla.Title = *input.Title
	}
	if input.Description != nil {
		yalla.Description = input.Description
	}
	if input.Status != nil {
		yalla.Status = *input.Status
	}
	if input.CompletedAt != nil {
		yalla.CompletedAt = input.CompletedAt
	}
	if input.CompletionImage != nil {
		yalla.CompletionImage = input.CompletionImage
	}

	if yalla.Status == models.YallaStatusCompleted && yalla.CompletedAt == nil {
		now := time.Now().UnixMilli()
		yalla.CompletedAt = &now
	}

	if err := s.yallaRepo.Update(yalla); err != nil {
		return nil, fmt.Errorf("failed to update yalla: %w", err)
	}

	if !wasCompleted && yalla.Status == models.YallaStatusCompleted {
		s.fanOut(models.NotificationCompletion, yalla.ID, authUserID)
	}

	return yalla, nil
}

// DeleteYalla deletes a yalla and all of its votes. Creator only.
func (s *YallaService) DeleteYalla(yallaID, authUserID string) error {
	yalla, err := s.findYalla(yallaID)
	if err != nil {
		return err
	}

	if yalla.CreatorID != authUserID {
		return ErrOnlyCreatorDeletesYalla
	}

	if err := s.yallaRepo.DeleteCascade(yallaID); err != nil {
		return fmt.Errorf("failed to delete yalla: %w", err)
	}

	return nil
}

// VoteOnYalla records a member's vote on a community yalla. One vote per
// user per yalla: a repeat vote overwrites the previous value. The yalla's
// creator is notified unless they voted on their own yalla.
func (s *YallaService) VoteOnYalla(yallaID, authUserID string, value int) error {
	yalla, err := s.findYalla(yallaID)
	if err != nil {
		return err
	}

	if yalla.Type != models.YallaTypeCommunity {
		return ErrVoteCommunityOnly
	}

	if err := s.requireMembership(yalla.CircleID, authUserID, ErrCannotVote); err != nil {
		return err
	}

	existing, err := s.yallaRepo.FindVote(authUserID, yallaID)
	switch {
	case err == nil:
		existing.Value = value
		if err := s.yallaRepo.UpdateVote(existing); err != nil {
			return fmt.Errorf("failed to update vote: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		vote := &models.Vote{
			ID:      uuid.NewString(),
			UserID:  authUserID,
			YallaID: yallaID,
			Value:   value,
		}
		if err := s.yallaRepo.CreateVote(vote); err != nil {
			return fmt.Errorf("failed to create vote: %w", err)
		}
	default:
		return fmt.Errorf("failed to find vote: %w", err)
	}

	s.fanOut(models.NotificationVote, yallaID, authUserID)
	return nil
}

// RemoveVote deletes the caller's vote from a yalla. Removing a vote that
// does not exist is a no-op.
func (s *YallaService) RemoveVote(yallaID, authUserID string) error {
	if _, err := s.findYalla(yallaID); err != nil {
		return err
	}

	if err := s.yallaRepo.DeleteVote(authUserID, yallaID); err != nil {
		return fmt.Errorf("failed to remove vote: %w", err)
	}

	return nil
}

func (s *YallaService) findYalla(id string) (*models.Yalla, error) {
	yalla, err := s.yallaRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrYallaNotFound
		}
		return nil, fmt.Errorf("failed to find yalla: %w", err)
	}
	return yalla, nil
}

func (s *YallaService) requireMembership(circleID, userID string, denied error) error {
	if _, err := s.circleRepo.FindMember(circleID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return denied
		}
		return fmt.Errorf("failed to verify membership: %w", err)
	}
	return nil
}

// fanOut delivers an event's notifications without letting a delivery
// failure surface to the caller.
func (s *YallaService) fanOut(eventType models.NotificationType, yallaID, triggeredBy string) {
	if s.notificationService == nil {
		return
	}

	if _, err := s.notificationService.NotifyYallaEvent(NotifyYallaEventInput{
		Type:        eventType,
		YallaID:     yallaID,
		TriggeredBy: triggeredBy,
	}); err != nil {
		logger.Warn("notification fan-out failed",
			zap.String("yalla_id", yallaID),
			zap.String("event", string(eventType)),
			zap.Error(err))
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
