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
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound   = errors.New("Notification not found")
	ErrNotNotificationOwner   = errors.New("Not authorized to update this notification")
	ErrCannotDeleteOtherInbox = errors.New("Not authorized to delete this notification")
	ErrTaskNotFound           = errors.New("Task not found")
	ErrUnsupportedEventType   = errors.New("unsupported notification event type")
)

// NotificationService provides notification CRUD and the event fan-out
// helpers. Fan-out is best effort: each recipient insert is an independent
// write, failures are logged and skipped, and there is no atomicity across
// the loop.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	yallaRepo        repository.YallaRepository
	circleRepo       repository.CircleRepository
	boardRepo        repository.BoardRepository
	userRepo         repository.UserRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	yallaRepo repository.YallaRepository,
	circleRepo repository.CircleRepository,
	boardRepo repository.BoardRepository,
	userRepo repository.UserRepository,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		yallaRepo:        yallaRepo,
		circleRepo:       circleRepo,
		boardRepo:        boardRepo,
		userRepo:         userRepo,
	}
}

// GetUserNotifications returns a user's notifications, newest first.
func (s *NotificationService) GetUserNotifications(authUserID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = constants.DefaultNotificationLimit
	}

	notifications, err := s.notificationRepo.ListByUser(authUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// GetUnreadCount counts a user's unread notifications.
func (s *NotificationService) GetUnreadCount(authUserID string) (int64, error) {
	count, err := s.notificationRepo.CountUnread(authUserID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// CreateNotificationInput represents parameters for a raw notification insert.
type CreateNotificationInput struct {
	UserID     string
	Type       models.NotificationType
	Title      string
	Message    string
	Emoji      string
	ActionURL  *string
	EntityType *models.EntityType
	EntityID   *string
}

// CreateNotification inserts a notification addressed to any user. The
// endpoint is unguarded, same as the source.
func (s *NotificationService) CreateNotification(input CreateNotificationInput) (string, error) {
	notification := &models.Notification{
		ID:         uuid.NewString(),
		UserID:     input.UserID,
		Type:       input.Type,
		Title:      input.Title,
		Message:    input.Message,
		Emoji:      input.Emoji,
		ActionURL:  input.ActionURL,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return "", fmt.Errorf("failed to create notification: %w", err)
	}

	return notification.ID, nil
}

// MarkAsRead marks one notification as read. Recipient only.
func (s *NotificationService) MarkAsRead(notificationID, authUserID string) error {
	notification, err := s.findNotification(notificationID)
	if err != nil {
		return err
	}

	if notification.UserID != authUserID {
		return ErrNotNotificationOwner
	}

	notification.IsRead = true
	if err := s.notificationRepo.Update(notification); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	return nil
}

// MarkAllAsRead marks every unread notification of the caller as read and
// returns how many were touched.
func (s *NotificationService) MarkAllAsRead(authUserID string) (int64, error) {
	count, err := s.notificationRepo.MarkAllRead(authUserID, time.Now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return count, nil
}

// DeleteNotification deletes one notification. Recipient only.
func (s *NotificationService) DeleteNotification(notificationID, authUserID string) error {
	notification, err := s.findNotification(notificationID)
	if err != nil {
		return err
	}

	if notification.UserID != authUserID {
		return ErrCannotDeleteOtherInbox
	}

	if err := s.notificationRepo.Delete(notificationID); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	return nil
}

// NotifyYallaEventInput describes a circle/yalla domain event to fan out.
type NotifyYallaEventInput struct {
	Type        models.NotificationType
	YallaID     string
	TriggeredBy string
}

// NotifyYallaEvent fans a yalla event out to its recipients: vote goes to
// the yalla's creator, assignment to the assignees, completion to the whole
// circle. The triggering user is never notified. Returns the ids of the
// notifications that were written.
func (s *NotificationService) NotifyYallaEvent(input NotifyYallaEventInput) ([]string, error) {
	yalla, err := s.yallaRepo.FindByID(input.YallaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrYallaNotFound
		}
		return nil, fmt.Errorf("failed to find yalla: %w", err)
	}

	actor := s.displayName(input.TriggeredBy)

	var recipients []string
	var title, message, emoji string

	switch input.Type {
	case models.NotificationVote:
		if yalla.CreatorID != input.TriggeredBy {
			recipients = []string{yalla.CreatorID}
		}
		title = "New vote on your yalla! 👍"
		message = fmt.Sprintf("%s voted on \"%s\"", actor, yalla.Title)
		emoji = "👍"

	case models.NotificationAssignment:
		for _, userID := range yalla.AssignedTo {
			if userID != input.TriggeredBy {
				recipients = append(recipients, userID)
			}
		}
		title = "New yalla assigned to you! 🎯"
		message = fmt.Sprintf("%s assigned you \"%s\"", actor, yalla.Title)
		emoji = "🎯"

	case models.NotificationCompletion:
		members, err := s.circleRepo.ListMembers(yalla.CircleID)
		if err != nil {
			return nil, fmt.Errorf("failed to list circle members: %w", err)
		}
		for _, member := range members {
			if member.UserID != input.TriggeredBy {
				recipients = append(recipients, member.UserID)
			}
		}
		title = "Yalla completed! 🎉"
		message = fmt.Sprintf("%s completed \"%s\"", actor, yalla.Title)
		emoji = "✅"

	default:
		return nil, ErrUnsupportedEventType
	}

	entityType := models.EntityYalla
	notificationIDs := make([]string, 0, len(recipients))

	for _, recipientID := range recipients {
		notification := &models.Notification{
			ID:         uuid.NewString(),
			UserID:     recipientID,
			Type:       input.Type,
			Title:      title,
			Message:    message,
			Emoji:      emoji,
			ActionURL:  strPtr("/yallas"),
			EntityType: &entityType,
			EntityID:   &yalla.ID,
		}

		if err := s.notificationRepo.Create(notification); err != nil {
			logger.Warn("yalla event fan-out insert failed",
				zap.String("yalla_id", yalla.ID),
				zap.String("recipient", recipientID),
				zap.Error(err))
			continue
		}

		notificationIDs = append(notificationIDs, notification.ID)
	}

	return notificationIDs, nil
}

// TaskEventData carries the optional display strings of the legacy
// board/item event surface.
type TaskEventData struct {
	AssignerName  *string
	CompleterName *string
	ItemTitle     *string
}

// NotifyTaskEventInput describes a board/item domain event to fan out.
type NotifyTaskEventInput struct {
	Type        models.NotificationType
	ItemID      string
	BoardID     string
	TriggeredBy string
	Data        *TaskEventData
}

// NotifyTaskEvent is the legacy board/item event surface: the board owner is
// the only recipient, and only when somebody else triggered the event.
func (s *NotificationService) NotifyTaskEvent(input NotifyTaskEventInput) ([]string, error) {
	item, err := s.boardRepo.FindItem(input.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}

	board, err := s.boardRepo.FindByID(input.BoardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}

	itemTitle := item.Title
	if input.Data != nil && input.Data.ItemTitle != nil {
		itemTitle = *input.Data.ItemTitle
	}

	var recipients []string
	var title, message, emoji string

	switch input.Type {
	case models.NotificationAssignment:
		if board.CreatedBy != nil && *board.CreatedBy != input.TriggeredBy {
			recipients = []string{*board.CreatedBy}
			actor := "Someone"
			if input.Data != nil && input.Data.AssignerName != nil {
				actor = *input.Data.AssignerName
			}
			title = "Task updated on your board 📝"
			message = fmt.Sprintf("%s updated \"%s\"", actor, itemTitle)
			emoji = "📝"
		}

	case models.NotificationCompletion:
		if board.CreatedBy != nil && *board.CreatedBy != input.TriggeredBy {
			recipients = []string{*board.CreatedBy}
			actor := "Someone"
			if input.Data != nil && input.Data.CompleterName != nil {
				actor = *input.Data.CompleterName
			}
			title = "Task completed! 🎉"
			message = fmt.Sprintf("%s completed \"%s\"", actor, itemTitle)
			emoji = "✅"
		}

	default:
		return nil, ErrUnsupportedEventType
	}

	entityType := models.EntityItem
	notificationIDs := make([]string, 0, len(recipients))

	for _, recipientID := range recipients {
		notification := &models.Notification{
			ID:         uuid.NewString(),
			UserID:     recipientID,
			Type:       input.Type,
			Title:      title,
			Message:    message,
			Emoji:      emoji,
			ActionURL:  strPtr("/boards/" + input.BoardID),
			EntityType: &entityType,
			EntityID:   &item.ID,
		}

		if err := s.notificationRepo.Create(notification); err != nil {
			logger.Warn("task event fan-out insert failed",
				zap.String("item_id", item.ID),
				zap.String("recipient", recipientID),
				zap.Error(err))
			continue
		}

		notificationIDs = append(notificationIDs, notification.ID)
	}

	return notificationIDs, nil
}

// AchievementDetails is the display payload of an achievement notification.
type AchievementDetails struct {
	Title   string
	Message string
	Emoji   string
}

// NotifyAchievement inserts an achievement notification for one user.
func (s *NotificationService) NotifyAchievement(authUserID string, details AchievementDetails) (string, error) {
	entityType := models.EntityUser
	return s.CreateNotification(CreateNotificationInput{
		UserID:     authUserID,
		Type:       models.NotificationAchievement,
		Title:      details.Title,
		Message:    details.Message,
		Emoji:      details.Emoji,
		EntityType: &entityType,
		EntityID:   &authUserID,
	})
}

// NotifyBoardInvite inserts a board collaboration invite notification.
func (s *NotificationService) NotifyBoardInvite(authUserID, boardID, boardName, inviterName string) (string, error) {
	entityType := models.EntityBoard
	return s.CreateNotification(CreateNotificationInput{
		UserID:     authUserID,
		Type:       models.NotificationInvite,
		Title:      "Board invitation! 📋",
		Message:    fmt.Sprintf("%s invited you to collaborate on \"%s\"", inviterName, boardName),
		Emoji:      "📋",
		ActionURL:  strPtr("/boards/" + boardID),
		EntityType: &entityType,
		EntityID:   &boardID,
	})
}

// NotifyCircleInvite inserts a circle invite notification.
func (s *NotificationService) NotifyCircleInvite(authUserID, circleID, circleName, inviterName string) (string, error) {
	entityType := models.EntityCircle
	return s.CreateNotification(CreateNotificationInput{
		UserID:     authUserID,
		Type:       models.NotificationInvite,
		Title:      "Circle invitation! 🤝",
		Message:    fmt.Sprintf("%s invited you to join \"%s\"", inviterName, circleName),
		Emoji:      "🤝",
		ActionURL:  strPtr("/circles"),
		EntityType: &entityType,
		EntityID:   &circleID,
	})
}

func (s *NotificationService) findNotification(id string) (*models.Notification, error) {
	notification, err := s.notificationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}
	return notification, nil
}

// displayName resolves a user's name for notification text, falling back to
// "Someone" when the user row is missing or unnamed.
func (s *NotificationService) displayName(authUserID string) string {
	user, err := s.userRepo.FindByAuthID(authUserID)
	if err != nil || user.Name == nil || *user.Name == "" {
		return "Someone"
	}
	return *user.Name
}

func strPtr(s string) *string {
	return &s
}
