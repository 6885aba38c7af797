package models

// NotificationType spans both event generations: the circle/yalla events
// (vote, assignment, completion) and the older board/item surface plus the
// shared invite/achievement/reminder kinds.
type NotificationType string

const (
	NotificationVote        NotificationType = "vote"
	NotificationAssignment  NotificationType = "assignment"
	NotificationCompletion  NotificationType = "completion"
	NotificationInvite      NotificationType = "invite"
	NotificationAchievement NotificationType = "achievement"
	NotificationReminder    NotificationType = "reminder"
)

type EntityType string

const (
	EntityBoard  EntityType = "board"
	EntityItem   EntityType = "item"
	EntityUser   EntityType = "user"
	EntityCircle EntityType = "circle"
	EntityYalla  EntityType = "yalla"
)

// Notification is a per-recipient message produced by the fan-out helpers
// (or the raw create endpoint). Delivery is best effort.
type Notification struct {
	ID         string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string           `gorm:"type:varchar(191);index;index:idx_notifications_user_read;not null" json:"userId"`
	Type       NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Title      string           `gorm:"type:varchar(255);not null" json:"title"`
	Message    string           `gorm:"type:text;not null" json:"message"`
	Emoji      string           `gorm:"type:varchar(16);not null" json:"emoji"`
	IsRead     bool             `gorm:"index:idx_notifications_user_read;not null;default:false" json:"isRead"`
	ActionURL  *string          `gorm:"type:varchar(512)" json:"actionUrl,omitempty"`
	EntityType *EntityType      `gorm:"type:varchar(20)" json:"entityType,omitempty"`
	EntityID   *string          `gorm:"type:varchar(191)" json:"entityId,omitempty"`
	CreatedAt  int64            `gorm:"autoCreateTime:milli;index" json:"createdAt"`
	UpdatedAt  int64            `gorm:"autoUpdateTime:milli" json:"updatedAt"`
}
