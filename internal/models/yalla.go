package models

import "gorm.io/datatypes"

type YallaType string

const (
	YallaTypeCommunity YallaType = "community"
	YallaTypeAssigned  YallaType = "assigned"
)

type YallaStatus string

const (
	YallaStatusPending   YallaStatus = "pending"
	YallaStatusAccepted  YallaStatus = "accepted"
	YallaStatusCompleted YallaStatus = "completed"
	YallaStatusDeclined  YallaStatus = "declined"
)

// Yalla is a task unit inside a circle: community yallas collect votes,
// assigned yallas are directed to specific members.
type Yalla struct {
	ID              string                       `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title           string                       `gorm:"type:varchar(255);not null" json:"title"`
	Description     *string                      `gorm:"type:text" json:"description,omitempty"`
	Type            YallaType                    `gorm:"type:varchar(20);not null" json:"type"`
	CreatorID       string                       `gorm:"type:varchar(191);index;not null" json:"creatorId"`
	CircleID        string                       `gorm:"type:varchar(36);index;not null" json:"circleId"`
	AssignedTo      datatypes.JSONSlice[string]  `json:"assignedTo,omitempty"`
	Status          YallaStatus                  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority        int                          `gorm:"not null;default:1" json:"priority"`
	DueDate         *int64                       `json:"dueDate,omitempty"`
	CompletedAt     *int64                       `json:"completedAt,omitempty"`
	CompletionImage *string                      `gorm:"type:varchar(512)" json:"completionImage,omitempty"`
	CreatedAt       int64                        `gorm:"autoCreateTime:milli" json:"createdAt"`
	UpdatedAt       int64                        `gorm:"autoUpdateTime:milli" json:"updatedAt"`

	// Relations
	Votes []Vote `gorm:"foreignKey:YallaID;references:ID" json:"votes,omitempty"`
}

// Vote is a signed preference (+1/-1 by convention, any number by contract)
// recorded by a circle member against a community yalla. At most one row
// exists per (user, yalla) pair.
type Vote struct {
	ID        string `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string `gorm:"type:varchar(191);not null;uniqueIndex:idx_votes_user_yalla" json:"userId"`
	YallaID   string `gorm:"type:varchar(36);not null;uniqueIndex:idx_votes_user_yalla;index" json:"yallaId"`
	Value     int    `gorm:"not null" json:"value"`
	CreatedAt int64  `gorm:"autoCreateTime:milli" json:"createdAt"`
}
