package models

import "gorm.io/datatypes"

// Preferences is the nested user settings object. Fields are pointers so a
// partial update can distinguish "unset" from an explicit value.
type Preferences struct {
	Theme         *string `json:"theme,omitempty"`
	Notifications *bool   `json:"notifications,omitempty"`
	Language      *string `json:"language,omitempty"`
}

// User is the denormalized copy of the auth provider's user record. AuthUserID
// is the external identity and the key every other entity references.
type User struct {
	ID             uint64                          `gorm:"primarykey" json:"-"`
	AuthUserID     string                          `gorm:"type:varchar(191);uniqueIndex;not null" json:"authUserId"`
	Email          string                          `gorm:"type:varchar(255);index;not null" json:"email"`
	Name           *string                         `gorm:"type:varchar(255)" json:"name,omitempty"`
	Avatar         *string                         `gorm:"type:varchar(512)" json:"avatar,omitempty"`
	KarmaLevel     int                             `gorm:"not null;default:0" json:"karmaLevel"`
	TasksCompleted int                             `gorm:"not null;default:0" json:"tasksCompleted"`
	TasksAssigned  int                             `gorm:"not null;default:0" json:"tasksAssigned"`
	Preferences    datatypes.JSONType[Preferences] `json:"preferences"`
	CreatedAt      int64                           `gorm:"autoCreateTime:milli" json:"createdAt"`
	UpdatedAt      int64                           `gorm:"autoUpdateTime:milli" json:"updatedAt"`
}
