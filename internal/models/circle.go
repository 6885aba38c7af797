package models

type AssignmentPolicy string

const (
	AssignmentAdminOnly  AssignmentPolicy = "admin-only"
	AssignmentAllMembers AssignmentPolicy = "all-members"
)

type CircleRole string

const (
	CircleRoleAdmin  CircleRole = "admin"
	CircleRoleMember CircleRole = "member"
)

// Circle is a social group with exactly one admin (its creator) and a policy
// controlling who may create assigned yallas.
type Circle struct {
	ID                    string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name                  string           `gorm:"type:varchar(255);not null" json:"name"`
	Description           string           `gorm:"type:text" json:"description"`
	Color                 string           `gorm:"type:varchar(32);not null" json:"color"`
	AdminID               string           `gorm:"type:varchar(191);index;not null" json:"adminId"`
	AssignmentPermissions AssignmentPolicy `gorm:"type:varchar(20);not null" json:"assignmentPermissions"`
	CreatedAt             int64            `gorm:"autoCreateTime:milli" json:"createdAt"`
	UpdatedAt             int64            `gorm:"autoUpdateTime:milli" json:"updatedAt"`

	// Relations
	Members []CircleMember `gorm:"foreignKey:CircleID;references:ID" json:"members,omitempty"`
	Yallas  []Yalla        `gorm:"foreignKey:CircleID;references:ID" json:"yallas,omitempty"`
}

// CircleMember links a user to a circle. The creator's admin row is inserted
// in the same transaction as the circle itself.
type CircleMember struct {
	CircleID string     `gorm:"type:varchar(36);primaryKey" json:"circleId"`
	UserID   string     `gorm:"type:varchar(191);primaryKey" json:"userId"`
	Role     CircleRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt int64      `gorm:"autoCreateTime:milli" json:"joinedAt"`
}
