package repository

import (
	"github.com/yallahq/yalla-api/internal/models"
)

// BoardRepository defines the interface for board, column and item data access
type BoardRepository interface {
	// Create creates a new board
	Create(board *models.Board) error

	// FindByID finds a board by its application id, without relations
	FindByID(id string) (*models.Board, error)

	// FindFull finds a board by its application id, with columns and items
	FindFull(id string) (*models.Board, error)

	// FindAll returns every board with columns and items
	FindAll() ([]models.Board, error)

	// FindByCreator returns boards created by the given user, with columns and items
	FindByCreator(authUserID string) ([]models.Board, error)

	// Update persists board changes
	Update(board *models.Board) error

	// CreateColumn inserts a column, assigning its order from the current
	// column count of the board inside a single transaction
	CreateColumn(column *models.Column) error

	// FindColumn finds a column by its application id
	FindColumn(id string) (*models.Column, error)

	// UpdateColumn persists column changes
	UpdateColumn(column *models.Column) error

	// DeleteColumnCascade deletes a column and every item in it
	DeleteColumnCascade(id string) error

	// CreateItem inserts an item
	CreateItem(item *models.Item) error

	// FindItem finds an item by its application id
	FindItem(id string) (*models.Item, error)

	// UpdateItem persists item changes
	UpdateItem(item *models.Item) error

	// DeleteItem deletes an item
	DeleteItem(id string) error
}

// CircleRepository defines the interface for circle and membership data access
type CircleRepository interface {
	// CreateWithAdmin creates a circle and its admin membership atomically
	CreateWithAdmin(circle *models.Circle, member *models.CircleMember) error

	// FindByID finds a circle by its application id
	FindByID(id string) (*models.Circle, error)

	// FindByIDs batch-fetches circles by id set
	FindByIDs(ids []string) ([]models.Circle, error)

	// Update persists circle changes
	Update(circle *models.Circle) error

	// DeleteCascade deletes a circle and all of its memberships
	DeleteCascade(id string) error

	// AddMember adds a member to a circle
	AddMember(member *models.CircleMember) error

	// RemoveMember removes a member from a circle
	RemoveMember(circleID, userID string) error

	// FindMember finds a specific circle membership
	FindMember(circleID, userID string) (*models.CircleMember, error)

	// ListMembers lists all members of a circle
	ListMembers(circleID string) ([]models.CircleMember, error)

	// ListMembersByCircleIDs batch-fetches memberships for a set of circles
	ListMembersByCircleIDs(circleIDs []string) ([]models.CircleMember, error)

	// ListMembershipsByUser lists all circles a user belongs to
	ListMembershipsByUser(userID string) ([]models.CircleMember, error)
}

// YallaRepository defines the interface for yalla and vote data access
type YallaRepository interface {
	// Create inserts a yalla
	Create(yalla *models.Yalla) error

	// FindByID finds a yalla by its application id
	FindByID(id string) (*models.Yalla, error)

	// ListByCircle returns a circle's yallas with their votes
	ListByCircle(circleID string) ([]models.Yalla, error)

	// ListByCircleIDs batch-fetches yallas with votes for a set of circles
	ListByCircleIDs(circleIDs []string) ([]models.Yalla, error)

	// Update persists yalla changes
	Update(yalla *models.Yalla) error

	// DeleteCascade deletes a yalla and all of its votes
	DeleteCascade(id string) error

	// FindVote finds the vote a user cast on a yalla
	FindVote(userID, yallaID string) (*models.Vote, error)

	// CreateVote inserts a vote
	CreateVote(vote *models.Vote) error

	// UpdateVote persists vote changes
	UpdateVote(vote *models.Vote) error

	// DeleteVote removes the vote a user cast on a yalla
	DeleteVote(userID, yallaID string) error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create inserts a notification
	Create(notification *models.Notification) error

	// FindByID finds a notification by its application id
	FindByID(id string) (*models.Notification, error)

	// ListByUser returns a user's notifications, newest first
	ListByUser(userID string, limit int) ([]models.Notification, error)

	// CountUnread counts a user's unread notifications
	CountUnread(userID string) (int64, error)

	// Update persists notification changes
	Update(notification *models.Notification) error

	// MarkAllRead marks every unread notification of a user as read and
	// returns the number of rows touched
	MarkAllRead(userID string, now int64) (int64, error)

	// Delete deletes a notification
	Delete(id string) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a user
	Create(user *models.User) error

	// FindByAuthID finds a user by the external auth identity
	FindByAuthID(authUserID string) (*models.User, error)

	// FindByAuthIDs batch-fetches users by auth identity set
	FindByAuthIDs(authUserIDs []string) ([]models.User, error)

	// FindAll returns every user
	FindAll() ([]models.User, error)

	// Update persists user changes
	Update(user *models.User) error

	// Delete removes a user by auth identity
	Delete(authUserID string) error
}
