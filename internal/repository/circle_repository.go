package repository

import (
	"github.com/yallahq/yalla-api/internal/models"
	"gorm.io/gorm"
)

// GormCircleRepository is a GORM implementation of CircleRepository
type GormCircleRepository struct {
	db *gorm.DB
}

// NewCircleRepository creates a new CircleRepository
func NewCircleRepository(db *gorm.DB) CircleRepository {
	return &GormCircleRepository{db: db}
}

// CreateWithAdmin creates a circle and its admin membership atomically
func (r *GormCircleRepository) CreateWithAdmin(circle *models.Circle, member *models.CircleMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(circle).Error; err != nil {
			return err
		}

		member.CircleID = circle.ID
		return tx.Create(member).Error
	})
}

// FindByID finds a circle by its application id
func (r *GormCircleRepository) FindByID(id string) (*models.Circle, error) {
	var circle models.Circle
	if err := r.db.Where("id = ?", id).First(&circle).Error; err != nil {
		return nil, err
	}
	return &circle, nil
}

// FindByIDs batch-fetches circles by id set
func (r *GormCircleRepository) FindByIDs(ids []string) ([]models.Circle, error) {
	if len(ids) == 0 {
		return []models.Circle{}, nil
	}

	var circles []models.Circle
	if err := r.db.Where("id IN ?", ids).Find(&circles).Error; err != nil {
		return nil, err
	}
	return circles, nil
}

// Update persists circle changes
func (r *GormCircleRepository) Update(circle *models.Circle) error {
	return r.db.Save(circle).Error
}

// DeleteCascade deletes a circle and all of its memberships
func (r *GormCircleRepository) DeleteCascade(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("circle_id = ?", id).Delete(&models.CircleMember{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.Circle{}).Error
	})
}

// AddMember adds a member to a circle
func (r *GormCircleRepository) AddMember(member *models.CircleMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a member from a circle
func (r *GormCircleRepository) RemoveMember(circleID, userID string) error {
	return r.db.Where("circle_id = ? AND user_id = ?", circleID, userID).
		Delete(&models.CircleMember{}).Error
}

// FindMember finds a specific circle membership
func (r *GormCircleRepository) FindMember(circleID, userID string) (*models.CircleMember, error) {
	var member models.CircleMember
	if err := r.db.Where("circle_id = ? AND user_id = ?", circleID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a circle
func (r *GormCircleRepository) ListMembers(circleID string) ([]models.CircleMember, error) {
	var members []models.CircleMember
	if err := r.db.Where("circle_id = ?", circleID).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListMembersByCircleIDs batch-fetches memberships for a set of circles
func (r *GormCircleRepository) ListMembersByCircleIDs(circleIDs []string) ([]models.CircleMember, error) {
	if len(circleIDs) == 0 {
		return []models.CircleMember{}, nil
	}

	var members []models.CircleMember
	if err := r.db.Where("circle_id IN ?", circleIDs).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListMembershipsByUser lists all circles a user belongs to
func (r *GormCircleRepository) ListMembershipsByUser(userID string) ([]models.CircleMember, error) {
	var memberships []models.CircleMember
	if err := r.db.Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}
