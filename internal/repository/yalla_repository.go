package repository

import (
	"github.com/yallahq/yalla-api/internal/models"
	"gorm.io/gorm"
)

// GormYallaRepository is a GORM implementation of YallaRepository
type GormYallaRepository struct {
	db *gorm.DB
}

// NewYallaRepository creates a new YallaRepository
func NewYallaRepository(db *gorm.DB) YallaRepository {
	return &GormYallaRepository{db: db}
}

// Create inserts a yalla
func (r *GormYallaRepository) Create(yalla *models.Yalla) error {
	return r.db.Create(yalla).Error
}

// FindByID finds a yalla by its application id
func (r *GormYallaRepository) FindByID(id string) (*models.Yalla, error) {
	var yalla models.Yalla
	if err := r.db.Where("id = ?", id).First(&yalla).Error; err != nil {
		return nil, err
	}
	return &yalla, nil
}

// ListByCircle returns a circle's yallas with their votes
func (r *GormYallaRepository) ListByCircle(circleID string) ([]models.Yalla, error) {
	var yallas []models.Yalla
	if err := r.db.Preload("Votes").
		Where("circle_id = ?", circleID).
		Find(&yallas).Error; err != nil {
		return nil, err
	}
	return yallas, nil
}

// ListByCircleIDs batch-fetches yallas with votes for a set of circles
func (r *GormYallaRepository) ListByCircleIDs(circleIDs []string) ([]models.Yalla, error) {
	if len(circleIDs) == 0 {
		return []models.Yalla{}, nil
	}

	var yallas []models.Yalla
	if err := r.db.Preload("Votes").
		Where("circle_id IN ?", circleIDs).
		Find(&yallas).Error; err != nil {
		return nil, err
	}
	return yallas, nil
}

// Update persists yalla changes
func (r *GormYallaRepository) Update(yalla *models.Yalla) error {
	return r.db.Save(yalla).Error
}

// DeleteCascade deletes a yalla and all of its votes
func (r *GormYallaRepository) DeleteCascade(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("yalla_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.Yalla{}).Error
	})
}

// FindVote finds the vote a user cast on a yalla
func (r *GormYallaRepository) FindVote(userID, yallaID string) (*models.Vote, error) {
	var vote models.Vote
	if err := r.db.Where("user_id = ? AND yalla_id = ?", userID, yallaID).
		First(&vote).Error; err != nil {
		return nil, err
	}
	return &vote, nil
}

// CreateVote inserts a vote
func (r *GormYallaRepository) CreateVote(vote *models.Vote) error {
	return r.db.Create(vote).Error
}

// UpdateVote persists vote changes
func (r *GormYallaRepository) UpdateVote(vote *models.Vote) error {
	return r.db.Save(vote).Error
}

// DeleteVote removes the vote a user cast on a yalla
func (r *GormYallaRepository) DeleteVote(userID, yallaID string) error {
	return r.db.Where("user_id = ? AND yalla_id = ?", userID, yallaID).
		Delete(&models.Vote{}).Error
}
