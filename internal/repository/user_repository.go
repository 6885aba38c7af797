package repository

import (
	"github.com/yallahq/yalla-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByAuthID finds a user by the external auth identity
func (r *GormUserRepository) FindByAuthID(authUserID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("auth_user_id = ?", authUserID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByAuthIDs batch-fetches users by auth identity set
func (r *GormUserRepository) FindByAuthIDs(authUserIDs []string) ([]models.User, error) {
	if len(authUserIDs) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	if err := r.db.Where("auth_user_id IN ?", authUserIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindAll returns every user
func (r *GormUserRepository) FindAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update persists user changes
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete removes a user by auth identity
func (r *GormUserRepository) Delete(authUserID string) error {
	return r.db.Where("auth_user_id = ?", authUserID).Delete(&models.User{}).Error
}
