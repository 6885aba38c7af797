package repository

import (
	"github.com/yallahq/yalla-api/internal/models"
	"gorm.io/gorm"
)

// GormBoardRepository is a GORM implementation of BoardRepository
type GormBoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &GormBoardRepository{db: db}
}

// Create creates a new board
func (r *GormBoardRepository) Create(board *models.Board) error {
	return r.db.Create(board).Error
}

// FindByID finds a board by its application id, without relations
func (r *GormBoardRepository) FindByID(id string) (*models.Board, error) {
	var board models.Board
	if err := r.db.Where("id = ?", id).First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindFull finds a board by its application id, with columns and items
func (r *GormBoardRepository) FindFull(id string) (*models.Board, error) {
	var board models.Board
	if err := r.db.Preload("Columns").Preload("Items").
		Where("id = ?", id).First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindAll returns every board with columns and items
func (r *GormBoardRepository) FindAll() ([]models.Board, error) {
	var boards []models.Board
	if err := r.db.Preload("Columns").Preload("Items").
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// FindByCreator returns boards created by the given user, with columns and items
func (r *GormBoardRepository) FindByCreator(authUserID string) ([]models.Board, error) {
	var boards []models.Board
	if err := r.db.Preload("Columns").Preload("Items").
		Where("created_by = ?", authUserID).
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// Update persists board changes
func (r *GormBoardRepository) Update(board *models.Board) error {
	return r.db.Save(board).Error
}

// CreateColumn inserts a column with order = column count + 1. The count and
// the insert run in one transaction so concurrent creates on the same board
// cannot both observe the same count.
func (r *GormBoardRepository) CreateColumn(column *models.Column) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Column{}).
			Where("board_id = ?", column.BoardID).
			Count(&count).Error; err != nil {
			return err
		}

		column.Order = int(count) + 1
		return tx.Create(column).Error
	})
}

// FindColumn finds a column by its application id
func (r *GormBoardRepository) FindColumn(id string) (*models.Column, error) {
	var column models.Column
	if err := r.db.Where("id = ?", id).First(&column).Error; err != nil {
		return nil, err
	}
	return &column, nil
}

// UpdateColumn persists column changes
func (r *GormBoardRepository) UpdateColumn(column *models.Column) error {
	return r.db.Save(column).Error
}

// DeleteColumnCascade deletes a column and every item in it
func (r *GormBoardRepository) DeleteColumnCascade(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("column_id = ?", id).Delete(&models.Item{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.Column{}).Error
	})
}

// CreateItem inserts an item
func (r *GormBoardRepository) CreateItem(item *models.Item) error {
	return r.db.Create(item).Error
}

// FindItem finds an item by its application id
func (r *GormBoardRepository) FindItem(id string) (*models.Item, error) {
	var item models.Item
	if err := r.db.Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem persists item changes
func (r *GormBoardRepository) UpdateItem(item *models.Item) error {
	return r.db.Save(item).Error
}

// DeleteItem deletes an item
func (r *GormBoardRepository) DeleteItem(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Item{}).Error
}
