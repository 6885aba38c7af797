package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yallahq/yalla-api/internal/constants"
	"github.com/yallahq/yalla-api/internal/models"
	"github.com/yallahq/yalla-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrBoardNotFound  = errors.New("Board not found")
	ErrColumnNotFound = errors.New("Column not found")
	ErrItemNotFound   = errors.New("Item not found")
)

// BoardAccessError is returned when a caller tries to write to a board owned
// by someone else. The message embeds both ids, matching the upstream
// contract (callers display it verbatim).
type BoardAccessError struct {
	UserID  string
	BoardID string
}

func (e *BoardAccessError) Error() string {
	return fmt.Sprintf("Access denied: User %s cannot access board %s", e.UserID, e.BoardID)
}

// BoardService provides business logic for the kanban hierarchy.
type BoardService struct {
	boardRepo repository.BoardRepository
}

// NewBoardService creates a new BoardService.
func NewBoardService(boardRepo repository.BoardRepository) *BoardService {
	return &BoardService{
		boardRepo: boardRepo,
	}
}

// ListBoards returns the caller's boards when an identity is supplied, or
// every board otherwise. Boards come back denormalized with columns and items.
func (s *BoardService) ListBoards(authUserID *string) ([]models.Board, error) {
	if authUserID != nil && *authUserID != "" {
		return s.listByCreator(*authUserID)
	}
	return s.ListAllBoards()
}

// ListAllBoards returns every board with columns and items.
func (s *BoardService) ListAllBoards() ([]models.Board, error) {
	boards, err := s.boardRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// ListUserBoards returns the boards created by the given user.
func (s *BoardService) ListUserBoards(authUserID string) ([]models.Board, error) {
	return s.listByCreator(authUserID)
}

func (s *BoardService) listByCreator(authUserID string) ([]models.Board, error) {
	boards, err := s.boardRepo.FindByCreator(authUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// GetBoard returns one board denormalized with its columns and items.
func (s *BoardService) GetBoard(id string) (*models.Board, error) {
	board, err := s.boardRepo.FindFull(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}
	return board, nil
}

// CreateBoardInput represents parameters to create a new board.
type CreateBoardInput struct {
	Name       string
	Color      *string
	AuthUserID string
}

// CreateBoard creates a board owned by the caller and returns its id.
func (s *BoardService) CreateBoard(input CreateBoardInput) (string, error) {
	color := constants.DefaultBoardColor
	if input.Color != nil && *input.Color != "" {
		color = *input.Color
	}

	board := &models.Board{
		ID:    uuid.NewString(),
		Name:  input.Name,
		Color: color,
	}
	// An empty identity must not become a non-nil owner: a board with a
	// pointer to "" would deny every identified caller.
	if input.AuthUserID != "" {
		board.CreatedBy = &input.AuthUserID
	}

	if err := s.boardRepo.Create(board); err != nil {
		return "", fmt.Errorf("failed to create board: %w", err)
	}

	return board.ID, nil
}

// UpdateBoardInput carries the optional fields of a board patch.
type UpdateBoardInput struct {
	Name  *string
	Color *string
}

// UpdateBoard applies the present fields to a board the caller may write to.
func (s *BoardService) UpdateBoard(boardID string, authUserID *string, input UpdateBoardInput) (*models.Board, error) {
	board, err := s.ensureBoardAccess(boardID, authUserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		board.Name = *input.Name
	}
	if input.Color != nil {
		board.Color = *input.Color
	}

	if err := s.boardRepo.Update(board); err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}

	return board, nil
}

// CreateColumn appends a column to a board. The column's order is the next
// value in the board's 1-based sequence; gaps from deleted columns are never
// reclaimed.
func (s *BoardService) CreateColumn(boardID, name string, authUserID *string) (*models.Column, error) {
	if _, err := s.ensureBoardAccess(boardID, authUserID); err != nil {
		return nil, err
	}

	column := &models.Column{
		ID:      uuid.NewString(),
		BoardID: boardID,
		Name:    name,
	}

	if err := s.boardRepo.CreateColumn(column); err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}

	return column, nil
}

// UpdateColumnInput carries the optional fields of a column patch.
type UpdateColumnInput struct {
	Name  *string
	Order *int
}

// UpdateColumn applies the present fields to a column.
func (s *BoardService) UpdateColumn(boardID, columnID string, authUserID *string, input UpdateColumnInput) (*models.Column, error) {
	if _, err := s.ensureBoardAccess(boardID, authUserID); err != nil {
		return nil, err
	}

	column, err := s.boardRepo.FindColumn(columnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, fmt.Errorf("failed to find column: %w", err)
	}

	if input.Name != nil {
		column.Name = *input.Name
	}
	if input.Order != nil {
		column.Order = *input.Order
	}

	if err := s.boardRepo.UpdateColumn(column); err != nil {
		return nil, fmt.Errorf("failed to update column: %w", err)
	}

	return column, nil
}

// DeleteColumn deletes a column together with every item in it.
func (s *BoardService) DeleteColumn(boardID, columnID string, authUserID *string) error {
	if _, err := s.ensureBoardAccess(boardID, authUserID); err != nil {
		return err
	}

	if _, err := s.boardRepo.FindColumn(columnID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrColumnNotFound
		}
		return fmt.Errorf("failed to find column: %w", err)
	}

	if err := s.boardRepo.DeleteColumnCascade(columnID); err != nil {
		return fmt.Errorf("failed to delete column: %w", err)
	}

	return nil
}

// CreateItemInput represents parameters to create an item. The id is supplied
// by the caller so optimistic UIs can reference the item before the write
// lands.
type CreateItemInput struct {
	ID       string
	Title    string
	Content  *string
	Order    int
	ColumnID string
}

// CreateItem inserts an item into a board column.
func (s *BoardService) CreateItem(boardID string, authUserID *string, input CreateItemInput) (*models.Item, error) {
	if _, err := s.ensureBoardAccess(boardID, authUserID); err != nil {
		return nil, err
	}

	item := &models.Item{
		ID:       input.ID,
		Title:    input.Title,
		Content:  input.Content,
		Order:    input.Order,
		ColumnID: input.ColumnID,
		BoardID:  boardID,
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	if err := s.boardRepo.CreateItem(item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return item, nil
}

// UpdateItemInput carries the optional fields of an item patch.
type UpdateItemInput struct {
	Title    *string
	Content  *string
	Order    *int
	ColumnID *string
}

// UpdateItem applies the present fields to an item. Moving an item between
// columns is a ColumnID patch.
func (s *BoardService) UpdateItem(boardID, itemID string, authUserID *string, input UpdateItemInput) (*models.Item, error) {
	if _, err := s.ensureBoardAccess(boardID, authUserID); err != nil {
		return nil, err
	}

	item, err := s.boardRepo.FindItem(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}

	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.Content != nil {
		item.Content = input.Content
	}
	if input.Order != nil {
		item.Order = *input.Order
	}
	if input.ColumnID != nil {
		item.ColumnID = *input.ColumnID
	}

	if err := s.boardRepo.UpdateItem(item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	return item, nil
}

// DeleteItem deletes an item.
func (s *BoardService) DeleteItem(boardID, itemID string, authUserID *string) error {
	if _, err := s.ensureBoardAccess(boardID, authUserID); err != nil {
		return err
	}

	if _, err := s.boardRepo.FindItem(itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to find item: %w", err)
	}

	if err := s.boardRepo.DeleteItem(itemID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return nil
}

// ensureBoardAccess resolves a board and enforces the ownership rule: when
// the board has an owner and the caller supplied an identity, they must
// match. Ownerless boards and anonymous callers pass.
func (s *BoardService) ensureBoardAccess(boardID string, authUserID *string) (*models.Board, error) {
	board, err := s.boardRepo.FindByID(boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}

	if authUserID != nil && *authUserID != "" && board.CreatedBy != nil && *board.CreatedBy != *authUserID {
		return nil, &BoardAccessError{UserID: *authUserID, BoardID: boardID}
	}

	return board, nil
}
