package service

import (
	"strings"

	"github.com/threadlog/internal/db"
	"gorm.io/gorm"
)

// BoardService 管理版块的增删改查、排序与跨分类移动。
type BoardService struct {
	db       *gorm.DB
	ordering *OrderingService
}

// BoardInput represents fields accepted when creating or updating a
// board.
type BoardInput struct {
	Title       string
	Description string
}

// NewBoardService creates a BoardService instance.
func NewBoardService(gdb *gorm.DB, ordering *OrderingService) *BoardService {
	return &BoardService{db: gdb, ordering: ordering}
}

// ListByCategory returns the category's boards ordered by position.
func (s *BoardService) ListByCategory(categoryID uint) ([]db.Board, error) {
	var boards []db.Board
	if err := s.db.Where("category_id = ?", categoryID).
		Order("position asc").
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// Get fetches a board by id.
func (s *BoardService) Get(id uint) (*db.Board, error) {
	var board db.Board
	if err := s.db.First(&board, id).Error; err != nil {
		return nil, wrapNotFound(err, ErrBoardNotFound)
	}
	return &board, nil
}

// GetBySlug fetches a board by its slug.
func (s *BoardService) GetBySlug(slug string) (*db.Board, error) {
	var board db.Board
	if err := s.db.Where("slug = ?", slug).First(&board).Error; err != nil {
		return nil, wrapNotFound(err, ErrBoardNotFound)
	}
	return &board, nil
}

// Create appends a new board at the tail of its category's ordering.
func (s *BoardService) Create(actor Actor, categoryID uint, input BoardInput) (*db.Board, error) {
	if !actor.IsModerator() {
		return nil, ErrNotPermitted
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	var board db.Board
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var category db.Category
		if err := tx.First(&category, categoryID).Error; err != nil {
			return wrapNotFound(err, ErrCategoryNotFound)
		}

		slug, err := uniqueSlug(tx, &db.Board{}, title)
		if err != nil {
			return err
		}
		position, err := s.ordering.NextBoardPosition(tx, categoryID)
		if err != nil {
			return err
		}
		board = db.Board{
			CategoryID:  categoryID,
			Title:       title,
			Slug:        slug,
			Description: strings.TrimSpace(input.Description),
			Position:    position,
		}
		return tx.Create(&board).Error
	})
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// Update applies title/description changes.
func (s *BoardService) Update(actor Actor, id uint, input BoardInput) (*db.Board, error) {
	if !actor.IsModerator() {
		return nil, ErrNotPermitted
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	board, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	board.Title = title
	board.Description = strings.TrimSpace(input.Description)
	if err := s.db.Save(board).Error; err != nil {
		return nil, err
	}
	return board, nil
}

// Delete removes the board and resequences its former siblings so no
// position gap survives the deletion.
func (s *BoardService) Delete(actor Actor, id uint) error {
	if !actor.IsModerator() {
		return ErrNotPermitted
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var board db.Board
		if err := tx.First(&board, id).Error; err != nil {
			return wrapNotFound(err, ErrBoardNotFound)
		}
		if err := tx.Unscoped().Delete(&db.Board{}, id).Error; err != nil {
			return err
		}
		return resequenceBoardsTx(tx, board.CategoryID)
	})
}

// Move reassigns the board to another category, appending it there and
// closing the gap in the old category.
func (s *BoardService) Move(actor Actor, id, newCategoryID uint) error {
	if !actor.IsModerator() {
		return ErrNotPermitted
	}
	return s.ordering.MoveBoard(id, newCategoryID)
}

// Swap exchanges the display order of two boards within one category.
func (s *BoardService) Swap(actor Actor, aID, bID uint) error {
	if !actor.IsModerator() {
		return ErrNotPermitted
	}
	return s.ordering.SwapBoards(aID, bID)
}
