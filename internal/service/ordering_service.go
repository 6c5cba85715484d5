package service

import (
	"errors"

	"github.com/threadlog/internal/db"
	"gorm.io/gorm"
)

// OrderingService maintains the dense 0..N-1 position ranges for the
// category set and for the boards inside each category. Every mutation
// runs in a single transaction; a duplicate position is a programmer
// error and surfaces as ErrDuplicatePosition instead of being papered
// over.
type OrderingService struct {
	db *gorm.DB
}

// NewOrderingService creates an OrderingService instance.
func NewOrderingService(gdb *gorm.DB) *OrderingService {
	return &OrderingService{db: gdb}
}

// NextCategoryPosition returns max(position)+1 over all categories, 0
// when the set is empty.
func (s *OrderingService) NextCategoryPosition(tx *gorm.DB) (int, error) {
	return nextPosition(tx.Model(&db.Category{}))
}

// NextBoardPosition returns max(position)+1 among the category's boards.
func (s *OrderingService) NextBoardPosition(tx *gorm.DB, categoryID uint) (int, error) {
	return nextPosition(tx.Model(&db.Board{}).Where("category_id = ?", categoryID))
}

func nextPosition(query *gorm.DB) (int, error) {
	var max int
	if err := query.Select("COALESCE(MAX(position), -1)").Scan(&max).Error; err != nil {
		return 0, err
	}
	return max + 1, nil
}

// ResequenceCategories reassigns category positions to 0..N-1 keeping
// the current order.
func (s *OrderingService) ResequenceCategories() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return resequenceCategoriesTx(tx)
	})
}

// ResequenceBoards reassigns board positions within one category.
func (s *OrderingService) ResequenceBoards(categoryID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return resequenceBoardsTx(tx, categoryID)
	})
}

func resequenceCategoriesTx(tx *gorm.DB) error {
	var categories []db.Category
	if err := tx.Order("position asc, id asc").Find(&categories).Error; err != nil {
		return err
	}
	for i := range categories {
		if categories[i].Position == i {
			continue
		}
		if err := tx.Model(&db.Category{}).
			Where("id = ?", categories[i].ID).
			Update("position", i).Error; err != nil {
			return err
		}
	}
	return nil
}

func resequenceBoardsTx(tx *gorm.DB, categoryID uint) error {
	var boards []db.Board
	if err := tx.Where("category_id = ?", categoryID).
		Order("position asc, id asc").
		Find(&boards).Error; err != nil {
		return err
	}
	for i := range boards {
		if boards[i].Position == i {
			continue
		}
		if err := tx.Model(&db.Board{}).
			Where("id = ?", boards[i].ID).
			Update("position", i).Error; err != nil {
			return err
		}
	}
	return nil
}

// SwapCategories exchanges the positions of two categories atomically.
func (s *OrderingService) SwapCategories(aID, bID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var a, b db.Category
		if err := tx.First(&a, aID).Error; err != nil {
			return wrapNotFound(err, ErrCategoryNotFound)
		}
		if err := tx.First(&b, bID).Error; err != nil {
			return wrapNotFound(err, ErrCategoryNotFound)
		}
		if err := tx.Model(&db.Category{}).Where("id = ?", a.ID).
			Update("position", b.Position).Error; err != nil {
			return err
		}
		return tx.Model(&db.Category{}).Where("id = ?", b.ID).
			Update("position", a.Position).Error
	})
}

// SwapBoards exchanges the positions of two boards. Both must belong to
// the same category; swapping across scopes would corrupt two ranges at
// once.
func (s *OrderingService) SwapBoards(aID, bID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var a, b db.Board
		if err := tx.First(&a, aID).Error; err != nil {
			return wrapNotFound(err, ErrBoardNotFound)
		}
		if err := tx.First(&b, bID).Error; err != nil {
			return wrapNotFound(err, ErrBoardNotFound)
		}
		if a.CategoryID != b.CategoryID {
			return ErrOrderingScopeMingled
		}
		if err := tx.Model(&db.Board{}).Where("id = ?", a.ID).
			Update("position", b.Position).Error; err != nil {
			return err
		}
		return tx.Model(&db.Board{}).Where("id = ?", b.ID).
			Update("position", a.Position).Error
	})
}

// MoveBoard reassigns a board to another category at the tail position,
// then resequences the board's former siblings. The new scope keeps its
// tail gap untouched since inserts always append.
func (s *OrderingService) MoveBoard(boardID, newCategoryID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var board db.Board
		if err := tx.First(&board, boardID).Error; err != nil {
			return wrapNotFound(err, ErrBoardNotFound)
		}
		if board.CategoryID == newCategoryID {
			return nil
		}

		var target db.Category
		if err := tx.First(&target, newCategoryID).Error; err != nil {
			return wrapNotFound(err, ErrCategoryNotFound)
		}

		position, err := s.NextBoardPosition(tx, newCategoryID)
		if err != nil {
			return err
		}

		oldCategoryID := board.CategoryID
		if err := tx.Model(&db.Board{}).Where("id = ?", board.ID).
			Updates(map[string]interface{}{
				"category_id": newCategoryID,
				"position":    position,
			}).Error; err != nil {
			return err
		}

		return resequenceBoardsTx(tx, oldCategoryID)
	})
}

// VerifyCategoryOrdering checks the contiguity invariant for the
// category set.
func (s *OrderingService) VerifyCategoryOrdering() error {
	var positions []int
	if err := s.db.Model(&db.Category{}).
		Order("position asc").
		Pluck("position", &positions).Error; err != nil {
		return err
	}
	return verifyDense(positions)
}

// VerifyBoardOrdering checks the contiguity invariant for one category's
// boards.
func (s *OrderingService) VerifyBoardOrdering(categoryID uint) error {
	var positions []int
	if err := s.db.Model(&db.Board{}).
		Where("category_id = ?", categoryID).
		Order("position asc").
		Pluck("position", &positions).Error; err != nil {
		return err
	}
	return verifyDense(positions)
}

func verifyDense(positions []int) error {
	for i, p := range positions {
		if p != i {
			return ErrDuplicatePosition
		}
	}
	return nil
}

func wrapNotFound(err, notFoundErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundErr
	}
	return err
}
