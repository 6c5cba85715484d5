package service

import (
	"strings"

	"github.com/threadlog/internal/db"
	"gorm.io/gorm"
)

// CategoryService 管理分类的增删改查，并维护分类排序。
type CategoryService struct {
	db       *gorm.DB
	ordering *OrderingService
}

// CategoryInput represents fields accepted when creating or updating a
// category.
type CategoryInput struct {
	Title       string
	Description string
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB, ordering *OrderingService) *CategoryService {
	return &CategoryService{db: gdb, ordering: ordering}
}

// List returns all categories ordered by position.
func (s *CategoryService) List() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Order("position asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Get fetches a category by id.
func (s *CategoryService) Get(id uint) (*db.Category, error) {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		return nil, wrapNotFound(err, ErrCategoryNotFound)
	}
	return &category, nil
}

// Create appends a new category at the tail of the ordering.
func (s *CategoryService) Create(actor Actor, input CategoryInput) (*db.Category, error) {
	if !actor.IsModerator() {
		return nil, ErrNotPermitted
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	var category db.Category
	err := s.db.Transaction(func(tx *gorm.DB) error {
		slug, err := uniqueSlug(tx, &db.Category{}, title)
		if err != nil {
			return err
		}
		position, err := s.ordering.NextCategoryPosition(tx)
		if err != nil {
			return err
		}
		category = db.Category{
			Title:       title,
			Slug:        slug,
			Description: strings.TrimSpace(input.Description),
			Position:    position,
		}
		return tx.Create(&category).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Update applies title/description changes. The slug is stable once
// assigned.
func (s *CategoryService) Update(actor Actor, id uint, input CategoryInput) (*db.Category, error) {
	if !actor.IsModerator() {
		return nil, ErrNotPermitted
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	category, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	category.Title = title
	category.Description = strings.TrimSpace(input.Description)
	if err := s.db.Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes the category and closes the position gap it leaves.
// Boards must be moved elsewhere first.
func (s *CategoryService) Delete(actor Actor, id uint) error {
	if !actor.IsModerator() {
		return ErrNotPermitted
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var category db.Category
		if err := tx.First(&category, id).Error; err != nil {
			return wrapNotFound(err, ErrCategoryNotFound)
		}

		var boardCount int64
		if err := tx.Model(&db.Board{}).
			Where("category_id = ?", id).
			Count(&boardCount).Error; err != nil {
			return err
		}
		if boardCount > 0 {
			return conflict("category still contains boards")
		}

		if err := tx.Unscoped().Delete(&db.Category{}, id).Error; err != nil {
			return err
		}
		return resequenceCategoriesTx(tx)
	})
}

// Swap exchanges the display order of two categories.
func (s *CategoryService) Swap(actor Actor, aID, bID uint) error {
	if !actor.IsModerator() {
		return ErrNotPermitted
	}
	return s.ordering.SwapCategories(aID, bID)
}
