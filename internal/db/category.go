package db

import "gorm.io/gorm"

// Category 定义了版块分类模型
type Category struct {
	gorm.Model
	Title       string
	Slug        string `gorm:"uniqueIndex"`
	Description string
	Position    int `gorm:"not null;default:0"`

	Boards []Board
}
