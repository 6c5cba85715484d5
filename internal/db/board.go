package db

import "gorm.io/gorm"

// Board 定义了版块模型，归属于某个分类
type Board struct {
	gorm.Model
	CategoryID  uint `gorm:"index;not null"`
	Category    Category
	Title       string
	Slug        string `gorm:"uniqueIndex"`
	Description string
	Position    int `gorm:"not null;default:0"`
}
