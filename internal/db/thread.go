package db

import (
	"time"

	"gorm.io/gorm"
)

// Thread 定义了主题帖模型
type Thread struct {
	gorm.Model
	BoardID        uint `gorm:"index;not null"`
	Board          Board
	AuthorID       uint `gorm:"index;not null"`
	Title          string
	Slug           string `gorm:"uniqueIndex"`
	Excerpt        string
	IsLocked       bool `gorm:"not null;default:false"`
	IsPinned       bool `gorm:"not null;default:false"`
	IsPublished    bool `gorm:"not null;default:true"`
	Views          int64
	LastPostedAt   *time.Time
	LastPostUserID *uint
}
