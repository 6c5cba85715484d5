package db

import (
	"time"

	"gorm.io/gorm"
)

// PostRevision 记录回帖编辑前的历史快照，只增不改。
type PostRevision struct {
	gorm.Model
	PostID   uint `gorm:"index;not null"`
	Post     Post
	EditorID *uint
	Body     string `gorm:"type:text"`
	EditedAt time.Time
}

// TableName 指定自定义表名。
func (PostRevision) TableName() string {
	return "post_revisions"
}
