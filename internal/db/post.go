package db

import (
	"time"

	"gorm.io/gorm"
)

// Post 定义了回帖模型。DeletedAt 为软删除标记：
// 常规查询自动过滤，举报解析走 Unscoped 路径。
type Post struct {
	gorm.Model
	ThreadID uint `gorm:"index;not null"`
	Thread   Thread
	AuthorID uint   `gorm:"index;not null"`
	Body     string `gorm:"type:text"`
	EditedAt *time.Time
}
