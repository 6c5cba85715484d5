package db

import (
	"time"

	"gorm.io/gorm"
)

// ThreadRead 记录用户在某主题帖内的最后阅读位置，一人一贴一行。
type ThreadRead struct {
	gorm.Model
	ThreadID       uint `gorm:"not null;uniqueIndex:idx_thread_reads_thread_user"`
	UserID         uint `gorm:"not null;uniqueIndex:idx_thread_reads_thread_user"`
	LastReadPostID *uint
	LastReadAt     time.Time
}
