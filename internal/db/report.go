package db

import (
	"time"

	"gorm.io/gorm"
)

// 举报状态机：pending 为初始态，reviewed / dismissed 为终态，
// 仅显式 reopen 可回到 pending。
const (
	ReportStatusPending   = "pending"
	ReportStatusReviewed  = "reviewed"
	ReportStatusDismissed = "dismissed"
)

// Review 为两类举报共享的审核字段。
type Review struct {
	Status     string `gorm:"not null;default:pending"`
	ReviewedAt *time.Time
	ReviewedBy *uint
}

// ThreadReport 定义了针对主题帖的举报。
// (thread_id, reporter_id) 唯一：同一用户重复举报走更新而非新建。
type ThreadReport struct {
	gorm.Model
	ThreadID       uint `gorm:"not null;uniqueIndex:idx_thread_reports_target_reporter"`
	Thread         Thread
	ReporterID     uint   `gorm:"not null;uniqueIndex:idx_thread_reports_target_reporter"`
	ReasonCategory string `gorm:"not null"`
	Reason         string
	EvidenceURL    string
	Review         Review `gorm:"embedded"`
}

// PostReport 定义了针对回帖的举报。回帖软删除后举报仍然有效。
type PostReport struct {
	gorm.Model
	PostID         uint `gorm:"not null;uniqueIndex:idx_post_reports_target_reporter"`
	Post           Post
	ReporterID     uint   `gorm:"not null;uniqueIndex:idx_post_reports_target_reporter"`
	ReasonCategory string `gorm:"not null"`
	Reason         string
	EvidenceURL    string
	Review         Review `gorm:"embedded"`
}
