package db

import "gorm.io/gorm"

// AuditEvent 持久化审计事件，只增不改。
// Before / After 为状态变更前后的 JSON 快照。
type AuditEvent struct {
	gorm.Model
	EventName   string `gorm:"index;not null"`
	SubjectType string `gorm:"index;not null"`
	SubjectID   uint   `gorm:"index;not null"`
	ActorID     uint
	Before      string `gorm:"type:text"`
	After       string `gorm:"type:text"`
}
