package audit

import (
	"encoding/json"
	"log"

	"github.com/threadlog/internal/db"
	"gorm.io/gorm"
)

// Event is the structured payload emitted for every state-changing
// moderation or lifecycle action. Before/After carry the changed fields
// only; no-op actions must not emit an event at all.
type Event struct {
	EventName   string
	SubjectType string
	SubjectID   uint
	ActorID     uint
	Before      map[string]interface{}
	After       map[string]interface{}
}

// Sink receives audit events. The surrounding platform may swap in its
// own implementation; persistence format is the sink's business.
type Sink interface {
	Record(event Event)
}

// DBSink appends events to the audit_events table.
type DBSink struct {
	db *gorm.DB
}

// NewDBSink returns a sink writing to the given database.
func NewDBSink(gdb *gorm.DB) *DBSink {
	return &DBSink{db: gdb}
}

// Record persists the event. Audit写入是旁路操作，失败只记日志，
// 不影响主流程。
func (s *DBSink) Record(event Event) {
	row := db.AuditEvent{
		EventName:   event.EventName,
		SubjectType: event.SubjectType,
		SubjectID:   event.SubjectID,
		ActorID:     event.ActorID,
		Before:      marshalSnapshot(event.Before),
		After:       marshalSnapshot(event.After),
	}
	if err := s.db.Create(&row).Error; err != nil {
		log.Printf("audit: failed to record %s on %s/%d: %v",
			event.EventName, event.SubjectType, event.SubjectID, err)
	}
}

func marshalSnapshot(values map[string]interface{}) string {
	if len(values) == 0 {
		return ""
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	return string(raw)
}

// MemorySink collects events in memory for tests.
type MemorySink struct {
	Events []Event
}

// Record appends the event.
func (s *MemorySink) Record(event Event) {
	s.Events = append(s.Events, event)
}

// Named returns the recorded events matching the given name.
func (s *MemorySink) Named(name string) []Event {
	var matched []Event
	for _, e := range s.Events {
		if e.EventName == name {
			matched = append(matched, e)
		}
	}
	return matched
}
