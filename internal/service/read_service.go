package service

import (
	"errors"
	"time"

	"github.com/threadlog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReadService tracks each user's last-read post per thread. A single
// idempotent upsert is the whole contract.
type ReadService struct {
	db *gorm.DB
}

// NewReadService creates a ReadService instance.
func NewReadService(gdb *gorm.DB) *ReadService {
	return &ReadService{db: gdb}
}

// MarkRead records that the user has read up to the given post.
func (s *ReadService) MarkRead(actor Actor, threadID, postID uint) error {
	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		return wrapNotFound(err, ErrPostNotFound)
	}
	if post.ThreadID != threadID {
		return ErrPostNotFound
	}

	lastReadPostID := post.ID
	row := db.ThreadRead{
		ThreadID:       threadID,
		UserID:         actor.ID,
		LastReadPostID: &lastReadPostID,
		LastReadAt:     time.Now(),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "thread_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_read_post_id": lastReadPostID,
			"last_read_at":      row.LastReadAt,
			"updated_at":        row.LastReadAt,
		}),
	}).Create(&row).Error
}

// IsUnread reports whether the thread holds posts the user has not seen:
// either there is no marker at all, or a non-deleted post is newer than
// the marked one.
func (s *ReadService) IsUnread(actor Actor, threadID uint) (bool, error) {
	var marker db.ThreadRead
	err := s.db.Where("thread_id = ? AND user_id = ?", threadID, actor.ID).
		First(&marker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	watermark := marker.LastReadAt
	if marker.LastReadPostID != nil {
		// The marked post may have been soft-deleted since; its
		// timestamp is still the right watermark.
		var marked db.Post
		if err := s.db.Unscoped().First(&marked, *marker.LastReadPostID).Error; err == nil {
			watermark = marked.CreatedAt
		}
	}

	var newer int64
	if err := s.db.Model(&db.Post{}).
		Where("thread_id = ? AND created_at > ?", threadID, watermark).
		Count(&newer).Error; err != nil {
		return false, err
	}
	return newer > 0, nil
}
