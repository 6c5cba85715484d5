package service

import (
	"errors"
	"strings"

	"github.com/threadlog/internal/audit"
	"github.com/threadlog/internal/db"
	"gorm.io/gorm"
)

// ThreadService owns the thread state machine: the three independent
// published/locked/pinned flags, title edits, deletion, and the
// denormalized last-post pointer. Flag toggles are idempotent; only a
// real transition emits an audit event.
type ThreadService struct {
	db   *gorm.DB
	sink audit.Sink
}

// ThreadInput represents fields accepted when opening a thread.
type ThreadInput struct {
	BoardID uint
	Title   string
	Body    string
}

// NewThreadService creates a ThreadService instance.
func NewThreadService(gdb *gorm.DB, sink audit.Sink) *ThreadService {
	return &ThreadService{db: gdb, sink: sink}
}

// Create opens a thread with its first post in one transaction. The
// excerpt is derived from the opening post's markdown body.
func (s *ThreadService) Create(actor Actor, input ThreadInput) (*db.Thread, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, ErrBodyRequired
	}

	var thread db.Thread
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var board db.Board
		if err := tx.First(&board, input.BoardID).Error; err != nil {
			return wrapNotFound(err, ErrBoardNotFound)
		}

		slug, err := uniqueSlug(tx, &db.Thread{}, title)
		if err != nil {
			return err
		}

		thread = db.Thread{
			BoardID:     board.ID,
			AuthorID:    actor.ID,
			Title:       title,
			Slug:        slug,
			Excerpt:     excerptFromMarkdown(body),
			IsPublished: true,
		}
		if err := tx.Create(&thread).Error; err != nil {
			return err
		}

		opening := db.Post{
			ThreadID: thread.ID,
			AuthorID: actor.ID,
			Body:     body,
		}
		if err := tx.Create(&opening).Error; err != nil {
			return err
		}

		return refreshThreadLastPost(tx, thread.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.get(thread.ID)
}

func (s *ThreadService) get(id uint) (*db.Thread, error) {
	var thread db.Thread
	if err := s.db.First(&thread, id).Error; err != nil {
		return nil, wrapNotFound(err, ErrThreadNotFound)
	}
	return &thread, nil
}

// Get fetches a thread. Unpublished threads are invisible to
// non-moderators and answer not-found, never forbidden.
func (s *ThreadService) Get(actor Actor, id uint) (*db.Thread, error) {
	thread, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if !thread.IsPublished && !actor.IsModerator() {
		return nil, ErrThreadNotFound
	}
	return thread, nil
}

// GetBySlug fetches a thread by slug with the same visibility rule.
func (s *ThreadService) GetBySlug(actor Actor, slug string) (*db.Thread, error) {
	var thread db.Thread
	if err := s.db.Where("slug = ?", slug).First(&thread).Error; err != nil {
		return nil, wrapNotFound(err, ErrThreadNotFound)
	}
	if !thread.IsPublished && !actor.IsModerator() {
		return nil, ErrThreadNotFound
	}
	return &thread, nil
}

// ListByBoard returns the board's threads, pinned first, most recently
// active first. Non-moderators only see published threads.
func (s *ThreadService) ListByBoard(actor Actor, boardID uint, page PageRequest) (*Page[db.Thread], error) {
	current, perPage := page.normalized()

	query := s.db.Model(&db.Thread{}).Where("board_id = ?", boardID)
	if !actor.IsModerator() {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var threads []db.Thread
	if err := query.
		Order("is_pinned desc, last_posted_at desc, id desc").
		Limit(perPage).
		Offset((current - 1) * perPage).
		Find(&threads).Error; err != nil {
		return nil, err
	}

	return newPage(threads, total, current, perPage), nil
}

// IncrementViews bumps the view counter without touching updated_at.
func (s *ThreadService) IncrementViews(id uint) error {
	return s.db.Model(&db.Thread{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// EditTitle renames a thread. The author may rename only while the
// thread is published and unlocked; moderators may rename regardless.
func (s *ThreadService) EditTitle(actor Actor, id uint, title string) (*db.Thread, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	thread, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsModerator() {
		if thread.AuthorID != actor.ID {
			return nil, ErrNotPermitted
		}
		if thread.IsLocked {
			return nil, ErrThreadLocked
		}
		if !thread.IsPublished {
			return nil, ErrThreadUnpublished
		}
	}

	if thread.Title == title {
		return thread, nil
	}

	before := thread.Title
	if err := s.db.Model(&db.Thread{}).Where("id = ?", id).
		Update("title", title).Error; err != nil {
		return nil, err
	}
	thread.Title = title

	s.sink.Record(audit.Event{
		EventName:   "thread.title_changed",
		SubjectType: "thread",
		SubjectID:   thread.ID,
		ActorID:     actor.ID,
		Before:      map[string]interface{}{"title": before},
		After:       map[string]interface{}{"title": title},
	})
	return thread, nil
}

// Lock closes the thread for new posts.
func (s *ThreadService) Lock(actor Actor, id uint) error {
	return s.setFlag(actor, id, "is_locked", true, "thread.locked")
}

// Unlock reopens the thread.
func (s *ThreadService) Unlock(actor Actor, id uint) error {
	return s.setFlag(actor, id, "is_locked", false, "thread.unlocked")
}

// Pin raises the thread to the top of board listings.
func (s *ThreadService) Pin(actor Actor, id uint) error {
	return s.setFlag(actor, id, "is_pinned", true, "thread.pinned")
}

// Unpin returns the thread to normal ordering.
func (s *ThreadService) Unpin(actor Actor, id uint) error {
	return s.setFlag(actor, id, "is_pinned", false, "thread.unpinned")
}

// Publish makes the thread visible to everyone.
func (s *ThreadService) Publish(actor Actor, id uint) error {
	return s.setFlag(actor, id, "is_published", true, "thread.published")
}

// Unpublish hides the thread from non-moderators.
func (s *ThreadService) Unpublish(actor Actor, id uint) error {
	return s.setFlag(actor, id, "is_published", false, "thread.unpublished")
}

// setFlag applies one boolean transition. Applying the current value is
// a silent no-op and must not produce a duplicate audit event.
func (s *ThreadService) setFlag(actor Actor, id uint, column string, value bool, eventName string) error {
	if !actor.IsModerator() {
		return ErrNotPermitted
	}

	changed := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var thread db.Thread
		if err := tx.First(&thread, id).Error; err != nil {
			return wrapNotFound(err, ErrThreadNotFound)
		}

		current := map[string]bool{
			"is_locked":    thread.IsLocked,
			"is_pinned":    thread.IsPinned,
			"is_published": thread.IsPublished,
		}[column]
		if current == value {
			return nil
		}

		if err := tx.Model(&db.Thread{}).Where("id = ?", id).
			Update(column, value).Error; err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return err
	}

	if changed {
		s.sink.Record(audit.Event{
			EventName:   eventName,
			SubjectType: "thread",
			SubjectID:   id,
			ActorID:     actor.ID,
			Before:      map[string]interface{}{column: !value},
			After:       map[string]interface{}{column: value},
		})
	}
	return nil
}

// Delete removes the thread and its posts for good. The audit event
// carries an identity snapshot taken before the rows disappear.
func (s *ThreadService) Delete(actor Actor, id uint) error {
	if !actor.IsModerator() {
		return ErrNotPermitted
	}

	var snapshot map[string]interface{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var thread db.Thread
		if err := tx.First(&thread, id).Error; err != nil {
			return wrapNotFound(err, ErrThreadNotFound)
		}
		snapshot = map[string]interface{}{
			"id":    thread.ID,
			"title": thread.Title,
			"slug":  thread.Slug,
		}

		if err := tx.Unscoped().Where("thread_id = ?", id).
			Delete(&db.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("thread_id = ?", id).
			Delete(&db.ThreadRead{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&db.Thread{}, id).Error
	})
	if err != nil {
		return err
	}

	s.sink.Record(audit.Event{
		EventName:   "thread.deleted",
		SubjectType: "thread",
		SubjectID:   id,
		ActorID:     actor.ID,
		Before:      snapshot,
	})
	return nil
}

// refreshThreadLastPost recomputes the denormalized last-post pointer
// from MAX(created_at) over the thread's non-deleted posts. Deriving it
// here instead of trusting the caller's timestamp avoids the race where
// a slower insert of an older post overwrites a newer pointer. A thread
// left without posts falls back to its own creation.
func refreshThreadLastPost(tx *gorm.DB, threadID uint) error {
	var latest db.Post
	err := tx.Where("thread_id = ?", threadID).
		Order("created_at desc, id desc").
		First(&latest).Error
	if err == nil {
		return tx.Model(&db.Thread{}).Where("id = ?", threadID).
			Updates(map[string]interface{}{
				"last_posted_at":    latest.CreatedAt,
				"last_post_user_id": latest.AuthorID,
			}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var thread db.Thread
	if err := tx.First(&thread, threadID).Error; err != nil {
		return wrapNotFound(err, ErrThreadNotFound)
	}
	return tx.Model(&db.Thread{}).Where("id = ?", threadID).
		Updates(map[string]interface{}{
			"last_posted_at":    thread.CreatedAt,
			"last_post_user_id": thread.AuthorID,
		}).Error
}
