package service

import (
	"math"
	"strings"
	"time"

	"github.com/threadlog/internal/db"
	"gorm.io/gorm"
)

// PostService owns post creation, editing and soft deletion inside a
// thread, and keeps the thread's last-post pointer consistent.
type PostService struct {
	db      *gorm.DB
	perPage int
}

// CreatedPost pairs a freshly inserted post with the page it landed on,
// so callers can deep-link straight to it.
type CreatedPost struct {
	Post db.Post
	Page int
}

// PostView decorates a post with its 1-based display number.
type PostView struct {
	db.Post
	Number int `json:"number"`
}

// NewPostService creates a PostService instance. perPage is the page
// size used for the returned page number; values below 1 fall back to
// the default.
func NewPostService(gdb *gorm.DB, perPage int) *PostService {
	if perPage < 1 {
		perPage = defaultPerPage
	}
	return &PostService{db: gdb, perPage: perPage}
}

// Create inserts a post into the thread. Locked threads refuse new
// posts for everyone; unpublished threads are not-found to regular
// users and forbidden to moderators who can still see them.
func (s *PostService) Create(actor Actor, threadID uint, body string) (*CreatedPost, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrBodyRequired
	}

	var created CreatedPost
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var thread db.Thread
		if err := tx.First(&thread, threadID).Error; err != nil {
			return wrapNotFound(err, ErrThreadNotFound)
		}
		if !thread.IsPublished {
			if !actor.IsModerator() {
				return ErrThreadNotFound
			}
			return ErrThreadUnpublished
		}
		if thread.IsLocked {
			return ErrThreadLocked
		}

		post := db.Post{
			ThreadID: threadID,
			AuthorID: actor.ID,
			Body:     body,
		}
		if err := tx.Create(&post).Error; err != nil {
			return err
		}

		if err := refreshThreadLastPost(tx, threadID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&db.Post{}).
			Where("thread_id = ?", threadID).
			Count(&count).Error; err != nil {
			return err
		}

		created.Post = post
		created.Page = int(math.Ceil(float64(count) / float64(s.perPage)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Get fetches a non-deleted post, checking it belongs to the given
// thread.
func (s *PostService) Get(threadID, postID uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		return nil, wrapNotFound(err, ErrPostNotFound)
	}
	if post.ThreadID != threadID {
		return nil, ErrPostNotFound
	}
	return &post, nil
}

// GetIncludingDeleted resolves a post even after soft deletion. Only
// the report queue uses this path: outstanding reports keep addressing
// deleted posts.
func (s *PostService) GetIncludingDeleted(postID uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Unscoped().First(&post, postID).Error; err != nil {
		return nil, wrapNotFound(err, ErrPostNotFound)
	}
	return &post, nil
}

// List returns the thread's posts in creation order with display
// numbers. Thread visibility follows the same rule as ThreadService.
func (s *PostService) List(actor Actor, threadID uint, page PageRequest) (*Page[PostView], error) {
	var thread db.Thread
	if err := s.db.First(&thread, threadID).Error; err != nil {
		return nil, wrapNotFound(err, ErrThreadNotFound)
	}
	if !thread.IsPublished && !actor.IsModerator() {
		return nil, ErrThreadNotFound
	}

	current, perPage := page.normalized()

	query := s.db.Model(&db.Post{}).Where("thread_id = ?", threadID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []db.Post
	if err := query.
		Order("created_at asc, id asc").
		Limit(perPage).
		Offset((current - 1) * perPage).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for i, post := range posts {
		views = append(views, PostView{
			Post:   post,
			Number: (current-1)*perPage + i + 1,
		})
	}

	return newPage(views, total, current, perPage), nil
}

// Edit replaces the post body. Allowed for the author and moderators.
// Ordinary edits do not snapshot into the revision history; only a
// restore does (see RevisionService).
func (s *PostService) Edit(actor Actor, threadID, postID uint, body string) (*db.Post, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrBodyRequired
	}

	post, err := s.Get(threadID, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.ID && !actor.IsModerator() {
		return nil, ErrNotPermitted
	}

	now := time.Now()
	if err := s.db.Model(&db.Post{}).Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"body":      body,
			"edited_at": now,
		}).Error; err != nil {
		return nil, err
	}
	post.Body = body
	post.EditedAt = &now
	return post, nil
}

// Delete soft-deletes the post and repairs the thread's last-post
// pointer. The row stays addressable for outstanding reports.
func (s *PostService) Delete(actor Actor, threadID, postID uint) error {
	post, err := s.Get(threadID, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actor.ID && !actor.IsModerator() {
		return ErrNotPermitted
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&db.Post{}, post.ID).Error; err != nil {
			return err
		}
		return refreshThreadLastPost(tx, threadID)
	})
}
