package service

import (
	"time"

	"github.com/threadlog/internal/db"
	"gorm.io/gorm"
)

// RevisionService keeps the append-only history of prior post bodies.
// Ordinary edits do not write here; a restore always snapshots the
// current body first so no state is ever lost.
type RevisionService struct {
	db *gorm.DB
}

// NewRevisionService creates a RevisionService instance.
func NewRevisionService(gdb *gorm.DB) *RevisionService {
	return &RevisionService{db: gdb}
}

// RecordSnapshot captures the post's current body as an immutable
// revision attributed to the given editor.
func (s *RevisionService) RecordSnapshot(post *db.Post, editor Actor) (*db.PostRevision, error) {
	revision := snapshotOf(post, editor)
	if err := s.db.Create(revision).Error; err != nil {
		return nil, err
	}
	return revision, nil
}

func snapshotOf(post *db.Post, editor Actor) *db.PostRevision {
	editedAt := post.CreatedAt
	if post.EditedAt != nil {
		editedAt = *post.EditedAt
	}
	editorID := editor.ID
	return &db.PostRevision{
		PostID:   post.ID,
		EditorID: &editorID,
		Body:     post.Body,
		EditedAt: editedAt,
	}
}

// ListHistory returns the post's revisions, newest first. Viewing
// history is limited to the post author and holders of the
// view-history capability.
func (s *RevisionService) ListHistory(actor Actor, postID uint, page PageRequest) (*Page[db.PostRevision], error) {
	post, err := s.loadPost(postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.ID && !actor.Can(CapViewHistory) && !actor.IsModerator() {
		return nil, ErrNotPermitted
	}

	current, perPage := page.normalized()

	query := s.db.Model(&db.PostRevision{}).Where("post_id = ?", postID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var revisions []db.PostRevision
	if err := query.
		Order("created_at desc, id desc").
		Limit(perPage).
		Offset((current - 1) * perPage).
		Find(&revisions).Error; err != nil {
		return nil, err
	}

	return newPage(revisions, total, current, perPage), nil
}

// Restore copies a revision's body back onto the live post. The
// pre-restore body is snapshotted first, attributed to the actor, so
// the restore itself never destroys history.
func (s *RevisionService) Restore(actor Actor, postID, revisionID uint) (*db.Post, error) {
	var restored db.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post db.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return wrapNotFound(err, ErrPostNotFound)
		}
		if post.AuthorID != actor.ID && !actor.Can(CapRestore) {
			return ErrNotPermitted
		}

		var revision db.PostRevision
		if err := tx.First(&revision, revisionID).Error; err != nil {
			return wrapNotFound(err, ErrRevisionNotFound)
		}
		if revision.PostID != post.ID {
			return ErrRevisionNotFound
		}

		if err := tx.Create(snapshotOf(&post, actor)).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&db.Post{}).Where("id = ?", post.ID).
			Updates(map[string]interface{}{
				"body":      revision.Body,
				"edited_at": now,
			}).Error; err != nil {
			return err
		}

		post.Body = revision.Body
		post.EditedAt = &now
		restored = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &restored, nil
}

func (s *RevisionService) loadPost(postID uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		return nil, wrapNotFound(err, ErrPostNotFound)
	}
	return &post, nil
}
