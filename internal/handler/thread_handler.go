package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/threadlog/internal/service"
)

type threadRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type titleRequest struct {
	Title string `json:"title"`
}

type markReadRequest struct {
	PostID uint `json:"post_id"`
}

// ListThreads returns a board's threads, pinned first.
func (a *API) ListThreads(c *gin.Context) {
	boardID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	page, err := a.threads.ListByBoard(currentActor(c), boardID, pageRequest(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// CreateThread opens a thread with its first post.
func (a *API) CreateThread(c *gin.Context) {
	boardID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req threadRequest
	if !bindJSON(c, &req, "invalid thread payload") {
		return
	}

	thread, err := a.threads.Create(currentActor(c), service.ThreadInput{
		BoardID: boardID,
		Title:   req.Title,
		Body:    req.Body,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, thread)
}

// GetThread returns a thread and bumps its view counter.
func (a *API) GetThread(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	thread, err := a.threads.Get(currentActor(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := a.threads.IncrementViews(thread.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	thread.Views++
	c.JSON(http.StatusOK, thread)
}

// EditThreadTitle renames a thread subject to lifecycle rules.
func (a *API) EditThreadTitle(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req titleRequest
	if !bindJSON(c, &req, "invalid title payload") {
		return
	}
	thread, err := a.threads.EditTitle(currentActor(c), id, req.Title)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}

// DeleteThread removes a thread permanently.
func (a *API) DeleteThread(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.threads.Delete(currentActor(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// threadFlagHandler builds a handler for one idempotent flag toggle.
func (a *API) threadFlagHandler(toggle func(service.Actor, uint) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseUintParam(c, "id")
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		if err := toggle(currentActor(c), id); err != nil {
			respondServiceError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// LockThread and friends are the six flag toggles.
func (a *API) LockThread() gin.HandlerFunc      { return a.threadFlagHandler(a.threads.Lock) }
func (a *API) UnlockThread() gin.HandlerFunc    { return a.threadFlagHandler(a.threads.Unlock) }
func (a *API) PinThread() gin.HandlerFunc       { return a.threadFlagHandler(a.threads.Pin) }
func (a *API) UnpinThread() gin.HandlerFunc     { return a.threadFlagHandler(a.threads.Unpin) }
func (a *API) PublishThread() gin.HandlerFunc   { return a.threadFlagHandler(a.threads.Publish) }
func (a *API) UnpublishThread() gin.HandlerFunc { return a.threadFlagHandler(a.threads.Unpublish) }

// MarkThreadRead upserts the caller's last-read marker.
func (a *API) MarkThreadRead(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req markReadRequest
	if !bindJSON(c, &req, "invalid read payload") {
		return
	}
	if err := a.reads.MarkRead(currentActor(c), id, req.PostID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ThreadUnread reports whether the thread has unseen posts for the
// caller.
func (a *API) ThreadUnread(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	unread, err := a.reads.IsUnread(currentActor(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": unread})
}
