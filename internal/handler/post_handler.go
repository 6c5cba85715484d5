package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type postRequest struct {
	Body string `json:"body"`
}

// ListPosts returns a thread's posts with display numbers.
func (a *API) ListPosts(c *gin.Context) {
	threadID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	page, err := a.posts.List(currentActor(c), threadID, pageRequest(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// CreatePost appends a post and returns the page it landed on.
func (a *API) CreatePost(c *gin.Context) {
	threadID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req postRequest
	if !bindJSON(c, &req, "invalid post payload") {
		return
	}
	created, err := a.posts.Create(currentActor(c), threadID, req.Body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": created.Post, "page": created.Page})
}

// EditPost replaces a post body.
func (a *API) EditPost(c *gin.Context) {
	threadID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	postID, err := parseUintParam(c, "postID")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req postRequest
	if !bindJSON(c, &req, "invalid post payload") {
		return
	}
	post, err := a.posts.Edit(currentActor(c), threadID, postID, req.Body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost soft-deletes a post.
func (a *API) DeletePost(c *gin.Context) {
	threadID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	postID, err := parseUintParam(c, "postID")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.posts.Delete(currentActor(c), threadID, postID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
