package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListRevisions returns a post's edit history, newest first.
func (a *API) ListRevisions(c *gin.Context) {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	page, err := a.revisions.ListHistory(currentActor(c), postID, pageRequest(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// RestoreRevision copies a revision body back onto the live post.
func (a *API) RestoreRevision(c *gin.Context) {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	revisionID, err := parseUintParam(c, "revisionID")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	post, err := a.revisions.Restore(currentActor(c), postID, revisionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}
