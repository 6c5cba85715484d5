package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/threadlog/internal/service"
)

type categoryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type boardRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type swapRequest struct {
	A uint `json:"a"`
	B uint `json:"b"`
}

type moveBoardRequest struct {
	CategoryID uint `json:"category_id"`
}

// ListCategories returns all categories in display order.
func (a *API) ListCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory appends a category at the end of the ordering.
func (a *API) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req, "invalid category payload") {
		return
	}

	category, err := a.categories.Create(currentActor(c), service.CategoryInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory renames a category.
func (a *API) UpdateCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req categoryRequest
	if !bindJSON(c, &req, "invalid category payload") {
		return
	}

	category, err := a.categories.Update(currentActor(c), id, service.CategoryInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes an empty category and closes its position gap.
func (a *API) DeleteCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.categories.Delete(currentActor(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SwapCategories exchanges the display order of two categories.
func (a *API) SwapCategories(c *gin.Context) {
	var req swapRequest
	if !bindJSON(c, &req, "invalid swap payload") {
		return
	}
	if err := a.categories.Swap(currentActor(c), req.A, req.B); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListBoards returns a category's boards in display order.
func (a *API) ListBoards(c *gin.Context) {
	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	boards, err := a.boards.ListByCategory(categoryID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boards": boards})
}

// CreateBoard appends a board at the end of its category's ordering.
func (a *API) CreateBoard(c *gin.Context) {
	categoryID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req boardRequest
	if !bindJSON(c, &req, "invalid board payload") {
		return
	}

	board, err := a.boards.Create(currentActor(c), categoryID, service.BoardInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, board)
}

// UpdateBoard renames a board.
func (a *API) UpdateBoard(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req boardRequest
	if !bindJSON(c, &req, "invalid board payload") {
		return
	}

	board, err := a.boards.Update(currentActor(c), id, service.BoardInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// DeleteBoard removes a board; its former siblings are resequenced.
func (a *API) DeleteBoard(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.boards.Delete(currentActor(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MoveBoard reassigns a board to another category.
func (a *API) MoveBoard(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req moveBoardRequest
	if !bindJSON(c, &req, "invalid move payload") {
		return
	}
	if err := a.boards.Move(currentActor(c), id, req.CategoryID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SwapBoards exchanges the display order of two boards.
func (a *API) SwapBoards(c *gin.Context) {
	var req swapRequest
	if !bindJSON(c, &req, "invalid swap payload") {
		return
	}
	if err := a.boards.Swap(currentActor(c), req.A, req.B); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
