package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thenoetrevino/listboard/internal/models"
	"github.com/thenoetrevino/listboard/internal/reorder"
	"github.com/thenoetrevino/listboard/internal/types"
)

type columnRequest struct {
	Title string `json:"title"`
}

type taskRequest struct {
	Content     *string `json:"content"`
	Description *string `json:"description"`
}

type commentRequest struct {
	Text string `json:"text"`
}

type dragEndRequest struct {
	Target *reorder.Item `json:"target"`
}

// board resolves the caller's live board, aborting the request on failure
func (s *Server) board(c *gin.Context) (*Board, bool) {
	b, err := s.boards.Get(c.Request.Context(), userID(c))
	if err != nil {
		s.abortWithError(c, err)
		return nil, false
	}
	return b, true
}

// bind decodes a JSON body. An empty body leaves v untouched.
func bind(c *gin.Context, v any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(v); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (s *Server) getBoard(c *gin.Context) {
	b, ok := s.board(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, b.Snapshot())
}

// ============================================================================
// COLUMNS
// ============================================================================

func (s *Server) createColumn(c *gin.Context) {
	var req columnRequest
	if !bind(c, &req) {
		return
	}
	b, ok := s.board(c)
	if !ok {
		return
	}

	col, err := b.CreateColumn(c.Request.Context(), req.Title)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, col)
}

func (s *Server) updateColumn(c *gin.Context) {
	var req columnRequest
	if !bind(c, &req) {
		return
	}
	b, ok := s.board(c)
	if !ok {
		return
	}

	id := types.ColumnID(c.Param("id"))
	if err := b.UpdateColumn(c.Request.Context(), id, req.Title); err != nil {
		s.abortWithError(c, err)
		return
	}
	col, _ := b.Column(id)
	c.JSON(http.StatusOK, col)
}

func (s *Server) deleteColumn(c *gin.Context) {
	b, ok := s.board(c)
	if !ok {
		return
	}
	if err := b.DeleteColumn(c.Request.Context(), types.ColumnID(c.Param("id"))); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ============================================================================
// TASKS
// ============================================================================

// createTask adds a task to the end of the column. Without content the
// task is named "New Task N".
func (s *Server) createTask(c *gin.Context) {
	var req taskRequest
	if !bind(c, &req) {
		return
	}
	b, ok := s.board(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	columnID := types.ColumnID(c.Param("id"))

	var (
		task models.Task
		err  error
	)
	if req.Content == nil {
		task, err = b.CreateTask(ctx, columnID)
	} else {
		task, err = b.AddTask(ctx, columnID, *req.Content)
	}
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) deleteAllTasks(c *gin.Context) {
	b, ok := s.board(c)
	if !ok {
		return
	}
	if err := b.DeleteAllTasks(c.Request.Context(), types.ColumnID(c.Param("id"))); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getTask(c *gin.Context) {
	b, ok := s.board(c)
	if !ok {
		return
	}

	id := types.TaskID(c.Param("id"))
	task, found := b.Task(id)
	if !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task, "comments": b.Comments(id)})
}

// updateTask changes content and/or description. Sending an empty
// description clears it.
func (s *Server) updateTask(c *gin.Context) {
	var req taskRequest
	if !bind(c, &req) {
		return
	}
	b, ok := s.board(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	id := types.TaskID(c.Param("id"))
	if req.Content != nil {
		if err := b.UpdateTask(ctx, id, *req.Content); err != nil {
			s.abortWithError(c, err)
			return
		}
	}
	if req.Description != nil {
		if err := b.UpdateTaskDescription(ctx, id, *req.Description); err != nil {
			s.abortWithError(c, err)
			return
		}
	}

	task, found := b.Task(id)
	if !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c *gin.Context) {
	b, ok := s.board(c)
	if !ok {
		return
	}
	if err := b.DeleteTask(c.Request.Context(), types.TaskID(c.Param("id"))); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ============================================================================
// COMMENTS
// ============================================================================

func (s *Server) addComment(c *gin.Context) {
	var req commentRequest
	if !bind(c, &req) {
		return
	}
	b, ok := s.board(c)
	if !ok {
		return
	}

	comment, err := b.AddComment(c.Request.Context(), types.TaskID(c.Param("id")), req.Text)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (s *Server) deleteComment(c *gin.Context) {
	b, ok := s.board(c)
	if !ok {
		return
	}
	if err := b.DeleteComment(c.Request.Context(), types.CommentID(c.Param("id"))); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ============================================================================
// DRAG AND DROP
// ============================================================================

func (s *Server) dragStart(c *gin.Context) {
	var item reorder.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, ok := s.board(c)
	if !ok {
		return
	}

	if err := b.BeginDrag(item); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": item})
}

func (s *Server) dragOver(c *gin.Context) {
	var target reorder.Item
	if err := c.ShouldBindJSON(&target); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, ok := s.board(c)
	if !ok {
		return
	}

	if err := b.DragOver(c.Request.Context(), target); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, b.Snapshot())
}

// dragEnd drops the active item. A missing target drops outside the board.
func (s *Server) dragEnd(c *gin.Context) {
	var req dragEndRequest
	if !bind(c, &req) {
		return
	}
	b, ok := s.board(c)
	if !ok {
		return
	}

	if err := b.EndDrag(c.Request.Context(), req.Target); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, b.Snapshot())
}

func (s *Server) dragCancel(c *gin.Context) {
	b, ok := s.board(c)
	if !ok {
		return
	}
	b.CancelDrag()
	c.Status(http.StatusNoContent)
}
