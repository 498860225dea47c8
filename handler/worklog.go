package handler

import (
	"context"
	"net/http"

	"github.com/deividastamosaitis/objektai/middleware"
	"github.com/deividastamosaitis/objektai/model"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type workLogStore interface {
	Create(ctx context.Context, entry *model.WorkLog) (*model.WorkLog, error)
	List(ctx context.Context) ([]model.WorkLog, error)
	Update(ctx context.Context, id primitive.ObjectID, data, username string) (*model.WorkLog, error)
	ToggleDone(ctx context.Context, id primitive.ObjectID) (*model.WorkLog, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*model.WorkLog, error)
}

type WorkLogHandler struct {
	entries workLogStore
}

func NewWorkLogHandler(entries workLogStore) *WorkLogHandler {
	return &WorkLogHandler{entries: entries}
}

type workLogRequest struct {
	Data string `json:"data" binding:"required"`
}

// Create adds a journal entry stamped with the current user's name.
func (h *WorkLogHandler) Create(c *gin.Context) {
	var req workLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	entry, err := h.entries.Create(c.Request.Context(), &model.WorkLog{
		Data:     req.Data,
		Username: middleware.GetUserName(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// List returns journal entries, newest first.
func (h *WorkLogHandler) List(c *gin.Context) {
	entries, err := h.entries.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// Update rewrites an entry's text; the editor's name replaces the author's.
func (h *WorkLogHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry id"})
		return
	}

	var req workLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	entry, err := h.entries.Update(c.Request.Context(), id, req.Data, middleware.GetUserName(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// ToggleDone flips an entry's done flag.
func (h *WorkLogHandler) ToggleDone(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry id"})
		return
	}

	entry, err := h.entries.ToggleDone(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// Delete removes an entry.
func (h *WorkLogHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry id"})
		return
	}

	entry, err := h.entries.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted", "entry": entry})
}
