package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deividastamosaitis/objektai/model"
	"github.com/gin-gonic/gin"
)

type reminderStore interface {
	Create(ctx context.Context, r *model.Reminder) (*model.Reminder, error)
	List(ctx context.Context) ([]model.Reminder, error)
}

type ReminderHandler struct {
	reminders reminderStore
}

func NewReminderHandler(reminders reminderStore) *ReminderHandler {
	return &ReminderHandler{reminders: reminders}
}

type createReminderRequest struct {
	Email   string    `json:"email" binding:"required,email"`
	Subject string    `json:"subject" binding:"required"`
	Message string    `json:"message" binding:"required"`
	SendAt  time.Time `json:"sendAt" binding:"required"`
}

// Create schedules a one-shot reminder e-mail.
func (h *ReminderHandler) Create(c *gin.Context) {
	var req createReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	reminder, err := h.reminders.Create(c.Request.Context(), &model.Reminder{
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
		SendAt:  req.SendAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reminder": reminder})
}

// List returns the pending reminders, soonest first.
func (h *ReminderHandler) List(c *gin.Context) {
	reminders, err := h.reminders.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": reminders, "count": len(reminders)})
}
