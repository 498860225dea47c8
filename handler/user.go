package handler

import (
	"context"
	"net/http"

	"github.com/deividastamosaitis/objektai/middleware"
	"github.com/deividastamosaitis/objektai/model"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userProfiles interface {
	Get(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name, lastName, avatar string) (*model.User, error)
}

type UserHandler struct {
	users userProfiles
}

func NewUserHandler(users userProfiles) *UserHandler {
	return &UserHandler{users: users}
}

// Current returns the signed-in user's profile.
func (h *UserHandler) Current(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Avatar   string `json:"avatar"`
}

// Update edits the signed-in user's own display fields. Email, role and
// password are not editable here.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), id, req.Name, req.LastName, req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
