package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deividastamosaitis/objektai/config"
	"github.com/deividastamosaitis/objektai/middleware"
	"github.com/deividastamosaitis/objektai/model"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// userAccounts is the account surface the auth endpoints need.
// *service.UserStore satisfies it; tests substitute a fake.
type userAccounts interface {
	Register(ctx context.Context, user *model.User, password string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

type AuthHandler struct {
	users userAccounts
	cfg   *config.Config
}

func NewAuthHandler(users userAccounts, cfg *config.Config) *AuthHandler {
	return &AuthHandler{users: users, cfg: cfg}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	LastName string `json:"lastName"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expires_at"`
	User      *model.User `json:"user"`
}

// Register creates a new operator account and signs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.Register(c.Request.Context(), &model.User{
		Name:     req.Name,
		LastName: req.LastName,
		Email:    req.Email,
	}, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.issueSession(c, user)
}

// Login authenticates by email and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Same answer for unknown email and wrong password.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	h.issueSession(c, user)
}

// issueSession writes the JWT both as a response field and as an httpOnly
// cookie so browser clients never handle the token directly.
func (h *AuthHandler) issueSession(c *gin.Context, user *model.User) {
	token, expiresAt, err := middleware.GenerateToken(user.ID.Hex(), user.Name, user.Role, &h.cfg.Auth)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetCookie(middleware.TokenCookie, token, maxAge, "/", "", false, true)

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User:      user,
	})
}

// Me returns the account behind the current session.
func (h *AuthHandler) Me(c *gin.Context) {
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

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
