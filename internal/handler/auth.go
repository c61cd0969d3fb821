package handler

import (
	"errors"
	"net/http"

	"github.com/dat2/workout-tracking-app/internal/logger"
	"github.com/dat2/workout-tracking-app/internal/middleware"
	"github.com/dat2/workout-tracking-app/internal/user"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.users.Register(
		c.Request.Context(),
		req.Email,
		req.Username,
		req.Password,
	)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	if !h.openSession(c, u) {
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.users.FindByCredentials(
		c.Request.Context(),
		req.Username,
		req.Password,
	)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	// Re-login with a live session rides along on the existing record
	// instead of minting a new id.
	existing, err := h.auth.ResolveOptional(c.Request)
	if err != nil {
		logger.Warn("could not check for existing session", map[string]any{
			"error": err.Error(),
		})
		existing = nil
	}
	if existing != nil && existing.UserID != u.ID {
		existing = nil
	}

	sess, err := h.sessions.ReuseOrCreate(c.Request.Context(), existing, u.ID)
	if err != nil {
		logger.Error("session creation failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	if err := h.cookies.SetCookie(c.Writer, sess, cookieOpts()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	c.JSON(http.StatusOK, userResponse{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
	})
}

// Me returns the identity behind the request's session. A live
// session naming a user that no longer exists gets the same opaque
// 401 as any other resolution failure.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	u, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		logger.Error("user lookup failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, userResponse{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
	})
}

// Logout clears the client-side cookie. The cache entry is left to
// expire naturally; see DESIGN.md for the trade-off.
func (h *Handler) Logout(c *gin.Context) {
	h.cookies.ClearCookie(c.Writer, cookieOpts())
	c.Status(http.StatusNoContent)
}

// openSession creates a session for u and issues the cookie, emitting
// the error response itself on failure.
func (h *Handler) openSession(c *gin.Context, u user.User) bool {
	sess, err := h.sessions.Create(c.Request.Context(), u.ID)
	if err != nil {
		logger.Error("session creation failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return false
	}

	if err := h.cookies.SetCookie(c.Writer, sess, cookieOpts()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return false
	}

	return true
}
