package handler

import (
	"fmt"
	"net/http"

	"github.com/dat2/workout-tracking-app/internal/logger"
	"github.com/dat2/workout-tracking-app/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListRoutines(c *gin.Context) {
	routines, err := h.workouts.ListRoutines(c.Request.Context())
	if err != nil {
		logger.Error("listing routines failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, routines)
}

type newWorkoutRequest struct {
	RoutineID int `json:"routine_id" binding:"required"`
}

func (h *Handler) StartWorkout(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c.Request.Context())
	if !ok {
		// RequireAuth guards this route; a missing identity here is a
		// wiring bug, not a client error.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	var req newWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	w, err := h.workouts.CreateWorkout(c.Request.Context(), userID, req.RoutineID)
	if err != nil {
		logger.Error("workout creation failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Header("Location", fmt.Sprintf("/workouts/%d", w.ID))
	c.JSON(http.StatusCreated, w)
}
