package handler

import (
	"context"
	"net/http"

	"github.com/dat2/workout-tracking-app/internal/middleware"
	"github.com/dat2/workout-tracking-app/internal/session"
	"github.com/dat2/workout-tracking-app/internal/user"
	"github.com/dat2/workout-tracking-app/internal/workout"

	"github.com/gin-gonic/gin"
)

// UserStore is the credential-verification collaborator. The concrete
// implementation lives in internal/user; handlers only need this
// slice of it.
type UserStore interface {
	Register(ctx context.Context, email, username, password string) (user.User, error)
	FindByCredentials(ctx context.Context, username, password string) (user.User, error)
	FindByID(ctx context.Context, id int) (user.User, error)
}

// WorkoutStore covers the routine/workout persistence the handlers
// consume.
type WorkoutStore interface {
	ListRoutines(ctx context.Context) ([]workout.Routine, error)
	CreateWorkout(ctx context.Context, userID, routineID int) (workout.Workout, error)
}

type Handler struct {
	users    UserStore
	workouts WorkoutStore
	sessions *session.Manager
	cookies  *session.CookieCodec
	auth     *middleware.AuthMiddleware
}

func New(
	users UserStore,
	workouts WorkoutStore,
	sessions *session.Manager,
	cookies *session.CookieCodec,
	auth *middleware.AuthMiddleware,
) *Handler {
	return &Handler{
		users:    users,
		workouts: workouts,
		sessions: sessions,
		cookies:  cookies,
		auth:     auth,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)
	api.GET("/routines", h.ListRoutines)
	api.GET("/me", middleware.GinRequireAuth(h.auth), h.Me)

	my := r.Group("/api/my")
	my.Use(middleware.GinRequireAuth(h.auth))
	my.POST("/workouts", h.StartWorkout)
}

func cookieOpts() session.CookieOptions {
	return session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
