package app

import (
	"context"
	"errors"

	"github.com/dat2/workout-tracking-app/internal/config"
	"github.com/dat2/workout-tracking-app/internal/handler"
	"github.com/dat2/workout-tracking-app/internal/middleware"
	"github.com/dat2/workout-tracking-app/internal/session"
	"github.com/dat2/workout-tracking-app/internal/user"
	"github.com/dat2/workout-tracking-app/internal/workout"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	if len(cfg.SessionSecret) < 32 {
		return nil, nil, errors.New("SESSION_SECRET must be at least 32 bytes")
	}

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionCache := session.NewRedisCache(infra.Redis.Client)
	sessionManager := session.NewManager(sessionCache)
	cookieCodec := session.NewCookieCodec([]byte(cfg.SessionSecret))
	authMiddleware := middleware.NewAuthMiddleware(sessionManager, cookieCodec)

	userStore := user.NewStore(infra.DB)
	workoutStore := workout.NewStore(infra.DB)

	apiHandler := handler.New(
		userStore,
		workoutStore,
		sessionManager,
		cookieCodec,
		authMiddleware,
	)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	apiHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
