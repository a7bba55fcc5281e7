package httptransport

import (
	"log/slog"

	"github.com/adrianoneco/userdir/internal/auth"
	"github.com/adrianoneco/userdir/internal/transport/http/handler"
	"github.com/adrianoneco/userdir/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	activityHandler *handler.ActivityHandler,
	tokens *auth.TokenService,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	// Public: registration and login are the only ungated operations.
	authRoutes := r.Group("/api/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)

	gate := middleware.Auth(tokens)

	users := r.Group("/api/users", gate)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.GetByID)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	activityRoutes := r.Group("/api/activity", gate)
	activityRoutes.GET("", activityHandler.Recent)

	return r
}
