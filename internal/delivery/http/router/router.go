// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"pushgate/internal/delivery/http/middleware"
	"pushgate/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	PushHandler    *handler.PushHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	pushHandler    *handler.PushHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		pushHandler:    params.PushHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Push dispatch routes; both require a bearer Authorization header
	pushGroup := e.Group("", r.authMiddleware.RequireBearer)
	{
		pushGroup.POST("/send-push", r.pushHandler.SendPush)
		pushGroup.POST("/send-push-to-user", r.pushHandler.SendPushToUser)
	}
}
