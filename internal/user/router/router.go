package router

import (
	"chat_relay_service/internal/user/app"
	"chat_relay_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册用户相关的路由
func RegisterRoutes(r *fiber.App, userHandler *app.UserHandler) {
	userRoutes := r.Group("/user")
	userRoutes.Post("/register", userHandler.Register)
	userRoutes.Post("/login", userHandler.Login)
	userRoutes.Get("/find", userHandler.FindByEmail)

	userRoutes.Use(middlewares.JWTMiddleware())
	userRoutes.Post("/logout", userHandler.Logout)
}
