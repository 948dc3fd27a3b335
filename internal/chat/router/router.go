package router

import (
	"context"

	"chat_relay_service/internal/chat/app"
	"chat_relay_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"

	_ "chat_relay_service/docs" // swagger 文件
)

// RegisterRoutes 注册聊天相关的路由
// @title Chat Relay Service API
// @version 1.0
// @description API documentation for Chat Relay Service
// @host localhost:8080
// @BasePath /
func RegisterRoutes(r *fiber.App, eventRouter *app.EventRouter, restHandler *app.ChatRestHandler) {
	r.Get("/swagger/*", swagger.HandlerDefault)
	r.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	r.Use(middlewares.JWTMiddleware())

	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		eventRouter.HandleConnection(context.Background(), c)
	}))

	r.Post("/rooms", restHandler.CreateRoom)
	r.Get("/rooms", restHandler.ListRooms)
	r.Get("/rooms/:room_id/messages", restHandler.History)
	r.Delete("/messages/:message_id", restHandler.DeleteMessage)
}
