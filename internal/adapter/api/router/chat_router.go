package router

import (
	"github.com/labstack/echo/v4"

	"takasa/internal/adapter/api/handler"
	"takasa/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.POST("/start", chatHandler.StartChat) // POST /v1/chats/start - Open chat on a listing
	chatGroup.GET("", chatHandler.ListUserChats)    // GET /v1/chats - Get user's chats

	chatGroup.POST("/:id/messages", chatHandler.SendMessage)    // POST /v1/chats/:id/messages - Send message
	chatGroup.GET("/:id/messages", chatHandler.GetChatMessages) // GET /v1/chats/:id/messages - Get chat messages

	chatGroup.GET("/:id/messages/:messageId/storage", chatHandler.GetMessageStorageInfo) // External storage info
}
