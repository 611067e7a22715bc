package router

import (
	"github.com/labstack/echo/v4"

	"takasa/internal/adapter/api/handler"
	"takasa/internal/adapter/api/middleware"
)

func SetupRequestRouter(e *echo.Echo, requestHandler *handler.RequestHandler, authMiddleware *middleware.AuthMiddleware) {
	requestGroup := e.Group("/v1/requests")
	requestGroup.Use(authMiddleware.Authenticate)

	requestGroup.POST("", requestHandler.CreateRequest)                 // POST /v1/requests - File a request to acquire a listing
	requestGroup.GET("", requestHandler.ListRequests)                   // GET /v1/requests?role=requester|seller
	requestGroup.PUT("/:id/status", requestHandler.UpdateRequestStatus) // PUT /v1/requests/:id/status - Approve or reject
}
