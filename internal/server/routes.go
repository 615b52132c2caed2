package server

import (
	"github.com/labstack/echo/v4"

	"example.com/smart-budgetter/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	authHandler *handlers.AuthHandler,
	budgetHandler *handlers.BudgetHandler,
	authMiddleware echo.MiddlewareFunc,
	authRateLimiter echo.MiddlewareFunc,
	aiRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")

	authGroup := api.Group("/auth", authRateLimiter)
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authHandler.Me, authMiddleware)

	budget := api.Group("/budget", authMiddleware)
	budget.POST("/allocate", budgetHandler.Allocate, aiRateLimiter)
	budget.POST("/chat", budgetHandler.Chat, aiRateLimiter)
	budget.GET("/history", budgetHandler.History)
	budget.GET("/:budgetId", budgetHandler.Get)
}
