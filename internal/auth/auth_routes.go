package auth

import (
	"github.com/gin-gonic/gin"

	"go-timesheet/internal/middleware"
	"go-timesheet/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	group := r.Group("/auth")
	{
		group.GET("/me", middleware.AuthMiddleware(), middleware.RateLimitByUser(2, 5), handler.Me)
		group.POST("/login", middleware.RateLimitByIP(0.1, 5), handler.Login)
		group.POST("/refresh", handler.RefreshToken)
		group.POST("/logout", middleware.RateLimitByUser(2, 5), handler.Logout)
		group.POST("/register",
			middleware.AuthMiddleware(),
			middleware.RBACAuthorize(rbacService, "employee", "write"),
			handler.Register)
	}
}
