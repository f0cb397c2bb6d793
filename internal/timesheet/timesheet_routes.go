package timesheet

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-timesheet/internal/middleware"
	"go-timesheet/internal/rbac"
)

func RegisterRoutes(rg *gin.RouterGroup, handler *Handler, rbacService rbac.Service, rdb *redis.Client) {
	entries := rg.Group("/timesheet")
	entries.Use(middleware.AuthMiddleware())
	{
		read := middleware.RBACAuthorize(rbacService, "timesheet", "read")
		write := middleware.RBACAuthorize(rbacService, "timesheet", "write")
		review := middleware.RBACAuthorize(rbacService, "timesheet", "review")

		entries.GET("", read, handler.GetAll)
		entries.GET("/:id", read, handler.GetByID)
		entries.GET("/:id/history", read, handler.GetHistory)

		// Double submits on the punch endpoints are common on flaky
		// mobile connections, hence the idempotency guard.
		entries.POST("/check-in", write, middleware.Idempotency(rdb), handler.CheckIn)
		entries.POST("/check-out", write, middleware.Idempotency(rdb), handler.CheckOut)
		entries.POST("", write, handler.Create)
		entries.PUT("/:id", write, handler.Update)
		entries.POST("/:id/adjustment", write, middleware.Idempotency(rdb), handler.RequestAdjustment)

		entries.POST("/:id/review", review, handler.Review)
		entries.POST("/:id/adjustment/approve", review, handler.ApproveAdjustment)

		entries.DELETE("/:id", middleware.RBACAuthorize(rbacService, "timesheet", "delete"), handler.Delete)
	}
}
