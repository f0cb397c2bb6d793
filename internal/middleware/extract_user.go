package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-timesheet/internal/shared/response"
)

// ExtractUserID re-asserts the user id set by AuthMiddleware as a
// typed string under a separate key, so downstream handlers never
// repeat the type assertion.
func ExtractUserID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, exists := ctx.Get("user_id")
		if !exists {
			response.Error(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "User is not authenticated", nil)
			ctx.Abort()
			return
		}

		userIDStr, ok := userID.(string)
		if !ok || userIDStr == "" {
			response.Error(ctx, http.StatusUnauthorized, "INVALID_USER_ID", "Malformed user id", nil)
			ctx.Abort()
			return
		}

		ctx.Set("user_id_validated", userIDStr)
		ctx.Next()
	}
}
