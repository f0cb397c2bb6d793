package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"go-timesheet/internal/shared/response"
)

// APIKey guards machine-to-machine endpoints (the export and dashboard
// feeds) with the X-API-KEY header. A server without a configured key
// refuses the request outright rather than running open.
func APIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := os.Getenv("EXPORT_API_KEY")
		if expected == "" {
			response.Error(c, http.StatusInternalServerError, "API_KEY_NOT_CONFIGURED",
				"Export API key is not configured on the server", nil)
			c.Abort()
			return
		}

		got := c.GetHeader("X-API-KEY")
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Invalid API key", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
