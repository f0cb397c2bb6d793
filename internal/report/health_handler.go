package report

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-timesheet/internal/notification"
)

const healthCheckTimeout = 3 * time.Second

// HealthHandler probes the dependencies behind one endpoint. The
// database is the only critical one: without it the service is
// unhealthy, while a broken cache or messaging gateway only degrades
// it.
type HealthHandler struct {
	db       *sql.DB
	rdb      *redis.Client
	whatsapp *notification.WhatsAppClient
}

func NewHealthHandler(db *sql.DB, rdb *redis.Client, whatsapp *notification.WhatsAppClient) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, whatsapp: whatsapp}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	checks := gin.H{}
	status := "healthy"
	httpStatus := http.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		checks["database"] = err.Error()
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	if h.rdb != nil {
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			if status == "healthy" {
				status = "degraded"
			}
		} else {
			checks["redis"] = "ok"
		}
	}

	if h.whatsapp != nil {
		if err := h.whatsapp.Health(ctx); err != nil {
			checks["whatsapp_gateway"] = err.Error()
			if status == "healthy" {
				status = "degraded"
			}
		} else {
			checks["whatsapp_gateway"] = "ok"
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
