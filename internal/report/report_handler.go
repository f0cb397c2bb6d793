package report

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-timesheet/internal/shared/apperror"
	"go-timesheet/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Dashboard(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeServiceError(c, apperror.InvalidField("date"))
			return
		}
		date = parsed
	}

	dashboard, err := h.service.Dashboard(c.Request.Context(), date)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dashboard, nil)
}

func (h *Handler) Export(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "45"))
	rows, err := h.service.Export(c.Request.Context(), days)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"generated_at": time.Now().UTC().Format(time.RFC3339),
		"count":        len(rows),
		"entries":      rows,
	})
}
