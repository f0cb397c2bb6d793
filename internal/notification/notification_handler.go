package notification

import (
	"net/http"

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

type notificationResponse struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	Read         bool   `json:"read"`
	ReplyComment string `json:"reply_comment,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func mapToResponse(n Notification) notificationResponse {
	return notificationResponse{
		ID:           n.ID.String(),
		Kind:         n.Kind,
		Title:        n.Title,
		Message:      n.Message,
		Read:         n.Read,
		ReplyComment: n.ReplyComment,
		CreatedAt:    n.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *Handler) List(c *gin.Context) {
	employeeID := c.GetString("employee_id")
	unreadOnly := c.Query("unread") == "true"

	items, err := h.service.List(c.Request.Context(), employeeID, unreadOnly)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	out := make([]notificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, mapToResponse(n))
	}
	response.Success(c, http.StatusOK, out, nil)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	employeeID := c.GetString("employee_id")
	count, err := h.service.CountUnread(c.Request.Context(), employeeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unread": count}, nil)
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	employeeID := c.GetString("employee_id")
	if err := h.service.MarkAllRead(c.Request.Context(), employeeID); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked": true}, nil)
}

type replyRequest struct {
	Comment string `json:"comment" binding:"required"`
}

func (h *Handler) Reply(c *gin.Context) {
	employeeID := c.GetString("employee_id")

	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	n, err := h.service.Reply(c.Request.Context(), employeeID, c.Param("id"), req.Comment)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, mapToResponse(*n), nil)
}
