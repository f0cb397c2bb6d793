package audit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-timesheet/internal/shared/apperror"
	"go-timesheet/internal/shared/response"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type logResponse struct {
	ID        string `json:"id"`
	ActorID   string `json:"actor_id,omitempty"`
	Action    string `json:"action"`
	Model     string `json:"model"`
	ObjectID  string `json:"object_id,omitempty"`
	Details   string `json:"details,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (h *Handler) List(c *gin.Context) {
	filter := ListFilter{
		ActorID: c.Query("actor_id"),
		Action:  c.Query("action"),
	}
	if v := c.Query("from"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpErr := apperror.ToHTTP(apperror.InvalidField("from"))
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
			return
		}
		filter.From = from
	}
	if v := c.Query("to"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpErr := apperror.ToHTTP(apperror.InvalidField("to"))
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
			return
		}
		filter.To = to.AddDate(0, 0, 1)
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	out := make([]logResponse, 0, len(logs))
	for _, l := range logs {
		item := logResponse{
			ID:        l.ID.String(),
			Action:    l.Action,
			Model:     l.Model,
			ObjectID:  l.ObjectID,
			Details:   l.Details,
			IPAddress: l.IPAddress,
			CreatedAt: l.CreatedAt.UTC().Format(time.RFC3339),
		}
		if l.ActorID != nil {
			item.ActorID = l.ActorID.String()
		}
		out = append(out, item)
	}

	meta := response.NewPaginationMeta(total, filter.Page, filter.Limit)
	response.Success(c, http.StatusOK, out, &meta)
}
