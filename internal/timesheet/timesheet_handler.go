package timesheet

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

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

func writeValidationError(c *gin.Context, err error) {
	writeServiceError(c, apperror.MapValidationError(err))
}

func actorFrom(c *gin.Context) (Actor, bool) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		writeServiceError(c, apperror.New(apperror.CodeUnauthorized, "Invalid session", http.StatusUnauthorized))
		return Actor{}, false
	}
	employeeID, err := uuid.Parse(c.GetString("employee_id"))
	if err != nil {
		writeServiceError(c, apperror.New(apperror.CodeUnauthorized, "Invalid session", http.StatusUnauthorized))
		return Actor{}, false
	}
	return Actor{
		UserID:     userID,
		EmployeeID: employeeID,
		Role:       c.GetString("role"),
		IP:         c.ClientIP(),
	}, true
}

func (h *Handler) CheckIn(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	entry, err := h.service.CheckIn(c.Request.Context(), actor, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, entry, nil)
}

func (h *Handler) CheckOut(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	entry, err := h.service.CheckOut(c.Request.Context(), actor)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entry, nil)
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	entries, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, entries, nil)
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	entry, err := h.service.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entry, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) RequestAdjustment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	entry, err := h.service.RequestAdjustment(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entry, nil)
}

func (h *Handler) ApproveAdjustment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	entry, err := h.service.ApproveAdjustment(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entry, nil)
}

func (h *Handler) Review(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	entry, err := h.service.Review(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entry, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter := ListFilter{
		EmployeeID: c.Query("employee_id"),
		Status:     c.Query("status"),
		Page:       page,
		Limit:      limit,
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeServiceError(c, apperror.InvalidField("from"))
			return
		}
		filter.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeServiceError(c, apperror.InvalidField("to"))
			return
		}
		filter.To = to
	}

	entries, total, err := h.service.GetAll(c.Request.Context(), actor, filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	meta := response.NewPaginationMeta(total, filter.Page, filter.Limit)
	response.Success(c, http.StatusOK, entries, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	entry, err := h.service.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entry, nil)
}

func (h *Handler) GetHistory(c *gin.Context) {
	if _, ok := actorFrom(c); !ok {
		return
	}
	versions, err := h.service.GetHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, versions, nil)
}
